// Package form builds multi-step edit/submit conversational flows on top
// of the interaction registry. A form renders its fields as read-only
// text with one "Edit N" button per page of up to five fields and a
// "Submit" button; edits go through platform modals, and submit commits
// the collected values through a caller-supplied callback.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"huntbot/internal/coded"
	"huntbot/internal/gateway"
	"huntbot/internal/interact"
	"huntbot/internal/result"
)

// PageSize is the platform's modal capacity: five text inputs.
const PageSize = 5

// ErrMissingField is returned by Get for an unknown field id.
var ErrMissingField = coded.NextCode()

const errKind = "form"

// SubmitFunc commits the collected values and returns the final message
// body. Required-ness of fields is enforced by the platform's modal
// validation only; a SubmitFunc must tolerate empty values itself.
type SubmitFunc func(ctx context.Context, f *Form) (string, error)

// Form is one in-flight workflow instance. Create per command
// invocation; it is logically consumed once the submit callback has run.
//
// Concurrent edits by different users race last-write-wins on the stored
// values; the platform orders each user's own edit/submit sequence.
type Form struct {
	mu       sync.Mutex
	registry *interact.Registry
	inputs   []gateway.TextInput
	text     string
	title    string

	origin *gateway.Interaction

	modalIDs map[int]string
	buttons  []gateway.Button

	onSubmit    SubmitFunc
	afterSubmit func(ctx context.Context) error
}

func New(registry *interact.Registry) *Form {
	return &Form{
		registry: registry,
		title:    "(title)",
		modalIDs: make(map[int]string),
	}
}

// AddInput appends a field. Field ids must be unique within the form.
func (f *Form) AddInput(in gateway.TextInput) *Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	return f
}

// SetText sets the static preamble shown above the field values.
func (f *Form) SetText(text string) *Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	return f
}

// SetTitle sets the modal dialog title.
func (f *Form) SetTitle(title string) *Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
	return f
}

// SetOnSubmit sets the commit callback. Its return value becomes the
// final message body.
func (f *Form) SetOnSubmit(fn SubmitFunc) *Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSubmit = fn
	return f
}

// SetAfterSubmit sets a side effect run after the commit completes; it
// may perform further replies of its own.
func (f *Form) SetAfterSubmit(fn func(ctx context.Context) error) *Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.afterSubmit = fn
	return f
}

// PageCount returns the number of edit pages: fields partition into
// pages of PageSize in insertion order.
func (f *Form) PageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageCountLocked()
}

func (f *Form) pageCountLocked() int {
	return (len(f.inputs) + PageSize - 1) / PageSize
}

func (f *Form) pageBounds(page int) (lo, hi int) {
	lo = page * PageSize
	hi = lo + PageSize
	if hi > len(f.inputs) {
		hi = len(f.inputs)
	}
	return lo, hi
}

// Modal returns the modal payload for one edit page, pre-populated with
// the page's current values. The handler behind the modal id is
// registered once per page and reused across re-opens.
func (f *Form) Modal(page int) gateway.Modal {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.modalIDs[page]
	if !ok {
		id = f.registry.Modal(f.modalHandler(page))
		f.modalIDs[page] = id
	}

	lo, hi := f.pageBounds(page)
	inputs := make([]gateway.TextInput, hi-lo)
	copy(inputs, f.inputs[lo:hi])
	return gateway.Modal{ID: id, Title: f.title, Inputs: inputs}
}

func (f *Form) modalHandler(page int) gateway.Handler {
	return func(ctx context.Context, ic *gateway.Interaction) error {
		f.ApplyModal(page, ic.Fields)
		if ic.FromMessage {
			return ic.Update(ctx, &gateway.Message{Content: f.Render()})
		}
		return nil
	}
}

// ApplyModal overwrites the stored values of one page's fields from a
// modal submission. The previous values are returned by field id for
// diffing or audit.
func (f *Form) ApplyModal(page int, fields map[string]string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lo, hi := f.pageBounds(page)
	old := make(map[string]string, hi-lo)
	for i := lo; i < hi; i++ {
		in := &f.inputs[i]
		v, ok := fields[in.ID]
		if !ok {
			continue
		}
		old[in.ID] = in.Value
		in.Value = v
	}
	return old
}

// Buttons returns the form's component row: one edit button per page and
// a submit button. Handlers are registered on first call.
func (f *Form) Buttons() []gateway.Button {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.buttons != nil {
		return f.buttons
	}

	for page := 0; page < f.pageCountLocked(); page++ {
		p := page
		id := f.registry.Button(func(ctx context.Context, ic *gateway.Interaction) error {
			m := f.Modal(p)
			return ic.ShowModal(ctx, &m)
		})
		f.buttons = append(f.buttons, gateway.Button{
			ID:    id,
			Label: fmt.Sprintf("Edit %d", page+1),
			Style: gateway.ButtonSecondary,
		})
	}

	submitID := f.registry.Button(f.submitHandler())
	f.buttons = append(f.buttons, gateway.Button{
		ID:    submitID,
		Label: "Submit",
		Style: gateway.ButtonSuccess,
	})
	return f.buttons
}

func (f *Form) submitHandler() gateway.Handler {
	return func(ctx context.Context, ic *gateway.Interaction) error {
		if err := ic.DeferReply(ctx); err != nil {
			return err
		}

		// Strip the components from the rendered message first so a
		// second click cannot re-enter the commit.
		f.mu.Lock()
		origin := f.origin
		onSubmit := f.onSubmit
		afterSubmit := f.afterSubmit
		f.mu.Unlock()

		if origin != nil {
			if _, err := origin.EditReply(ctx, gateway.ClearComponents(f.Render())); err != nil {
				return err
			}
		}
		if onSubmit == nil {
			return coded.Say("Missing submission function.")
		}

		body, err := onSubmit(ctx, f)
		if err != nil {
			return err
		}
		if _, err := ic.EditReply(ctx, gateway.Text(body)); err != nil {
			return err
		}
		if afterSubmit != nil {
			return afterSubmit(ctx)
		}
		return nil
	}
}

// Reply renders the form as the response to ic. Later submit-driven
// edits go back through ic's reply surface.
func (f *Form) Reply(ctx context.Context, ic *gateway.Interaction) error {
	f.mu.Lock()
	f.origin = ic
	f.mu.Unlock()

	_, err := ic.EditReply(ctx, &gateway.Message{
		Content:    f.Render(),
		Components: f.Buttons(),
	})
	return err
}

// Render returns the preamble and all field values as read-only text.
func (f *Form) Render() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var b strings.Builder
	if f.text != "" {
		b.WriteString(f.text)
		b.WriteByte('\n')
	}
	for i, in := range f.inputs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "**%s**\n%s", in.Label, in.Value)
	}
	return b.String()
}

// Get returns the current value of the field with the given id, for use
// inside submit callbacks instead of stringly-typed map access.
func (f *Form) Get(id string) result.Result[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range f.inputs {
		if in.ID == id {
			return result.Ok(in.Value)
		}
	}
	return result.Err[string](coded.Newf(errKind, ErrMissingField, "%q is not a valid key", id))
}
