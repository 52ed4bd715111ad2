// Package dispatch routes inbound interactions to static slash-command
// handlers and the dynamic handler registry, and owns the error boundary
// that turns failures into user replies.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"huntbot/internal/coded"
	"huntbot/internal/gateway"
	"huntbot/internal/interact"
	"huntbot/internal/log"
	"huntbot/internal/result"
	"huntbot/internal/settings"
	"huntbot/internal/tabstore"
)

const genericError = "There was an error while executing this command!"
const expiredComponent = "This interaction has expired. Please run the command again."

// Dispatcher fans interactions out to handlers.
type Dispatcher struct {
	commands map[string]gateway.Command
	registry *interact.Registry
	// email is shown to users when the store denies writes.
	email  string
	logger *slog.Logger
}

func New(registry *interact.Registry, email string) *Dispatcher {
	return &Dispatcher{
		commands: make(map[string]gateway.Command),
		registry: registry,
		email:    email,
		logger:   log.WithComponent("dispatch"),
	}
}

// Register adds slash commands. Later registrations win on name clash.
func (d *Dispatcher) Register(cmds ...gateway.Command) {
	for _, cmd := range cmds {
		d.commands[cmd.Name] = cmd
	}
}

// Commands lists the registered slash commands for platform
// registration.
func (d *Dispatcher) Commands() []gateway.Command {
	out := make([]gateway.Command, 0, len(d.commands))
	for _, cmd := range d.commands {
		out = append(out, cmd)
	}
	return out
}

// Handle runs one interaction through its handler and the error
// boundary. Panics in handlers are recovered and treated as coded
// errors.
func (d *Dispatcher) Handle(ctx context.Context, ic *gateway.Interaction) {
	logger := d.logger.With("interaction_id", ic.ID, "kind", ic.Kind.String(), "user_id", ic.UserID)

	res := coded.Try(func() result.Result[struct{}] {
		if err := d.route(ctx, ic); err != nil {
			return result.Err[struct{}](err)
		}
		return result.Ok(struct{}{})
	})
	if res.IsOk() {
		return
	}
	content := d.translate(logger, res.Err())
	d.sayTo(ctx, ic, content)
}

func (d *Dispatcher) route(ctx context.Context, ic *gateway.Interaction) error {
	switch ic.Kind {
	case gateway.KindCommand:
		cmd, ok := d.commands[ic.CommandName]
		if !ok {
			d.logger.Warn("Unknown command", "command", ic.CommandName)
			return coded.Say(genericError)
		}
		return cmd.Execute(ctx, ic)
	case gateway.KindButton:
		res := d.registry.ResolveButton(ic.ComponentID)
		if res.IsErr() {
			d.logger.Warn("Missing button handler", "component_id", ic.ComponentID)
			return coded.Say(expiredComponent)
		}
		return res.Unwrap()(ctx, ic)
	case gateway.KindModal:
		res := d.registry.ResolveModal(ic.ComponentID)
		if res.IsErr() {
			d.logger.Warn("Missing modal handler", "component_id", ic.ComponentID)
			return coded.Say(expiredComponent)
		}
		return res.Unwrap()(ctx, ic)
	default:
		d.logger.Debug("Ignoring interaction kind", "kind", ic.Kind.String())
		return nil
	}
}

// translate maps an error to the user-visible reply. Known conditions
// speak verbatim or with guidance; everything else logs in full and
// shows the generic message.
func (d *Dispatcher) translate(logger *slog.Logger, err error) string {
	if uf, ok := coded.AsUserFacing(err); ok {
		return uf.Message
	}
	switch {
	case coded.HasCode(err, settings.ErrMissingChannel):
		return "Please use `/new <url>` first in this channel."
	case coded.HasCode(err, tabstore.ErrCannotWrite):
		return fmt.Sprintf("%s\nPlease add `%s` as an editor.", err.Error(), d.email)
	}
	logger.Error("Interaction failed", "error", err)
	return genericError
}

// sayTo replies with content, falling back to editing the deferred
// reply when the initial reply was already consumed.
func (d *Dispatcher) sayTo(ctx context.Context, ic *gateway.Interaction, content string) {
	if err := ic.Reply(ctx, gateway.Text(content)); err != nil {
		if _, err := ic.EditReply(ctx, gateway.Text(content)); err != nil {
			d.logger.Error("Unable to deliver error reply", "interaction_id", ic.ID, "error", err)
		}
	}
}
