// Package gatewaytest provides in-memory fakes for the gateway contract,
// shared by tests across the core packages.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"huntbot/internal/gateway"
)

// Responder records every reply made through it.
type Responder struct {
	mu sync.Mutex

	Replies   []*gateway.Message
	Edits     []*gateway.Message
	FollowUps []*gateway.Message
	Updates   []*gateway.Message
	Modals    []*gateway.Modal

	Deferred       bool
	DeferredUpdate bool

	// FailFirstReply makes the first Reply return an error, to exercise
	// the reply-then-edit fallback. Replies records successful calls
	// only.
	FailFirstReply bool

	failedFirst bool
	nextID      int
}

func (r *Responder) newID() string {
	r.nextID++
	return fmt.Sprintf("msg-%d", r.nextID)
}

func (r *Responder) Reply(_ context.Context, m *gateway.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailFirstReply && !r.failedFirst {
		r.failedFirst = true
		return fmt.Errorf("interaction already acknowledged")
	}
	r.Replies = append(r.Replies, m)
	return nil
}

func (r *Responder) EditReply(_ context.Context, m *gateway.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Edits = append(r.Edits, m)
	return r.newID(), nil
}

func (r *Responder) FollowUp(_ context.Context, m *gateway.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FollowUps = append(r.FollowUps, m)
	return r.newID(), nil
}

func (r *Responder) DeferReply(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deferred = true
	return nil
}

func (r *Responder) DeferUpdate(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DeferredUpdate = true
	return nil
}

func (r *Responder) ShowModal(_ context.Context, m *gateway.Modal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Modals = append(r.Modals, m)
	return nil
}

func (r *Responder) Update(_ context.Context, m *gateway.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updates = append(r.Updates, m)
	return nil
}

// LastEdit returns the most recent EditReply payload, or nil.
func (r *Responder) LastEdit() *gateway.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Edits) == 0 {
		return nil
	}
	return r.Edits[len(r.Edits)-1]
}

// Interaction builds a command interaction bound to a fresh Responder.
func Interaction(kind gateway.InteractionKind) (*gateway.Interaction, *Responder) {
	r := &Responder{}
	ic := &gateway.Interaction{
		ID:          "ic-1",
		Kind:        kind,
		GuildID:     "guild-1",
		ChannelID:   "chan-1",
		ChannelName: "general",
		UserID:      "user-1",
		UserName:    "solver",
		Responder:   r,
	}
	return ic, r
}

// Pins is an in-memory PinService.
type Pins struct {
	mu       sync.Mutex
	botID    string
	channels []gateway.Channel
	pinned   map[string][]gateway.PinnedMessage
	messages map[string]gateway.PinnedMessage
	nextID   int
}

func NewPins(botID string, channels ...gateway.Channel) *Pins {
	return &Pins{
		botID:    botID,
		channels: channels,
		pinned:   make(map[string][]gateway.PinnedMessage),
		messages: make(map[string]gateway.PinnedMessage),
	}
}

func (p *Pins) BotUserID() string { return p.botID }

func (p *Pins) GuildTextChannels(context.Context, string) ([]gateway.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]gateway.Channel, len(p.channels))
	copy(out, p.channels)
	return out, nil
}

func (p *Pins) Pinned(_ context.Context, channelID string) ([]gateway.PinnedMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]gateway.PinnedMessage, len(p.pinned[channelID]))
	copy(out, p.pinned[channelID])
	return out, nil
}

// AddMessage records a message so it can be pinned later, returning its id.
func (p *Pins) AddMessage(channelID, authorID, content string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := fmt.Sprintf("pin-%d", p.nextID)
	p.messages[id] = gateway.PinnedMessage{
		ID:        id,
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   content,
	}
	return id
}

func (p *Pins) Pin(_ context.Context, channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.messages[messageID]
	if !ok {
		// Tests may pin ids minted by the fake responder; synthesize.
		m = gateway.PinnedMessage{ID: messageID, ChannelID: channelID, AuthorID: p.botID}
	}
	p.pinned[channelID] = append(p.pinned[channelID], m)
	return nil
}

// SetPinContent overrides the content of an already pinned message,
// mirroring how a reply is edited before being pinned.
func (p *Pins) SetPinContent(channelID, messageID, content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.pinned[channelID] {
		if p.pinned[channelID][i].ID == messageID {
			p.pinned[channelID][i].Content = content
		}
	}
}

func (p *Pins) Delete(_ context.Context, channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.pinned[channelID][:0]
	for _, m := range p.pinned[channelID] {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	p.pinned[channelID] = kept
	return nil
}
