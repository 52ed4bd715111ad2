// Package gateway defines the narrow contract between the bot core and
// the chat platform. The core sees interactions, a responder, and a pin
// service; everything Discord-specific lives in the discord subpackage.
package gateway

import "context"

// InteractionKind tags an inbound interaction event.
type InteractionKind int

const (
	KindCommand InteractionKind = iota
	KindButton
	KindModal
	KindSelect
)

func (k InteractionKind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindButton:
		return "button"
	case KindModal:
		return "modal"
	case KindSelect:
		return "select"
	default:
		return "unknown"
	}
}

// ButtonStyle selects the platform rendering of a button.
type ButtonStyle int

const (
	ButtonSecondary ButtonStyle = iota
	ButtonSuccess
	ButtonDanger
)

// Button is one interactive button attached to a message.
type Button struct {
	ID    string
	Label string
	Style ButtonStyle
}

// TextInput is one labeled text field inside a modal.
type TextInput struct {
	ID          string
	Label       string
	Placeholder string
	Value       string
	Required    bool
}

// Modal is a form dialog of up to five text inputs.
type Modal struct {
	ID     string
	Title  string
	Inputs []TextInput
}

// Message is an outbound message payload. A nil Components slice keeps
// the message's existing components on edit; an empty non-nil slice
// clears them.
type Message struct {
	Content    string
	Components []Button
	Ephemeral  bool
}

// Text wraps plain content into a Message.
func Text(content string) *Message {
	return &Message{Content: content}
}

// ClearComponents returns an edit payload that strips all interactive
// components, used to prevent double-submit.
func ClearComponents(content string) *Message {
	return &Message{Content: content, Components: []Button{}}
}

// Responder is the reply surface of one interaction. Each method maps to
// a platform primitive; the bounded response window of the platform
// applies to all of them.
type Responder interface {
	Reply(ctx context.Context, m *Message) error
	// EditReply edits the original response and returns its message id.
	EditReply(ctx context.Context, m *Message) (string, error)
	// FollowUp posts an additional message and returns its id.
	FollowUp(ctx context.Context, m *Message) (string, error)
	DeferReply(ctx context.Context) error
	DeferUpdate(ctx context.Context) error
	ShowModal(ctx context.Context, m *Modal) error
	// Update replaces the message a component interaction came from.
	Update(ctx context.Context, m *Message) error
}

// Interaction is one inbound event from the chat platform.
type Interaction struct {
	ID          string
	Kind        InteractionKind
	CommandName string
	// Options holds command option values by name.
	Options map[string]string
	// ComponentID is the opaque identifier of the clicked button or
	// submitted modal.
	ComponentID string
	// Fields holds modal-submitted text values by input id.
	Fields map[string]string
	// FromMessage reports whether a modal submission originated from a
	// message (and thus supports Update).
	FromMessage bool

	GuildID      string
	GuildOwnerID string
	ChannelID    string
	ChannelName  string
	UserID       string
	UserName     string

	Responder
}

// StringOption returns the named command option, or "" when absent.
func (ic *Interaction) StringOption(name string) string {
	if ic.Options == nil {
		return ""
	}
	return ic.Options[name]
}

// Channel is the id/name pair the settings table records per channel.
type Channel struct {
	ID   string
	Name string
}

// Option describes one slash-command option.
type Option struct {
	Name        string
	Description string
	Required    bool
}

// Handler runs one interaction.
type Handler func(ctx context.Context, ic *Interaction) error

// Command is a statically registered slash command.
type Command struct {
	Name        string
	Description string
	Options     []Option
	Execute     Handler
}

// PinnedMessage is one pinned message as seen by the pin service.
type PinnedMessage struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
}

// PinService exposes the pinned-message persistence layer: workflow
// state is stored as specially formatted pinned messages in guild
// channels.
type PinService interface {
	// BotUserID identifies the bot's own authored messages.
	BotUserID() string
	GuildTextChannels(ctx context.Context, guildID string) ([]Channel, error)
	Pinned(ctx context.Context, channelID string) ([]PinnedMessage, error)
	Pin(ctx context.Context, channelID, messageID string) error
	Delete(ctx context.Context, channelID, messageID string) error
}
