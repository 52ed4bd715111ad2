// Package discord adapts the gateway contract onto a discordgo session.
// Everything that touches the Discord wire format lives here.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"huntbot/internal/events"
	"huntbot/internal/gateway"
	"huntbot/internal/log"
)

// handlerTimeout bounds one interaction end to end. Discord lets a
// deferred response be edited for up to 15 minutes.
const handlerTimeout = 10 * time.Minute

// Handler consumes converted interactions. *dispatch.Dispatcher
// satisfies it.
type Handler interface {
	Handle(ctx context.Context, ic *gateway.Interaction)
}

// Adapter binds a discordgo session to the bot core.
type Adapter struct {
	session *discordgo.Session
	appID   string
	guildID string
	handler Handler
	hub     *events.Hub
	logger  *slog.Logger
}

func New(session *discordgo.Session, appID, guildID string, handler Handler, hub *events.Hub) *Adapter {
	return &Adapter{
		session: session,
		appID:   appID,
		guildID: guildID,
		handler: handler,
		hub:     hub,
		logger:  log.WithComponent("discord"),
	}
}

// Open connects the gateway and installs the interaction handler.
func (a *Adapter) Open() error {
	a.session.AddHandler(a.onInteraction)
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.session.Close()
}

// RegisterCommands bulk-overwrites the application's slash commands.
// A set guild id scopes them to that guild, which updates instantly;
// global commands can take up to an hour to propagate.
func (a *Adapter) RegisterCommands(cmds []gateway.Command) error {
	payload := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, cmd := range cmds {
		opts := make([]*discordgo.ApplicationCommandOption, 0, len(cmd.Options))
		for _, opt := range cmd.Options {
			opts = append(opts, &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        opt.Name,
				Description: opt.Description,
				Required:    opt.Required,
			})
		}
		payload = append(payload, &discordgo.ApplicationCommand{
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     opts,
		})
	}
	registered, err := a.session.ApplicationCommandBulkOverwrite(a.appID, a.guildID, payload)
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	a.logger.Info("Commands registered", "count", len(registered), "guild_id", a.guildID)
	return nil
}

func (a *Adapter) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ic, ok := a.convert(i)
	if !ok {
		return
	}
	if a.hub != nil {
		a.hub.Publish(events.TypeInteraction, map[string]string{
			"kind":    ic.Kind.String(),
			"command": ic.CommandName,
			"user":    ic.UserName,
			"channel": ic.ChannelName,
		})
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		a.handler.Handle(ctx, ic)
	}()
}

// convert maps a discordgo interaction onto the gateway shape. Unknown
// interaction types are dropped.
func (a *Adapter) convert(i *discordgo.InteractionCreate) (*gateway.Interaction, bool) {
	ic := &gateway.Interaction{
		ID:        i.ID,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Responder: &responder{session: a.session, interaction: i.Interaction},
	}
	if i.Member != nil && i.Member.User != nil {
		ic.UserID = i.Member.User.ID
		ic.UserName = i.Member.User.Username
	} else if i.User != nil {
		ic.UserID = i.User.ID
		ic.UserName = i.User.Username
	}
	ic.ChannelName = a.channelName(i.ChannelID)
	ic.GuildOwnerID = a.guildOwnerID(i.GuildID)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		ic.Kind = gateway.KindCommand
		ic.CommandName = data.Name
		ic.Options = make(map[string]string, len(data.Options))
		for _, opt := range data.Options {
			if opt.Type == discordgo.ApplicationCommandOptionString {
				ic.Options[opt.Name] = opt.StringValue()
			}
		}
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		ic.ComponentID = data.CustomID
		if data.ComponentType == discordgo.SelectMenuComponent {
			ic.Kind = gateway.KindSelect
		} else {
			ic.Kind = gateway.KindButton
		}
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		ic.Kind = gateway.KindModal
		ic.ComponentID = data.CustomID
		ic.Fields = extractModalFields(data)
		ic.FromMessage = i.Message != nil
	default:
		return nil, false
	}
	return ic, true
}

func extractModalFields(data discordgo.ModalSubmitInteractionData) map[string]string {
	fields := make(map[string]string)
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok || row == nil {
			continue
		}
		for _, c := range row.Components {
			if ti, ok := c.(*discordgo.TextInput); ok {
				fields[ti.CustomID] = ti.Value
			}
		}
	}
	return fields
}

func (a *Adapter) channelName(channelID string) string {
	if channelID == "" {
		return ""
	}
	if ch, err := a.session.State.Channel(channelID); err == nil {
		return ch.Name
	}
	ch, err := a.session.Channel(channelID)
	if err != nil {
		a.logger.Warn("Channel lookup failed", "channel_id", channelID, "error", err)
		return ""
	}
	return ch.Name
}

func (a *Adapter) guildOwnerID(guildID string) string {
	if guildID == "" {
		return ""
	}
	if g, err := a.session.State.Guild(guildID); err == nil && g.OwnerID != "" {
		return g.OwnerID
	}
	g, err := a.session.Guild(guildID)
	if err != nil {
		a.logger.Warn("Guild lookup failed", "guild_id", guildID, "error", err)
		return ""
	}
	return g.OwnerID
}

// Pins implements gateway.PinService over the session.
func (a *Adapter) Pins() gateway.PinService {
	return &pinService{session: a.session}
}

type pinService struct {
	session *discordgo.Session
}

func (p *pinService) BotUserID() string {
	if p.session.State != nil && p.session.State.User != nil {
		return p.session.State.User.ID
	}
	return ""
}

func (p *pinService) GuildTextChannels(_ context.Context, guildID string) ([]gateway.Channel, error) {
	channels, err := p.session.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("list channels of %s: %w", guildID, err)
	}
	out := make([]gateway.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText {
			out = append(out, gateway.Channel{ID: ch.ID, Name: ch.Name})
		}
	}
	return out, nil
}

func (p *pinService) Pinned(_ context.Context, channelID string) ([]gateway.PinnedMessage, error) {
	messages, err := p.session.ChannelMessagesPinned(channelID)
	if err != nil {
		return nil, fmt.Errorf("list pins of %s: %w", channelID, err)
	}
	out := make([]gateway.PinnedMessage, 0, len(messages))
	for _, m := range messages {
		pm := gateway.PinnedMessage{ID: m.ID, ChannelID: channelID, Content: m.Content}
		if m.Author != nil {
			pm.AuthorID = m.Author.ID
		}
		out = append(out, pm)
	}
	return out, nil
}

func (p *pinService) Pin(_ context.Context, channelID, messageID string) error {
	return p.session.ChannelMessagePin(channelID, messageID)
}

func (p *pinService) Delete(_ context.Context, channelID, messageID string) error {
	return p.session.ChannelMessageDelete(channelID, messageID)
}
