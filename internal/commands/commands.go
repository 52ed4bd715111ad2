// Package commands implements the bot's slash commands on top of the
// settings service, the handler registry and the hunt domain.
package commands

import (
	"context"
	"log/slog"
	"sync"

	"huntbot/internal/coded"
	"huntbot/internal/events"
	"huntbot/internal/gateway"
	"huntbot/internal/hunt"
	"huntbot/internal/interact"
	"huntbot/internal/log"
	"huntbot/internal/settings"
)

// Deps carries everything the command handlers share.
type Deps struct {
	Settings *settings.Service
	Registry *interact.Registry
	Hub      *events.Hub
	// TrackerTemplateID is the tracking-spreadsheet template document
	// copied for each new hunt.
	TrackerTemplateID string

	logger *slog.Logger

	mu sync.Mutex
	// pending holds scanned hunts awaiting Create, keyed by channel id.
	pending map[string]*hunt.Puzzlehunt
	// prefs holds per-guild preferences, keyed by guild id.
	prefs map[string]*GuildPrefs
}

// New wires the command set.
func New(svc *settings.Service, registry *interact.Registry, hub *events.Hub, trackerTemplateID string) *Deps {
	return &Deps{
		Settings:          svc,
		Registry:          registry,
		Hub:               hub,
		TrackerTemplateID: trackerTemplateID,
		logger:            log.WithComponent("commands"),
		pending:           make(map[string]*hunt.Puzzlehunt),
		prefs:             make(map[string]*GuildPrefs),
	}
}

// All lists every slash command for registration and dispatch.
func (d *Deps) All() []gateway.Command {
	return []gateway.Command{
		d.NewHunt(),
		d.Puzzle(),
		d.Round(),
		d.Login(),
		d.Root(),
		d.Sheet(),
		d.Stats(),
		d.Setting(),
	}
}

func (d *Deps) publish(eventType string, data any) {
	if d.Hub != nil {
		d.Hub.Publish(eventType, data)
	}
}

func (d *Deps) setPending(channelID string, ph *hunt.Puzzlehunt) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[channelID] = ph
}

func (d *Deps) getPending(channelID string) *hunt.Puzzlehunt {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending[channelID]
}

// channelManager resolves the interacting channel's manager through the
// guild settings table. A channel missing from the table but carrying a
// sheet pin is recovered and persisted back into the table, with the
// root folder standing in for a dedicated hunt folder.
func (d *Deps) channelManager(ctx context.Context, ic *gateway.Interaction) (*settings.ChannelManager, error) {
	guildRes := d.Settings.Guild(ctx, ic.GuildID)
	if guildRes.IsErr() {
		return nil, guildRes.Err()
	}
	guild := guildRes.Unwrap()
	ch := gateway.Channel{ID: ic.ChannelID, Name: ic.ChannelName}

	cmRes := guild.ChannelManager(ctx, ch)
	if cmRes.IsOk() {
		return cmRes.Unwrap(), nil
	}
	if !coded.HasCode(cmRes.Err(), settings.ErrMissingChannel) {
		return nil, cmRes.Err()
	}

	sheetRes := d.Settings.ChannelSheet(ctx, ic.ChannelID)
	if sheetRes.IsErr() {
		return nil, cmRes.Err()
	}
	rootRes := d.Settings.RootFolder(ctx, ic.GuildID)
	if rootRes.IsErr() {
		return nil, rootRes.Err()
	}
	d.logger.Info("Recovering channel from sheet pin", "channel_id", ic.ChannelID)
	recovered := guild.SetChannelManager(ctx, ch, rootRes.Unwrap(), sheetRes.Unwrap())
	if recovered.IsErr() {
		return nil, recovered.Err()
	}
	return recovered.Unwrap(), nil
}

// requireGuild guards commands that only make sense inside a guild.
func requireGuild(ic *gateway.Interaction) error {
	if ic.GuildID == "" {
		return coded.Say("This command is not available outside a server.")
	}
	return nil
}
