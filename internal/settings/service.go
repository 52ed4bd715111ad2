package settings

import (
	"context"
	"log/slog"

	"huntbot/internal/browse"
	"huntbot/internal/cache"
	"huntbot/internal/coded"
	"huntbot/internal/gateway"
	"huntbot/internal/log"
	"huntbot/internal/result"
	"huntbot/internal/tabstore"
)

// ErrRootNotSet is returned when a guild has no root-folder pin yet.
var ErrRootNotSet = coded.Say("Root is not set yet.")

// Service resolves guild-level settings on top of the pin layer and the
// tabular store.
type Service struct {
	backend  tabstore.Backend
	pins     gateway.PinService
	sessions *browse.Manager
	// template is the settings spreadsheet template document id.
	template string
	// email is the service account principal checked against folder
	// permissions.
	email  string
	guilds *cache.Cache[*Settings]
	logger *slog.Logger
}

func NewService(backend tabstore.Backend, pins gateway.PinService, sessions *browse.Manager, templateID, email string) *Service {
	return &Service{
		backend:  backend,
		pins:     pins,
		sessions: sessions,
		template: templateID,
		email:    email,
		guilds:   cache.New[*Settings](),
		logger:   log.WithComponent("settings"),
	}
}

func (s *Service) Email() string { return s.email }

func (s *Service) Sessions() *browse.Manager { return s.sessions }

func (s *Service) Backend() tabstore.Backend { return s.backend }

func (s *Service) Pins() gateway.PinService { return s.pins }

// rootPins finds the bot's root-folder pins across the guild's text
// channels.
func (s *Service) rootPins(ctx context.Context, guildID string) ([]gateway.PinnedMessage, error) {
	channels, err := s.pins.GuildTextChannels(ctx, guildID)
	if err != nil {
		return nil, err
	}
	var out []gateway.PinnedMessage
	for _, ch := range channels {
		pins, err := botPins(ctx, s.pins, ch.ID, ParseRootPin)
		if err != nil {
			// A channel the bot cannot read is not an error for the
			// guild-wide scan.
			s.logger.Debug("Skipping unreadable channel", "channel_id", ch.ID, "error", err)
			continue
		}
		out = append(out, pins...)
	}
	return out, nil
}

// RootFolder resolves the guild's root folder from its pin and verifies
// write permission.
func (s *Service) RootFolder(ctx context.Context, guildID string) result.Result[*tabstore.Folder] {
	pins, err := s.rootPins(ctx, guildID)
	if err != nil {
		return result.Err[*tabstore.Folder](err)
	}
	if len(pins) == 0 {
		return result.Err[*tabstore.Folder](ErrRootNotSet)
	}
	urlRes := ParseRootPin(pins[0].Content)
	if urlRes.IsErr() {
		return result.Err[*tabstore.Folder](urlRes.Err())
	}
	idRes := tabstore.ParseFolderURL(urlRes.Unwrap())
	if idRes.IsErr() {
		return result.Err[*tabstore.Folder](coded.Say("Invalid root."))
	}
	folder := tabstore.NewFolder(s.backend, idRes.Unwrap())
	if err := folder.CheckWritePermission(ctx, s.email); err != nil {
		return result.Err[*tabstore.Folder](coded.Say("Invalid root."))
	}
	return result.Ok(folder)
}

// SetRootFolder validates url and removes any previous root pins. The
// caller posts and pins the returned content as the new root pin.
func (s *Service) SetRootFolder(ctx context.Context, guildID, url string) (string, error) {
	idRes := tabstore.ParseFolderURL(url)
	if idRes.IsErr() {
		return "", coded.Say("The url is not valid or I do not have write permission to the folder.")
	}
	folder := tabstore.NewFolder(s.backend, idRes.Unwrap())
	if err := folder.CheckWritePermission(ctx, s.email); err != nil {
		return "", coded.Say("The url is not valid or I do not have write permission to the folder.")
	}

	if err := s.RemoveRootFolder(ctx, guildID); err != nil {
		return "", err
	}
	s.guilds.Reset(guildID)
	return FormatRootPin(url), nil
}

// RemoveRootFolder deletes all existing root pins in the guild.
func (s *Service) RemoveRootFolder(ctx context.Context, guildID string) error {
	pins, err := s.rootPins(ctx, guildID)
	if err != nil {
		return err
	}
	for _, m := range pins {
		if err := s.pins.Delete(ctx, m.ChannelID, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Guild resolves the guild's settings table, creating the settings
// spreadsheet from the template when the root folder has none yet.
func (s *Service) Guild(ctx context.Context, guildID string) result.Result[*Settings] {
	return s.guilds.GetOrSet(guildID, func() result.Result[*Settings] {
		rootRes := s.RootFolder(ctx, guildID)
		if rootRes.IsErr() {
			return result.Err[*Settings](rootRes.Err())
		}
		root := rootRes.Unwrap()

		sheetRes := root.FindSpreadsheet(ctx, Filename)
		if sheetRes.IsOk() {
			return FromSpreadsheet(ctx, sheetRes.Unwrap(), s.sessions)
		}
		if coded.HasCode(sheetRes.Err(), tabstore.ErrMissingFile) {
			s.logger.Info("Creating settings spreadsheet from template", "guild_id", guildID)
			template := tabstore.NewSpreadsheet(s.backend, s.template)
			return NewFromTemplate(ctx, root, template, s.sessions)
		}
		return result.Err[*Settings](sheetRes.Err())
	})
}

// InvalidateGuild drops the guild's cached settings.
func (s *Service) InvalidateGuild(guildID string) {
	s.guilds.Reset(guildID)
}

// SetChannelSheet validates url, removes the channel's previous sheet
// pins, and returns the pin content for the caller to post and pin.
func (s *Service) SetChannelSheet(ctx context.Context, channelID, url string) (string, error) {
	if res := tabstore.ParseSpreadsheetURL(url); res.IsErr() {
		return "", res.Err()
	}
	pins, err := botPins(ctx, s.pins, channelID, ParseSheetPin)
	if err != nil {
		return "", err
	}
	for _, m := range pins {
		if err := s.pins.Delete(ctx, m.ChannelID, m.ID); err != nil {
			return "", err
		}
	}
	return FormatSheetPin(url), nil
}

// ChannelSheet resolves the channel's tracking spreadsheet from the
// channel's sheet pin.
func (s *Service) ChannelSheet(ctx context.Context, channelID string) result.Result[*tabstore.Spreadsheet] {
	pins, err := botPins(ctx, s.pins, channelID, ParseSheetPin)
	if err != nil {
		return result.Err[*tabstore.Spreadsheet](err)
	}
	if len(pins) == 0 {
		return result.Err[*tabstore.Spreadsheet](
			coded.Say("Puzzlehunt has not been set. Please use `/new` first."))
	}
	urlRes := ParseSheetPin(pins[0].Content)
	if urlRes.IsErr() {
		return result.Err[*tabstore.Spreadsheet](urlRes.Err())
	}
	idRes := tabstore.ParseSpreadsheetURL(urlRes.Unwrap())
	if idRes.IsErr() {
		return result.Err[*tabstore.Spreadsheet](idRes.Err())
	}
	return result.Ok(tabstore.NewSpreadsheet(s.backend, idRes.Unwrap()))
}
