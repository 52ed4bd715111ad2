package commands

import (
	"context"

	"huntbot/internal/form"
	"huntbot/internal/gateway"
)

// GuildPrefs holds per-guild defaults applied when scanning a new hunt
// leaves credentials blank. In-memory only; the authoritative copy of a
// hunt's credentials lives in its tracking spreadsheet.
type GuildPrefs struct {
	Username string
	Password string
}

func (d *Deps) getPrefs(guildID string) *GuildPrefs {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prefs[guildID]
}

func (d *Deps) setPrefs(guildID string, p *GuildPrefs) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prefs[guildID] = p
}

// Setting is /setting: edit the guild's default hunt credentials.
func (d *Deps) Setting() gateway.Command {
	return gateway.Command{
		Name:        "setting",
		Description: "Edit default hunt credentials for this server",
		Execute:     d.runSetting,
	}
}

func (d *Deps) runSetting(ctx context.Context, ic *gateway.Interaction) error {
	if err := requireGuild(ic); err != nil {
		return err
	}
	if err := ic.DeferReply(ctx); err != nil {
		return err
	}

	current := d.getPrefs(ic.GuildID)
	if current == nil {
		current = &GuildPrefs{}
	}

	f := form.New(d.Registry).
		SetTitle("Edit settings").
		SetText("Defaults used by `/new` when the site scan finds no credentials.").
		AddInput(gateway.TextInput{ID: "username", Label: "username", Value: current.Username}).
		AddInput(gateway.TextInput{ID: "password", Label: "password", Value: current.Password})
	f.SetOnSubmit(func(ctx context.Context, f *form.Form) (string, error) {
		username, err := f.Get("username").Get()
		if err != nil {
			return "", err
		}
		password, err := f.Get("password").Get()
		if err != nil {
			return "", err
		}
		d.setPrefs(ic.GuildID, &GuildPrefs{Username: username, Password: password})
		return "Settings saved.", nil
	})
	return f.Reply(ctx, ic)
}
