package commands

import (
	"context"

	"huntbot/internal/coded"
	"huntbot/internal/events"
	"huntbot/internal/gateway"
	"huntbot/internal/hunt"
	"huntbot/internal/settings"
	"huntbot/internal/tabstore"
)

// NewHunt is /new: scan a hunt site, let the user tweak the scanned
// metadata, and materialize the channel's folder and tracking
// spreadsheet on Create.
func (d *Deps) NewHunt() gateway.Command {
	return gateway.Command{
		Name:        "new",
		Description: "Start tracking a new puzzlehunt in this channel",
		Options: []gateway.Option{
			{Name: "url", Description: "Puzzlehunt website url", Required: true},
		},
		Execute: d.runNew,
	}
}

func (d *Deps) runNew(ctx context.Context, ic *gateway.Interaction) error {
	if err := requireGuild(ic); err != nil {
		return err
	}
	url := ic.StringOption("url")
	if url == "" {
		return coded.Say("Please enter puzzlehunt url.")
	}
	if err := ic.DeferReply(ctx); err != nil {
		return err
	}

	ph, err := d.scanHunt(ctx, url)
	if err != nil {
		return err
	}
	if prefs := d.getPrefs(ic.GuildID); prefs != nil {
		if ph.Username == "" {
			ph.Username = prefs.Username
		}
		if ph.Password == "" {
			ph.Password = prefs.Password
		}
	}
	d.setPending(ic.ChannelID, ph)

	editID := d.Registry.Button(d.editHuntHandler(ph))
	createID := d.Registry.Button(d.createHuntHandler(ph))
	_, err = ic.EditReply(ctx, &gateway.Message{
		Content: ph.Render(),
		Components: []gateway.Button{
			{ID: editID, Label: "Edit", Style: gateway.ButtonSecondary},
			{ID: createID, Label: "Create", Style: gateway.ButtonSuccess},
		},
	})
	return err
}

// scanHunt fetches the hunt's front page without credentials. /new runs
// before the channel has any stored login info.
func (d *Deps) scanHunt(ctx context.Context, url string) (*hunt.Puzzlehunt, error) {
	session, err := d.Settings.Sessions().Session(url)
	if err != nil {
		return nil, err
	}
	if err := session.Browse(ctx, url); err != nil {
		return nil, err
	}
	title, err := session.Title(ctx)
	if err != nil {
		return nil, err
	}
	html, err := session.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return hunt.Scan(hunt.PageSource{URL: url, Title: title, HTML: html}), nil
}

func huntModalInputs(ph *hunt.Puzzlehunt) []gateway.TextInput {
	return []gateway.TextInput{
		{ID: "title", Label: "title", Value: ph.Title, Required: true},
		{ID: "start", Label: "start", Placeholder: "2023-05-06T10:00:00-07:00", Value: ph.StartTime},
		{ID: "end", Label: "end", Placeholder: "2023-05-07T17:00:00-07:00", Value: ph.EndTime},
		{ID: "username", Label: "username", Value: ph.Username},
		{ID: "password", Label: "password", Value: ph.Password},
	}
}

func (d *Deps) editHuntHandler(ph *hunt.Puzzlehunt) gateway.Handler {
	modalID := d.Registry.Modal(func(ctx context.Context, ic *gateway.Interaction) error {
		if v, ok := ic.Fields["title"]; ok && v != "" {
			ph.Title = v
		}
		if v, ok := ic.Fields["start"]; ok && v != "" && !ph.SetStart(v) {
			return coded.Sayf("`%s` is not a valid timestamp.", v)
		}
		if v, ok := ic.Fields["end"]; ok && v != "" && !ph.SetEnd(v) {
			return coded.Sayf("`%s` is not a valid timestamp.", v)
		}
		if v, ok := ic.Fields["username"]; ok {
			ph.Username = v
		}
		if v, ok := ic.Fields["password"]; ok {
			ph.Password = v
		}
		if ic.FromMessage {
			return ic.Update(ctx, &gateway.Message{Content: ph.Render()})
		}
		return nil
	})
	return func(ctx context.Context, ic *gateway.Interaction) error {
		return ic.ShowModal(ctx, &gateway.Modal{
			ID:     modalID,
			Title:  "Edit puzzlehunt",
			Inputs: huntModalInputs(ph),
		})
	}
}

func (d *Deps) createHuntHandler(ph *hunt.Puzzlehunt) gateway.Handler {
	return func(ctx context.Context, ic *gateway.Interaction) error {
		if err := ic.DeferUpdate(ctx); err != nil {
			return err
		}

		guildRes := d.Settings.Guild(ctx, ic.GuildID)
		if guildRes.IsErr() {
			return guildRes.Err()
		}
		rootRes := d.Settings.RootFolder(ctx, ic.GuildID)
		if rootRes.IsErr() {
			return rootRes.Err()
		}

		folder, err := rootRes.Unwrap().CreateFolder(ctx, ph.Title)
		if err != nil {
			return err
		}
		template := tabstore.NewSpreadsheet(d.Settings.Backend(), d.TrackerTemplateID)
		sheet, err := template.CopyTo(ctx, folder, ph.Title)
		if err != nil {
			return err
		}
		err = sheet.
			WriteCell("website", ph.URL).
			WriteCell("username", ph.Username).
			WriteCell("password", ph.Password).
			FlushWrite(ctx)
		if err != nil {
			return err
		}

		ch := gateway.Channel{ID: ic.ChannelID, Name: ic.ChannelName}
		if res := guildRes.Unwrap().SetChannelManager(ctx, ch, folder, sheet); res.IsErr() {
			return res.Err()
		}

		if _, err := ic.EditReply(ctx, gateway.ClearComponents(ph.Render())); err != nil {
			return err
		}
		msgID, err := ic.FollowUp(ctx, gateway.Text(settings.FormatSheetPin(sheet.URL())))
		if err != nil {
			return err
		}
		if err := d.Settings.Pins().Pin(ctx, ic.ChannelID, msgID); err != nil {
			return err
		}
		d.publish(events.TypeHuntCreated, map[string]string{
			"guild_id":   ic.GuildID,
			"channel_id": ic.ChannelID,
			"title":      ph.Title,
			"sheet":      sheet.URL(),
		})
		return nil
	}
}
