package commands

import (
	"context"

	"huntbot/internal/coded"
	"huntbot/internal/gateway"
)

// Sheet is /sheet: point the channel at an existing tracking
// spreadsheet by pinning its url.
func (d *Deps) Sheet() gateway.Command {
	return gateway.Command{
		Name:        "sheet",
		Description: "Set the tracking spreadsheet for this channel",
		Options: []gateway.Option{
			{Name: "url", Description: "Spreadsheet url", Required: true},
			{Name: "force", Description: "Replace an already-set sheet"},
		},
		Execute: d.runSheet,
	}
}

func (d *Deps) runSheet(ctx context.Context, ic *gateway.Interaction) error {
	if err := requireGuild(ic); err != nil {
		return err
	}
	url := ic.StringOption("url")
	if url == "" {
		return coded.Say("Please enter spreadsheet url.")
	}
	if err := ic.DeferReply(ctx); err != nil {
		return err
	}

	if d.Settings.ChannelSheet(ctx, ic.ChannelID).IsOk() && ic.StringOption("force") == "" {
		return coded.Say("Sheet was already set. Add \"force\" to change it.")
	}

	content, err := d.Settings.SetChannelSheet(ctx, ic.ChannelID, url)
	if err != nil {
		return err
	}
	msgID, err := ic.EditReply(ctx, gateway.Text(content))
	if err != nil {
		return err
	}
	return d.Settings.Pins().Pin(ctx, ic.ChannelID, msgID)
}
