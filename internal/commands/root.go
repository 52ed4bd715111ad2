package commands

import (
	"context"
	"errors"
	"fmt"

	"huntbot/internal/coded"
	"huntbot/internal/events"
	"huntbot/internal/gateway"
	"huntbot/internal/settings"
)

// Root is /root: show or set the guild's root drive folder. The set
// path is restricted to the guild owner.
func (d *Deps) Root() gateway.Command {
	return gateway.Command{
		Name:        "root",
		Description: "Show or set the root folder for this server",
		Options: []gateway.Option{
			{Name: "url", Description: "Folder url to set as root"},
		},
		Execute: d.runRoot,
	}
}

func (d *Deps) runRoot(ctx context.Context, ic *gateway.Interaction) error {
	if err := requireGuild(ic); err != nil {
		return err
	}
	url := ic.StringOption("url")

	if url == "" {
		if err := ic.DeferReply(ctx); err != nil {
			return err
		}
		res := d.Settings.RootFolder(ctx, ic.GuildID)
		if errors.Is(res.Err(), settings.ErrRootNotSet) {
			_, err := ic.EditReply(ctx, gateway.Text(
				"The root folder is not set yet. Please use `/root {url}` to set one."))
			return err
		}
		if res.IsErr() {
			return res.Err()
		}
		_, err := ic.EditReply(ctx, gateway.Text(
			fmt.Sprintf("The root folder for this server:\n%s", res.Unwrap().URL())))
		return err
	}

	if ic.UserID != ic.GuildOwnerID {
		return coded.Say("This command is owner-only.")
	}
	if err := ic.DeferReply(ctx); err != nil {
		return err
	}
	content, err := d.Settings.SetRootFolder(ctx, ic.GuildID, url)
	if err != nil {
		return err
	}
	// The reply itself becomes the new root pin.
	msgID, err := ic.EditReply(ctx, gateway.Text(content))
	if err != nil {
		return err
	}
	if err := d.Settings.Pins().Pin(ctx, ic.ChannelID, msgID); err != nil {
		return err
	}
	d.publish(events.TypeRootChanged, map[string]string{
		"guild_id": ic.GuildID,
		"root":     url,
	})
	return nil
}
