package commands

import (
	"context"
	"fmt"

	"huntbot/internal/coded"
	"huntbot/internal/events"
	"huntbot/internal/gateway"
)

// Round is /round: append a round divider row to the tracking sheet.
func (d *Deps) Round() gateway.Command {
	return gateway.Command{
		Name:        "round",
		Description: "Add a round divider to the tracking sheet",
		Options: []gateway.Option{
			{Name: "title", Description: "Round title", Required: true},
		},
		Execute: d.runRound,
	}
}

func (d *Deps) runRound(ctx context.Context, ic *gateway.Interaction) error {
	if err := requireGuild(ic); err != nil {
		return err
	}
	title := ic.StringOption("title")
	if title == "" {
		return coded.Say("Please enter round title.")
	}
	if err := ic.DeferReply(ctx); err != nil {
		return err
	}

	cm, err := d.channelManager(ctx, ic)
	if err != nil {
		return err
	}
	if err := cm.AppendRound(ctx, title); err != nil {
		return err
	}
	d.publish(events.TypeRoundAppended, map[string]string{
		"channel_id": ic.ChannelID,
		"title":      title,
	})
	_, err = ic.EditReply(ctx, gateway.Text(fmt.Sprintf("Round `%s` added.", title)))
	return err
}
