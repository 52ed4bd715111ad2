package commands

import (
	"context"
	"fmt"

	"huntbot/internal/gateway"
)

// Stats is /stats: summarize puzzle statuses from the tracking sheet.
func (d *Deps) Stats() gateway.Command {
	return gateway.Command{
		Name:        "stats",
		Description: "Show puzzle status counts for this channel's hunt",
		Execute:     d.runStats,
	}
}

func (d *Deps) runStats(ctx context.Context, ic *gateway.Interaction) error {
	if err := requireGuild(ic); err != nil {
		return err
	}
	if err := ic.DeferReply(ctx); err != nil {
		return err
	}

	cm, err := d.channelManager(ctx, ic)
	if err != nil {
		return err
	}
	summary, err := cm.Stats(ctx)
	if err != nil {
		return err
	}
	_, err = ic.EditReply(ctx, gateway.Text(fmt.Sprintf("```json\n%s\n```", summary)))
	return err
}
