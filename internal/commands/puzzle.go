package commands

import (
	"context"
	"fmt"

	"huntbot/internal/coded"
	"huntbot/internal/events"
	"huntbot/internal/form"
	"huntbot/internal/gateway"
)

// Puzzle is /puzzle: scrape the puzzle page title, let the user edit it,
// and append a puzzle tab to the channel's tracking sheet on Submit.
func (d *Deps) Puzzle() gateway.Command {
	return gateway.Command{
		Name:        "puzzle",
		Description: "Add a puzzle to the tracking sheet",
		Options: []gateway.Option{
			{Name: "url", Description: "Puzzle page url", Required: true},
			{Name: "title", Description: "Tab title, scraped from the page when omitted"},
		},
		Execute: d.runPuzzle,
	}
}

func (d *Deps) runPuzzle(ctx context.Context, ic *gateway.Interaction) error {
	if err := requireGuild(ic); err != nil {
		return err
	}
	url := ic.StringOption("url")
	if url == "" {
		return coded.Say("Please enter puzzle url.")
	}
	if err := ic.DeferReply(ctx); err != nil {
		return err
	}

	cm, err := d.channelManager(ctx, ic)
	if err != nil {
		return err
	}

	title := ic.StringOption("title")
	if title == "" {
		scraped, err := cm.ScanTitle(ctx, url)
		if err != nil {
			d.logger.Warn("Title scrape failed", "url", url, "error", err)
		}
		title = scraped
	}

	f := form.New(d.Registry).
		SetTitle("Edit puzzle").
		AddInput(gateway.TextInput{ID: "url", Label: "url", Value: url, Required: true}).
		AddInput(gateway.TextInput{ID: "title", Label: "title", Value: title, Required: true})
	f.SetOnSubmit(func(ctx context.Context, f *form.Form) (string, error) {
		url, err := f.Get("url").Get()
		if err != nil {
			return "", err
		}
		title, err := f.Get("title").Get()
		if err != nil {
			return "", err
		}
		tab, err := cm.AppendPuzzle(ctx, url, title)
		if err != nil {
			return "", err
		}
		d.publish(events.TypePuzzleAppended, map[string]string{
			"channel_id": ic.ChannelID,
			"tab":        tab,
			"url":        url,
		})
		return fmt.Sprintf("%q added.", tab), nil
	})
	return f.Reply(ctx, ic)
}
