package settings

import (
	"context"
	"strings"

	"huntbot/internal/gateway"
	"huntbot/internal/result"
)

// Pinned-message formats. Guild-level and channel-level workflow state
// lives in specially formatted pinned messages authored by the bot.
const (
	rootPinPrefix  = "Root folder: "
	sheetPinPrefix = "sheet: "
)

// FormatRootPin renders the root-folder pin content.
func FormatRootPin(url string) string { return rootPinPrefix + url }

// ParseRootPin extracts the folder url from a root pin, or errors with
// the raw content when the message is not one.
func ParseRootPin(content string) result.Result[string] {
	return parsePin(content, rootPinPrefix)
}

// FormatSheetPin renders the per-channel tracking sheet pin content.
func FormatSheetPin(url string) string { return sheetPinPrefix + url }

// ParseSheetPin extracts the spreadsheet url from a sheet pin.
func ParseSheetPin(content string) result.Result[string] {
	return parsePin(content, sheetPinPrefix)
}

func parsePin(content, prefix string) result.Result[string] {
	rest, ok := strings.CutPrefix(content, prefix)
	if !ok || rest == "" {
		return result.Err[string](&notPinError{content: content})
	}
	return result.Ok(rest)
}

type notPinError struct {
	content string
}

func (e *notPinError) Error() string { return "not a formatted pin: " + e.content }

// botPins collects the bot's own pinned messages in a channel whose
// content parses under the given format.
func botPins(ctx context.Context, pins gateway.PinService, channelID string,
	parse func(string) result.Result[string]) ([]gateway.PinnedMessage, error) {

	pinned, err := pins.Pinned(ctx, channelID)
	if err != nil {
		return nil, err
	}
	var out []gateway.PinnedMessage
	for _, m := range pinned {
		if m.AuthorID != pins.BotUserID() {
			continue
		}
		if parse(m.Content).IsErr() {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
