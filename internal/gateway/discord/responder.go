package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"huntbot/internal/gateway"
)

// responder is the reply surface of one interaction.
type responder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func buttonStyle(s gateway.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case gateway.ButtonSuccess:
		return discordgo.SuccessButton
	case gateway.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.SecondaryButton
	}
}

// componentRows renders the button row. nil means "do not touch" on
// edits and is handled by the callers.
func componentRows(buttons []gateway.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return []discordgo.MessageComponent{}
	}
	row := discordgo.ActionsRow{}
	for _, b := range buttons {
		row.Components = append(row.Components, discordgo.Button{
			Label:    b.Label,
			Style:    buttonStyle(b.Style),
			CustomID: b.ID,
		})
	}
	return []discordgo.MessageComponent{row}
}

func (r *responder) Reply(_ context.Context, m *gateway.Message) error {
	data := &discordgo.InteractionResponseData{Content: m.Content}
	if m.Components != nil {
		data.Components = componentRows(m.Components)
	}
	if m.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func (r *responder) EditReply(_ context.Context, m *gateway.Message) (string, error) {
	edit := &discordgo.WebhookEdit{Content: &m.Content}
	if m.Components != nil {
		components := componentRows(m.Components)
		edit.Components = &components
	}
	msg, err := r.session.InteractionResponseEdit(r.interaction, edit)
	if err != nil {
		return "", fmt.Errorf("edit reply: %w", err)
	}
	return msg.ID, nil
}

func (r *responder) FollowUp(_ context.Context, m *gateway.Message) (string, error) {
	params := &discordgo.WebhookParams{Content: m.Content}
	if m.Components != nil {
		params.Components = componentRows(m.Components)
	}
	if m.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	msg, err := r.session.FollowupMessageCreate(r.interaction, true, params)
	if err != nil {
		return "", fmt.Errorf("follow up: %w", err)
	}
	return msg.ID, nil
}

func (r *responder) DeferReply(context.Context) error {
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (r *responder) DeferUpdate(context.Context) error {
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func (r *responder) ShowModal(_ context.Context, m *gateway.Modal) error {
	rows := make([]discordgo.MessageComponent, 0, len(m.Inputs))
	for _, in := range m.Inputs {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    in.ID,
					Label:       in.Label,
					Style:       discordgo.TextInputShort,
					Placeholder: in.Placeholder,
					Value:       in.Value,
					Required:    in.Required,
				},
			},
		})
	}
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   m.ID,
			Title:      m.Title,
			Components: rows,
		},
	})
}

func (r *responder) Update(_ context.Context, m *gateway.Message) error {
	data := &discordgo.InteractionResponseData{Content: m.Content}
	if m.Components != nil {
		data.Components = componentRows(m.Components)
	}
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
}
