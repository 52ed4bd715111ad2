package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntbot/internal/coded"
	"huntbot/internal/gateway"
	"huntbot/internal/gateway/gatewaytest"
	"huntbot/internal/interact"
	"huntbot/internal/settings"
	"huntbot/internal/tabstore"
)

func newDispatcher() *Dispatcher {
	return New(interact.NewRegistry(interact.DefaultTTL), "bot@service.example")
}

func command(name string, execute gateway.Handler) gateway.Command {
	return gateway.Command{Name: name, Description: name, Execute: execute}
}

func TestHandleCommand(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	ran := false
	d.Register(command("ping", func(ctx context.Context, ic *gateway.Interaction) error {
		ran = true
		return ic.Reply(ctx, gateway.Text("pong"))
	}))

	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.CommandName = "ping"
	d.Handle(context.Background(), ic)

	assert.True(t, ran)
	require.Len(t, rec.Replies, 1)
	assert.Equal(t, "pong", rec.Replies[0].Content)
}

func TestUserFacingErrorSpeaksVerbatim(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	d.Register(command("boom", func(context.Context, *gateway.Interaction) error {
		return coded.Say("Please enter puzzlehunt url.")
	}))

	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.CommandName = "boom"
	d.Handle(context.Background(), ic)

	require.Len(t, rec.Replies, 1)
	assert.Equal(t, "Please enter puzzlehunt url.", rec.Replies[0].Content)
}

func TestMissingChannelTranslation(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	d.Register(command("lookup", func(context.Context, *gateway.Interaction) error {
		return coded.Newf("settings", settings.ErrMissingChannel, "Unable to find channel `c1`.")
	}))

	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.CommandName = "lookup"
	d.Handle(context.Background(), ic)

	require.Len(t, rec.Replies, 1)
	assert.Equal(t, "Please use `/new <url>` first in this channel.", rec.Replies[0].Content)
}

func TestCannotWriteTranslationNamesEditor(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	d.Register(command("write", func(context.Context, *gateway.Interaction) error {
		return coded.Newf("drive", tabstore.ErrCannotWrite, "no write permission on folder fld-1")
	}))

	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.CommandName = "write"
	d.Handle(context.Background(), ic)

	require.Len(t, rec.Replies, 1)
	assert.Contains(t, rec.Replies[0].Content, "bot@service.example")
	assert.Contains(t, rec.Replies[0].Content, "editor")
}

func TestUnknownErrorIsGeneric(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	d.Register(command("fail", func(context.Context, *gateway.Interaction) error {
		return errors.New("database on fire")
	}))

	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.CommandName = "fail"
	d.Handle(context.Background(), ic)

	require.Len(t, rec.Replies, 1)
	assert.Equal(t, genericError, rec.Replies[0].Content)
	assert.NotContains(t, rec.Replies[0].Content, "database")
}

func TestPanicIsRecovered(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	d.Register(command("panic", func(context.Context, *gateway.Interaction) error {
		panic("unexpected nil")
	}))

	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.CommandName = "panic"
	d.Handle(context.Background(), ic)

	require.Len(t, rec.Replies, 1)
	assert.Equal(t, genericError, rec.Replies[0].Content)
}

func TestExpiredButton(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	ic, rec := gatewaytest.Interaction(gateway.KindButton)
	ic.ComponentID = "gone"
	d.Handle(context.Background(), ic)

	require.Len(t, rec.Replies, 1)
	assert.Equal(t, expiredComponent, rec.Replies[0].Content)
}

func TestErrorReplyFallsBackToEdit(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	d.Register(command("late", func(ctx context.Context, ic *gateway.Interaction) error {
		if err := ic.DeferReply(ctx); err != nil {
			return err
		}
		return coded.Say("Deferred and failed.")
	}))

	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.CommandName = "late"
	rec.FailFirstReply = true
	d.Handle(context.Background(), ic)

	assert.Empty(t, rec.Replies)
	require.NotNil(t, rec.LastEdit())
	assert.Equal(t, "Deferred and failed.", rec.LastEdit().Content)
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	d := newDispatcher()
	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.CommandName = "nope"
	d.Handle(context.Background(), ic)

	require.Len(t, rec.Replies, 1)
	assert.Equal(t, genericError, rec.Replies[0].Content)
}
