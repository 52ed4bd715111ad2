package commands_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntbot/internal/browse"
	"huntbot/internal/coded"
	"huntbot/internal/commands"
	"huntbot/internal/events"
	"huntbot/internal/gateway"
	"huntbot/internal/gateway/gatewaytest"
	"huntbot/internal/interact"
	"huntbot/internal/settings"
	"huntbot/internal/tabstore"
	"huntbot/internal/tabstore/sqlitestore"
)

const botEmail = "bot@service.example"

const huntHTML = `<html><body>
<time datetime="2026-01-10T10:00:00-05:00">start</time>
<time datetime="2026-01-12T18:00:00-05:00">end</time>
<footer>Powered by gph-site</footer>
</body></html>`

// bot bundles a fully wired command set over in-memory fakes.
type bot struct {
	deps     *commands.Deps
	store    *sqlitestore.Store
	pins     *gatewaytest.Pins
	site     *browse.MemSite
	registry *interact.Registry
	hub      *events.Hub
	svc      *settings.Service
}

func newBot(t *testing.T) *bot {
	t.Helper()
	ctx := context.Background()

	store, err := sqlitestore.Open(ctx, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	site := browse.NewMemSite().
		AddPage("https://example.com", browse.MemPage{Title: "Example Hunt 2026", HTML: huntHTML}).
		AddPage("https://example.com/puzzle/42", browse.MemPage{Title: "Puzzle 42"})
	sessions := browse.NewManager(browse.Options{Lifespan: time.Hour, Site: site})
	t.Cleanup(sessions.CloseAll)

	// Settings template.
	require.NoError(t, store.InsertDocument(ctx, "tmpl-settings", "", "settings template"))
	require.NoError(t, store.InsertTab(ctx, "tmpl-settings", 1, "INDEX", false))
	tmpl := tabstore.NewSpreadsheet(store, "tmpl-settings")
	require.NoError(t, tmpl.WriteRange("INDEX!A1:E1", [][]string{
		{"channelId", "channelName", "folderId", "folderName", "spreadsheetId"},
	}).FlushWrite(ctx))

	// Tracking-sheet template: index, puzzle tab template, and the named
	// cells holding the hunt credentials.
	require.NoError(t, store.InsertDocument(ctx, "tmpl-tracker", "", "tracker template"))
	require.NoError(t, store.InsertTab(ctx, "tmpl-tracker", 1, "INDEX", false))
	require.NoError(t, store.InsertTab(ctx, "tmpl-tracker", 2, "TEMPLATE", true))
	require.NoError(t, store.InsertTab(ctx, "tmpl-tracker", 3, "META", true))
	require.NoError(t, store.DefineNamedRange(ctx, "tmpl-tracker", "website", "META!A1"))
	require.NoError(t, store.DefineNamedRange(ctx, "tmpl-tracker", "username", "META!A2"))
	require.NoError(t, store.DefineNamedRange(ctx, "tmpl-tracker", "password", "META!A3"))
	tracker := tabstore.NewSpreadsheet(store, "tmpl-tracker")
	require.NoError(t, tracker.WriteRange("INDEX!A1:D1", [][]string{
		{"#", "Puzzle", "Answer", "Status"},
	}).FlushWrite(ctx))

	// Root folder with a pin in the general channel.
	require.NoError(t, store.InsertFolder(ctx, "root-1", "hunts", ""))
	require.NoError(t, store.GrantWrite(ctx, "root-1", botEmail))
	pins := gatewaytest.NewPins("bot-1", gateway.Channel{ID: "chan-1", Name: "general"})
	id := pins.AddMessage("chan-1", "bot-1", settings.FormatRootPin(tabstore.FolderURL("root-1")))
	require.NoError(t, pins.Pin(ctx, "chan-1", id))

	svc := settings.NewService(store, pins, sessions, "tmpl-settings", botEmail)
	registry := interact.NewRegistry(time.Hour)
	hub := events.NewHub(64)
	deps := commands.New(svc, registry, hub, "tmpl-tracker")

	return &bot{deps: deps, store: store, pins: pins, site: site, registry: registry, hub: hub, svc: svc}
}

func (b *bot) command(t *testing.T, name string) gateway.Command {
	t.Helper()
	for _, cmd := range b.deps.All() {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("no command %q", name)
	return gateway.Command{}
}

func commandInteraction(options map[string]string) (*gateway.Interaction, *gatewaytest.Responder) {
	ic, rec := gatewaytest.Interaction(gateway.KindCommand)
	ic.Options = options
	return ic, rec
}

func (b *bot) clickButton(t *testing.T, id string) (*gateway.Interaction, *gatewaytest.Responder) {
	t.Helper()
	res := b.registry.ResolveButton(id)
	require.True(t, res.IsOk(), "%v", res.Err())
	ic, rec := gatewaytest.Interaction(gateway.KindButton)
	ic.ComponentID = id
	require.NoError(t, res.Unwrap()(context.Background(), ic))
	return ic, rec
}

func (b *bot) submitModal(t *testing.T, id string, fields map[string]string) *gatewaytest.Responder {
	t.Helper()
	res := b.registry.ResolveModal(id)
	require.True(t, res.IsOk(), "%v", res.Err())
	ic, rec := gatewaytest.Interaction(gateway.KindModal)
	ic.ComponentID = id
	ic.Fields = fields
	ic.FromMessage = true
	require.NoError(t, res.Unwrap()(context.Background(), ic))
	return rec
}

// TestHuntLifecycle drives /new through Create, then adds a puzzle by
// scraping its title, renaming it in the edit modal, and submitting.
func TestHuntLifecycle(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	ctx := context.Background()

	// /new scans the site and renders the scanned metadata.
	ic, rec := commandInteraction(map[string]string{"url": "https://example.com"})
	require.NoError(t, b.command(t, "new").Execute(ctx, ic))
	require.True(t, rec.Deferred)
	require.Len(t, rec.Edits, 1)
	assert.Contains(t, rec.Edits[0].Content, "title: `Example Hunt 2026`")
	assert.Contains(t, rec.Edits[0].Content, "website: https://example.com")
	require.Len(t, rec.Edits[0].Components, 2)
	assert.Equal(t, "Edit", rec.Edits[0].Components[0].Label)
	assert.Equal(t, "Create", rec.Edits[0].Components[1].Label)

	// The scanned start/end survived into the render as relative tags.
	assert.Contains(t, rec.Edits[0].Content, "start: <t:")

	// Create materializes folder, sheet, and the settings row.
	_, createRec := b.clickButton(t, rec.Edits[0].Components[1].ID)
	require.True(t, createRec.DeferredUpdate)
	require.Len(t, createRec.FollowUps, 1)
	assert.True(t, strings.HasPrefix(createRec.FollowUps[0].Content, "sheet: "),
		"follow-up %q", createRec.FollowUps[0].Content)
	// Create strips the buttons from the original reply.
	require.NotNil(t, createRec.LastEdit().Components)
	assert.Empty(t, createRec.LastEdit().Components)

	guildRes := b.svc.Guild(ctx, "guild-1")
	require.True(t, guildRes.IsOk(), "%v", guildRes.Err())
	cmRes := guildRes.Unwrap().ChannelManager(ctx, gateway.Channel{ID: "chan-1", Name: "general"})
	require.True(t, cmRes.IsOk(), "%v", cmRes.Err())
	sheet := cmRes.Unwrap().Spreadsheet()

	// The hunt website landed in the sheet's named cell.
	cells, err := sheet.ReadRange(ctx, "website")
	require.NoError(t, err)
	require.NotEmpty(t, cells)
	assert.Equal(t, "https://example.com", cells[0][0])

	// /puzzle scrapes the page title into the form.
	ic2, rec2 := commandInteraction(map[string]string{"url": "https://example.com/puzzle/42"})
	require.NoError(t, b.command(t, "puzzle").Execute(ctx, ic2))
	require.Len(t, rec2.Edits, 1)
	assert.Contains(t, rec2.Edits[0].Content, "Puzzle 42")
	require.Len(t, rec2.Edits[0].Components, 2)

	// Edit the title through the modal.
	_, editRec := b.clickButton(t, rec2.Edits[0].Components[0].ID)
	require.Len(t, editRec.Modals, 1)
	modal := editRec.Modals[0]
	fields := map[string]string{}
	for _, in := range modal.Inputs {
		fields[in.ID] = in.Value
	}
	assert.Equal(t, "Puzzle 42", fields["title"])
	fields["title"] = "The Answer"
	modalRec := b.submitModal(t, modal.ID, fields)
	require.Len(t, modalRec.Updates, 1)
	assert.Contains(t, modalRec.Updates[0].Content, "The Answer")

	// Submit appends the puzzle tab.
	_, submitRec := b.clickButton(t, rec2.Edits[0].Components[1].ID)
	require.NotNil(t, submitRec.LastEdit())
	assert.Equal(t, `"The Answer" added.`, submitRec.LastEdit().Content)

	rows, err := sheet.ReadRange(ctx, "INDEX!A:D")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1][1], "The Answer")

	// The hub saw the lifecycle.
	var types []string
	for _, ev := range b.hub.SnapshotSince(0) {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, events.TypeHuntCreated)
	assert.Contains(t, types, events.TypePuzzleAppended)
}

func TestPuzzleRequiresHunt(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	ic, _ := commandInteraction(map[string]string{"url": "https://example.com/puzzle/42"})
	err := b.command(t, "puzzle").Execute(context.Background(), ic)
	require.Error(t, err)
	assert.True(t, coded.HasCode(err, settings.ErrMissingChannel))
}

func TestRoundCommand(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	ctx := context.Background()
	createHunt(t, b)

	ic, rec := commandInteraction(map[string]string{"title": "Intro"})
	require.NoError(t, b.command(t, "round").Execute(ctx, ic))
	require.NotNil(t, rec.LastEdit())
	assert.Equal(t, "Round `Intro` added.", rec.LastEdit().Content)
}

// createHunt runs /new + Create in chan-1 as setup for other tests.
func createHunt(t *testing.T, b *bot) {
	t.Helper()
	ic, rec := commandInteraction(map[string]string{"url": "https://example.com"})
	require.NoError(t, b.command(t, "new").Execute(context.Background(), ic))
	require.Len(t, rec.Edits, 1)
	b.clickButton(t, rec.Edits[0].Components[1].ID)
}

func TestLoginCommand(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	createHunt(t, b)

	ic, rec := commandInteraction(nil)
	require.NoError(t, b.command(t, "login").Execute(context.Background(), ic))
	require.Len(t, rec.Edits, 1)
	require.Len(t, rec.Edits[0].Components, 2)

	// Fill the login form and submit.
	_, editRec := b.clickButton(t, rec.Edits[0].Components[0].ID)
	require.Len(t, editRec.Modals, 1)
	b.submitModal(t, editRec.Modals[0].ID, map[string]string{
		"url":      "https://example.com",
		"username": "alice",
		"password": "hunter2",
	})
	_, submitRec := b.clickButton(t, rec.Edits[0].Components[1].ID)
	require.NotNil(t, submitRec.LastEdit())
	assert.Equal(t, "done", submitRec.LastEdit().Content)
	assert.Equal(t, []string{"alice"}, b.site.Logins())
}

func TestRootCommand(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	ctx := context.Background()

	// Read path reports the seeded root.
	ic, rec := commandInteraction(nil)
	require.NoError(t, b.command(t, "root").Execute(ctx, ic))
	require.NotNil(t, rec.LastEdit())
	assert.Equal(t,
		fmt.Sprintf("The root folder for this server:\n%s", tabstore.FolderURL("root-1")),
		rec.LastEdit().Content)

	// Set path is owner-only.
	ic2, _ := commandInteraction(map[string]string{"url": tabstore.FolderURL("root-1")})
	ic2.GuildOwnerID = "someone-else"
	err := b.command(t, "root").Execute(ctx, ic2)
	require.Error(t, err)
	uf, ok := coded.AsUserFacing(err)
	require.True(t, ok)
	assert.Equal(t, "This command is owner-only.", uf.Message)

	// The owner replaces the root; the reply becomes the new pin.
	require.NoError(t, b.store.InsertFolder(ctx, "root-2", "hunts v2", ""))
	require.NoError(t, b.store.GrantWrite(ctx, "root-2", botEmail))
	ic3, rec3 := commandInteraction(map[string]string{"url": tabstore.FolderURL("root-2")})
	ic3.GuildOwnerID = ic3.UserID
	require.NoError(t, b.command(t, "root").Execute(ctx, ic3))
	require.NotNil(t, rec3.LastEdit())
	assert.Equal(t, settings.FormatRootPin(tabstore.FolderURL("root-2")), rec3.LastEdit().Content)

	pinned, err := b.pins.Pinned(ctx, "chan-1")
	require.NoError(t, err)
	require.Len(t, pinned, 1)
}

func TestRootCommandNotSet(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	ctx := context.Background()
	// Drop the seeded pin so the guild has no root.
	require.NoError(t, b.svc.RemoveRootFolder(ctx, "guild-1"))

	ic, rec := commandInteraction(nil)
	require.NoError(t, b.command(t, "root").Execute(ctx, ic))
	require.NotNil(t, rec.LastEdit())
	assert.Equal(t,
		"The root folder is not set yet. Please use `/root {url}` to set one.",
		rec.LastEdit().Content)
}

func TestSheetCommand(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	ctx := context.Background()
	require.NoError(t, b.store.InsertDocument(ctx, "doc-7", "", "tracking"))

	url := tabstore.SpreadsheetURL("doc-7")
	ic, rec := commandInteraction(map[string]string{"url": url})
	require.NoError(t, b.command(t, "sheet").Execute(ctx, ic))
	require.NotNil(t, rec.LastEdit())
	assert.Equal(t, settings.FormatSheetPin(url), rec.LastEdit().Content)

	// The pinned reply now resolves as the channel sheet.
	pinned, err := b.pins.Pinned(ctx, "chan-1")
	require.NoError(t, err)
	require.Len(t, pinned, 2)
	b.pins.SetPinContent("chan-1", pinned[1].ID, rec.LastEdit().Content)
	res := b.svc.ChannelSheet(ctx, "chan-1")
	require.True(t, res.IsOk(), "%v", res.Err())
	assert.Equal(t, "doc-7", res.Unwrap().ID())

	// A second /sheet without force is refused.
	ic2, _ := commandInteraction(map[string]string{"url": url})
	err = b.command(t, "sheet").Execute(ctx, ic2)
	require.Error(t, err)
	uf, ok := coded.AsUserFacing(err)
	require.True(t, ok)
	assert.Equal(t, `Sheet was already set. Add "force" to change it.`, uf.Message)

	// With force the old pin is replaced.
	require.NoError(t, b.store.InsertDocument(ctx, "doc-8", "", "tracking v2"))
	ic3, rec3 := commandInteraction(map[string]string{
		"url":   tabstore.SpreadsheetURL("doc-8"),
		"force": "force",
	})
	require.NoError(t, b.command(t, "sheet").Execute(ctx, ic3))
	assert.Equal(t, settings.FormatSheetPin(tabstore.SpreadsheetURL("doc-8")), rec3.LastEdit().Content)
}

func TestSettingCommand(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	ctx := context.Background()

	ic, rec := commandInteraction(nil)
	require.NoError(t, b.command(t, "setting").Execute(ctx, ic))
	require.Len(t, rec.Edits, 1)
	require.Len(t, rec.Edits[0].Components, 2)

	_, editRec := b.clickButton(t, rec.Edits[0].Components[0].ID)
	require.Len(t, editRec.Modals, 1)
	b.submitModal(t, editRec.Modals[0].ID, map[string]string{
		"username": "team",
		"password": "pass",
	})
	_, submitRec := b.clickButton(t, rec.Edits[0].Components[1].ID)
	require.NotNil(t, submitRec.LastEdit())
	assert.Equal(t, "Settings saved.", submitRec.LastEdit().Content)

	// /new now prefills the saved credentials when the scan finds none.
	ic2, rec2 := commandInteraction(map[string]string{"url": "https://example.com"})
	require.NoError(t, b.command(t, "new").Execute(ctx, ic2))
	assert.Contains(t, rec2.Edits[0].Content, "username: `team`")
	assert.Contains(t, rec2.Edits[0].Content, "password: `pass`")
}

func TestStatsCommand(t *testing.T) {
	t.Parallel()

	b := newBot(t)
	ctx := context.Background()
	createHunt(t, b)

	guildRes := b.svc.Guild(ctx, "guild-1")
	require.True(t, guildRes.IsOk())
	cmRes := guildRes.Unwrap().ChannelManager(ctx, gateway.Channel{ID: "chan-1", Name: "general"})
	require.True(t, cmRes.IsOk(), "%v", cmRes.Err())
	sheet := cmRes.Unwrap().Spreadsheet()
	require.NoError(t, sheet.WriteRange("INDEX!A2:D4", [][]string{
		{"2", "p1", "", "solved"},
		{"3", "p2", "", "solved"},
		{"4", "p3", "", "open"},
	}).FlushWrite(ctx))

	ic, rec := commandInteraction(nil)
	require.NoError(t, b.command(t, "stats").Execute(ctx, ic))
	require.NotNil(t, rec.LastEdit())
	assert.Contains(t, rec.LastEdit().Content, `"solved": 2`)
	assert.Contains(t, rec.LastEdit().Content, `"open": 1`)
}
