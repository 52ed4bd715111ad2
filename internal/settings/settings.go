// Package settings resolves per-guild and per-channel hunt resources: a
// root folder pinned in the guild, a settings spreadsheet inside it
// mapping channels to their folder and tracking spreadsheet, and the
// channel managers built from those rows.
package settings

import (
	"context"
	"sync"

	"huntbot/internal/browse"
	"huntbot/internal/cache"
	"huntbot/internal/coded"
	"huntbot/internal/gateway"
	"huntbot/internal/result"
	"huntbot/internal/tabstore"
)

var (
	ErrCorrupted      = coded.NextCode()
	ErrMissingChannel = coded.NextCode()
)

const errKind = "settings"

// Filename is the settings spreadsheet's document name inside the root
// folder.
const Filename = "settings"

// tableRef is the settings table region: one header row plus one row
// per configured channel.
const tableRef = "INDEX!A:E"

// columnNames are the required header cells. Column order is discovered
// from the header row, not assumed.
var columnNames = []string{"channelId", "channelName", "folderId", "folderName", "spreadsheetId"}

type columnIndex struct {
	channelID     int
	channelName   int
	folderID      int
	folderName    int
	spreadsheetID int
}

// Settings is one guild's channel table, the in-memory copy being the
// source of truth for reads until the next successful flush.
type Settings struct {
	mu       sync.Mutex
	sheet    *tabstore.Spreadsheet
	table    [][]string
	idx      columnIndex
	cms      *cache.Cache[*ChannelManager]
	sessions *browse.Manager
}

// FromSpreadsheet reads and validates the settings table. A header row
// missing any required column fails closed as corrupted.
func FromSpreadsheet(ctx context.Context, sheet *tabstore.Spreadsheet, sessions *browse.Manager) result.Result[*Settings] {
	table, err := sheet.ReadRange(ctx, tableRef)
	if err != nil {
		return result.Err[*Settings](err)
	}

	s := &Settings{
		sheet:    sheet,
		table:    table,
		cms:      cache.New[*ChannelManager](),
		sessions: sessions,
	}
	var header []string
	if len(table) > 0 {
		header = table[0]
	}
	cols := make([]int, len(columnNames))
	for i, name := range columnNames {
		cols[i] = -1
		for j, cell := range header {
			if cell == name {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return result.Err[*Settings](
				coded.New(errKind, ErrCorrupted, "The settings spreadsheet is corrupted."))
		}
	}
	s.idx = columnIndex{
		channelID:     cols[0],
		channelName:   cols[1],
		folderID:      cols[2],
		folderName:    cols[3],
		spreadsheetID: cols[4],
	}
	return result.Ok(s)
}

// NewFromTemplate copies the settings template into the root folder and
// parses the copy.
func NewFromTemplate(ctx context.Context, root *tabstore.Folder, template *tabstore.Spreadsheet, sessions *browse.Manager) result.Result[*Settings] {
	sheet, err := template.CopyTo(ctx, root, Filename)
	if err != nil {
		return result.Err[*Settings](err)
	}
	return FromSpreadsheet(ctx, sheet, sessions)
}

// Spreadsheet is the backing settings document.
func (s *Settings) Spreadsheet() *tabstore.Spreadsheet { return s.sheet }

func (s *Settings) findRow(channelID string) int {
	for i, row := range s.table {
		if i == 0 {
			continue
		}
		if s.cell(row, s.idx.channelID) == channelID {
			return i
		}
	}
	return -1
}

func (s *Settings) cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// FolderID looks up the channel's folder id.
func (s *Settings) FolderID(channelID string) result.Result[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findRow(channelID); i >= 0 {
		return result.Ok(s.cell(s.table[i], s.idx.folderID))
	}
	return result.Err[string](
		coded.Newf(errKind, ErrMissingChannel, "Unable to find channel `%s`.", channelID))
}

// SpreadsheetID looks up the channel's tracking spreadsheet id.
func (s *Settings) SpreadsheetID(channelID string) result.Result[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findRow(channelID); i >= 0 {
		return result.Ok(s.cell(s.table[i], s.idx.spreadsheetID))
	}
	return result.Err[string](
		coded.Newf(errKind, ErrMissingChannel, "Unable to find channel `%s`.", channelID))
}

// ChannelManager resolves the channel's manager, caching it. Misses
// recover the handles from the table and persist them back through
// SetChannelManager.
func (s *Settings) ChannelManager(ctx context.Context, ch gateway.Channel) result.Result[*ChannelManager] {
	return s.cms.GetOrSet(ch.ID, func() result.Result[*ChannelManager] {
		backend := s.sheet.Backend()
		folderRes := s.FolderID(ch.ID)
		if folderRes.IsErr() {
			return result.Err[*ChannelManager](folderRes.Err())
		}
		sheetRes := s.SpreadsheetID(ch.ID)
		if sheetRes.IsErr() {
			return result.Err[*ChannelManager](sheetRes.Err())
		}
		return s.SetChannelManager(ctx, ch,
			tabstore.NewFolder(backend, folderRes.Unwrap()),
			tabstore.NewSpreadsheet(backend, sheetRes.Unwrap()))
	})
}

// SetChannelManager upserts the channel's row and flushes the whole
// table region in one batch write. The cache is updated only after the
// flush succeeds.
func (s *Settings) SetChannelManager(ctx context.Context, ch gateway.Channel,
	folder *tabstore.Folder, sheet *tabstore.Spreadsheet) result.Result[*ChannelManager] {

	folderName, err := folder.Name(ctx)
	if err != nil {
		return result.Err[*ChannelManager](err)
	}

	s.mu.Lock()
	width := 0
	for _, col := range []int{s.idx.channelID, s.idx.channelName, s.idx.folderID, s.idx.folderName, s.idx.spreadsheetID} {
		if col+1 > width {
			width = col + 1
		}
	}
	row := make([]string, width)
	row[s.idx.channelID] = ch.ID
	row[s.idx.channelName] = ch.Name
	row[s.idx.folderID] = folder.ID()
	row[s.idx.folderName] = folderName
	row[s.idx.spreadsheetID] = sheet.ID()

	if i := s.findRow(ch.ID); i >= 0 {
		s.table[i] = row
	} else {
		s.table = append(s.table, row)
	}
	snapshot := make([][]string, len(s.table))
	copy(snapshot, s.table)
	s.mu.Unlock()

	if err := s.sheet.WriteRange(tableRef, snapshot).FlushWrite(ctx); err != nil {
		return result.Err[*ChannelManager](err)
	}
	cm := NewChannelManager(folder, sheet, s.sessions)
	s.cms.Set(ch.ID, cm)
	return result.Ok(cm)
}

// Rows reports the table length excluding the header, for status
// surfaces.
func (s *Settings) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.table) == 0 {
		return 0
	}
	return len(s.table) - 1
}
