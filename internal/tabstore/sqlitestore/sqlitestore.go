// Package sqlitestore is the SQLite-backed tabstore driver. It models
// folders, documents, tabs and cells in a local database so the bot can
// run self-hosted and so tests get a real Backend without network access.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"huntbot/internal/tabstore"
)

// Store implements tabstore.Backend on a SQLite database.
type Store struct {
	db *sql.DB
}

var _ tabstore.Backend = (*Store)(nil)

// Open opens (and creates if needed) the SQLite database at path and
// ensures required tables exist.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Basic health check + apply a few safe pragmas.
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign_keys: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := Bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Bootstrap creates tables/indexes if missing.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS folders (
  id        TEXT PRIMARY KEY,
  name      TEXT NOT NULL,
  parent_id TEXT
);`,
		`CREATE TABLE IF NOT EXISTS folder_acl (
  folder_id TEXT NOT NULL,
  email     TEXT NOT NULL,
  role      TEXT NOT NULL,
  PRIMARY KEY (folder_id, email)
);`,
		`CREATE TABLE IF NOT EXISTS documents (
  id        TEXT PRIMARY KEY,
  folder_id TEXT,
  name      TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS tabs (
  doc_id TEXT NOT NULL,
  id     INTEGER NOT NULL,
  name   TEXT NOT NULL,
  hidden INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (doc_id, id)
);`,
		`CREATE TABLE IF NOT EXISTS cells (
  doc_id TEXT NOT NULL,
  tab    TEXT NOT NULL,
  row    INTEGER NOT NULL,
  col    INTEGER NOT NULL,
  value  TEXT NOT NULL,
  PRIMARY KEY (doc_id, tab, row, col)
);`,
		`CREATE TABLE IF NOT EXISTS named_ranges (
  doc_id TEXT NOT NULL,
  name   TEXT NOT NULL,
  ref    TEXT NOT NULL,
  PRIMARY KEY (doc_id, name)
);`,
		`CREATE INDEX IF NOT EXISTS documents_folder_name_idx ON documents(folder_id, name);`,
		`CREATE INDEX IF NOT EXISTS cells_doc_tab_idx ON cells(doc_id, tab);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap sqlite: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for status reporting.
func (s *Store) DB() *sql.DB { return s.db }

// resolveRef parses ref, resolving a bare name through named_ranges first.
func (s *Store) resolveRef(ctx context.Context, docID, ref string) (tabstore.Ref, error) {
	if !strings.Contains(ref, "!") {
		var target string
		err := s.db.QueryRowContext(ctx,
			`SELECT ref FROM named_ranges WHERE doc_id = ? AND name = ?`, docID, ref).Scan(&target)
		if err == nil {
			ref = target
		} else if err != sql.ErrNoRows {
			return tabstore.Ref{}, fmt.Errorf("resolve named range %q: %w", ref, err)
		}
	}
	return tabstore.ParseRef(ref).Get()
}

// ReadRange reads a range, trimming trailing empty rows and trailing
// empty cells per row the way a sheet API reports values.
func (s *Store) ReadRange(ctx context.Context, docID, ref string) ([][]string, error) {
	r, err := s.resolveRef(ctx, docID, ref)
	if err != nil {
		return nil, err
	}

	startRow, endRow := r.StartRow, r.EndRow
	if startRow == 0 {
		startRow = 1
	}
	if endRow == 0 {
		endRow = 1 << 20
	}
	startCol, endCol := r.StartCol, r.EndCol
	if startCol == 0 {
		startCol = 1
	}
	if endCol == 0 {
		endCol = 1 << 14
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row, col, value FROM cells
		 WHERE doc_id = ? AND tab = ? AND row BETWEEN ? AND ? AND col BETWEEN ? AND ?
		 ORDER BY row, col`,
		docID, r.Tab, startRow, endRow, startCol, endCol)
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", ref, err)
	}
	defer rows.Close()

	byRow := map[int]map[int]string{}
	maxRow := 0
	for rows.Next() {
		var row, col int
		var value string
		if err := rows.Scan(&row, &col, &value); err != nil {
			return nil, err
		}
		if byRow[row] == nil {
			byRow[row] = map[int]string{}
		}
		byRow[row][col] = value
		if row > maxRow {
			maxRow = row
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if maxRow == 0 {
		return nil, nil
	}

	var out [][]string
	for row := startRow; row <= maxRow; row++ {
		cells := byRow[row]
		maxCol := 0
		for col := range cells {
			if col > maxCol {
				maxCol = col
			}
		}
		line := make([]string, 0, maxCol-startCol+1)
		for col := startCol; col <= maxCol; col++ {
			line = append(line, cells[col])
		}
		out = append(out, line)
	}
	// Trailing fully-empty rows are trimmed above via maxRow, interior
	// empty rows stay as empty slices.
	return out, nil
}

func (s *Store) ReadRanges(ctx context.Context, docID string, refs []string) ([][][]string, error) {
	out := make([][][]string, 0, len(refs))
	for _, ref := range refs {
		values, err := s.ReadRange(ctx, docID, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, nil
}

// BatchWrite commits all writes in one transaction. Values expand from
// the range's top-left corner.
func (s *Store) BatchWrite(ctx context.Context, docID string, writes []tabstore.ValueRange) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch write: %w", err)
	}
	defer tx.Rollback()

	for _, w := range writes {
		r, err := s.resolveRef(ctx, docID, w.Ref)
		if err != nil {
			return err
		}
		startRow, startCol := r.StartRow, r.StartCol
		if startRow == 0 {
			startRow = 1
		}
		if startCol == 0 {
			startCol = 1
		}
		for i, line := range w.Values {
			for j, value := range line {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO cells (doc_id, tab, row, col, value) VALUES (?, ?, ?, ?, ?)
					 ON CONFLICT (doc_id, tab, row, col) DO UPDATE SET value = excluded.value`,
					docID, r.Tab, startRow+i, startCol+j, value)
				if err != nil {
					return fmt.Errorf("write %s: %w", w.Ref, err)
				}
			}
		}
	}
	return tx.Commit()
}

const templateTab = "TEMPLATE"

// DuplicateTemplate copies the TEMPLATE tab under tabName, unhidden,
// and returns the new tab id.
func (s *Store) DuplicateTemplate(ctx context.Context, docID, tabName string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin duplicate: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tabs WHERE doc_id = ? AND name = ?`, docID, templateTab).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, fmt.Errorf("document %s has no %s tab", docID, templateTab)
	}

	var tabID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM tabs WHERE doc_id = ?`, docID).Scan(&tabID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tabs (doc_id, id, name, hidden) VALUES (?, ?, ?, 0)`,
		docID, tabID, tabName); err != nil {
		return 0, fmt.Errorf("create tab %q: %w", tabName, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cells (doc_id, tab, row, col, value)
		 SELECT doc_id, ?, row, col, value FROM cells WHERE doc_id = ? AND tab = ?`,
		tabName, docID, templateTab); err != nil {
		return 0, fmt.Errorf("copy template cells: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return tabID, nil
}

func (s *Store) CopyDocument(ctx context.Context, srcID, destFolderID, name string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin copy: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE id = ?`, srcID).Scan(&exists); err != nil {
		return "", err
	}
	if exists == 0 {
		return "", fmt.Errorf("no document %s", srcID)
	}

	newID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, folder_id, name) VALUES (?, ?, ?)`,
		newID, destFolderID, name); err != nil {
		return "", fmt.Errorf("copy document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tabs (doc_id, id, name, hidden)
		 SELECT ?, id, name, hidden FROM tabs WHERE doc_id = ?`, newID, srcID); err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cells (doc_id, tab, row, col, value)
		 SELECT ?, tab, row, col, value FROM cells WHERE doc_id = ?`, newID, srcID); err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO named_ranges (doc_id, name, ref)
		 SELECT ?, name, ref FROM named_ranges WHERE doc_id = ?`, newID, srcID); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return newID, nil
}

func (s *Store) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO folders (id, name, parent_id) VALUES (?, ?, ?)`, id, name, parentID); err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	// A folder created by the service account is writable by it.
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO folder_acl (folder_id, email, role) VALUES (?, '*', 'writer')`, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) FolderName(ctx context.Context, folderID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM folders WHERE id = ?`, folderID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no folder %s", folderID)
	}
	if err != nil {
		return "", fmt.Errorf("read folder %s: %w", folderID, err)
	}
	return name, nil
}

func (s *Store) FindDocument(ctx context.Context, folderID, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE folder_id = ? AND name = ? LIMIT 1`, folderID, name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find document %q: %w", name, err)
	}
	return id, nil
}

func (s *Store) CheckWritePermission(ctx context.Context, folderID, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM folder_acl
		 WHERE folder_id = ? AND email IN (?, '*') AND role IN ('writer', 'owner')`,
		folderID, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check acl on %s: %w", folderID, err)
	}
	return n > 0, nil
}
