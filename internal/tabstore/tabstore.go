// Package tabstore is the narrow contract for the remote tabular/document
// store that the bot drives as a lightweight database. A Backend moves raw
// ranges and documents; Spreadsheet and Folder are the handles the rest of
// the bot works with. Writes queue on a handle and commit in one batch on
// FlushWrite.
package tabstore

import (
	"context"
	"fmt"
	"regexp"

	"huntbot/internal/coded"
	"huntbot/internal/result"
)

// Drive-layer error kinds.
var (
	ErrCannotWrite   = coded.NextCode()
	ErrInvalidURL    = coded.NextCode()
	ErrMissingFile   = coded.NextCode()
	ErrMissingFolder = coded.NextCode()
)

const errKind = "drive"

// ValueRange is one queued write: a range reference and its values.
type ValueRange struct {
	Ref    string
	Values [][]string
}

// Backend is the raw store driver. Implementations: sqlitestore for
// self-hosted deployments and tests; a Google-backed driver plugs in at
// the same seam.
type Backend interface {
	ReadRange(ctx context.Context, docID, ref string) ([][]string, error)
	ReadRanges(ctx context.Context, docID string, refs []string) ([][][]string, error)
	// BatchWrite commits all writes atomically.
	BatchWrite(ctx context.Context, docID string, writes []ValueRange) error
	// DuplicateTemplate copies the document's TEMPLATE tab under tabName,
	// unhides it, and returns the new tab id.
	DuplicateTemplate(ctx context.Context, docID, tabName string) (int64, error)
	CopyDocument(ctx context.Context, srcID, destFolderID, name string) (string, error)
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	FolderName(ctx context.Context, folderID string) (string, error)
	// FindDocument returns the id of the named document in the folder, or
	// "" when absent.
	FindDocument(ctx context.Context, folderID, name string) (string, error)
	CheckWritePermission(ctx context.Context, folderID, email string) (bool, error)
}

// Spreadsheet is a handle on one document, carrying queued writes.
type Spreadsheet struct {
	id      string
	backend Backend
	writes  []ValueRange
}

func NewSpreadsheet(b Backend, id string) *Spreadsheet {
	return &Spreadsheet{id: id, backend: b}
}

func (s *Spreadsheet) ID() string { return s.id }

// Backend exposes the driver, for building sibling handles.
func (s *Spreadsheet) Backend() Backend { return s.backend }

func (s *Spreadsheet) URL() string { return SpreadsheetURL(s.id) }

func (s *Spreadsheet) ReadRange(ctx context.Context, ref string) ([][]string, error) {
	return s.backend.ReadRange(ctx, s.id, ref)
}

func (s *Spreadsheet) ReadRanges(ctx context.Context, refs []string) ([][][]string, error) {
	return s.backend.ReadRanges(ctx, s.id, refs)
}

// WriteCell queues a single-cell write. Call FlushWrite to commit.
func (s *Spreadsheet) WriteCell(ref, value string) *Spreadsheet {
	s.writes = append(s.writes, ValueRange{Ref: ref, Values: [][]string{{value}}})
	return s
}

// WriteRange queues a range write. Call FlushWrite to commit.
func (s *Spreadsheet) WriteRange(ref string, values [][]string) *Spreadsheet {
	s.writes = append(s.writes, ValueRange{Ref: ref, Values: values})
	return s
}

// FlushWrite commits all queued writes in one batch. The queue clears
// only on success; a failed flush leaves it intact for retry.
func (s *Spreadsheet) FlushWrite(ctx context.Context) error {
	if len(s.writes) == 0 {
		return nil
	}
	if err := s.backend.BatchWrite(ctx, s.id, s.writes); err != nil {
		return fmt.Errorf("flush %d writes to %s: %w", len(s.writes), s.id, err)
	}
	s.writes = nil
	return nil
}

// Pending returns the number of queued writes.
func (s *Spreadsheet) Pending() int { return len(s.writes) }

// NewFromTemplate duplicates the TEMPLATE tab and returns the new tab id.
func (s *Spreadsheet) NewFromTemplate(ctx context.Context, tabName string) (int64, error) {
	return s.backend.DuplicateTemplate(ctx, s.id, tabName)
}

// CopyTo copies the whole document into folder under name.
func (s *Spreadsheet) CopyTo(ctx context.Context, folder *Folder, name string) (*Spreadsheet, error) {
	id, err := s.backend.CopyDocument(ctx, s.id, folder.ID(), name)
	if err != nil {
		return nil, fmt.Errorf("copy %s into %s: %w", s.id, folder.ID(), err)
	}
	return NewSpreadsheet(s.backend, id), nil
}

// Folder is a handle on one remote folder.
type Folder struct {
	id      string
	backend Backend
}

func NewFolder(b Backend, id string) *Folder {
	return &Folder{id: id, backend: b}
}

func (f *Folder) ID() string { return f.id }

// Backend exposes the driver, for building sibling handles.
func (f *Folder) Backend() Backend { return f.backend }

func (f *Folder) URL() string { return FolderURL(f.id) }

func (f *Folder) Name(ctx context.Context) (string, error) {
	name, err := f.backend.FolderName(ctx, f.id)
	if err != nil {
		return "", coded.Newf(errKind, ErrMissingFolder, "unable to read folder %s: %v", f.id, err)
	}
	return name, nil
}

// CreateFolder creates a child folder and returns its handle.
func (f *Folder) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	id, err := f.backend.CreateFolder(ctx, name, f.id)
	if err != nil {
		return nil, fmt.Errorf("create folder %q under %s: %w", name, f.id, err)
	}
	return NewFolder(f.backend, id), nil
}

// FindSpreadsheet locates the named document inside the folder.
func (f *Folder) FindSpreadsheet(ctx context.Context, name string) result.Result[*Spreadsheet] {
	id, err := f.backend.FindDocument(ctx, f.id, name)
	if err != nil {
		return result.Err[*Spreadsheet](fmt.Errorf("find %q in %s: %w", name, f.id, err))
	}
	if id == "" {
		return result.Err[*Spreadsheet](
			coded.Newf(errKind, ErrMissingFile, "no document named %q in folder %s", name, f.id))
	}
	return result.Ok(NewSpreadsheet(f.backend, id))
}

// CheckWritePermission verifies the service account can write into the
// folder, failing with a user-actionable coded error otherwise.
func (f *Folder) CheckWritePermission(ctx context.Context, email string) error {
	ok, err := f.backend.CheckWritePermission(ctx, f.id, email)
	if err != nil {
		return fmt.Errorf("check permission on %s: %w", f.id, err)
	}
	if !ok {
		return coded.Newf(errKind, ErrCannotWrite, "no write permission on folder %s", f.id)
	}
	return nil
}

var (
	spreadsheetURLPattern = regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/([^/?#]+)`)
	folderURLPattern      = regexp.MustCompile(`^https://drive\.google\.com/drive/(?:u/\d+/)?folders/([^/?#]+)`)
)

// SpreadsheetURL renders the canonical url for a document id.
func SpreadsheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}

// FolderURL renders the canonical url for a folder id.
func FolderURL(id string) string {
	return "https://drive.google.com/drive/u/0/folders/" + id
}

// ParseSpreadsheetURL extracts the document id from a spreadsheet url.
func ParseSpreadsheetURL(url string) result.Result[string] {
	if m := spreadsheetURLPattern.FindStringSubmatch(url); m != nil {
		return result.Ok(m[1])
	}
	return result.Err[string](coded.Newf(errKind, ErrInvalidURL, "`%s` is not a valid url", url))
}

// ParseFolderURL extracts the folder id from a drive folder url.
func ParseFolderURL(url string) result.Result[string] {
	if m := folderURLPattern.FindStringSubmatch(url); m != nil {
		return result.Ok(m[1])
	}
	return result.Err[string](coded.Newf(errKind, ErrInvalidURL, "`%s` is not a valid url", url))
}
