package sqlitestore

import (
	"context"
	"fmt"
)

// Seeding helpers for deployment setup (template documents, root
// folders) and for tests.

// InsertFolder creates a folder with a fixed id.
func (s *Store) InsertFolder(ctx context.Context, id, name, parentID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO folders (id, name, parent_id) VALUES (?, ?, ?)`, id, name, parentID)
	if err != nil {
		return fmt.Errorf("insert folder %s: %w", id, err)
	}
	return nil
}

// InsertDocument creates a document with a fixed id inside a folder.
func (s *Store) InsertDocument(ctx context.Context, id, folderID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, folder_id, name) VALUES (?, ?, ?)`, id, folderID, name)
	if err != nil {
		return fmt.Errorf("insert document %s: %w", id, err)
	}
	return nil
}

// InsertTab adds a tab to a document.
func (s *Store) InsertTab(ctx context.Context, docID string, tabID int64, name string, hidden bool) error {
	h := 0
	if hidden {
		h = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tabs (doc_id, id, name, hidden) VALUES (?, ?, ?, ?)`, docID, tabID, name, h)
	if err != nil {
		return fmt.Errorf("insert tab %q: %w", name, err)
	}
	return nil
}

// GrantWrite marks email as a writer on the folder.
func (s *Store) GrantWrite(ctx context.Context, folderID, email string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO folder_acl (folder_id, email, role) VALUES (?, ?, 'writer')
		 ON CONFLICT (folder_id, email) DO UPDATE SET role = 'writer'`, folderID, email)
	if err != nil {
		return fmt.Errorf("grant write on %s: %w", folderID, err)
	}
	return nil
}

// DefineNamedRange binds a name to a range reference in a document.
func (s *Store) DefineNamedRange(ctx context.Context, docID, name, ref string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO named_ranges (doc_id, name, ref) VALUES (?, ?, ?)
		 ON CONFLICT (doc_id, name) DO UPDATE SET ref = excluded.ref`, docID, name, ref)
	if err != nil {
		return fmt.Errorf("define named range %q: %w", name, err)
	}
	return nil
}
