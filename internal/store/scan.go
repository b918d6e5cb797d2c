package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Takashicc/repub/internal/model"
	"github.com/pkg/errors"
)

// ScanRecord is the raw metadata extracted from one archive, keyed by the
// file's path, size and modification time.
type ScanRecord struct {
	Path      string
	Size      int64
	ModTime   int64
	Metadata  model.BookMetadata
	RunID     string
	UpdatedTs int64
}

// FindScan returns the cached metadata for path if the size and modification
// time still match.
func (s *Store) FindScan(ctx context.Context, path string, size, modTime int64) (*ScanRecord, bool, error) {
	query := `
	SELECT path, size, mod_time, author, title, has_author, has_title, run_id, updated_ts
	FROM scan_cache
	WHERE path = ? AND size = ? AND mod_time = ?`

	var (
		rec                 ScanRecord
		author, title       string
		hasAuthor, hasTitle bool
	)
	if err := s.db.QueryRowContext(ctx, query, path, size, modTime).Scan(
		&rec.Path, &rec.Size, &rec.ModTime,
		&author, &title, &hasAuthor, &hasTitle,
		&rec.RunID, &rec.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "find scan %s", path)
	}

	if hasAuthor {
		rec.Metadata.SetAuthor(author)
	}
	if hasTitle {
		rec.Metadata.SetTitle(title)
	}
	return &rec, true, nil
}

// UpsertScan stores rec, replacing any earlier row for the same path.
func (s *Store) UpsertScan(ctx context.Context, rec *ScanRecord) error {
	stmt := `
	INSERT INTO scan_cache (
		path, size, mod_time, author, title, has_author, has_title, run_id, updated_ts
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE
	SET
		size = EXCLUDED.size,
		mod_time = EXCLUDED.mod_time,
		author = EXCLUDED.author,
		title = EXCLUDED.title,
		has_author = EXCLUDED.has_author,
		has_title = EXCLUDED.has_title,
		run_id = EXCLUDED.run_id,
		updated_ts = EXCLUDED.updated_ts`

	var author, title string
	if rec.Metadata.Author != nil {
		author = *rec.Metadata.Author
	}
	if rec.Metadata.Title != nil {
		title = *rec.Metadata.Title
	}
	if rec.UpdatedTs == 0 {
		rec.UpdatedTs = time.Now().Unix()
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin upsert scan")
	}
	if _, err := tx.ExecContext(ctx, stmt,
		rec.Path, rec.Size, rec.ModTime,
		author, title, rec.Metadata.Author != nil, rec.Metadata.Title != nil,
		rec.RunID, rec.UpdatedTs,
	); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "upsert scan %s", rec.Path)
	}
	return tx.Commit()
}

// CountScans returns the number of cached rows.
func (s *Store) CountScans(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scan_cache").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count scans")
	}
	return n, nil
}
