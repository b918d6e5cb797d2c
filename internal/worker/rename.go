package worker

import (
	"context"
	"os"

	"github.com/Takashicc/repub/internal/log"
	"github.com/Takashicc/repub/internal/model"
	"github.com/Takashicc/repub/internal/store"
	"github.com/Takashicc/repub/internal/util/normalize"
	"github.com/Takashicc/repub/internal/util/parsers/epub"
	"go.uber.org/zap"
)

// RenameWorker extracts the author and title of a book and reports the
// normalized name as a rename command.
type RenameWorker struct {
	normalizer *normalize.Normalizer
	cache      *store.Store
	runID      string
}

// NewRenameWorker returns a RenameWorker. cache may be nil.
func NewRenameWorker(normalizer *normalize.Normalizer, cache *store.Store, runID string) *RenameWorker {
	return &RenameWorker{normalizer: normalizer, cache: cache, runID: runID}
}

func (w *RenameWorker) Handle(ctx context.Context, job model.Job) (string, error) {
	raw, err := w.metadata(ctx, job.Path)
	if err != nil {
		return "", err
	}

	normalized := w.normalizer.Metadata(*raw)
	name, err := normalized.SuggestedName()
	if err != nil {
		return "", err
	}
	return model.RenameCommand(job.Path, name), nil
}

// metadata returns the raw metadata of path, from the cache when the file
// has not changed since it was stored.
func (w *RenameWorker) metadata(ctx context.Context, path string) (*model.BookMetadata, error) {
	if w.cache == nil {
		return ReadBookMetadata(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return ReadBookMetadata(path)
	}
	size, modTime := info.Size(), info.ModTime().UnixNano()

	rec, found, err := w.cache.FindScan(ctx, path, size, modTime)
	if err != nil {
		log.Warn("Scan cache lookup failed", zap.String("path", path), zap.Error(err))
	} else if found {
		log.Debug("Scan cache hit", zap.String("path", path), zap.String("cached_run_id", rec.RunID))
		return &rec.Metadata, nil
	}

	meta, err := ReadBookMetadata(path)
	if err != nil {
		return nil, err
	}

	if err := w.cache.UpsertScan(ctx, &store.ScanRecord{
		Path:     path,
		Size:     size,
		ModTime:  modTime,
		Metadata: *meta,
		RunID:    w.runID,
	}); err != nil {
		log.Warn("Scan cache update failed", zap.String("path", path), zap.Error(err))
	}
	return meta, nil
}

// ReadBookMetadata opens the archive at path, resolves its rootfile and
// extracts the raw Dublin Core author and title.
func ReadBookMetadata(path string) (*model.BookMetadata, error) {
	a, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	opfPath, err := epub.RootfilePath(a)
	if err != nil {
		return nil, err
	}
	return epub.ReadMetadata(a, opfPath)
}
