package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Takashicc/repub/internal/model"
	"github.com/Takashicc/repub/internal/util"
	"github.com/Takashicc/repub/internal/util/parsers/epub"
	"github.com/pkg/errors"
)

// FixWorker writes a patched copy of each book to outputDir. A relative
// outputDir is resolved against the directory of the book.
type FixWorker struct {
	outputDir string
}

func NewFixWorker(outputDir string) *FixWorker {
	return &FixWorker{outputDir: outputDir}
}

func (w *FixWorker) Handle(_ context.Context, job model.Job) (string, error) {
	dir := w.outputDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(job.Path), dir)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Wrapf(err, "create output directory %s", dir)
	}

	dst := util.GenerateNewFileName(filepath.Join(dir, filepath.Base(job.Path)))
	if err := epub.Fix(job.Path, dst); err != nil {
		return "", err
	}
	return fmt.Sprintf(`fixed "%s" "%s"`, job.Path, dst), nil
}
