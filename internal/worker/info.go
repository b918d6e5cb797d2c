package worker

import (
	"context"
	"fmt"

	"github.com/Takashicc/repub/internal/model"
	"github.com/Takashicc/repub/internal/util/parsers/epub"
)

const noBookType = "None"

// InfoWorker reports the book-type declared in a book's package document.
type InfoWorker struct{}

func (w *InfoWorker) Handle(_ context.Context, job model.Job) (string, error) {
	a, err := epub.Open(job.Path)
	if err != nil {
		return "", err
	}
	defer a.Close()

	opfPath, err := epub.RootfilePath(a)
	if err != nil {
		return "", err
	}
	bookType, ok, err := epub.ReadBookType(a, opfPath)
	if err != nil {
		return "", err
	}
	if !ok {
		bookType = noBookType
	}
	return fmt.Sprintf(`%s "%s"`, bookType, job.Path), nil
}
