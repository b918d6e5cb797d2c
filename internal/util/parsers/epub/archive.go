package epub // import "github.com/Takashicc/repub/internal/util/parsers/epub"

import (
	"archive/zip"
	"io"

	"github.com/pkg/errors"
)

// EntryOpener opens a named entry inside an archive.
type EntryOpener interface {
	OpenEntry(name string) (io.ReadCloser, error)
}

// Archive is an opened epub container. It is not safe for concurrent use;
// each worker opens its own.
type Archive struct {
	Path string

	fd *zip.ReadCloser
}

// Open opens the zip container at path.
func Open(path string) (*Archive, error) {
	fd, err := zip.OpenReader(path)
	if err != nil {
		return nil, badArchive(path, "cannot open epub container", err)
	}
	return &Archive{Path: path, fd: fd}, nil
}

// OpenEntry opens the entry whose name matches exactly.
func (a *Archive) OpenEntry(name string) (io.ReadCloser, error) {
	f := a.lookup(name)
	if f == nil {
		return nil, errors.Wrap(ErrEntryNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	return rc, nil
}

// Files returns the names of all entries in archive order.
func (a *Archive) Files() []string {
	var files []string
	for _, f := range a.fd.File {
		files = append(files, f.Name)
	}
	return files
}

// Close closes the epub file
func (a *Archive) Close() error {
	return a.fd.Close()
}

func (a *Archive) lookup(name string) *zip.File {
	for _, f := range a.fd.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}
