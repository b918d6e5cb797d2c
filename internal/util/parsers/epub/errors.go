package epub

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBadArchive: the zip container or one of its entries cannot be opened.
	ErrBadArchive = errors.New("bad archive structure")
	// ErrBadMetadata: container.xml or the OPF parse but do not hold what we need.
	ErrBadMetadata = errors.New("bad metadata structure")
	// ErrEntryNotFound is returned by OpenEntry for a missing entry.
	ErrEntryNotFound = errors.New("entry not found in archive")
)

// BadEPubFileError reports a structural problem with one book. Kind is
// ErrBadArchive or ErrBadMetadata; Path names the archive or the entry.
type BadEPubFileError struct {
	Kind   error
	Path   string
	Reason string
	Err    error
}

func (e *BadEPubFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

func (e *BadEPubFileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// XMLReadError is a markup error at Offset bytes into the entry Path.
type XMLReadError struct {
	Path   string
	Offset int64
	Err    error
}

func (e *XMLReadError) Error() string {
	return fmt.Sprintf("xml error at position %d in %s: %v", e.Offset, e.Path, e.Err)
}

func (e *XMLReadError) Unwrap() error {
	return e.Err
}

func badArchive(path, reason string, err error) error {
	return &BadEPubFileError{Kind: ErrBadArchive, Path: path, Reason: reason, Err: err}
}

func badMetadata(path, reason string) error {
	return &BadEPubFileError{Kind: ErrBadMetadata, Path: path, Reason: reason}
}
