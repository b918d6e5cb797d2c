package model //import "github.com/Takashicc/repub/internal/model"

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAuthor = errors.New("author not found in metadata")
	ErrMissingTitle  = errors.New("title not found in metadata")
)

// BookMetadata holds the Dublin Core fields a book is renamed by. A nil
// field means no matching element was seen; an empty string means the
// element was present but empty.
type BookMetadata struct {
	Author *string `json:"author"`
	Title  *string `json:"title"`
}

// IsFilled reports whether both fields have been set.
func (m *BookMetadata) IsFilled() bool {
	return m.Author != nil && m.Title != nil
}

// SetAuthor keeps the first author seen.
func (m *BookMetadata) SetAuthor(author string) {
	if m.Author == nil {
		m.Author = &author
	}
}

// SetTitle keeps the first title seen.
func (m *BookMetadata) SetTitle(title string) {
	if m.Title == nil {
		m.Title = &title
	}
}

// SuggestedName returns "[author]title.epub".
func (m *BookMetadata) SuggestedName() (string, error) {
	if m.Author == nil {
		return "", ErrMissingAuthor
	}
	if m.Title == nil {
		return "", ErrMissingTitle
	}
	return fmt.Sprintf("[%s]%s.epub", *m.Author, *m.Title), nil
}

// RenameCommand is the line reported for a successfully processed book.
func RenameCommand(original, suggested string) string {
	return fmt.Sprintf(`rename "%s" "%s"`, original, suggested)
}
