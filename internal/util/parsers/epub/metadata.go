package epub

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/Takashicc/repub/internal/model"
	"github.com/pkg/errors"
)

const (
	creatorElement = "dc:creator"
	titleElement   = "dc:title"
)

// ReadMetadata streams the package document at opfPath and returns the first
// dc:creator and dc:title. Missing elements are left nil.
func ReadMetadata(a EntryOpener, opfPath string) (*model.BookMetadata, error) {
	rc, err := a.OpenEntry(opfPath)
	if err != nil {
		return nil, badArchive(opfPath, "cannot open rootfile in epub", err)
	}
	defer rc.Close()

	return parseMetadata(rc, opfPath)
}

func parseMetadata(r io.Reader, path string) (*model.BookMetadata, error) {
	meta := &model.BookMetadata{}
	tr := newTokenReader(r, path)
	for !meta.IsFilled() {
		tok, err := tr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch name := qualifiedName(se.Name); name {
		case creatorElement:
			text, err := tr.elementText(name)
			if err != nil {
				return nil, err
			}
			meta.SetAuthor(text)
		case titleElement:
			text, err := tr.elementText(name)
			if err != nil {
				return nil, err
			}
			meta.SetTitle(text)
		}
	}

	return meta, nil
}

// elementText returns the first non-blank text after the current start
// element, trimmed, or "" when the element closes first.
func (t *tokenReader) elementText(name string) (string, error) {
	for {
		tok, err := t.next()
		if errors.Is(err, io.EOF) {
			return "", t.unexpectedEOF()
		}
		if err != nil {
			return "", err
		}

		switch tok := tok.(type) {
		case xml.CharData:
			if text := strings.TrimSpace(string(tok)); text != "" {
				return text, nil
			}
		case xml.EndElement:
			if qualifiedName(tok.Name) == name {
				return "", nil
			}
		}
	}
}
