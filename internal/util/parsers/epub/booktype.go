package epub

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

// ReadBookType returns the content of <meta name="book-type" content="...">
// in the package document. ok is false when there is none.
func ReadBookType(a EntryOpener, opfPath string) (bookType string, ok bool, err error) {
	rc, err := a.OpenEntry(opfPath)
	if err != nil {
		return "", false, badArchive(opfPath, "cannot open rootfile in epub", err)
	}
	defer rc.Close()

	tr := newTokenReader(rc, opfPath)
	for {
		tok, err := tr.next()
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}

		se, isStart := tok.(xml.StartElement)
		if !isStart || se.Name.Local != "meta" {
			continue
		}
		if v, found := bookTypeAttr(se.Attr); found {
			return v, true, nil
		}
	}
}

func bookTypeAttr(attrs []xml.Attr) (string, bool) {
	var name, content string
	var hasContent bool
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "name":
			name = attr.Value
		case "content":
			content = attr.Value
			hasContent = true
		}
	}
	if name == "book-type" && hasContent {
		return content, true
	}
	return "", false
}
