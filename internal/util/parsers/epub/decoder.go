package epub

import (
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
)

// tokenReader is a forward-only cursor over raw XML tokens. Names are left
// unresolved so "dc:title" matches by its literal prefix, and end tags are
// not checked against start tags.
type tokenReader struct {
	d    *xml.Decoder
	path string
}

func newTokenReader(r io.Reader, path string) *tokenReader {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	return &tokenReader{d: d, path: path}
}

// next returns io.EOF at the end of the document; anything else the decoder
// rejects becomes an XMLReadError carrying the byte offset.
func (t *tokenReader) next() (xml.Token, error) {
	tok, err := t.d.RawToken()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, &XMLReadError{Path: t.path, Offset: t.d.InputOffset(), Err: err}
	}
	return tok, nil
}

// unexpectedEOF reports a document that ended inside an element.
func (t *tokenReader) unexpectedEOF() error {
	return &XMLReadError{Path: t.path, Offset: t.d.InputOffset(), Err: io.ErrUnexpectedEOF}
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
