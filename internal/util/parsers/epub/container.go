package epub

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

// ContainerPath is the fixed entry naming the package document.
const ContainerPath = "META-INF/container.xml"

// RootfilePath returns the full-path of the first rootfile listed in
// META-INF/container.xml.
func RootfilePath(a EntryOpener) (string, error) {
	rc, err := a.OpenEntry(ContainerPath)
	if err != nil {
		return "", badArchive(ContainerPath, "cannot find META-INF/container.xml", err)
	}
	defer rc.Close()

	return parseRootfile(rc, ContainerPath)
}

func parseRootfile(r io.Reader, path string) (string, error) {
	tr := newTokenReader(r, path)
	for {
		tok, err := tr.next()
		if errors.Is(err, io.EOF) {
			return "", badMetadata(path, "cannot find rootfile")
		}
		if err != nil {
			return "", err
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "rootfile" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Space == "" && attr.Name.Local == "full-path" {
				if attr.Value == "" {
					return "", badMetadata(path, "empty full-path attribute")
				}
				return attr.Value, nil
			}
		}
		return "", badMetadata(path, "cannot find full-path attribute")
	}
}
