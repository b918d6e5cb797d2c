package epub

import (
	"archive/zip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const xhtmlHead = `<?xml version="1.0" encoding="utf-8"?><!DOCTYPE html>` +
	`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" xml:lang="ja" lang="ja">`

var xhtmlFixer = strings.NewReplacer(
	"&nbsp;", "&#160;",
	"<html>", xhtmlHead,
)

// FixContent patches XHTML that strict readers reject: the HTML-only
// &nbsp; entity and a bare <html> root without declaration or namespace.
func FixContent(content string) string {
	return xhtmlFixer.Replace(content)
}

// Fix copies the archive at src to dst, running FixContent over every
// .xhtml entry. Other entries are copied without recompression. dst is
// removed if anything fails.
func Fix(src, dst string) (err error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return badArchive(src, "cannot open epub container", err)
	}
	defer zr.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "create %s", dst)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", dst)
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	zw := zip.NewWriter(out)
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xhtml") {
			if err := zw.Copy(f); err != nil {
				return errors.Wrapf(err, "copy %s", f.Name)
			}
			continue
		}
		if err := fixEntry(zw, f); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrapf(err, "finish %s", dst)
	}
	return nil
}

func fixEntry(zw *zip.Writer, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return badArchive(f.Name, "cannot open entry", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return badArchive(f.Name, "cannot read entry", err)
	}

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     f.Name,
		Method:   zip.Deflate,
		Modified: f.Modified,
	})
	if err != nil {
		return errors.Wrapf(err, "create %s", f.Name)
	}
	if _, err := io.WriteString(w, FixContent(string(content))); err != nil {
		return errors.Wrapf(err, "write %s", f.Name)
	}
	return nil
}
