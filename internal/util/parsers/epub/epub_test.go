package epub

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	epub2 "github.com/go-shiori/go-epub"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>ｔｅｓｔ（１）</dc:title>
    <dc:creator>作者</dc:creator>
    <meta name="book-type" content="comic"/>
  </metadata>
</package>`

type entry struct {
	name    string
	content string
}

// writeZip writes entries in order; mimetype is always stored.
func writeZip(t *testing.T, path string, entries ...entry) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		method := zip.Deflate
		if e.name == "mimetype" {
			method = zip.Store
		}
		ew, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: method})
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		if _, err := ew.Write([]byte(e.content)); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return path
}

func createEpub(n string) error {
	e, err := epub2.NewEpub("Test title")
	if err != nil {
		return err
	}
	e.SetAuthor("Test author")
	return e.Write(n)
}

func TestEpub(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.epub")
	if err := createEpub(path); err != nil {
		t.Fatal(err)
	}

	a, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	rootfile, err := RootfilePath(a)
	if err != nil {
		t.Fatalf("RootfilePath() error = %v", err)
	}
	if rootfile != "EPUB/package.opf" {
		t.Errorf("invalid rootfile: %s", rootfile)
	}

	meta, err := ReadMetadata(a, rootfile)
	if err != nil {
		t.Fatalf("ReadMetadata() error = %v", err)
	}
	if meta.Title == nil || *meta.Title != "Test title" {
		t.Errorf("invalid title: %v", meta.Title)
	}
	if meta.Author == nil || *meta.Author != "Test author" {
		t.Errorf("invalid author: %v", meta.Author)
	}
}

func TestArchive(t *testing.T) {
	path := writeZip(t, filepath.Join(t.TempDir(), "book.epub"),
		entry{"mimetype", "application/epub+zip"},
		entry{ContainerPath, containerXML},
		entry{"OEBPS/content.opf", contentOPF},
	)

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer a.Close()

	files := a.Files()
	if len(files) != 3 || files[0] != "mimetype" {
		t.Errorf("Files() = %v", files)
	}

	if _, err := a.OpenEntry("OEBPS/missing.xhtml"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
	// lookup is exact, no path cleaning
	if _, err := a.OpenEntry("./OEBPS/content.opf"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	rootfile, err := RootfilePath(a)
	if err != nil {
		t.Fatalf("RootfilePath() error = %v", err)
	}
	meta, err := ReadMetadata(a, rootfile)
	if err != nil {
		t.Fatalf("ReadMetadata() error = %v", err)
	}
	if *meta.Title != "ｔｅｓｔ（１）" || *meta.Author != "作者" {
		t.Errorf("unexpected metadata: %q / %q", *meta.Title, *meta.Author)
	}

	bookType, ok, err := ReadBookType(a, rootfile)
	if err != nil || !ok || bookType != "comic" {
		t.Errorf("ReadBookType() = %q, %v, %v", bookType, ok, err)
	}
}

func TestOpenInvalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "missing.epub")); !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive for missing file, got %v", err)
	}

	notZip := filepath.Join(dir, "plain.epub")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(notZip)
	if !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive for non-zip, got %v", err)
	}
	if !errors.Is(err, zip.ErrFormat) {
		t.Errorf("expected wrapped zip.ErrFormat, got %v", err)
	}
}

func TestMissingEntries(t *testing.T) {
	dir := t.TempDir()

	noContainer := writeZip(t, filepath.Join(dir, "no_container.epub"),
		entry{"mimetype", "application/epub+zip"},
	)
	a, err := Open(noContainer)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	_, err = RootfilePath(a)
	var badErr *BadEPubFileError
	if !errors.As(err, &badErr) {
		t.Fatalf("expected BadEPubFileError, got %v", err)
	}
	if badErr.Kind != ErrBadArchive || badErr.Path != ContainerPath {
		t.Errorf("unexpected error: %+v", badErr)
	}
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expected wrapped ErrEntryNotFound, got %v", err)
	}

	noOPF := writeZip(t, filepath.Join(dir, "no_opf.epub"),
		entry{"mimetype", "application/epub+zip"},
		entry{ContainerPath, containerXML},
	)
	b, err := Open(noOPF)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	rootfile, err := RootfilePath(b)
	if err != nil {
		t.Fatalf("RootfilePath() error = %v", err)
	}
	if _, err := ReadMetadata(b, rootfile); !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive, got %v", err)
	}
	if _, _, err := ReadBookType(b, rootfile); !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive, got %v", err)
	}
}
