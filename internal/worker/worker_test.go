package worker

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/Takashicc/repub/internal/model"
	"github.com/Takashicc/repub/internal/store"
	"github.com/Takashicc/repub/internal/store/db"
	"github.com/Takashicc/repub/internal/util/normalize"
	"github.com/Takashicc/repub/internal/util/parsers/epub"
	epub2 "github.com/go-shiori/go-epub"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const noRootfileXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles/>
</container>`

func contentOPF(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">` + inner + `</metadata>
</package>`
}

func writeZip(t *testing.T, path string, entries map[string]string) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ew, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if _, err := ew.Write([]byte(entries[name])); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return path
}

func writeBook(t *testing.T, path, inner string) string {
	t.Helper()
	return writeZip(t, path, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      contentOPF(inner),
	})
}

func createEpub(t *testing.T, path string) string {
	t.Helper()
	e, err := epub2.NewEpub("Test title")
	if err != nil {
		t.Fatalf("NewEpub() error = %v", err)
	}
	e.SetAuthor("Test author")
	if err := e.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return path
}

func runPool(t *testing.T, w Worker, size int, paths ...string) ([]string, Summary) {
	t.Helper()
	var buf bytes.Buffer
	pool := NewPool(context.Background(), size, w, NewLineWriter(&buf), "test-run")
	summary := pool.Run(model.NewJobList(model.JobTypeRename, paths))

	out := strings.TrimSuffix(buf.String(), "\n")
	if out == "" {
		return nil, summary
	}
	lines := strings.Split(out, "\n")
	sort.Strings(lines)
	return lines, summary
}

func TestRenameWorker(t *testing.T) {
	dir := t.TempDir()
	path := writeBook(t, filepath.Join(dir, "book.epub"),
		`<dc:title>ｘｘｘ（１）【完】</dc:title><dc:creator> 山田　太郎 </dc:creator>`)

	w := NewRenameWorker(normalize.New([]string{"【完】"}), nil, "test-run")
	line, err := w.Handle(context.Background(), model.Job{Path: path})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	expected := fmt.Sprintf(`rename "%s" "[山田 太郎]xxx 01.epub"`, path)
	if line != expected {
		t.Errorf("Handle() = %q, expected %q", line, expected)
	}
}

func TestRenameWorkerMissingField(t *testing.T) {
	path := writeBook(t, filepath.Join(t.TempDir(), "book.epub"), `<dc:title>only title</dc:title>`)

	w := NewRenameWorker(normalize.New(nil), nil, "test-run")
	_, err := w.Handle(context.Background(), model.Job{Path: path})
	if !errors.Is(err, model.ErrMissingAuthor) {
		t.Errorf("Handle() error = %v, expected %v", err, model.ErrMissingAuthor)
	}
}

// One broken archive must not stop the batch.
func TestPoolIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	broken := writeZip(t, filepath.Join(dir, "broken.epub"), map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": noRootfileXML,
	})
	valid := createEpub(t, filepath.Join(dir, "valid.epub"))

	_, err := ReadBookMetadata(broken)
	var badErr *epub.BadEPubFileError
	if !errors.As(err, &badErr) || !errors.Is(err, epub.ErrBadMetadata) || badErr.Path != epub.ContainerPath {
		t.Fatalf("ReadBookMetadata() error = %v, expected bad metadata in %s", err, epub.ContainerPath)
	}

	w := NewRenameWorker(normalize.New(nil), nil, "test-run")
	lines, summary := runPool(t, w, 2, broken, valid)

	if summary.Done != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, expected 1 done and 1 failed", summary)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
	if !strings.HasPrefix(lines[0], "error: "+broken+": ") || !strings.Contains(lines[0], "META-INF/container.xml") {
		t.Errorf("failure line = %q", lines[0])
	}
	expected := fmt.Sprintf(`rename "%s" "[Test author]Test title.epub"`, valid)
	if lines[1] != expected {
		t.Errorf("success line = %q, expected %q", lines[1], expected)
	}
}

func TestPoolConcurrentLines(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 40; i++ {
		paths = append(paths, writeBook(t, filepath.Join(dir, fmt.Sprintf("b%02d.epub", i)),
			fmt.Sprintf(`<dc:creator>a</dc:creator><dc:title>t %d</dc:title>`, i)))
	}
	paths = append(paths, filepath.Join(dir, "missing.epub"))

	w := NewRenameWorker(normalize.New(nil), nil, "test-run")
	lines, summary := runPool(t, w, 8, paths...)

	if len(lines) != len(paths) {
		t.Fatalf("expected %d lines, got %d", len(paths), len(lines))
	}
	if summary.Done != 40 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "rename \"") && !strings.HasPrefix(line, "error: ") {
			t.Errorf("interleaved or malformed line %q", line)
		}
	}
}

type panicWorker struct{}

func (panicWorker) Handle(_ context.Context, job model.Job) (string, error) {
	if strings.HasSuffix(job.Path, "bad") {
		panic("boom")
	}
	return "ok " + job.Path, nil
}

func TestPoolRecoversPanic(t *testing.T) {
	lines, summary := runPool(t, panicWorker{}, 2, "bad", "good")
	if summary.Done != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if len(lines) != 2 || lines[0] != "error: bad: panic: boom" || lines[1] != "ok good" {
		t.Errorf("lines = %q", lines)
	}
}

func TestPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	pool := NewPool(ctx, 1, panicWorker{}, NewLineWriter(&buf), "test-run")
	summary := pool.Run(model.NewJobList(model.JobTypeRename, []string{"good"}))
	if summary.Failed != 1 || !strings.HasPrefix(buf.String(), "error: good: ") {
		t.Errorf("summary = %+v, output = %q", summary, buf.String())
	}
}

func TestLineWriterConcurrent(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLineWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lw.WriteLine(strings.Repeat(fmt.Sprint(i%10), 100))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if len(line) != 100 || strings.Count(line, line[:1]) != 100 {
			t.Errorf("interleaved line %q", line)
		}
	}
}

func TestRenameWorkerCache(t *testing.T) {
	ctx := context.Background()
	d, err := db.NewDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	cache := store.NewStore(d.DB)
	defer cache.Close()

	path := writeBook(t, filepath.Join(t.TempDir(), "book.epub"),
		`<dc:creator>author</dc:creator><dc:title>title (新装版)</dc:title>`)

	first := NewRenameWorker(normalize.New(nil), cache, "run-1")
	if _, err := first.Handle(ctx, model.Job{Path: path}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if n, _ := cache.CountScans(ctx); n != 1 {
		t.Fatalf("CountScans() = %d, expected 1", n)
	}

	// raw metadata is cached, so a new character list still applies
	second := NewRenameWorker(normalize.New([]string{"(新装版)"}), cache, "run-2")
	line, err := second.Handle(ctx, model.Job{Path: path})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	expected := fmt.Sprintf(`rename "%s" "[author]title.epub"`, path)
	if line != expected {
		t.Errorf("Handle() = %q, expected %q", line, expected)
	}

	info, _ := os.Stat(path)
	rec, found, err := cache.FindScan(ctx, path, info.Size(), info.ModTime().UnixNano())
	if err != nil || !found {
		t.Fatalf("FindScan() found=%v err=%v", found, err)
	}
	if rec.RunID != "run-1" {
		t.Errorf("cache hit should keep the original run id, got %q", rec.RunID)
	}
}

func TestInfoWorker(t *testing.T) {
	dir := t.TempDir()
	comic := writeBook(t, filepath.Join(dir, "comic.epub"),
		`<meta content="comic" name="book-type"/><dc:title>t</dc:title>`)
	plain := writeBook(t, filepath.Join(dir, "plain.epub"), `<dc:title>t</dc:title>`)

	w := &InfoWorker{}
	tests := map[string]string{
		comic: fmt.Sprintf(`comic "%s"`, comic),
		plain: fmt.Sprintf(`None "%s"`, plain),
	}
	for path, expected := range tests {
		line, err := w.Handle(context.Background(), model.Job{Path: path})
		if err != nil {
			t.Fatalf("Handle(%s) error = %v", path, err)
		}
		if line != expected {
			t.Errorf("Handle() = %q, expected %q", line, expected)
		}
	}
}

func TestFixWorker(t *testing.T) {
	dir := t.TempDir()
	path := writeZip(t, filepath.Join(dir, "book.epub"), map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": containerXML,
		"OEBPS/p1.xhtml":         "<html><body>a&nbsp;b</body></html>",
	})

	w := NewFixWorker("output")
	for i, name := range []string{"book.epub", "book_1.epub"} {
		line, err := w.Handle(context.Background(), model.Job{Path: path})
		if err != nil {
			t.Fatalf("Handle() run %d error = %v", i, err)
		}
		dst := filepath.Join(dir, "output", name)
		if line != fmt.Sprintf(`fixed "%s" "%s"`, path, dst) {
			t.Errorf("Handle() = %q", line)
		}
		if _, err := os.Stat(dst); err != nil {
			t.Errorf("fixed book missing: %v", err)
		}
	}
}
