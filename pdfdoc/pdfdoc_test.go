package pdfdoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/osanmartin/escriba/internal/testpdf"
)

func writeFixture(t *testing.T, pages ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := os.WriteFile(path, testpdf.Build(pages...), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestOpen_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("Open accepted a non-PDF file")
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Fatal("Open accepted a missing file")
	}
}

func TestDocument_PageCountAndText(t *testing.T) {
	path := writeFixture(t, "Hello World", "Second page text")

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if got := doc.PageCount(); got != 2 {
		t.Fatalf("PageCount = %d, want 2", got)
	}

	text, err := doc.EmbeddedText(1)
	if err != nil {
		t.Fatalf("EmbeddedText(1): %v", err)
	}
	if !strings.Contains(text, "Hello World") {
		t.Errorf("page 1 text = %q", text)
	}

	text, err = doc.EmbeddedText(2)
	if err != nil {
		t.Fatalf("EmbeddedText(2): %v", err)
	}
	if !strings.Contains(text, "Second page text") {
		t.Errorf("page 2 text = %q", text)
	}
}

func TestDocument_PageOutOfRange(t *testing.T) {
	doc, err := Open(writeFixture(t, "only page"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	for _, pageNr := range []int{0, 2, -1} {
		if _, err := doc.EmbeddedText(pageNr); err == nil {
			t.Errorf("EmbeddedText(%d) accepted out-of-range page", pageNr)
		}
	}
}

func TestDocument_Fragments(t *testing.T) {
	doc, err := Open(writeFixture(t, "Hello World"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	fragments, err := doc.Fragments(1)
	if err != nil {
		t.Fatalf("Fragments: %v", err)
	}
	if len(fragments) == 0 {
		t.Fatal("no fragments on a page with text")
	}

	var joined strings.Builder
	for _, f := range fragments {
		joined.WriteString(f.Text)
	}
	if !strings.Contains(joined.String(), "Hello World") {
		t.Errorf("fragments spell %q", joined.String())
	}
	if fragments[0].Font == "" {
		t.Error("fragment carries no font name")
	}
}

func TestDocument_LinesOnPlainPage(t *testing.T) {
	doc, err := Open(writeFixture(t, "no rules here"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	lines, err := doc.Lines(1)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("got %d lines on a page without rules", len(lines))
	}
}

func TestDocument_Geometry(t *testing.T) {
	doc, err := Open(writeFixture(t, "page"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if got := doc.Rotation(1); got != 0 {
		t.Errorf("Rotation = %d, want 0", got)
	}

	w, h, err := doc.MediaBox(1)
	if err != nil {
		t.Fatalf("MediaBox: %v", err)
	}
	if w != 612 || h != 792 {
		t.Errorf("MediaBox = %gx%g, want 612x792", w, h)
	}
}

func TestDocument_RenderWithoutImages(t *testing.T) {
	doc, err := Open(writeFixture(t, "digital text only"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if _, err := doc.Render(1, 300); !errors.Is(err, ErrNoPageImage) {
		t.Errorf("Render on text-only page: err = %v, want ErrNoPageImage", err)
	}
}

func TestDocument_Metadata(t *testing.T) {
	doc, err := Open(writeFixture(t, "a", "b", "c"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	meta := doc.Metadata()
	if meta.PageCount != 3 {
		t.Errorf("Metadata.PageCount = %d, want 3", meta.PageCount)
	}
	if meta.Title != "" {
		t.Errorf("fixture has no info dict, got title %q", meta.Title)
	}
}

func TestDocument_Close(t *testing.T) {
	doc, err := Open(writeFixture(t, "page"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
