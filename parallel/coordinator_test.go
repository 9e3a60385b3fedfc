package parallel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/osanmartin/escriba/pdfdoc"
)

// stubDocument satisfies pdfdoc.Document for coordinator tests; only
// PageCount and Close matter here, the page work happens in PageFunc.
type stubDocument struct {
	path   string
	pages  int
	closed *atomic.Int32
}

func (d *stubDocument) Path() string                             { return d.path }
func (d *stubDocument) PageCount() int                           { return d.pages }
func (d *stubDocument) EmbeddedText(int) (string, error)         { return "", nil }
func (d *stubDocument) Fragments(int) ([]pdfdoc.Fragment, error) { return nil, nil }
func (d *stubDocument) Lines(int) ([]pdfdoc.Line, error)         { return nil, nil }
func (d *stubDocument) Render(int, int) (image.Image, error)     { return nil, pdfdoc.ErrNoPageImage }
func (d *stubDocument) Rotation(int) int                         { return 0 }
func (d *stubDocument) MediaBox(int) (float64, float64, error)   { return 612, 792, nil }
func (d *stubDocument) Metadata() pdfdoc.Metadata                { return pdfdoc.Metadata{} }
func (d *stubDocument) Close() error {
	if d.closed != nil {
		d.closed.Add(1)
	}
	return nil
}

func stubOpener(opens, closes *atomic.Int32) pdfdoc.Opener {
	return func(path string) (pdfdoc.Document, error) {
		opens.Add(1)
		return &stubDocument{path: path, pages: 8, closed: closes}, nil
	}
}

func TestRun_PreservesPageOrder(t *testing.T) {
	var opens, closes atomic.Int32
	c := New(stubOpener(&opens, &closes), 4, nil)

	fn := func(doc pdfdoc.Document, pageNr int) (PageText, error) {
		// Stall an early page so later pages finish first.
		if pageNr == 3 {
			time.Sleep(50 * time.Millisecond)
		}
		return PageText{Text: fmt.Sprintf("page %d of %s", pageNr, doc.Path())}, nil
	}

	pages, err := c.Run(context.Background(), "doc.pdf", 8, fn)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pages) != 8 {
		t.Fatalf("got %d pages, want 8", len(pages))
	}
	for i, page := range pages {
		want := fmt.Sprintf("page %d of doc.pdf", i+1)
		if page.Text != want {
			t.Errorf("pages[%d].Text = %q, want %q", i, page.Text, want)
		}
	}
}

func TestRun_OneDocumentPerWorker(t *testing.T) {
	var opens, closes atomic.Int32
	c := New(stubOpener(&opens, &closes), 3, nil)

	fn := func(doc pdfdoc.Document, pageNr int) (PageText, error) {
		time.Sleep(5 * time.Millisecond)
		return PageText{Text: "ok"}, nil
	}
	if _, err := c.Run(context.Background(), "doc.pdf", 8, fn); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := opens.Load(); got != 3 {
		t.Errorf("document opened %d times, want once per worker (3)", got)
	}
	if got := closes.Load(); got != 3 {
		t.Errorf("document closed %d times, want 3", got)
	}
}

func TestRun_FailedPageGetsPlaceholder(t *testing.T) {
	var opens, closes atomic.Int32
	c := New(stubOpener(&opens, &closes), 2, nil)

	fn := func(doc pdfdoc.Document, pageNr int) (PageText, error) {
		if pageNr == 2 {
			return PageText{}, errors.New("tesseract choked")
		}
		return PageText{Text: "fine"}, nil
	}

	pages, err := c.Run(context.Background(), "doc.pdf", 3, fn)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pages[1].Text != "[ERROR ON PAGE 2]" {
		t.Errorf("pages[1].Text = %q, want placeholder", pages[1].Text)
	}
	if pages[0].Text != "fine" || pages[2].Text != "fine" {
		t.Errorf("healthy pages affected: %+v", pages)
	}
}

func TestRun_EmptyScannedPageIsNotAFailure(t *testing.T) {
	var opens, closes atomic.Int32
	c := New(stubOpener(&opens, &closes), 2, nil)

	fn := func(doc pdfdoc.Document, pageNr int) (PageText, error) {
		if pageNr == 1 {
			// OCR came back empty; still a successful page.
			return PageText{Scanned: true}, nil
		}
		return PageText{Text: "fine"}, nil
	}

	pages, err := c.Run(context.Background(), "doc.pdf", 2, fn)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pages[0].Text != "" || !pages[0].Scanned {
		t.Errorf("pages[0] = %+v, want empty scanned page kept as is", pages[0])
	}
	if pages[1].Text != "fine" {
		t.Errorf("pages[1].Text = %q", pages[1].Text)
	}
}

func TestRun_PanickingPageGetsPlaceholder(t *testing.T) {
	var opens, closes atomic.Int32
	c := New(stubOpener(&opens, &closes), 2, nil)

	fn := func(doc pdfdoc.Document, pageNr int) (PageText, error) {
		if pageNr == 1 {
			panic("index out of range")
		}
		return PageText{Text: "fine"}, nil
	}

	pages, err := c.Run(context.Background(), "doc.pdf", 2, fn)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pages[0].Text != "[ERROR ON PAGE 1]" {
		t.Errorf("pages[0].Text = %q, want placeholder", pages[0].Text)
	}
}

func TestRun_AllPagesFailed(t *testing.T) {
	var opens, closes atomic.Int32
	c := New(stubOpener(&opens, &closes), 2, nil)

	fn := func(doc pdfdoc.Document, pageNr int) (PageText, error) {
		return PageText{}, errors.New("nope")
	}

	if _, err := c.Run(context.Background(), "doc.pdf", 4, fn); err == nil {
		t.Fatal("Run succeeded with every page failed")
	}
}

func TestRun_OpenerFailure(t *testing.T) {
	open := func(path string) (pdfdoc.Document, error) {
		return nil, errors.New("file vanished")
	}
	c := New(open, 2, nil)

	fn := func(doc pdfdoc.Document, pageNr int) (PageText, error) {
		return PageText{Text: "never reached"}, nil
	}
	if _, err := c.Run(context.Background(), "doc.pdf", 2, fn); err == nil {
		t.Fatal("Run succeeded although no worker could open the document")
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	var opens, closes atomic.Int32
	c := New(stubOpener(&opens, &closes), 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx, "doc.pdf", 4, func(doc pdfdoc.Document, pageNr int) (PageText, error) {
		return PageText{Text: "ok"}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRun_NoPages(t *testing.T) {
	var opens, closes atomic.Int32
	c := New(stubOpener(&opens, &closes), 2, nil)

	if _, err := c.Run(context.Background(), "doc.pdf", 0, nil); err == nil {
		t.Fatal("Run accepted a zero-page document")
	}
}

func TestPlaceholder(t *testing.T) {
	if got := Placeholder(7); !strings.Contains(got, "ERROR ON PAGE 7") {
		t.Errorf("Placeholder(7) = %q", got)
	}
}
