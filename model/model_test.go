package model

import (
	"strings"
	"testing"
)

func TestNewBBox_NormalizesCorners(t *testing.T) {
	b := NewBBox(100, 80, 20, 10)
	if b.X1 != 20 || b.Y1 != 10 || b.X2 != 100 || b.Y2 != 80 {
		t.Errorf("unexpected box: %+v", b)
	}
	if b.Width() != 80 {
		t.Errorf("expected width 80, got %d", b.Width())
	}
	if b.Height() != 70 {
		t.Errorf("expected height 70, got %d", b.Height())
	}
}

func TestBBox_Intersects(t *testing.T) {
	a := NewBBox(0, 0, 100, 100)

	tests := []struct {
		name string
		b    BBox
		want bool
	}{
		{"overlapping", NewBBox(50, 50, 150, 150), true},
		{"contained", NewBBox(10, 10, 20, 20), true},
		{"disjoint", NewBBox(200, 200, 300, 300), false},
		{"edge touching", NewBBox(100, 0, 200, 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestPage_Text(t *testing.T) {
	p := NewPage(1)
	p.RawText = "embedded"
	p.OCRText = "recognized"

	if got := p.Text(); got != "embedded" {
		t.Errorf("digital page text = %q, want embedded text", got)
	}

	p.Scanned = true
	if got := p.Text(); got != "recognized" {
		t.Errorf("scanned page text = %q, want OCR text", got)
	}
}

func TestExtractionResult_PageOrdering(t *testing.T) {
	r := NewExtractionResult("doc")

	p1 := NewPage(1)
	p1.RawText = "one"
	if err := r.AddPage(p1); err != nil {
		t.Fatalf("AddPage(1): %v", err)
	}

	p3 := NewPage(3)
	p3.RawText = "three"
	if err := r.AddPage(p3); err == nil {
		t.Error("expected error adding page 3 after page 1")
	}

	p2 := NewPage(2)
	p2.RawText = "two"
	if err := r.AddPage(p2); err != nil {
		t.Fatalf("AddPage(2): %v", err)
	}
}

func TestExtractionResult_TableMustReferencePage(t *testing.T) {
	r := NewExtractionResult("doc")
	p := NewPage(1)
	p.RawText = "text"
	if err := r.AddPage(p); err != nil {
		t.Fatal(err)
	}

	if err := r.AddTable(TableRegion{PageIndex: 2}); err == nil {
		t.Error("expected error for table referencing missing page")
	}
	if err := r.AddTable(TableRegion{PageIndex: 1}); err != nil {
		t.Errorf("AddTable(page 1): %v", err)
	}
}

func TestExtractionResult_FinalizeBlocksWrites(t *testing.T) {
	r := NewExtractionResult("doc")
	p := NewPage(1)
	p.RawText = "text"
	if err := r.AddPage(p); err != nil {
		t.Fatal(err)
	}

	r.Finalize()

	p2 := NewPage(2)
	p2.RawText = "late"
	if err := r.AddPage(p2); err == nil {
		t.Error("expected error adding page after Finalize")
	}
}

func TestGridToMarkdown_PadsAndTruncatesToHeader(t *testing.T) {
	rows := [][]string{
		{"Name", "Amount"},
		{"Rent", "1200", "extra"},
		{"Food"},
	}

	md := GridToMarkdown(rows)
	lines := strings.Split(md, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), md)
	}
	if lines[0] != "| Name | Amount |" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "|---|---|" {
		t.Errorf("separator = %q", lines[1])
	}
	if strings.Contains(lines[2], "extra") {
		t.Errorf("row not truncated to header width: %q", lines[2])
	}
	if lines[3] != "| Food |  |" {
		t.Errorf("short row not padded: %q", lines[3])
	}
}

func TestGridToMarkdown_EscapesPipes(t *testing.T) {
	md := GridToMarkdown([][]string{{"a|b"}, {"c"}})
	if !strings.Contains(md, `a\|b`) {
		t.Errorf("pipe not escaped: %q", md)
	}
}
