package model

import "fmt"

// ExtractionResult accumulates the pages and tables recovered from one
// PDF. It is built incrementally by the pipeline and finalized once;
// assembly never reorders pages or tables.
type ExtractionResult struct {
	Pages     []Page
	Tables    []TableRegion
	TitleStem string

	finalized bool
}

// NewExtractionResult creates an empty result for the given title stem
// (the source filename without extension).
func NewExtractionResult(titleStem string) *ExtractionResult {
	return &ExtractionResult{TitleStem: titleStem}
}

// AddPage appends a page, enforcing that indices stay contiguous and
// 1-based.
func (r *ExtractionResult) AddPage(p Page) error {
	if r.finalized {
		return fmt.Errorf("result already finalized")
	}
	want := len(r.Pages) + 1
	if p.Index != want {
		return fmt.Errorf("page index %d out of sequence, expected %d", p.Index, want)
	}
	if p.RawText == "" && p.OCRText == "" && !p.Scanned {
		return fmt.Errorf("page %d has neither embedded nor OCR text", p.Index)
	}
	r.Pages = append(r.Pages, p)
	return nil
}

// AddTable appends a table region, enforcing that it references an
// existing page and that page order is preserved.
func (r *ExtractionResult) AddTable(t TableRegion) error {
	if r.finalized {
		return fmt.Errorf("result already finalized")
	}
	if t.PageIndex < 1 || t.PageIndex > len(r.Pages) {
		return fmt.Errorf("table references page %d, document has %d pages", t.PageIndex, len(r.Pages))
	}
	if n := len(r.Tables); n > 0 && t.PageIndex < r.Tables[n-1].PageIndex {
		return fmt.Errorf("table for page %d appended after page %d", t.PageIndex, r.Tables[n-1].PageIndex)
	}
	r.Tables = append(r.Tables, t)
	return nil
}

// Finalize marks the result immutable. Further Add calls fail.
func (r *ExtractionResult) Finalize() {
	r.finalized = true
}

// PageCount returns the number of pages added so far.
func (r *ExtractionResult) PageCount() int {
	return len(r.Pages)
}
