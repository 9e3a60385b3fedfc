package model

// Page represents a single extracted PDF page.
//
// A page carries either embedded text (RawText), OCR output (OCRText),
// or both when OCR ran over a page that also had low-quality embedded
// text. At least one of the two is always set by the time the page is
// added to an ExtractionResult.
type Page struct {
	Index    int    // 1-based page number
	RawText  string // embedded text, empty if none was extractable
	OCRText  string // OCR output, empty if OCR did not run
	Rotation int    // rotation angle (0, 90, 180, 270)
	Scanned  bool   // true if the page required OCR
}

// NewPage creates an empty page with the given index.
func NewPage(index int) Page {
	return Page{Index: index}
}

// Text returns the page text the pipeline settled on: OCR output for
// scanned pages, embedded text otherwise.
func (p Page) Text() string {
	if p.Scanned {
		return p.OCRText
	}
	return p.RawText
}
