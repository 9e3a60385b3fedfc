// Package pdfdoc provides read access to PDF files: the embedded text
// layer, positioned text fragments, page geometry, and page bitmaps
// recovered from embedded image XObjects.
//
// Two parsers cooperate. The text layer and positioned fragments come
// from ledongthuc/pdf; document structure, page attributes, metadata,
// and image streams come from pdfcpu. Both read the whole file at open
// time, so a Document is cheap to query afterwards.
package pdfdoc

import (
	"errors"
	"image"
)

// Fragment is a positioned run of text on a page, in PDF point
// coordinates with the origin at the bottom-left corner.
type Fragment struct {
	Text     string
	X, Y     float64
	Width    float64
	Font     string
	FontSize float64
}

// Line is a ruled line drawn on a page, in PDF point coordinates.
// Thin filled rectangles, the way most generators draw table borders,
// are reported as lines too.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Horizontal reports whether the line runs mostly left to right.
func (l Line) Horizontal() bool {
	return abs(l.X2-l.X1) >= abs(l.Y2-l.Y1)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Metadata holds document-level information from the PDF info
// dictionary. Fields the document does not declare are empty.
type Metadata struct {
	Title     string
	Author    string
	Subject   string
	Creator   string
	Producer  string
	PageCount int
}

// ErrNoPageImage is returned by Render when a page carries no image
// XObject to recover a bitmap from.
var ErrNoPageImage = errors.New("pdfdoc: page has no embedded image")

// Document is an open PDF. Page numbers are 1-based throughout.
// Implementations are safe for concurrent reads.
type Document interface {
	// Path returns the file path the document was opened from.
	Path() string

	// PageCount returns the number of pages.
	PageCount() int

	// EmbeddedText returns the page's digital text layer. Pages
	// without a text layer return the empty string, not an error.
	EmbeddedText(pageNr int) (string, error)

	// Fragments returns the page's positioned text runs.
	Fragments(pageNr int) ([]Fragment, error)

	// Lines returns the page's ruled lines.
	Lines(pageNr int) ([]Line, error)

	// Render recovers a page bitmap from the page's embedded images,
	// scaled so the page's width in points maps to the given DPI.
	// Pages without an embedded image return ErrNoPageImage.
	Render(pageNr, dpi int) (image.Image, error)

	// Rotation returns the page's /Rotate attribute in degrees.
	Rotation(pageNr int) int

	// MediaBox returns the page width and height in points.
	MediaBox(pageNr int) (w, h float64, err error)

	// Metadata returns document-level metadata.
	Metadata() Metadata

	// Close releases the document's resources.
	Close() error
}

// Opener opens a PDF by path. Workers that process pages in separate
// goroutines use an Opener to get their own Document instance.
type Opener func(path string) (Document, error)
