package model

import "strings"

// SourceBackend identifies which extraction backend produced a table.
type SourceBackend int

const (
	// BackendLattice is the structured parser for tables with visible
	// ruling lines.
	BackendLattice SourceBackend = iota

	// BackendStream is the structured parser for tables aligned by
	// whitespace, without visible rules.
	BackendStream

	// BackendOCRRegion is the OCR-based parser used on scanned pages.
	BackendOCRRegion

	// BackendGeneric is the position-based cell extractor used as the
	// last fallback for digital pages.
	BackendGeneric
)

// String returns the backend's identifier.
func (b SourceBackend) String() string {
	switch b {
	case BackendLattice:
		return "lattice"
	case BackendStream:
		return "stream"
	case BackendOCRRegion:
		return "ocr-region"
	case BackendGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// TableRegion represents one table recovered from a page.
// Regions are read-only once appended to an ExtractionResult.
type TableRegion struct {
	PageIndex  int           // 1-based page the table was found on
	BBox       BBox          // location in render pixels
	Backend    SourceBackend // backend that produced the table
	Markdown   string        // pipe-table markdown
	Confidence float64       // detection confidence (0-1)
}

// GridToMarkdown renders a row/column grid as a markdown pipe table.
// The first row is treated as the header; every other row is padded or
// truncated to the header's column count.
func GridToMarkdown(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	cols := len(rows[0])
	if cols == 0 {
		return ""
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		for j := 0; j < cols; j++ {
			var cell string
			if j < len(row) {
				cell = strings.ReplaceAll(row[j], "\n", " ")
				cell = strings.ReplaceAll(cell, "|", "\\|")
			}
			sb.WriteString("| ")
			sb.WriteString(strings.TrimSpace(cell))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(rows[0])
	for j := 0; j < cols; j++ {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}

	return strings.TrimRight(sb.String(), "\n")
}
