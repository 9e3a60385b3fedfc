package escriba

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Page classification thresholds. A page whose embedded text is shorter
// than minEmbeddedChars after trimming, or whose alphabetic share of
// non-whitespace characters falls below minAlphaRatio, is treated as
// scanned and sent to OCR.
const (
	minEmbeddedChars = 10
	minAlphaRatio    = 0.6
)

// NeedsOCR reports whether a page's embedded text layer is too thin or
// too corrupt to trust. Scanner-produced PDFs either have no text layer
// at all or carry garbage from a previous OCR pass; both show up as
// short text or a low alphabetic ratio.
func NeedsOCR(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minEmbeddedChars {
		return true
	}

	letters, total := 0, 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return true
	}
	return float64(letters)/float64(total) < minAlphaRatio
}
