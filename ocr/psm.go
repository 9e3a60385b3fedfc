package ocr

import (
	"image"

	"github.com/osanmartin/escriba/imaging"
)

// Component-count boundaries for segmentation-mode estimation.
const (
	singleLineMax = 5  // fewer components than this -> single line
	uniformMax    = 21 // fewer -> uniform block
	sparseMin     = 51 // this many or more -> sparse text
)

// EstimatePSM inspects a binarized page and picks a segmentation mode
// from its visual structure. Pages with very few text blobs are treated
// as single lines; pages with many scattered blobs get sparse-text
// recognition; moderately busy pages get full layout analysis so
// columns are handled; everything else is a uniform block.
//
// The estimate is a pure function of the bitmap: identical input always
// yields an identical mode.
func EstimatePSM(bin *image.Gray) PageSegMode {
	n := len(imaging.TextBlocks(bin))
	switch {
	case n < singleLineMax:
		return PSM_SINGLE_LINE
	case n >= sparseMin:
		return PSM_SPARSE_TEXT
	case n >= uniformMax:
		return PSM_AUTO
	default:
		return PSM_SINGLE_BLOCK
	}
}

// ConfigFor derives the per-page OCR configuration: the base config
// with the segmentation mode estimated from the page image.
func ConfigFor(bin *image.Gray, base Config) Config {
	cfg := base
	cfg.PSM = EstimatePSM(bin)
	return cfg
}
