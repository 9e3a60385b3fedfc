// Package ocr provides OCR (Optical Character Recognition) capabilities
// for pages that carry no usable embedded text.
//
// Recognition is performed by implementations of [Engine]. The default
// implementation wraps the Tesseract engine via gosseract and requires
// Tesseract to be installed on the system; it is compiled in only with
// the "ocr" build tag:
//
//	go build -tags ocr
//
// Without the tag, a stub engine is used that returns [ErrNotEnabled]
// for every call, so the rest of the pipeline stays buildable on
// systems without Tesseract.
package ocr

import (
	"errors"
	"image"
	"os"
	"strconv"
)

// ErrNotEnabled is returned when OCR is invoked but OCR support was not
// compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents page segmentation modes.
// These control how the engine partitions a page into text regions.
type PageSegMode int

// Page segmentation modes, matching Tesseract's numbering.
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic layout analysis
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single block of vertical text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Raw line, bypass layout analysis
)

// EngineMode selects the recognition algorithm (Tesseract OEM).
type EngineMode int

const (
	OEM_LEGACY          EngineMode = 0
	OEM_LSTM            EngineMode = 1
	OEM_LEGACY_AND_LSTM EngineMode = 2
	OEM_DEFAULT         EngineMode = 3
)

// Config holds the OCR parameters for a single recognition call.
// A Config is derived fresh per page and never shared mutable state:
// callers copy and adjust rather than reconfigure in place.
type Config struct {
	DPI        int
	Language   string
	PSM        PageSegMode
	EngineMode EngineMode
}

// DefaultConfig returns the baseline OCR configuration: 300 DPI,
// Spanish, uniform-block segmentation, LSTM engine. DPI and language
// can be overridden with the OCR_DPI and OCR_LANG environment
// variables.
func DefaultConfig() Config {
	return Config{
		DPI:        envInt("OCR_DPI", 300),
		Language:   envOr("OCR_LANG", "spa"),
		PSM:        PSM_SINGLE_BLOCK,
		EngineMode: OEM_LSTM,
	}
}

// Engine is the recognition capability consumed by the pipeline.
// Implementations are synchronous and need not be safe for concurrent
// use; the pipeline serializes calls per engine instance.
type Engine interface {
	// Recognize runs OCR over a preprocessed page bitmap and returns
	// the recognized text, trimmed of surrounding whitespace.
	Recognize(img image.Image, cfg Config) (string, error)
}

// Recognize runs the engine once and, when the result is empty, retries
// once with a more general segmentation mode before giving up. Engine
// errors are returned as-is for the caller's page-level handling.
func Recognize(engine Engine, img image.Image, cfg Config) (string, error) {
	text, err := engine.Recognize(img, cfg)
	if err != nil {
		return "", err
	}
	if text != "" {
		return text, nil
	}

	retry := cfg
	retry.PSM = Generalize(cfg.PSM)
	if retry.PSM == cfg.PSM {
		return "", nil
	}
	return engine.Recognize(img, retry)
}

// Generalize maps a segmentation mode to the broader mode used for the
// empty-result retry: anything specific falls back to full automatic
// layout analysis, and automatic itself widens to sparse text.
func Generalize(psm PageSegMode) PageSegMode {
	if psm == PSM_AUTO {
		return PSM_SPARSE_TEXT
	}
	return PSM_AUTO
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
