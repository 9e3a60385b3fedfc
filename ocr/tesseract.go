//go:build ocr

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Engine on top of the system Tesseract install
// via gosseract. Instances are not safe for concurrent use; create one
// per worker.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract-backed engine. The engine must be
// closed when no longer needed to release native resources.
//
// The engine mode (OEM) is fixed at client initialization by Tesseract
// itself; the EngineMode field of a Config is recorded for diagnostics
// but cannot be switched per call.
func NewTesseract() (*Tesseract, error) {
	return &Tesseract{client: gosseract.NewClient()}, nil
}

// Close releases the native Tesseract client.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// Recognize performs OCR on a page bitmap with the given configuration.
func (t *Tesseract) Recognize(img image.Image, cfg Config) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode page image: %w", err)
	}

	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	if cfg.Language != "" {
		if err := t.client.SetLanguage(cfg.Language); err != nil {
			return "", fmt.Errorf("set language %q: %w", cfg.Language, err)
		}
	}
	if err := t.client.SetPageSegMode(gosseract.PageSegMode(cfg.PSM)); err != nil {
		return "", fmt.Errorf("set segmentation mode %d: %w", cfg.PSM, err)
	}
	if cfg.DPI > 0 {
		if err := t.client.SetVariable("user_defined_dpi", strconv.Itoa(cfg.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
