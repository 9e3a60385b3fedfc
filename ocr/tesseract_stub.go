//go:build !ocr

package ocr

import "image"

// Tesseract is the stub engine used when the "ocr" build tag is not
// set. Every recognition call returns ErrNotEnabled.
type Tesseract struct{}

// NewTesseract returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func NewTesseract() (*Tesseract, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op for the stub engine. It is safe to call on nil.
func (t *Tesseract) Close() error {
	return nil
}

// Recognize returns an error indicating OCR support is not enabled.
func (t *Tesseract) Recognize(img image.Image, cfg Config) (string, error) {
	return "", ErrNotEnabled
}
