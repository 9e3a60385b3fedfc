package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	xdraw "golang.org/x/image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// pdfPointsPerInch is the fixed PDF user-space resolution.
const pdfPointsPerInch = 72.0

// Render recovers a page bitmap from the page's embedded image
// XObjects. Scanned documents carry one full-page scan per page; when a
// page holds several images, the largest one is taken as the page
// image. The result is scaled so the page's point width corresponds to
// the requested DPI.
func (d *fileDocument) Render(pageNr, dpi int) (image.Image, error) {
	if err := d.checkPage(pageNr); err != nil {
		return nil, err
	}

	extracted, err := pdfcpu.ExtractPageImages(d.ctx, pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("extract images from page %d: %w", pageNr, err)
	}

	var best image.Image
	for _, im := range extracted {
		data, err := io.ReadAll(im)
		if err != nil {
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			continue
		}
		if best == nil || pixelArea(decoded) > pixelArea(best) {
			best = decoded
		}
	}
	if best == nil {
		return nil, ErrNoPageImage
	}

	return d.scaleToPage(best, pageNr, dpi), nil
}

// scaleToPage resizes a page image so the page renders at the given
// DPI. Pages without a usable media box keep the image's native size.
func (d *fileDocument) scaleToPage(img image.Image, pageNr, dpi int) image.Image {
	if dpi <= 0 {
		return img
	}
	w, h, err := d.MediaBox(pageNr)
	if err != nil || w <= 0 || h <= 0 {
		return img
	}

	targetW := int(w / pdfPointsPerInch * float64(dpi))
	targetH := int(h / pdfPointsPerInch * float64(dpi))
	if targetW <= 0 || targetH <= 0 {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() == targetW && bounds.Dy() == targetH {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

func pixelArea(img image.Image) int {
	b := img.Bounds()
	return b.Dx() * b.Dy()
}
