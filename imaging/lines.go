package imaging

import (
	"image"
	"image/color"
	"sort"
)

// Ruling-line detection parameters: kernel length for directional
// opening and minimum region size, tuned for 300 DPI renders.
const (
	lineKernel  = 40
	minRegionW  = 50
	minRegionH  = 30
	minContourW = 20
	minContourH = 20
)

// HasVisualTable reports whether a rendered page shows table-like
// ruling structure. It binarizes the page, keeps only long horizontal
// and vertical strokes, and checks whether any contour survives. This
// is a cheap structural gate, not a confirmation of tabular content.
func HasVisualTable(img image.Image) bool {
	mask := lineMask(Grayscale(img), lineKernel)
	for _, r := range Components(mask) {
		if r.Dx() >= minContourW || r.Dy() >= minContourH {
			return true
		}
	}
	return false
}

// TableRegions locates candidate table areas on a rendered page using
// the same directional-line heuristic as HasVisualTable, applied at
// finer granularity. Regions smaller than 50x30 pixels are dropped.
// Results are ordered top-to-bottom, then left-to-right.
func TableRegions(img image.Image) []image.Rectangle {
	gray := Grayscale(img)
	mask := lineMask(gray, lineKernel/2)

	// Close gaps between strokes of the same table before grouping.
	mask = Dilate(mask, 11, 11)

	boxes := Components(mask)
	out := boxes[:0]
	for _, r := range boxes {
		if r.Dx() >= minRegionW && r.Dy() >= minRegionH {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Min.Y != out[j].Min.Y {
			return out[i].Min.Y < out[j].Min.Y
		}
		return out[i].Min.X < out[j].Min.X
	})
	return out
}

// lineMask extracts long horizontal and vertical strokes via
// directional morphological opening and unions the two masks.
func lineMask(gray *image.Gray, kernel int) *image.Gray {
	bin := BinarizeInv(gray, binarizeThresh)
	horizontal := Open(bin, kernel, 1)
	vertical := Open(bin, 1, kernel)
	return Union(horizontal, vertical)
}

// Open applies morphological opening (erosion then dilation) with a
// kw x kh rectangular kernel.
func Open(bin *image.Gray, kw, kh int) *image.Gray {
	return Dilate(Erode(bin, kw, kh), kw, kh)
}

// Erode shrinks foreground: a pixel survives only if the whole
// kw x kh window around it is foreground.
func Erode(bin *image.Gray, kw, kh int) *image.Gray {
	out := slideWindow(bin, kw, true, false)
	return slideWindow(out, kh, false, false)
}

// Dilate grows foreground: a pixel becomes foreground if any pixel in
// the kw x kh window around it is foreground.
func Dilate(bin *image.Gray, kw, kh int) *image.Gray {
	out := slideWindow(bin, kw, true, true)
	return slideWindow(out, kh, false, true)
}

// Union returns the pixel-wise maximum of two binary masks.
func Union(a, b *image.Gray) *image.Gray {
	bounds := a.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if a.GrayAt(x, y).Y == 255 || b.GrayAt(x, y).Y == 255 {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// slideWindow runs a 1-D structuring element of the given size along
// rows (horizontal) or columns. With dilate true a pixel becomes
// foreground if any window pixel is foreground; otherwise it survives
// only if all in-bounds window pixels are foreground.
func slideWindow(bin *image.Gray, size int, horizontal, dilate bool) *image.Gray {
	b := bin.Bounds()
	out := image.NewGray(b)
	if size <= 1 {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				out.SetGray(x, y, bin.GrayAt(x, y))
			}
		}
		return out
	}

	r := size / 2
	outer, inner := b.Dy(), b.Dx()
	if !horizontal {
		outer, inner = inner, outer
	}

	at := func(o, i int) bool {
		if horizontal {
			return bin.GrayAt(b.Min.X+i, b.Min.Y+o).Y == 255
		}
		return bin.GrayAt(b.Min.X+o, b.Min.Y+i).Y == 255
	}
	set := func(o, i int) {
		if horizontal {
			out.SetGray(b.Min.X+i, b.Min.Y+o, color.Gray{Y: 255})
		} else {
			out.SetGray(b.Min.X+o, b.Min.Y+i, color.Gray{Y: 255})
		}
	}

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			result := !dilate
			for k := i - r; k < i-r+size; k++ {
				if k < 0 || k >= inner {
					continue
				}
				fg := at(o, k)
				if dilate && fg {
					result = true
					break
				}
				if !dilate && !fg {
					result = false
					break
				}
			}
			if result {
				set(o, i)
			}
		}
	}
	return out
}
