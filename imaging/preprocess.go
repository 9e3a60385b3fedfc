package imaging

import (
	"image"
	"image/color"
)

// Preprocessing parameters. These match the values the OCR engine was
// tuned against at 300 DPI.
const (
	claheClipLimit = 3.0
	claheTileGrid  = 8
	adaptiveBlock  = 31
	adaptiveC      = 15
	binarizeThresh = 200
)

// Preprocess prepares a rendered page for OCR: grayscale, local contrast
// enhancement, light denoise, then inverse adaptive binarization. The
// input is never mutated.
func Preprocess(img image.Image) *image.Gray {
	gray := Grayscale(img)
	gray = CLAHE(gray, claheClipLimit, claheTileGrid)
	gray = GaussianBlur(gray)
	return AdaptiveThresholdInv(gray, adaptiveBlock, adaptiveC)
}

// Grayscale converts any image to 8-bit grayscale.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		out := image.NewGray(g.Bounds())
		for y := g.Bounds().Min.Y; y < g.Bounds().Max.Y; y++ {
			srcRow := g.Pix[g.PixOffset(g.Bounds().Min.X, y):]
			dstRow := out.Pix[out.PixOffset(out.Bounds().Min.X, y):]
			copy(dstRow[:g.Bounds().Dx()], srcRow[:g.Bounds().Dx()])
		}
		return out
	}

	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return out
}

// CLAHE applies contrast-limited adaptive histogram equalization with a
// grid x grid tile layout. Per-tile mappings are blended with bilinear
// interpolation, so tile seams do not show in the output.
func CLAHE(src *image.Gray, clipLimit float64, grid int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || grid < 1 {
		out := image.NewGray(b)
		copy(out.Pix, src.Pix)
		return out
	}

	tileW := (w + grid - 1) / grid
	tileH := (h + grid - 1) / grid

	// Per-tile lookup tables.
	luts := make([][256]uint8, grid*grid)
	for ty := 0; ty < grid; ty++ {
		for tx := 0; tx < grid; tx++ {
			x0 := b.Min.X + tx*tileW
			y0 := b.Min.Y + ty*tileH
			x1 := min(x0+tileW, b.Max.X)
			y1 := min(y0+tileH, b.Max.Y)
			luts[ty*grid+tx] = tileLUT(src, x0, y0, x1, y1, clipLimit)
		}
	}

	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		// Tile-space position of the pixel center.
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := int(fy)
		if fy < 0 {
			ty0 = -1
		}
		wy := fy - float64(ty0)
		ty1 := ty0 + 1
		ty0 = clamp(ty0, 0, grid-1)
		ty1 = clamp(ty1, 0, grid-1)

		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := int(fx)
			if fx < 0 {
				tx0 = -1
			}
			wx := fx - float64(tx0)
			tx1 := tx0 + 1
			tx0 = clamp(tx0, 0, grid-1)
			tx1 = clamp(tx1, 0, grid-1)

			v := src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			v00 := float64(luts[ty0*grid+tx0][v])
			v01 := float64(luts[ty0*grid+tx1][v])
			v10 := float64(luts[ty1*grid+tx0][v])
			v11 := float64(luts[ty1*grid+tx1][v])

			top := v00*(1-wx) + v01*wx
			bot := v10*(1-wx) + v11*wx
			out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: uint8(top*(1-wy) + bot*wy + 0.5)})
		}
	}
	return out
}

// tileLUT builds the clipped-histogram equalization mapping for one tile.
func tileLUT(src *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var lut [256]uint8
	area := (x1 - x0) * (y1 - y0)
	if area == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	var hist [256]int
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[src.GrayAt(x, y).Y]++
		}
	}

	// Clip and redistribute, the way OpenCV scales its clip limit.
	clip := int(clipLimit * float64(area) / 256.0)
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i, c := range hist {
		if c > clip {
			excess += c - clip
			hist[i] = clip
		}
	}
	share := excess / 256
	rem := excess % 256
	for i := range hist {
		hist[i] += share
		if i < rem {
			hist[i]++
		}
	}

	cdf := 0
	scale := 255.0 / float64(area)
	for i, c := range hist {
		cdf += c
		lut[i] = uint8(float64(cdf)*scale + 0.5)
	}
	return lut
}

// GaussianBlur applies a 3x3 Gaussian kernel for light noise reduction.
func GaussianBlur(src *image.Gray) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(b)

	// Kernel [1 2 1; 2 4 2; 1 2 1] / 16.
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sum, weight int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					xx, yy := x+dx, y+dy
					if xx < b.Min.X || xx >= b.Max.X || yy < b.Min.Y || yy >= b.Max.Y {
						continue
					}
					k := (2 - abs(dx)) * (2 - abs(dy))
					sum += k * int(src.GrayAt(xx, yy).Y)
					weight += k
				}
			}
			out.SetGray(x, y, color.Gray{Y: uint8(sum / weight)})
		}
	}
	return out
}

// AdaptiveThresholdInv binarizes with a local mean threshold: a pixel
// becomes foreground (255) when it is darker than the mean of its
// block-sized neighborhood minus c. Uses an integral image so the block
// mean is O(1) per pixel.
func AdaptiveThresholdInv(src *image.Gray, block, c int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	if w == 0 || h == 0 {
		return out
	}

	integral := integralImage(src)
	r := block / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0 := max(x-r, 0)
			y0 := max(y-r, 0)
			x1 := min(x+r, w-1)
			y1 := min(y+r, h-1)
			area := (x1 - x0 + 1) * (y1 - y0 + 1)

			sum := integral[(y1+1)*(w+1)+(x1+1)] -
				integral[y0*(w+1)+(x1+1)] -
				integral[(y1+1)*(w+1)+x0] +
				integral[y0*(w+1)+x0]
			mean := sum / int64(area)

			v := int64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			if v <= mean-int64(c) {
				out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// BinarizeInv applies a fixed inverse threshold: pixels at or below the
// threshold become foreground (255).
func BinarizeInv(src *image.Gray, threshold uint8) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.GrayAt(x, y).Y <= threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

func integralImage(src *image.Gray) []int64 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}
	return integral
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
