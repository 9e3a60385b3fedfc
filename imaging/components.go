package imaging

import (
	"image"
	"sort"
)

// Components returns the bounding boxes of 8-connected foreground
// regions in a binary image. Boxes are sorted top-to-bottom, then
// left-to-right, so the result is deterministic for a given input.
func Components(bin *image.Gray) []image.Rectangle {
	b := bin.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	visited := make([]bool, w*h)
	var boxes []image.Rectangle
	var stack []image.Point

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
				continue
			}

			// Flood fill one component, tracking its extent.
			minX, minY, maxX, maxY := x, y, x, y
			visited[y*w+x] = true
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h || visited[ny*w+nx] {
							continue
						}
						if bin.GrayAt(b.Min.X+nx, b.Min.Y+ny).Y == 0 {
							continue
						}
						visited[ny*w+nx] = true
						stack = append(stack, image.Pt(nx, ny))
					}
				}
			}

			boxes = append(boxes, image.Rect(
				b.Min.X+minX, b.Min.Y+minY,
				b.Min.X+maxX+1, b.Min.Y+maxY+1,
			))
		}
	}

	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].Min.Y != boxes[j].Min.Y {
			return boxes[i].Min.Y < boxes[j].Min.Y
		}
		return boxes[i].Min.X < boxes[j].Min.X
	})
	return boxes
}

// TextBlocks merges nearby glyphs into word/block blobs and returns
// their bounding boxes. A dilation pass joins characters that belong to
// the same visual unit before counting, so the component count reflects
// page structure rather than individual letters. Blobs smaller than
// 3x3 pixels are discarded as specks.
func TextBlocks(bin *image.Gray) []image.Rectangle {
	merged := Dilate(bin, 9, 3)
	boxes := Components(merged)

	out := boxes[:0]
	for _, r := range boxes {
		if r.Dx() >= 3 && r.Dy() >= 3 {
			out = append(out, r)
		}
	}
	return out
}
