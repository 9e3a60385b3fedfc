package model

import "image"

// BBox represents an axis-aligned bounding box in render pixels.
// (X1, Y1) is the top-left corner, (X2, Y2) the bottom-right,
// matching image coordinates rather than PDF point coordinates.
type BBox struct {
	X1, Y1 int
	X2, Y2 int
}

// NewBBox creates a bounding box, normalizing corner order.
func NewBBox(x1, y1, x2, y2 int) BBox {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// BBoxFromRect converts an image.Rectangle to a BBox.
func BBoxFromRect(r image.Rectangle) BBox {
	return NewBBox(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// Rect converts the bounding box to an image.Rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Width returns the box width in pixels.
func (b BBox) Width() int {
	return b.X2 - b.X1
}

// Height returns the box height in pixels.
func (b BBox) Height() int {
	return b.Y2 - b.Y1
}

// Empty reports whether the box has zero area.
func (b BBox) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

// Intersects checks whether two bounding boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return b.X1 < other.X2 && other.X1 < b.X2 &&
		b.Y1 < other.Y2 && other.Y1 < b.Y2
}

// Contains checks whether a point lies inside the bounding box.
func (b BBox) Contains(x, y int) bool {
	return x >= b.X1 && x < b.X2 && y >= b.Y1 && y < b.Y2
}
