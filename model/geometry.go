package model

import (
	"fmt"
	"image"
	"math"
)

// Point represents a 2D pixel position. The origin is the top-left corner
// of the image and Y grows downward.
type Point struct {
	X, Y int
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents a bounding box (rectangle) in pixel coordinates.
type BBox struct {
	X      int // Left
	Y      int // Top (image coordinate system, Y grows downward)
	Width  int
	Height int
}

// NewBBox creates a bounding box from coordinates.
func NewBBox(x, y, width, height int) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box spanning two points.
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := min(p1.X, p2.X)
	y := min(p1.Y, p2.Y)
	return BBox{
		X:      x,
		Y:      y,
		Width:  abs(p2.X - p1.X),
		Height: abs(p2.Y - p1.Y),
	}
}

// FromRect converts a standard library image.Rectangle to a BBox.
func FromRect(r image.Rectangle) BBox {
	r = r.Canon()
	return BBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect converts the bounding box to a standard library image.Rectangle.
func (b BBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Left returns the left edge X coordinate.
func (b BBox) Left() int {
	return b.X
}

// Right returns the exclusive right edge X coordinate.
func (b BBox) Right() int {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate.
func (b BBox) Top() int {
	return b.Y
}

// Bottom returns the exclusive bottom edge Y coordinate.
func (b BBox) Bottom() int {
	return b.Y + b.Height
}

// CenterX returns the X coordinate of the box center.
func (b BBox) CenterX() int {
	return b.X + b.Width/2
}

// CenterY returns the Y coordinate of the box center.
func (b BBox) CenterY() int {
	return b.Y + b.Height/2
}

// Center returns the center point.
func (b BBox) Center() Point {
	return Point{X: b.CenterX(), Y: b.CenterY()}
}

// Contains checks if a point is inside the bounding box.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X < b.Right() &&
		p.Y >= b.Top() && p.Y < b.Bottom()
}

// ContainsBox checks if the other box lies entirely inside this one.
func (b BBox) ContainsBox(other BBox) bool {
	return other.Left() >= b.Left() && other.Right() <= b.Right() &&
		other.Top() >= b.Top() && other.Bottom() <= b.Bottom()
}

// Intersects checks if two bounding boxes intersect.
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() <= other.Left() ||
		b.Left() >= other.Right() ||
		b.Bottom() <= other.Top() ||
		b.Top() >= other.Bottom())
}

// Intersection returns the intersection of two bounding boxes.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}

	x := max(b.Left(), other.Left())
	y := max(b.Top(), other.Top())
	right := min(b.Right(), other.Right())
	bottom := min(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Union returns the smallest box containing both boxes.
func (b BBox) Union(other BBox) BBox {
	x := min(b.Left(), other.Left())
	y := min(b.Top(), other.Top())
	right := max(b.Right(), other.Right())
	bottom := max(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area of the bounding box in pixels.
func (b BBox) Area() int {
	return b.Width * b.Height
}

// Expand expands the bounding box by a margin on all sides.
func (b BBox) Expand(margin int) BBox {
	return BBox{
		X:      b.X - margin,
		Y:      b.Y - margin,
		Width:  b.Width + 2*margin,
		Height: b.Height + 2*margin,
	}
}

// OverlapRatio calculates the overlap ratio with another box relative to
// the smaller of the two. Returns a value between 0 and 1.
func (b BBox) OverlapRatio(other BBox) float64 {
	if !b.Intersects(other) {
		return 0
	}

	intersection := b.Intersection(other)
	minArea := min(b.Area(), other.Area())

	if minArea == 0 {
		return 0
	}

	return float64(intersection.Area()) / float64(minArea)
}

// IsEmpty returns true if the bounding box has zero area.
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// IsValid returns true if the bounding box has positive dimensions.
func (b BBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}

// String formats the box as "x,y wxh" for error messages and logs.
func (b BBox) String() string {
	return fmt.Sprintf("%d,%d %dx%d", b.X, b.Y, b.Width, b.Height)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
