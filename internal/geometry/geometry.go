// Package geometry holds the coordinate math shared by the field store, the
// interaction layer and the overlay renderer. Every function is pure.
//
// Document space is page pixels at 100% zoom. Screen space is document space
// multiplied by the current zoom scale and offset by the page origin.
package geometry

import "math"

const (
	// MinFieldWidth and MinFieldHeight floor the size of resizable fields
	MinFieldWidth  = 20.0
	MinFieldHeight = 14.0

	// Scale percentages for signature-like fields
	MinScale     = 50
	MaxScale     = 200
	DefaultScale = 100
)

// Point is a position or a delta
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Div divides both components by s
func (p Point) Div(s float64) Point {
	return Point{X: p.X / s, Y: p.Y / s}
}

// Size is a width/height pair
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis aligned rectangle with its origin at the top-left corner
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside r (edges inclusive)
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Union returns the smallest rectangle covering r and o
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.Right(), o.Right())
	maxY := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Expand grows r by padding on every side
func (r Rect) Expand(padding float64) Rect {
	return Rect{
		X:      r.X - padding,
		Y:      r.Y - padding,
		Width:  r.Width + 2*padding,
		Height: r.Height + 2*padding,
	}
}

// Scale multiplies position and size by s, mapping document space to screen space
func (r Rect) Scale(s float64) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}

// normalizeScale treats a non-positive zoom as 100%
func normalizeScale(scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	return scale
}

// ToDocumentSpace converts a pointer position to document coordinates on a page
// whose top-left corner is rendered at pageOrigin.
func ToDocumentSpace(pointer, pageOrigin Point, scale float64) Point {
	return pointer.Sub(pageOrigin).Div(normalizeScale(scale))
}

// ToScreenSpace is the inverse of ToDocumentSpace
func ToScreenSpace(doc, pageOrigin Point, scale float64) Point {
	s := normalizeScale(scale)
	return Point{X: doc.X*s + pageOrigin.X, Y: doc.Y*s + pageOrigin.Y}
}

// ScreenDelta returns the pointer travel from start to current in document units
func ScreenDelta(start, current Point, scale float64) Point {
	return current.Sub(start).Div(normalizeScale(scale))
}

// BoundingBoxOf returns the box enclosing a group of equally sized items.
// Item positions are offsets from origin. The result is expanded by padding on
// every side. An empty group yields a single item-sized box at origin.
func BoundingBoxOf(origin Point, items []Point, itemSize, padding float64) Rect {
	if len(items) == 0 {
		return Rect{X: origin.X, Y: origin.Y, Width: itemSize, Height: itemSize}.Expand(padding)
	}

	box := Rect{X: origin.X + items[0].X, Y: origin.Y + items[0].Y, Width: itemSize, Height: itemSize}
	for _, it := range items[1:] {
		box = box.Union(Rect{X: origin.X + it.X, Y: origin.Y + it.Y, Width: itemSize, Height: itemSize})
	}
	return box.Expand(padding)
}

// EffectiveSize returns the rendered size of a field. Scalable fields keep
// their base size and render at scalePercent of it.
func EffectiveSize(width, height float64, scalePercent int, scalable bool) Size {
	if !scalable {
		return Size{Width: width, Height: height}
	}
	f := float64(scalePercent) / 100
	return Size{Width: width * f, Height: height * f}
}

// ClampScale bounds a scale percentage to [MinScale, MaxScale]
func ClampScale(v int) int {
	if v < MinScale {
		return MinScale
	}
	if v > MaxScale {
		return MaxScale
	}
	return v
}

// ClampMin returns v or min, whichever is larger
func ClampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
