// Package geom holds the 2D value types shared by the sight and camera
// packages. World space is y-up: Top is the larger y.
package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrInvalidInput is returned when a coordinate or extent is NaN or infinite.
	ErrInvalidInput = errors.New("geom: non-finite input")
	// ErrInvalidOccluder is returned when a box is built with a negative size.
	ErrInvalidOccluder = errors.New("geom: negative width or height")
)

// Point is a world-space coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Vec converts p to an mgl64 vector.
func (p Point) Vec() mgl64.Vec2 { return mgl64.Vec2{p.X, p.Y} }

// FromVec converts an mgl64 vector back to a Point.
func FromVec(v mgl64.Vec2) Point { return Point{X: v[0], Y: v[1]} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return FromVec(p.Vec().Add(mgl64.Vec2{dx, dy}))
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return q.Vec().Sub(p.Vec()).Len()
}

// Finite reports whether both coordinates are real numbers.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
}

// AABB is an axis-aligned box described by its centre and full size.
type AABB struct {
	X, Y          float64 // centre
	Width, Height float64
}

// NewAABB validates and returns a box centred on (x, y).
func NewAABB(x, y, w, h float64) (AABB, error) {
	b := AABB{X: x, Y: y, Width: w, Height: h}
	if !b.Finite() {
		return AABB{}, fmt.Errorf("box at (%v,%v) size %vx%v: %w", x, y, w, h, ErrInvalidInput)
	}
	if w < 0 || h < 0 {
		return AABB{}, fmt.Errorf("box at (%v,%v) size %vx%v: %w", x, y, w, h, ErrInvalidOccluder)
	}
	return b, nil
}

// MustAABB is NewAABB for static layouts; it panics on invalid input.
func MustAABB(x, y, w, h float64) AABB {
	b, err := NewAABB(x, y, w, h)
	if err != nil {
		panic(err)
	}
	return b
}

// BoundsOf returns the smallest box containing both points.
func BoundsOf(a, b Point) AABB {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return AABB{
		X:      (minX + maxX) / 2,
		Y:      (minY + maxY) / 2,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

func (b AABB) Left() float64   { return b.X - b.Width/2 }
func (b AABB) Right() float64  { return b.X + b.Width/2 }
func (b AABB) Bottom() float64 { return b.Y - b.Height/2 }
func (b AABB) Top() float64    { return b.Y + b.Height/2 }

// Center returns the box centre as a Point.
func (b AABB) Center() Point { return Point{X: b.X, Y: b.Y} }

// Moved returns the box with its centre set to p.
func (b AABB) Moved(p Point) AABB {
	b.X, b.Y = p.X, p.Y
	return b
}

// Degenerate reports whether the box has no area.
func (b AABB) Degenerate() bool {
	return b.Width == 0 || b.Height == 0
}

// Finite reports whether the centre and size are real numbers.
func (b AABB) Finite() bool {
	return finite(b.X) && finite(b.Y) && finite(b.Width) && finite(b.Height)
}

// Overlaps reports whether the open interiors of b and o intersect.
// Boxes that only share an edge do not overlap.
func (b AABB) Overlaps(o AABB) bool {
	return b.Left() < o.Right() && b.Right() > o.Left() &&
		b.Bottom() < o.Top() && b.Top() > o.Bottom()
}

// Touches is Overlaps with closed edges.
func (b AABB) Touches(o AABB) bool {
	return b.Left() <= o.Right() && b.Right() >= o.Left() &&
		b.Bottom() <= o.Top() && b.Top() >= o.Bottom()
}

// Extent is a half-width and half-height pair.
type Extent struct {
	HalfW, HalfH float64
}

// ExtentOf derives a view half-extent from a viewport size and zoom.
func ExtentOf(viewW, viewH, zoom float64) Extent {
	if zoom <= 0 {
		zoom = 1
	}
	return Extent{HalfW: viewW / 2 / zoom, HalfH: viewH / 2 / zoom}
}

// Valid reports whether both half-extents are strictly positive and finite.
func (e Extent) Valid() bool {
	return finite(e.HalfW) && finite(e.HalfH) && e.HalfW > 0 && e.HalfH > 0
}

// ViewRect is the rectangle a camera sees.
type ViewRect struct {
	Center Point
	Half   Extent
}

func (v ViewRect) Left() float64   { return v.Center.X - v.Half.HalfW }
func (v ViewRect) Right() float64  { return v.Center.X + v.Half.HalfW }
func (v ViewRect) Bottom() float64 { return v.Center.Y - v.Half.HalfH }
func (v ViewRect) Top() float64    { return v.Center.Y + v.Half.HalfH }

// Box returns the view as an AABB.
func (v ViewRect) Box() AABB {
	return AABB{X: v.Center.X, Y: v.Center.Y, Width: 2 * v.Half.HalfW, Height: 2 * v.Half.HalfH}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
