// Package camera implements a scroll-follow camera with a margin deadzone.
//
// Coordinates are world space with y increasing upward. The camera holds
// no reference to a renderer; callers apply the returned state themselves.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/Garsondee/Sightline/internal/geom"
)

// ErrInvalidMargin is returned when the margin would leave no deadzone.
var ErrInvalidMargin = errors.New("camera: margin must be >= 0 and less than half the smaller view extent")

// crossEps absorbs rounding so an applied correction does not re-trigger.
const crossEps = 1e-9

// UpdateCamera returns the view centre that brings tracked back inside the
// deadzone of the view at center. The bool is false, and the point equals
// center, when tracked already lies within the deadzone.
//
// Each crossed boundary contributes exactly its crossing distance, so after
// the correction the offending edge sits on the boundary. Left/right and
// top/bottom corrections add together; they can only both fire when the
// deadzone is narrower than the tracked box.
func UpdateCamera(tracked geom.AABB, center geom.Point, half geom.Extent, margin float64) (geom.Point, bool, error) {
	if err := ValidateMargin(half, margin); err != nil {
		return center, false, err
	}
	if !tracked.Finite() || !center.Finite() {
		return center, false, fmt.Errorf("update camera: tracked %+v centre %v: %w", tracked, center, geom.ErrInvalidInput)
	}

	view := geom.ViewRect{Center: center, Half: half}
	var dx, dy float64

	if b := view.Left() + margin; tracked.Left() < b-crossEps {
		dx += tracked.Left() - b
	}
	if b := view.Top() - margin; tracked.Top() > b+crossEps {
		dy += tracked.Top() - b
	}
	if b := view.Right() - margin; tracked.Right() > b+crossEps {
		dx += tracked.Right() - b
	}
	if b := view.Bottom() + margin; tracked.Bottom() < b-crossEps {
		dy += tracked.Bottom() - b
	}

	if dx == 0 && dy == 0 {
		return center, false, nil
	}
	return center.Add(dx, dy), true, nil
}

// ValidateMargin checks the deadzone configuration.
func ValidateMargin(half geom.Extent, margin float64) error {
	if !half.Valid() {
		return fmt.Errorf("view half-extent %+v: %w", half, geom.ErrInvalidInput)
	}
	if math.IsNaN(margin) || margin < 0 || margin >= math.Min(half.HalfW, half.HalfH) {
		return fmt.Errorf("margin %v with half-extent %+v: %w", margin, half, ErrInvalidMargin)
	}
	return nil
}

// Camera is an explicit camera state value.
type Camera struct {
	Center geom.Point
	Half   geom.Extent
	Margin float64
	Zoom   float64 // screen pixels per world unit
}

// New returns a camera for a viewW x viewH screen centred on center.
func New(center geom.Point, viewW, viewH, zoom, margin float64) (Camera, error) {
	if zoom <= 0 || math.IsNaN(zoom) {
		return Camera{}, fmt.Errorf("camera zoom %v: %w", zoom, geom.ErrInvalidInput)
	}
	c := Camera{
		Center: center,
		Half:   geom.ExtentOf(viewW, viewH, zoom),
		Margin: margin,
		Zoom:   zoom,
	}
	if err := ValidateMargin(c.Half, margin); err != nil {
		return Camera{}, err
	}
	if !center.Finite() {
		return Camera{}, fmt.Errorf("camera centre %v: %w", center, geom.ErrInvalidInput)
	}
	return c, nil
}

// View returns the visible rectangle.
func (c Camera) View() geom.ViewRect {
	return geom.ViewRect{Center: c.Center, Half: c.Half}
}

// Follow returns the camera recentred to keep tracked in its deadzone. The
// receiver is not modified; moved is false when no correction was needed.
func (c Camera) Follow(tracked geom.AABB) (next Camera, moved bool, err error) {
	center, moved, err := UpdateCamera(tracked, c.Center, c.Half, c.Margin)
	if err != nil || !moved {
		return c, false, err
	}
	c.Center = center
	return c, true, nil
}

// WorldToScreen maps a world point to y-down screen pixels for a screen of
// the given size.
func (c Camera) WorldToScreen(p geom.Point, screenW, screenH float64) (float64, float64) {
	sx := (p.X-c.Center.X)*c.Zoom + screenW/2
	sy := screenH/2 - (p.Y-c.Center.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c Camera) ScreenToWorld(sx, sy, screenW, screenH float64) geom.Point {
	return geom.Point{
		X: (sx-screenW/2)/c.Zoom + c.Center.X,
		Y: (screenH/2-sy)/c.Zoom + c.Center.Y,
	}
}
