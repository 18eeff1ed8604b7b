package camera

import (
	"errors"
	"math"
	"testing"

	"github.com/Garsondee/Sightline/internal/geom"
)

// 800x600 view centred at the origin, margin 250:
// deadzone x in [-150, 150], y in [-50, 50].
var (
	half   = geom.Extent{HalfW: 400, HalfH: 300}
	origin = geom.Pt(0, 0)
)

const margin = 250.0

func box(x, y float64) geom.AABB { return geom.MustAABB(x, y, 20, 20) }

func TestUpdateCamera_DeadCenter_NoOp(t *testing.T) {
	got, moved, err := UpdateCamera(box(0, 0), origin, half, margin)
	if err != nil {
		t.Fatal(err)
	}
	if moved || got != origin {
		t.Fatalf("expected no move, got moved=%v centre=%v", moved, got)
	}
}

func TestUpdateCamera_JustInsideEachBoundary_NoOp(t *testing.T) {
	cases := map[string]geom.AABB{
		"left":   box(-150+10+0.5, 0),
		"right":  box(150-10-0.5, 0),
		"top":    box(0, 50-10-0.5),
		"bottom": box(0, -50+10+0.5),
		"flush":  box(-150+10, 50-10),
	}
	for name, b := range cases {
		if _, moved, err := UpdateCamera(b, origin, half, margin); err != nil || moved {
			t.Fatalf("%s: expected no move, got moved=%v err=%v", name, moved, err)
		}
	}
}

func TestUpdateCamera_OnePastLeft_ShiftsExactlyOne(t *testing.T) {
	// Left edge one unit past the left boundary at -150.
	got, moved, err := UpdateCamera(box(-150+10-1, 0), origin, half, margin)
	if err != nil {
		t.Fatal(err)
	}
	if !moved {
		t.Fatal("expected camera to move")
	}
	if got.X != -1 || got.Y != 0 {
		t.Fatalf("expected centre (-1,0), got %v", got)
	}
}

func TestUpdateCamera_EachDirection(t *testing.T) {
	cases := []struct {
		name string
		b    geom.AABB
		want geom.Point
	}{
		{"right", box(150-10+7, 0), geom.Pt(7, 0)},
		{"up", box(0, 50-10+3), geom.Pt(0, 3)},
		{"down", box(0, -50+10-4), geom.Pt(0, -4)},
		{"diagonal", box(-150+10-2, 50-10+5), geom.Pt(-2, 5)},
	}
	for _, c := range cases {
		got, moved, err := UpdateCamera(c.b, origin, half, margin)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if !moved || got != c.want {
			t.Fatalf("%s: expected %v, got %v (moved=%v)", c.name, c.want, got, moved)
		}
	}
}

func TestUpdateCamera_Idempotent(t *testing.T) {
	center := geom.Pt(1234.5, -87.25)
	for _, b := range []geom.AABB{
		box(center.X-400, center.Y),
		box(center.X+333.3, center.Y-222.2),
		box(center.X+0.1, center.Y+1e4),
	} {
		next, moved, err := UpdateCamera(b, center, half, margin)
		if err != nil || !moved {
			t.Fatalf("setup: expected a move for %+v, err=%v", b, err)
		}
		if _, again, err := UpdateCamera(b, next, half, margin); err != nil || again {
			t.Fatalf("second call for %+v should be a no-op, moved=%v err=%v", b, again, err)
		}
	}
}

func TestUpdateCamera_InvalidMargin(t *testing.T) {
	for _, m := range []float64{-1, 300, 301, math.NaN()} {
		if _, _, err := UpdateCamera(box(0, 0), origin, half, m); !errors.Is(err, ErrInvalidMargin) {
			t.Fatalf("margin %v: expected ErrInvalidMargin, got %v", m, err)
		}
	}
}

func TestUpdateCamera_NonFinite(t *testing.T) {
	bad := geom.AABB{X: math.NaN(), Width: 10, Height: 10}
	if _, _, err := UpdateCamera(bad, origin, half, margin); !errors.Is(err, geom.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for NaN box, got %v", err)
	}
	if _, _, err := UpdateCamera(box(0, 0), geom.Pt(math.Inf(-1), 0), half, margin); !errors.Is(err, geom.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for infinite centre, got %v", err)
	}
	if _, _, err := UpdateCamera(box(0, 0), origin, geom.Extent{HalfW: 0, HalfH: 10}, 0); !errors.Is(err, geom.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero extent, got %v", err)
	}
}

func TestCamera_FollowDoesNotMutate(t *testing.T) {
	c, err := New(origin, 800, 600, 1, margin)
	if err != nil {
		t.Fatal(err)
	}
	next, moved, err := c.Follow(box(500, 0))
	if err != nil || !moved {
		t.Fatalf("expected move, moved=%v err=%v", moved, err)
	}
	if c.Center != origin {
		t.Fatalf("receiver mutated: %v", c.Center)
	}
	if next.Center.X != 500+10-150 {
		t.Fatalf("unexpected centre %v", next.Center)
	}
}

func TestNew_RejectsDegenerateDeadzone(t *testing.T) {
	if _, err := New(origin, 800, 600, 2, margin); !errors.Is(err, ErrInvalidMargin) {
		t.Fatalf("zoom 2 halves the extent below the margin, expected ErrInvalidMargin, got %v", err)
	}
	if _, err := New(origin, 800, 600, 0, 10); !errors.Is(err, geom.ErrInvalidInput) {
		t.Fatalf("zero zoom: expected ErrInvalidInput, got %v", err)
	}
}

func TestCamera_ScreenRoundTrip(t *testing.T) {
	c, _ := New(geom.Pt(100, 200), 800, 600, 1, margin)
	sx, sy := c.WorldToScreen(geom.Pt(100, 200), 800, 600)
	if sx != 400 || sy != 300 {
		t.Fatalf("centre should map to screen centre, got (%v,%v)", sx, sy)
	}
	// y-up world: a point above the centre lands higher on screen (smaller y).
	_, syAbove := c.WorldToScreen(geom.Pt(100, 250), 800, 600)
	if syAbove >= sy {
		t.Fatalf("expected smaller screen y above the centre, got %v", syAbove)
	}
	p := c.ScreenToWorld(123, 456, 800, 600)
	rx, ry := c.WorldToScreen(p, 800, 600)
	if math.Abs(rx-123) > 1e-9 || math.Abs(ry-456) > 1e-9 {
		t.Fatalf("round trip mismatch: (%v,%v)", rx, ry)
	}
}
