// Package sight answers line-of-sight queries against sets of axis-aligned
// occluders.
package sight

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Sightline/internal/geom"
)

// parallelEps guards the slab division when the segment is parallel to an axis.
const parallelEps = 1e-12

// A crossing must run at least grazeTol world units through a box, or
// grazeRel times the largest coordinate involved when that is bigger.
// Anything shorter is a corner graze or rounding noise.
const (
	grazeTol = 1e-9
	grazeRel = 1e-12
)

// Option tunes a single query.
type Option func(*query)

type query struct {
	maxDist    float64
	hasMaxDist bool
}

// WithMaxDistance reports no sight when observer and target are farther
// apart than d. Occluders are not tested in that case.
func WithMaxDistance(d float64) Option {
	return func(q *query) {
		q.maxDist = d
		q.hasMaxDist = true
	}
}

// HasLineOfSight reports whether the straight segment from observer to
// target crosses the interior of no occluder. Segments that only touch an
// occluder edge or corner are not blocked, and zero-area occluders never
// block.
func HasLineOfSight(observer, target geom.Point, occluders OccluderSet, opts ...Option) (bool, error) {
	if !observer.Finite() || !target.Finite() {
		return false, fmt.Errorf("sight %v -> %v: %w", observer, target, geom.ErrInvalidInput)
	}
	var q query
	for _, o := range opts {
		o(&q)
	}
	if q.hasMaxDist && (math.IsNaN(q.maxDist) || q.maxDist < 0) {
		return false, fmt.Errorf("max distance %v: %w", q.maxDist, geom.ErrInvalidInput)
	}

	if observer == target {
		return true, nil
	}
	if q.hasMaxDist && observer.Dist(target) > q.maxDist {
		return false, nil
	}
	if occluders == nil {
		return true, nil
	}

	// Fixed endpoint order keeps A->B and B->A bit-identical.
	a, b := observer, target
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}

	visible := true
	occluders.Candidates(geom.BoundsOf(a, b), func(box geom.AABB) bool {
		if segmentCrosses(a, b, box) {
			visible = false
			return false
		}
		return true
	})
	return visible, nil
}

// VisibleFrom runs HasLineOfSight from one observer to every target. The
// queries share no state, so they are spread across goroutines; the
// occluder set must not be mutated until VisibleFrom returns.
func VisibleFrom(observer geom.Point, targets []geom.Point, occluders OccluderSet, opts ...Option) ([]bool, error) {
	out := make([]bool, len(targets))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range targets {
		g.Go(func() error {
			ok, err := HasLineOfSight(observer, t, occluders, opts...)
			if err != nil {
				return fmt.Errorf("target %d: %w", i, err)
			}
			out[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// segmentCrosses clips the parametric interval [0,1] of a->b against the
// box's x and y slabs. A non-empty interval of positive length means the
// segment passes through the box interior.
func segmentCrosses(a, b geom.Point, box geom.AABB) bool {
	if box.Degenerate() {
		return false
	}
	tMin, tMax := 0.0, 1.0

	var ok bool
	if tMin, tMax, ok = clipSlab(a.X, b.X-a.X, box.Left(), box.Right(), tMin, tMax); !ok {
		return false
	}
	if tMin, tMax, ok = clipSlab(a.Y, b.Y-a.Y, box.Bottom(), box.Top(), tMin, tMax); !ok {
		return false
	}
	if tMax <= tMin {
		return false
	}
	scale := max(math.Abs(a.X), math.Abs(a.Y), math.Abs(b.X), math.Abs(b.Y),
		math.Abs(box.Left()), math.Abs(box.Right()), math.Abs(box.Bottom()), math.Abs(box.Top()))
	inside := (tMax - tMin) * math.Hypot(b.X-a.X, b.Y-a.Y)
	return inside > max(grazeTol, grazeRel*scale)
}

// clipSlab narrows [tMin,tMax] to the part of the segment with lo <= o+t*d <= hi.
// A segment parallel to the slab must lie strictly between lo and hi; one
// running exactly along an edge is a tangent and does not count.
func clipSlab(o, d, lo, hi, tMin, tMax float64) (float64, float64, bool) {
	if math.Abs(d) < parallelEps {
		if o <= lo || o >= hi {
			return 0, 0, false
		}
		return tMin, tMax, true
	}
	inv := 1.0 / d
	t1 := (lo - o) * inv
	t2 := (hi - o) * inv
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	tMin = math.Max(tMin, t1)
	tMax = math.Min(tMax, t2)
	if tMin > tMax {
		return 0, 0, false
	}
	return tMin, tMax, true
}
