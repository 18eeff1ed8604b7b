package sight

import (
	"fmt"
	"math"

	"github.com/Garsondee/Sightline/internal/geom"
)

// OccluderSet yields the occluders that may intersect a query region.
// Implementations may return extra boxes but must never omit one that
// touches bounds. visit returns false to stop the scan early.
type OccluderSet interface {
	Candidates(bounds geom.AABB, visit func(geom.AABB) bool)
}

// Occluders is a plain slice scanned in full on every query.
type Occluders []geom.AABB

// NewOccluders validates every box before accepting it.
func NewOccluders(boxes ...geom.AABB) (Occluders, error) {
	out := make(Occluders, 0, len(boxes))
	for i, b := range boxes {
		if err := validate(b); err != nil {
			return nil, fmt.Errorf("occluder %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (o Occluders) Candidates(_ geom.AABB, visit func(geom.AABB) bool) {
	for _, b := range o {
		if !visit(b) {
			return
		}
	}
}

func validate(b geom.AABB) error {
	_, err := geom.NewAABB(b.X, b.Y, b.Width, b.Height)
	return err
}

type cellKey struct {
	X, Y int64
}

const (
	// maxCell bounds cell coordinates. Beyond it a query falls back to a
	// full scan rather than risk integer overflow.
	maxCell = 1 << 40
	// maxBoxCells is the most cells one box is written into. Larger boxes
	// go on the oversized list, which every query visits.
	maxBoxCells = 1024
)

// Grid is a uniform spatial hash over occluders. A box is stored in every
// cell it covers; queries walk the cells under the query bounds. Boxes
// covering more than maxBoxCells cells are kept on a separate list so
// memory stays bounded.
type Grid struct {
	cellSize  float64
	boxes     []geom.AABB
	cells     map[cellKey][]int
	oversized []int
}

// NewGrid returns an empty grid. cellSize must be positive.
func NewGrid(cellSize float64) (*Grid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("grid cell size %v: %w", cellSize, geom.ErrInvalidInput)
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}, nil
}

// Insert adds a box. Zero-area boxes are accepted but not indexed since
// they can never block.
func (g *Grid) Insert(b geom.AABB) error {
	if err := validate(b); err != nil {
		return err
	}
	idx := len(g.boxes)
	g.boxes = append(g.boxes, b)
	if b.Degenerate() {
		return nil
	}
	lo, hi, ok := g.cellRange(b)
	if !ok || cellSpan(lo, hi) > maxBoxCells {
		g.oversized = append(g.oversized, idx)
		return nil
	}
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			k := cellKey{x, y}
			g.cells[k] = append(g.cells[k], idx)
		}
	}
	return nil
}

// Len returns the number of inserted boxes.
func (g *Grid) Len() int { return len(g.boxes) }

// Boxes returns the inserted boxes in insertion order.
func (g *Grid) Boxes() []geom.AABB { return g.boxes }

// Candidates visits each indexed box whose cells overlap bounds, once,
// plus every oversized box.
func (g *Grid) Candidates(bounds geom.AABB, visit func(geom.AABB) bool) {
	lo, hi, ok := g.cellRange(bounds)
	if !ok || cellSpan(lo, hi) > float64(len(g.cells)) {
		// Walking the cells would cost more than scanning everything.
		for _, b := range g.boxes {
			if b.Degenerate() {
				continue
			}
			if !visit(b) {
				return
			}
		}
		return
	}

	for _, idx := range g.oversized {
		if !visit(g.boxes[idx]) {
			return
		}
	}
	var seen map[int]struct{}
	if lo != hi {
		seen = make(map[int]struct{})
	}
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for _, idx := range g.cells[cellKey{x, y}] {
				if seen != nil {
					if _, dup := seen[idx]; dup {
						continue
					}
					seen[idx] = struct{}{}
				}
				if !visit(g.boxes[idx]) {
					return
				}
			}
		}
	}
}

// cellRange returns the inclusive cell range under b. ok is false when a
// cell coordinate lies outside ±maxCell.
func (g *Grid) cellRange(b geom.AABB) (lo, hi cellKey, ok bool) {
	lx, ly := g.cellCoord(b.Left()), g.cellCoord(b.Bottom())
	hx, hy := g.cellCoord(b.Right()), g.cellCoord(b.Top())
	for _, c := range [...]float64{lx, ly, hx, hy} {
		if !(math.Abs(c) <= maxCell) {
			return cellKey{}, cellKey{}, false
		}
	}
	return cellKey{int64(lx), int64(ly)}, cellKey{int64(hx), int64(hy)}, true
}

func (g *Grid) cellCoord(v float64) float64 {
	return math.Floor(v / g.cellSize)
}

// cellSpan counts the cells in an inclusive range. It is computed in
// float64 so wide ranges cannot wrap.
func cellSpan(lo, hi cellKey) float64 {
	return (float64(hi.X-lo.X) + 1) * (float64(hi.Y-lo.Y) + 1)
}
