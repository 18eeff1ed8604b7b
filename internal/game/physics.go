package game

import (
	"math"

	"github.com/Garsondee/Sightline/internal/geom"
	"github.com/Garsondee/Sightline/internal/sight"
)

// PhysicsSimple moves one sprite and stops it flush against walls. Each
// axis is moved and resolved separately, x first, so the sprite slides
// along walls it hits at an angle.
type PhysicsSimple struct {
	sprite *Sprite
	walls  sight.OccluderSet
}

// NewPhysicsSimple returns a physics engine for sprite against walls.
func NewPhysicsSimple(sprite *Sprite, walls sight.OccluderSet) *PhysicsSimple {
	return &PhysicsSimple{sprite: sprite, walls: walls}
}

// Update applies the sprite's velocity and returns the walls it ran into.
func (p *PhysicsSimple) Update() []geom.AABB {
	s := p.sprite
	var hit []geom.AABB

	if s.ChangeX != 0 {
		s.Box.X += s.ChangeX
		if walls := p.colliding(s.Box); len(walls) > 0 {
			hit = append(hit, walls...)
			if s.ChangeX > 0 {
				edge := math.Inf(1)
				for _, w := range walls {
					edge = math.Min(edge, w.Left())
				}
				s.Box.X = edge - s.Box.Width/2
			} else {
				edge := math.Inf(-1)
				for _, w := range walls {
					edge = math.Max(edge, w.Right())
				}
				s.Box.X = edge + s.Box.Width/2
			}
		}
	}

	if s.ChangeY != 0 {
		s.Box.Y += s.ChangeY
		if walls := p.colliding(s.Box); len(walls) > 0 {
			hit = append(hit, walls...)
			if s.ChangeY > 0 {
				edge := math.Inf(1)
				for _, w := range walls {
					edge = math.Min(edge, w.Bottom())
				}
				s.Box.Y = edge - s.Box.Height/2
			} else {
				edge := math.Inf(-1)
				for _, w := range walls {
					edge = math.Max(edge, w.Top())
				}
				s.Box.Y = edge + s.Box.Height/2
			}
		}
	}
	return hit
}

// colliding returns walls whose interiors overlap box. Touching is not a hit.
func (p *PhysicsSimple) colliding(box geom.AABB) []geom.AABB {
	if p.walls == nil {
		return nil
	}
	var out []geom.AABB
	p.walls.Candidates(box, func(w geom.AABB) bool {
		if !w.Degenerate() && box.Overlaps(w) {
			out = append(out, w)
		}
		return true
	})
	return out
}
