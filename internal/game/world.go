package game

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Garsondee/Sightline/internal/camera"
	"github.com/Garsondee/Sightline/internal/config"
	"github.com/Garsondee/Sightline/internal/geom"
	"github.com/Garsondee/Sightline/internal/sight"
)

// enemySight tracks one enemy's visibility history.
type enemySight struct {
	visibleTicks  int
	firstSeenTick int // -1 until first sighted
	changes       int
}

// World is the line-of-sight scene without any rendering: one player, a
// set of enemies and a field of walls, viewed through a deadzone camera.
// World is not safe for concurrent use.
type World struct {
	cfg    config.GameConfig
	ViewW  float64
	ViewH  float64
	Seed   int64
	Player *Sprite

	Enemies []*Sprite
	Walls   *sight.Grid
	Camera  camera.Camera

	// Visible[i] is whether Enemies[i] was in sight at the end of the last Step.
	Visible []bool
	SimLog  *SimLog
	Tick    int

	physics     *PhysicsSimple
	sightOpts   []sight.Option
	stats       []enemySight
	cameraMoves int
	wallHits    int
	rng         *rand.Rand
	log         *zap.Logger

	// option state consumed by NewWorld
	randomWalls bool
	extraWalls  []geom.AABB
	enemyStarts []geom.Point
	playerStart geom.Point
}

// Step advances the world one tick: apply intent, move with collisions,
// scroll the camera if the player left the deadzone, then recompute
// visibility from the player to every enemy.
func (w *World) Step(in Intent) error {
	w.Tick++

	w.Player.ChangeX, w.Player.ChangeY = in.Velocity(w.cfg.MovementSpeed)
	if hits := w.physics.Update(); len(hits) > 0 {
		w.wallHits++
		w.SimLog.AddVerbose(w.Tick, "P", catMove, keyBlocked, fmt.Sprintf("%d walls", len(hits)), float64(len(hits)))
	}
	w.SimLog.AddVerbose(w.Tick, "P", catMove, keyPos, w.Player.Position().String(), 0)

	next, moved, err := w.Camera.Follow(w.Player.Box)
	if err != nil {
		return fmt.Errorf("tick %d: camera: %w", w.Tick, err)
	}
	if moved {
		dx := next.Center.X - w.Camera.Center.X
		dy := next.Center.Y - w.Camera.Center.Y
		w.Camera = next
		w.cameraMoves++
		w.SimLog.Add(w.Tick, "--", catCamera, keyScroll,
			fmt.Sprintf("by (%.1f,%.1f) to %v", dx, dy, next.Center), dx*dx+dy*dy)
		w.log.Debug("camera scroll",
			zap.Int("tick", w.Tick),
			zap.Float64("dx", dx), zap.Float64("dy", dy),
			zap.Float64("x", next.Center.X), zap.Float64("y", next.Center.Y))
	}

	return w.updateVisibility()
}

func (w *World) updateVisibility() error {
	targets := make([]geom.Point, len(w.Enemies))
	for i, e := range w.Enemies {
		targets[i] = e.Position()
	}
	vis, err := sight.VisibleFrom(w.Player.Position(), targets, w.Walls, w.sightOpts...)
	if err != nil {
		return fmt.Errorf("tick %d: visibility: %w", w.Tick, err)
	}

	for i, now := range vis {
		st := &w.stats[i]
		if now {
			st.visibleTicks++
			if st.firstSeenTick < 0 {
				st.firstSeenTick = w.Tick
			}
		}
		if now == w.Visible[i] {
			continue
		}
		st.changes++
		key := keyLost
		if now {
			key = keyGained
		}
		label := enemyLabel(i)
		w.SimLog.Add(w.Tick, label, catVision, key,
			fmt.Sprintf("P%v -> %v", w.Player.Position(), targets[i]),
			w.Player.Position().Dist(targets[i]))
		w.log.Debug("line of sight changed", zap.String("enemy", label), zap.Bool("visible", now), zap.Int("tick", w.Tick))
	}
	w.Visible = vis
	return nil
}

// CameraMoves returns how many ticks scrolled the camera.
func (w *World) CameraMoves() int { return w.cameraMoves }

// AnyVisible reports whether the player currently sees at least one enemy.
func (w *World) AnyVisible() bool {
	for _, v := range w.Visible {
		if v {
			return true
		}
	}
	return false
}

func enemyLabel(i int) string { return fmt.Sprintf("E%d", i) }

// layoutWalls places the default wall grid: one tile per column and row
// at (col+1)*spacing, (row+1)*tileHeight, each dropped when a roll out of
// 100 lands at or below the skip percent.
func (w *World) layoutWalls() ([]geom.AABB, error) {
	tile := tileTexSize * w.cfg.SpriteScale
	var out []geom.AABB
	for col := 0; col < w.cfg.WallColumns; col++ {
		for row := 0; row < w.cfg.WallRows; row++ {
			x := float64(col+1) * w.cfg.WallSpacing
			y := float64(row+1) * tile
			if w.rng.Intn(100) > w.cfg.WallSkipPercent {
				b, err := geom.NewAABB(x, y, tile, tile)
				if err != nil {
					return nil, fmt.Errorf("wall col %d row %d: %w", col, row, err)
				}
				out = append(out, b)
			}
		}
	}
	return out, nil
}
