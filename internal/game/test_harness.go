package game

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Garsondee/Sightline/internal/camera"
	"github.com/Garsondee/Sightline/internal/config"
	"github.com/Garsondee/Sightline/internal/geom"
	"github.com/Garsondee/Sightline/internal/logging"
	"github.com/Garsondee/Sightline/internal/sight"
)

// worldOptionKind controls the pass in which an option is applied.
type worldOptionKind int

const (
	worldOptInfra  worldOptionKind = iota // seed, viewport, logging, verbose; applied first
	worldOptLayout                        // walls, enemies, player; applied after defaults are seeded
)

// WorldOption is a builder function applied to a World during construction.
type WorldOption struct {
	kind worldOptionKind
	fn   func(*World)
}

// WithSeed sets the RNG seed used for the wall layout.
func WithSeed(seed int64) WorldOption {
	return WorldOption{worldOptInfra, func(w *World) {
		w.Seed = seed
	}}
}

// WithViewport sets the screen size the camera is fitted to.
func WithViewport(width, height float64) WorldOption {
	return WorldOption{worldOptInfra, func(w *World) {
		w.ViewW = width
		w.ViewH = height
	}}
}

// WithLogger sets the zap logger for camera and visibility events.
func WithLogger(l *zap.Logger) WorldOption {
	return WorldOption{worldOptInfra, func(w *World) {
		w.log = logging.OrNop(l)
	}}
}

// WithVerbose records per-tick movement entries in the SimLog.
func WithVerbose(v bool) WorldOption {
	return WorldOption{worldOptInfra, func(w *World) {
		w.SimLog = NewSimLog(v)
	}}
}

// WithoutRandomWalls skips the seeded wall grid; only WithWall walls exist.
func WithoutRandomWalls() WorldOption {
	return WorldOption{worldOptInfra, func(w *World) {
		w.randomWalls = false
	}}
}

// WithWall adds a wall centred on (x,y).
func WithWall(x, y, width, height float64) WorldOption {
	return WorldOption{worldOptLayout, func(w *World) {
		w.extraWalls = append(w.extraWalls, geom.AABB{X: x, Y: y, Width: width, Height: height})
	}}
}

// WithEnemies replaces the configured enemy positions.
func WithEnemies(pts ...geom.Point) WorldOption {
	return WorldOption{worldOptLayout, func(w *World) {
		w.enemyStarts = append([]geom.Point(nil), pts...)
	}}
}

// WithPlayerAt overrides the player start.
func WithPlayerAt(p geom.Point) WorldOption {
	return WorldOption{worldOptLayout, func(w *World) {
		w.playerStart = p
	}}
}

// NewWorld builds a World from cfg in ordered passes:
//  1. Infrastructure (seed, viewport, logging)
//  2. Layout overrides (walls, enemies, player)
//  3. Wall grid, sprites, physics and camera
func NewWorld(cfg config.Config, opts ...WorldOption) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := cfg.Game
	w := &World{
		cfg:         g,
		ViewW:       float64(cfg.Window.Width),
		ViewH:       float64(cfg.Window.Height),
		Seed:        g.Seed,
		SimLog:      NewSimLog(false),
		log:         zap.NewNop(),
		randomWalls: true,
		playerStart: geom.Pt(g.PlayerStart[0], g.PlayerStart[1]),
	}
	for _, e := range g.Enemies {
		w.enemyStarts = append(w.enemyStarts, geom.Pt(e[0], e[1]))
	}
	for _, o := range opts {
		if o.kind == worldOptInfra {
			o.fn(w)
		}
	}
	for _, o := range opts {
		if o.kind == worldOptLayout {
			o.fn(w)
		}
	}
	w.rng = rand.New(rand.NewSource(w.Seed)) // #nosec G404 -- layout only

	grid, err := sight.NewGrid(g.GridCellSize)
	if err != nil {
		return nil, fmt.Errorf("wall index: %w", err)
	}
	var walls []geom.AABB
	if w.randomWalls {
		if walls, err = w.layoutWalls(); err != nil {
			return nil, err
		}
	}
	walls = append(walls, w.extraWalls...)
	for i, b := range walls {
		if err := grid.Insert(b); err != nil {
			return nil, fmt.Errorf("wall %d: %w", i, err)
		}
	}
	w.Walls = grid

	if !w.playerStart.Finite() {
		return nil, fmt.Errorf("player start %v: %w", w.playerStart, geom.ErrInvalidInput)
	}
	if w.Player, err = newCharacter(w.playerStart.X, w.playerStart.Y, g.SpriteScale); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	for i, p := range w.enemyStarts {
		if !p.Finite() {
			return nil, fmt.Errorf("enemy start %v: %w", p, geom.ErrInvalidInput)
		}
		e, err := newCharacter(p.X, p.Y, g.SpriteScale)
		if err != nil {
			return nil, fmt.Errorf("enemy %d: %w", i, err)
		}
		w.Enemies = append(w.Enemies, e)
	}
	w.Visible = make([]bool, len(w.Enemies))
	w.stats = make([]enemySight, len(w.Enemies))
	for i := range w.stats {
		w.stats[i].firstSeenTick = -1
	}
	w.physics = NewPhysicsSimple(w.Player, w.Walls)

	if g.MaxSightDistance > 0 {
		w.sightOpts = append(w.sightOpts, sight.WithMaxDistance(g.MaxSightDistance))
	}

	// The camera starts looking at the first screenful of the world.
	cam, err := camera.New(geom.Pt(w.ViewW/2, w.ViewH/2), w.ViewW, w.ViewH, g.Zoom, g.ViewportMargin)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	w.Camera = cam

	w.log.Info("world ready",
		zap.Int64("seed", w.Seed),
		zap.Int("walls", w.Walls.Len()),
		zap.Int("enemies", len(w.Enemies)))
	return w, nil
}

// RunTicks advances the world n ticks with a fixed intent.
func (w *World) RunTicks(n int, in Intent) error {
	for i := 0; i < n; i++ {
		if err := w.Step(in); err != nil {
			return err
		}
	}
	return nil
}

// RunScript advances the world one tick per intent in script, repeating the
// script until n ticks have run.
func (w *World) RunScript(n int, script []Intent) error {
	if len(script) == 0 {
		return w.RunTicks(n, Intent{})
	}
	for i := 0; i < n; i++ {
		if err := w.Step(script[i%len(script)]); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil advances the world up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (w *World) RunUntil(in Intent, predicate func(*World) bool, maxTicks int) (int, error) {
	for i := 0; i < maxTicks; i++ {
		if err := w.Step(in); err != nil {
			return -1, err
		}
		if predicate(w) {
			return w.Tick, nil
		}
	}
	return -1, nil
}
