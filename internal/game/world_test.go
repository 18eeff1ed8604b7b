package game

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/Sightline/internal/config"
	"github.com/Garsondee/Sightline/internal/geom"
)

// blockedWorld has the player and one enemy on y=350 with a single wall
// tile between them.
func blockedWorld(t *testing.T, opts ...WorldOption) *World {
	t.Helper()
	base := []WorldOption{
		WithoutRandomWalls(),
		WithPlayerAt(geom.Pt(50, 350)),
		WithEnemies(geom.Pt(350, 350)),
		WithWall(200, 350, 64, 64),
	}
	w, err := NewWorld(config.Default(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestWorld_DefaultLayoutIsSeeded(t *testing.T) {
	a, err := NewWorld(config.Default(), WithSeed(11))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewWorld(config.Default(), WithSeed(11))
	if err != nil {
		t.Fatal(err)
	}
	if a.Walls.Len() == 0 || a.Walls.Len() > 100 {
		t.Fatalf("expected between 1 and 100 walls, got %d", a.Walls.Len())
	}
	if a.Walls.Len() != b.Walls.Len() {
		t.Fatalf("same seed produced %d vs %d walls", a.Walls.Len(), b.Walls.Len())
	}
	for i, box := range a.Walls.Boxes() {
		if box != b.Walls.Boxes()[i] {
			t.Fatalf("wall %d differs between runs with the same seed", i)
		}
		if box.Width != 64 || box.Height != 64 {
			t.Fatalf("wall %d: expected 64x64 tile at scale 0.5, got %vx%v", i, box.Width, box.Height)
		}
	}
}

func TestWorld_WallBetweenBlocksSight(t *testing.T) {
	w := blockedWorld(t)
	if err := w.Step(Intent{}); err != nil {
		t.Fatal(err)
	}
	if w.Visible[0] {
		t.Fatal("wall between player and enemy should block sight")
	}
	if n := w.SimLog.CountCategory(catVision, ""); n != 0 {
		t.Fatalf("no visibility change expected, got %d entries:\n%s", n, w.SimLog.Format())
	}
}

func TestWorld_WalkingClearOfWallGainsSight(t *testing.T) {
	w := blockedWorld(t)
	tick, err := w.RunUntil(Intent{Up: true}, (*World).AnyVisible, 100)
	if err != nil {
		t.Fatal(err)
	}
	if tick < 0 {
		t.Fatalf("never gained sight; player at %v", w.Player.Position())
	}
	// The segment slopes down to the enemy, so it clears the tile's top
	// right corner (232,382) only once the player is above y~431.4.
	if y := w.Player.Position().Y; y < 431 {
		t.Fatalf("sight gained too early at y=%v", y)
	}
	e, ok := w.SimLog.LastOf(catVision, keyGained)
	if !ok || e.Entity != "E0" || e.Tick != tick {
		t.Fatalf("expected a gained entry for E0 at T=%d, log:\n%s", tick, w.SimLog.Format())
	}
}

func TestWorld_EmptyFieldAlwaysVisible(t *testing.T) {
	w, err := NewWorld(config.Default(), WithoutRandomWalls(), WithEnemies(geom.Pt(350, 350), geom.Pt(-200, 900)))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.RunTicks(30, Intent{Right: true}); err != nil {
		t.Fatal(err)
	}
	r := w.Report()
	if r.VisibleRatio() != 1 {
		t.Fatalf("expected every enemy visible every tick, ratio=%v", r.VisibleRatio())
	}
	for _, e := range r.Enemies {
		if e.FirstSeenTick != 1 {
			t.Fatalf("%s: expected first sighting at T=1, got %d", e.Label, e.FirstSeenTick)
		}
	}
}

func TestWorld_MaxSightDistance(t *testing.T) {
	cfg := config.Default()
	cfg.Game.MaxSightDistance = 100
	w, err := NewWorld(cfg, WithoutRandomWalls(), WithPlayerAt(geom.Pt(50, 350)), WithEnemies(geom.Pt(350, 350)))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Step(Intent{}); err != nil {
		t.Fatal(err)
	}
	if w.Visible[0] {
		t.Fatal("enemy beyond max sight distance should not be visible")
	}
}

func TestWorld_FirstStepScrollsCameraOnce(t *testing.T) {
	w := blockedWorld(t)
	if err := w.Step(Intent{}); err != nil {
		t.Fatal(err)
	}
	// Player box spans x 26..74, y 318..382; deadzone starts as x 250..550, y 250..350.
	want := geom.Pt(400+(26-250), 300+(382-350))
	if w.Camera.Center != want {
		t.Fatalf("expected camera centre %v, got %v", want, w.Camera.Center)
	}
	if err := w.RunTicks(5, Intent{}); err != nil {
		t.Fatal(err)
	}
	if w.CameraMoves() != 1 {
		t.Fatalf("standing still should not scroll again, moves=%d", w.CameraMoves())
	}
	if n := w.SimLog.CountCategory(catCamera, keyScroll); n != 1 {
		t.Fatalf("expected one scroll entry, got %d", n)
	}
}

func TestWorld_CameraTracksWalkingPlayer(t *testing.T) {
	w, err := NewWorld(config.Default(), WithoutRandomWalls())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.RunTicks(200, Intent{Right: true}); err != nil {
		t.Fatal(err)
	}
	view := w.Camera.View()
	p := w.Player.Box
	if p.Right() > view.Right()-w.Camera.Margin+1e-9 {
		t.Fatalf("player right edge %v escaped the deadzone (boundary %v)", p.Right(), view.Right()-w.Camera.Margin)
	}
	if p.Right() < view.Right()-w.Camera.Margin-1e-9 {
		t.Fatalf("camera should sit exactly on the player's right edge, got boundary %v edge %v", view.Right()-w.Camera.Margin, p.Right())
	}
}

func TestWorld_PlayerStopsFlushAgainstWall(t *testing.T) {
	w := blockedWorld(t, WithPlayerAt(geom.Pt(100, 350)))
	if err := w.RunTicks(20, Intent{Right: true}); err != nil {
		t.Fatal(err)
	}
	// Wall left edge at 168, player half-width 24.
	if x := w.Player.Position().X; x != 144 {
		t.Fatalf("expected player flush at x=144, got %v", x)
	}
	if w.Report().WallHits == 0 {
		t.Fatal("expected wall hits to be counted")
	}
}

func TestWorld_PlayerSlidesAlongWall(t *testing.T) {
	w := blockedWorld(t, WithPlayerAt(geom.Pt(144, 350)))
	if err := w.RunTicks(4, Intent{Right: true, Up: true}); err != nil {
		t.Fatal(err)
	}
	p := w.Player.Position()
	if p.X != 144 || p.Y != 370 {
		t.Fatalf("expected slide to (144,370), got %v", p)
	}
}

func TestWorld_RejectsNonFiniteStart(t *testing.T) {
	_, err := NewWorld(config.Default(), WithEnemies(geom.Pt(0, math.Inf(1))))
	if !errors.Is(err, geom.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWorld_RejectsNonFiniteConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Game.SpriteScale = math.NaN()
	if _, err := NewWorld(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected config.ErrInvalid, got %v", err)
	}
}

func TestWorld_OverflowingSpriteSizeIsAnError(t *testing.T) {
	cfg := config.Default()
	// Finite, but 128 * scale overflows to +Inf.
	cfg.Game.SpriteScale = 1e307
	if _, err := NewWorld(cfg); !errors.Is(err, geom.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWorld_RejectsNegativeWall(t *testing.T) {
	_, err := NewWorld(config.Default(), WithWall(0, 0, -4, 4))
	if !errors.Is(err, geom.ErrInvalidOccluder) {
		t.Fatalf("expected ErrInvalidOccluder, got %v", err)
	}
}

func TestWorld_VerboseLogsPositions(t *testing.T) {
	w := blockedWorld(t, WithVerbose(true))
	if err := w.RunScript(4, []Intent{{Up: true}, {Down: true}}); err != nil {
		t.Fatal(err)
	}
	pos := w.SimLog.Filter(catMove, keyPos)
	if len(pos) != 4 {
		t.Fatalf("expected 4 position entries, got %d", len(pos))
	}
	if w.Player.Position().Y != 350 {
		t.Fatalf("up/down script should return to start, got %v", w.Player.Position())
	}
}

func TestReport_String(t *testing.T) {
	w := blockedWorld(t)
	_ = w.RunTicks(3, Intent{})
	s := w.Report().String()
	for _, want := range []string{"Line of Sight Report", "E0", "hidden", "first never"} {
		if !strings.Contains(s, want) {
			t.Fatalf("report missing %q:\n%s", want, s)
		}
	}
}

func TestIntent_Velocity(t *testing.T) {
	cases := []struct {
		in     Intent
		dx, dy float64
	}{
		{Intent{}, 0, 0},
		{Intent{Up: true}, 0, 5},
		{Intent{Down: true}, 0, -5},
		{Intent{Left: true, Right: true}, 0, 0},
		{Intent{Up: true, Down: true, Right: true}, 5, 0},
		{Intent{Left: true, Down: true}, -5, -5},
	}
	for _, c := range cases {
		dx, dy := c.in.Velocity(5)
		if dx != c.dx || dy != c.dy {
			t.Fatalf("%+v: expected (%v,%v), got (%v,%v)", c.in, c.dx, c.dy, dx, dy)
		}
	}
}
