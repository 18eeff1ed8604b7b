package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Sightline/internal/geom"
)

// EnemyReport captures one enemy's visibility history.
type EnemyReport struct {
	Label         string
	Position      geom.Point
	Visible       bool // at the last tick
	VisibleTicks  int
	FirstSeenTick int // -1 if never seen
	Changes       int // gained + lost transitions
}

// VisibilityReport is a snapshot of a world's sight and camera statistics.
type VisibilityReport struct {
	Seed        int64
	Tick        int
	Walls       int
	Player      geom.Point
	Camera      geom.Point
	CameraMoves int
	WallHits    int
	Enemies     []EnemyReport
}

// Report snapshots the world's statistics.
func (w *World) Report() VisibilityReport {
	r := VisibilityReport{
		Seed:        w.Seed,
		Tick:        w.Tick,
		Walls:       w.Walls.Len(),
		Player:      w.Player.Position(),
		Camera:      w.Camera.Center,
		CameraMoves: w.cameraMoves,
		WallHits:    w.wallHits,
		Enemies:     make([]EnemyReport, len(w.Enemies)),
	}
	for i, e := range w.Enemies {
		st := w.stats[i]
		r.Enemies[i] = EnemyReport{
			Label:         enemyLabel(i),
			Position:      e.Position(),
			Visible:       w.Visible[i],
			VisibleTicks:  st.visibleTicks,
			FirstSeenTick: st.firstSeenTick,
			Changes:       st.changes,
		}
	}
	return r
}

// VisibleRatio is the fraction of enemy-ticks in which the enemy was seen.
func (r VisibilityReport) VisibleRatio() float64 {
	if r.Tick == 0 || len(r.Enemies) == 0 {
		return 0
	}
	total := 0
	for _, e := range r.Enemies {
		total += e.VisibleTicks
	}
	return float64(total) / float64(r.Tick*len(r.Enemies))
}

// String renders the report as plain text for the clipboard and terminal.
func (r VisibilityReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Line of Sight Report (T=%d seed=%d) ===\n", r.Tick, r.Seed)
	fmt.Fprintf(&sb, "walls=%d player=%v camera=%v\n", r.Walls, r.Player, r.Camera)
	fmt.Fprintf(&sb, "camera_moves=%d wall_hits=%d visible_ratio=%.3f\n", r.CameraMoves, r.WallHits, r.VisibleRatio())
	for _, e := range r.Enemies {
		state := "hidden"
		if e.Visible {
			state = "VISIBLE"
		}
		first := "never"
		if e.FirstSeenTick >= 0 {
			first = fmt.Sprintf("T=%d", e.FirstSeenTick)
		}
		fmt.Fprintf(&sb, "  %-4s %-8s at %v  seen %d/%d ticks  first %s  changes %d\n",
			e.Label, state, e.Position, e.VisibleTicks, r.Tick, first, e.Changes)
	}
	return sb.String()
}
