package main

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Garsondee/Sightline/internal/config"
)

func TestScenarioScript_Patrol(t *testing.T) {
	script, err := scenarioScript("patrol", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(script) != 12 {
		t.Fatalf("expected 4 legs of 3 ticks, got %d intents", len(script))
	}
	if !script[0].Right || !script[3].Up || !script[6].Left || !script[11].Down {
		t.Fatalf("unexpected leg order: %+v", script)
	}
}

func TestScenarioScript_Rejects(t *testing.T) {
	if _, err := scenarioScript("charge", 10); err == nil {
		t.Fatal("expected unknown scenario to fail")
	}
	if _, err := scenarioScript("patrol", 0); err == nil {
		t.Fatal("expected zero-length leg to fail")
	}
}

func TestSummarize(t *testing.T) {
	all := []runStats{
		{ratio: 0.5, gained: 2, lost: 1, scrolls: 10, firstSightTick: 10, neverSeen: map[string]struct{}{}},
		{ratio: 0.0, gained: 0, lost: 0, scrolls: 4, firstSightTick: -1, neverSeen: map[string]struct{}{"E0": {}}},
		{ratio: 1.0, gained: 1, lost: 0, scrolls: 1, firstSightTick: 30, neverSeen: map[string]struct{}{}},
	}
	agg := summarize(all)
	if agg.runs != 3 || agg.blindRuns != 1 {
		t.Fatalf("expected runs=3 blind=1, got runs=%d blind=%d", agg.runs, agg.blindRuns)
	}
	if agg.minRatio != 0 || agg.maxRatio != 1 || agg.avgRatio != 0.5 {
		t.Fatalf("unexpected ratios avg=%v min=%v max=%v", agg.avgRatio, agg.minRatio, agg.maxRatio)
	}
	if agg.avgGained != 1 || agg.avgScrolls != 5 {
		t.Fatalf("unexpected averages gained=%v scrolls=%v", agg.avgGained, agg.avgScrolls)
	}
	if agg.firstSightAvg != "20.0" {
		t.Fatalf("expected first sight avg 20.0, got %s", agg.firstSightAvg)
	}
	if got := joinSet(agg.neverSeenUnion); got != "E0" {
		t.Fatalf("expected never-seen union E0, got %s", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	agg := summarize(nil)
	if agg.runs != 0 || agg.firstSightAvg != "" {
		t.Fatalf("unexpected empty aggregate %+v", agg)
	}
}

func TestRunScenario_Deterministic(t *testing.T) {
	script, err := scenarioScript("sweep", 20)
	if err != nil {
		t.Fatal(err)
	}
	a, err := runScenario(config.Default(), 1, 7, 200, script, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	b, err := runScenario(config.Default(), 2, 7, 200, script, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if a.ratio != b.ratio || a.gained != b.gained || a.scrolls != b.scrolls {
		t.Fatalf("same seed diverged: %+v vs %+v", a, b)
	}
	if a.report.Tick != 200 || len(a.report.Enemies) != len(config.Default().Game.Enemies) {
		t.Fatalf("unexpected report %+v", a.report)
	}
}

func TestRunScenario_PerEnemyEventsAndLog(t *testing.T) {
	script, err := scenarioScript("patrol", 30)
	if err != nil {
		t.Fatal(err)
	}
	rs, err := runScenario(config.Default(), 1, 3, 400, script, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, n := range rs.enemyEvents {
		total += n
	}
	if len(rs.enemyEvents) != len(rs.report.Enemies) {
		t.Fatalf("expected a count for each of %d enemies, got %v", len(rs.report.Enemies), rs.enemyEvents)
	}
	if total != rs.gained+rs.lost {
		t.Fatalf("per-enemy events %d should equal gained+lost %d", total, rs.gained+rs.lost)
	}
	if rs.firstSightTick < 0 {
		if rs.lastSightTick != -1 {
			t.Fatalf("no sight gained but last_sight=%d", rs.lastSightTick)
		}
	} else if rs.lastSightTick < rs.firstSightTick {
		t.Fatalf("last_sight %d before first_sight %d", rs.lastSightTick, rs.firstSightTick)
	}
	lines := strings.Count(rs.simLog, "\n")
	if want := rs.gained + rs.lost + rs.scrolls; lines != want {
		t.Fatalf("expected %d sim log lines, got %d", want, lines)
	}
}

func TestJoinCounts(t *testing.T) {
	if got := joinCounts(map[string]int{"E1": 0, "E0": 4}); got != "E0=4 E1=0" {
		t.Fatalf("unexpected %q", got)
	}
	if got := joinCounts(nil); got != "none" {
		t.Fatalf("unexpected %q", got)
	}
}
