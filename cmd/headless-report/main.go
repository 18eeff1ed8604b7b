package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Sightline/internal/config"
	"github.com/Garsondee/Sightline/internal/game"
	"github.com/Garsondee/Sightline/internal/logging"
)

type runStats struct {
	runIndex int
	seed     int64

	firstSightTick int
	firstLostTick  int
	lastSightTick  int

	gained    int
	lost      int
	scrolls   int
	wallHits  int
	ratio     float64
	neverSeen map[string]struct{}
	report    game.VisibilityReport

	// enemyEvents counts sim log entries per enemy label.
	enemyEvents map[string]int
	simLog      string
}

var (
	flagRuns     int
	flagTicks    int
	flagSeedBase int64
	flagSeedStep int64
	flagScenario string
	flagConfig   string
	flagLeg      int
	flagDumpLog  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "headless-report",
	Short: "Run seeded walks without a window and summarise line of sight",
	Long: `Runs the line-of-sight world headlessly for several seeds and prints
per-run and aggregate visibility statistics.

Scenarios:
  patrol  - Walk a square loop starting rightwards
  sweep   - Walk right while zig-zagging up and down`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().IntVar(&flagRuns, "runs", 5, "Number of headless simulation runs")
	rootCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Ticks per run")
	rootCmd.Flags().Int64Var(&flagSeedBase, "seed-base", 42, "Base RNG seed for run 1")
	rootCmd.Flags().Int64Var(&flagSeedStep, "seed-step", 1, "Seed increment between runs")
	rootCmd.Flags().StringVar(&flagScenario, "scenario", "patrol", "Scenario name: patrol, sweep")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a config YAML")
	rootCmd.Flags().IntVar(&flagLeg, "leg", 60, "Ticks per scripted walk leg")
	rootCmd.Flags().BoolVar(&flagDumpLog, "dump-log", false, "Print each run's full sim log")
}

func run(_ *cobra.Command, _ []string) error {
	if flagRuns <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if flagTicks <= 0 {
		return fmt.Errorf("--ticks must be > 0")
	}
	script, err := scenarioScript(flagScenario, flagLeg)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, "json")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	fmt.Printf("=== Headless Line of Sight Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", flagScenario, flagRuns, flagTicks, flagSeedBase, flagSeedStep)

	all := make([]runStats, flagRuns)
	var eg errgroup.Group
	for i := 0; i < flagRuns; i++ {
		seed := flagSeedBase + int64(i)*flagSeedStep
		eg.Go(func() error {
			rs, err := runScenario(cfg, i+1, seed, flagTicks, script, log)
			if err != nil {
				return fmt.Errorf("run %d (seed=%d): %w", i+1, seed, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all)
	return nil
}

// scenarioScript returns one loop of intents; World.RunScript repeats it.
func scenarioScript(name string, leg int) ([]game.Intent, error) {
	if leg <= 0 {
		return nil, fmt.Errorf("--leg must be > 0")
	}
	var legs []game.Intent
	switch name {
	case "patrol":
		legs = []game.Intent{{Right: true}, {Up: true}, {Left: true}, {Down: true}}
	case "sweep":
		legs = []game.Intent{{Right: true, Up: true}, {Right: true, Down: true}}
	default:
		return nil, fmt.Errorf("unsupported scenario %q (supported: patrol, sweep)", name)
	}
	script := make([]game.Intent, 0, len(legs)*leg)
	for _, in := range legs {
		for i := 0; i < leg; i++ {
			script = append(script, in)
		}
	}
	return script, nil
}

func runScenario(cfg config.Config, runIndex int, seed int64, ticks int, script []game.Intent, log *zap.Logger) (runStats, error) {
	w, err := game.NewWorld(cfg,
		game.WithSeed(seed),
		game.WithLogger(log.With(zap.Int("run", runIndex))),
	)
	if err != nil {
		return runStats{}, err
	}
	if err := w.RunScript(ticks, script); err != nil {
		return runStats{}, err
	}

	entries := w.SimLog.Entries()
	r := w.Report()
	never := map[string]struct{}{}
	events := make(map[string]int, len(r.Enemies))
	for _, e := range r.Enemies {
		if e.FirstSeenTick < 0 {
			never[e.Label] = struct{}{}
		}
		events[e.Label] = len(w.SimLog.FilterEntity(e.Label))
	}
	lastSight := -1
	if e, ok := w.SimLog.LastOf("vision", "gained"); ok {
		lastSight = e.Tick
	}
	return runStats{
		runIndex:       runIndex,
		seed:           seed,
		firstSightTick: firstTick(entries, "vision", "gained"),
		firstLostTick:  firstTick(entries, "vision", "lost"),
		lastSightTick:  lastSight,
		gained:         w.SimLog.CountCategory("vision", "gained"),
		lost:           w.SimLog.CountCategory("vision", "lost"),
		scrolls:        w.SimLog.CountCategory("camera", "scroll"),
		wallHits:       r.WallHits,
		ratio:          r.VisibleRatio(),
		neverSeen:      never,
		report:         r,
		enemyEvents:    events,
		simLog:         w.SimLog.Format(),
	}, nil
}

func firstTick(entries []game.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_sight=%d first_lost=%d last_sight=%d\n", rs.firstSightTick, rs.firstLostTick, rs.lastSightTick)
	fmt.Printf("event_totals: gained=%d lost=%d camera_scroll=%d wall_hits=%d\n", rs.gained, rs.lost, rs.scrolls, rs.wallHits)
	fmt.Printf("visible_ratio=%.3f never_seen=%s\n", rs.ratio, joinSet(rs.neverSeen))
	fmt.Printf("enemy_events: %s\n", joinCounts(rs.enemyEvents))
	fmt.Print(rs.report.String())
	if flagDumpLog {
		fmt.Println("sim_log:")
		fmt.Print(rs.simLog)
	}
	fmt.Println()
}

type aggregate struct {
	runs           int
	avgRatio       float64
	minRatio       float64
	maxRatio       float64
	avgGained      float64
	avgLost        float64
	avgScrolls     float64
	firstSightAvg  string
	blindRuns      int
	neverSeenUnion map[string]struct{}
}

func summarize(all []runStats) aggregate {
	agg := aggregate{runs: len(all), neverSeenUnion: map[string]struct{}{}}
	if len(all) == 0 {
		return agg
	}
	agg.minRatio, agg.maxRatio = all[0].ratio, all[0].ratio
	totalGained, totalLost, totalScrolls := 0, 0, 0
	ratioSum := 0.0
	var sightTicks []int
	for _, rs := range all {
		ratioSum += rs.ratio
		agg.minRatio = min(agg.minRatio, rs.ratio)
		agg.maxRatio = max(agg.maxRatio, rs.ratio)
		totalGained += rs.gained
		totalLost += rs.lost
		totalScrolls += rs.scrolls
		if rs.firstSightTick >= 0 {
			sightTicks = append(sightTicks, rs.firstSightTick)
		} else {
			agg.blindRuns++
		}
		for label := range rs.neverSeen {
			agg.neverSeenUnion[label] = struct{}{}
		}
	}
	agg.avgRatio = ratioSum / float64(len(all))
	agg.avgGained = avg(totalGained, len(all))
	agg.avgLost = avg(totalLost, len(all))
	agg.avgScrolls = avg(totalScrolls, len(all))
	agg.firstSightAvg = avgTickString(sightTicks)
	return agg
}

func printAggregate(all []runStats) {
	agg := summarize(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d blind_runs=%d\n", agg.runs, agg.blindRuns)
	fmt.Printf("visible_ratio: avg=%.3f min=%.3f max=%.3f\n", agg.avgRatio, agg.minRatio, agg.maxRatio)
	fmt.Printf("avg_events_per_run: gained=%.1f lost=%.1f camera_scroll=%.1f\n", agg.avgGained, agg.avgLost, agg.avgScrolls)
	fmt.Printf("phase_marker_avg_ticks: first_sight=%s\n", agg.firstSightAvg)
	fmt.Printf("never_seen_in_some_run=%s\n", joinSet(agg.neverSeenUnion))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(m))
	for k := range m {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	parts := make([]string, len(labels))
	for i, k := range labels {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}
