// game opens the line-of-sight scene: walk the player around a field of
// walls while the camera follows and sight lines to every enemy turn red
// whenever nothing blocks them.
//
// Usage:
//
//	game                         - Open a window with the default config
//	game --config my.yaml        - Load settings from a YAML file
//	game --mode headless --ticks 600
//
// Set SIGHTLINE_TEST=1 to run a single frame and exit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Garsondee/Sightline/internal/config"
	"github.com/Garsondee/Sightline/internal/game"
	"github.com/Garsondee/Sightline/internal/logging"
	"github.com/Garsondee/Sightline/internal/window"
)

var (
	flagConfig   string
	flagSeed     int64
	flagMode     string
	flagTicks    int
	flagLogLevel string
	flagVerbose  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "game",
	Short: "Line of sight with a scrolling deadzone camera",
	Long: `Walk the player with the arrow keys or WASD. Red lines mark enemies in
sight; white lines are blocked by a wall.

Keys:
  C    - Copy the visibility report to the clipboard
  H    - Toggle the HUD
  Esc  - Quit`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a config YAML")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Wall layout seed; overrides the config value whenever the flag is given")
	rootCmd.Flags().StringVar(&flagMode, "mode", "", "windowed, headless or test (default: config value)")
	rootCmd.Flags().IntVar(&flagTicks, "ticks", 0, "Exit after this many ticks (0 = run until closed)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (default: config value)")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Record per-tick movement in the sim log")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagMode != "" {
		cfg.Window.Mode = flagMode
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	mode, err := window.ParseMode(cfg.Window.Mode)
	if err != nil {
		return err
	}
	mode = window.ModeFromEnv(mode)

	opts := []game.WorldOption{game.WithLogger(log), game.WithVerbose(flagVerbose)}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, game.WithSeed(flagSeed))
	}
	world, err := game.NewWorld(cfg, opts...)
	if err != nil {
		return err
	}

	g := game.New(world, window.Exit, log)
	win := window.New(g, window.Options{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		Background: cfg.Window.BackgroundColor(),
		DrawRate:   cfg.Window.DrawRate,
		Logger:     log,
	})
	window.SetCurrent(win)
	defer window.CloseCurrent()

	if flagTicks > 0 {
		// Count ticks rather than seconds: headless deltas are wall-clock time.
		n := 0
		win.Clock().Schedule(func(float64) {
			if n++; n >= flagTicks {
				win.Exit()
			}
		}, 0)
	}

	log.Info("starting", zap.Stringer("mode", mode), zap.Int64("seed", world.Seed))
	if err := window.RunCurrent(mode, window.NewPlatformPacer(cfg.Window.TimerResolutionMS)); err != nil {
		return err
	}

	r := world.Report()
	log.Info("finished",
		zap.Int("ticks", r.Tick),
		zap.Int("camera_moves", r.CameraMoves),
		zap.Float64("visible_ratio", r.VisibleRatio()))
	if mode != window.ModeWindowed {
		fmt.Print(r.String())
	}
	return nil
}
