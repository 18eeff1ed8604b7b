// Package config loads Sightline settings from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Sightline/internal/camera"
	"github.com/Garsondee/Sightline/internal/geom"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid marks a configuration that fails validation.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window WindowConfig `yaml:"window"`
	Game   GameConfig   `yaml:"game"`
	Log    LogConfig    `yaml:"log"`
}

type WindowConfig struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	Title             string  `yaml:"title"`
	Background        []int   `yaml:"background"` // RGB or RGBA, 0-255
	DrawRate          float64 `yaml:"draw_rate"`  // frames per second
	Mode              string  `yaml:"mode"`
	TimerResolutionMS uint32  `yaml:"timer_resolution_ms"`
}

// BackgroundColor converts Background to a colour. Alpha defaults to opaque.
func (w WindowConfig) BackgroundColor() color.RGBA {
	c := color.RGBA{A: 255}
	if len(w.Background) < 3 {
		return c
	}
	c.R, c.G, c.B = uint8(w.Background[0]), uint8(w.Background[1]), uint8(w.Background[2])
	if len(w.Background) > 3 {
		c.A = uint8(w.Background[3])
	}
	return c
}

type GameConfig struct {
	Seed             int64        `yaml:"seed"`
	SpriteScale      float64      `yaml:"sprite_scale"`
	MovementSpeed    float64      `yaml:"movement_speed"`
	ViewportMargin   float64      `yaml:"viewport_margin"`
	Zoom             float64      `yaml:"zoom"`
	PlayerStart      [2]float64   `yaml:"player_start"`
	Enemies          [][2]float64 `yaml:"enemies"`
	WallSpacing      float64      `yaml:"wall_spacing"`
	WallColumns      int          `yaml:"wall_columns"`
	WallRows         int          `yaml:"wall_rows"`
	WallSkipPercent  int          `yaml:"wall_skip_percent"`
	MaxSightDistance float64      `yaml:"max_sight_distance"`
	GridCellSize     float64      `yaml:"grid_cell_size"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Default returns the embedded defaults.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// Load reads configuration.
// Search order: customPath -> ~/.sightline/config.yaml -> ./configs/sightline.yaml -> embedded default
//
// Files are decoded over the defaults, so they only need the keys they change.
func Load(customPath string) (Config, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, p := range []string{userConfigPath(), filepath.Join("configs", "sightline.yaml")} {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		next := Default()
		if err := yaml.Unmarshal(data, &next); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", p, err)
		}
		return next, next.Validate()
	}
	return cfg, cfg.Validate()
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sightline", "config.yaml")
}

// Validate reports configuration errors. A viewport margin that leaves no
// deadzone is rejected here rather than clamped.
func (c Config) Validate() error {
	w := c.Window
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, w.Width, w.Height)
	}
	if !(w.DrawRate > 0) || math.IsInf(w.DrawRate, 0) {
		return fmt.Errorf("%w: draw_rate %v", ErrInvalid, w.DrawRate)
	}
	switch w.Mode {
	case "windowed", "headless", "test":
	default:
		return fmt.Errorf("%w: window mode %q", ErrInvalid, w.Mode)
	}
	if n := len(w.Background); n != 3 && n != 4 {
		return fmt.Errorf("%w: background needs 3 or 4 components, got %d", ErrInvalid, n)
	}
	for _, v := range w.Background {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: background component %d out of range", ErrInvalid, v)
		}
	}

	g := c.Game
	for name, v := range map[string]float64{
		"sprite_scale":       g.SpriteScale,
		"zoom":               g.Zoom,
		"movement_speed":     g.MovementSpeed,
		"viewport_margin":    g.ViewportMargin,
		"wall_spacing":       g.WallSpacing,
		"max_sight_distance": g.MaxSightDistance,
		"grid_cell_size":     g.GridCellSize,
		"player_start.x":     g.PlayerStart[0],
		"player_start.y":     g.PlayerStart[1],
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s %v is not finite", ErrInvalid, name, v)
		}
	}
	for i, e := range g.Enemies {
		if !geom.Pt(e[0], e[1]).Finite() {
			return fmt.Errorf("%w: enemy %d at %v is not finite", ErrInvalid, i, e)
		}
	}
	if g.SpriteScale <= 0 || g.Zoom <= 0 {
		return fmt.Errorf("%w: sprite_scale %v zoom %v", ErrInvalid, g.SpriteScale, g.Zoom)
	}
	if g.MovementSpeed < 0 {
		return fmt.Errorf("%w: movement_speed %v", ErrInvalid, g.MovementSpeed)
	}
	if g.WallColumns < 0 || g.WallRows < 0 || g.WallSpacing <= 0 {
		return fmt.Errorf("%w: wall layout %dx%d spacing %v", ErrInvalid, g.WallColumns, g.WallRows, g.WallSpacing)
	}
	if g.WallSkipPercent < 0 || g.WallSkipPercent > 100 {
		return fmt.Errorf("%w: wall_skip_percent %d", ErrInvalid, g.WallSkipPercent)
	}
	if g.MaxSightDistance < 0 {
		return fmt.Errorf("%w: max_sight_distance %v", ErrInvalid, g.MaxSightDistance)
	}
	if g.GridCellSize <= 0 {
		return fmt.Errorf("%w: grid_cell_size %v", ErrInvalid, g.GridCellSize)
	}
	half := geom.ExtentOf(float64(w.Width), float64(w.Height), g.Zoom)
	if err := camera.ValidateMargin(half, g.ViewportMargin); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
