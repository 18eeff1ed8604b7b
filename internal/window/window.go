// Package window owns the ebiten window lifecycle: the current-window
// registry, run modes, background clearing, frame flips and the scheduling
// clock that drives timed callbacks.
package window

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/Garsondee/Sightline/internal/logging"
)

// ErrNoWindow is returned when a command needs the current window and none is set.
var ErrNoWindow = errors.New("no window is active: it has not been created yet, or it was closed")

// TestEnv selects ModeTest when set to a non-empty value.
const TestEnv = "SIGHTLINE_TEST"

// Scene is what a window runs: a fixed update followed by a draw.
type Scene interface {
	Update(dt float64) error
	Draw(screen *ebiten.Image)
}

// Mode selects how Run drives the scene.
type Mode int

const (
	ModeWindowed Mode = iota
	ModeHeadless
	ModeTest
)

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "windowed":
		return ModeWindowed, nil
	case "headless":
		return ModeHeadless, nil
	case "test":
		return ModeTest, nil
	}
	return ModeWindowed, fmt.Errorf("unknown window mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeHeadless:
		return "headless"
	case ModeTest:
		return "test"
	default:
		return "windowed"
	}
}

// ModeFromEnv returns ModeTest when TestEnv is set, otherwise def.
func ModeFromEnv(def Mode) Mode {
	if os.Getenv(TestEnv) != "" {
		return ModeTest
	}
	return def
}

// Options configure a new Window.
type Options struct {
	Width, Height int
	Title         string
	Background    color.Color
	DrawRate      float64 // frames per second
	Logger        *zap.Logger

	// HeadlessDraw renders each headless frame into an offscreen image.
	// Off by default: without ebiten.RunGame nothing flushes the queued
	// draw commands, so only short bounded runs should enable it.
	HeadlessDraw bool
}

// Window adapts a Scene to ebiten.Game and to the headless loop.
type Window struct {
	scene      Scene
	width      int
	height     int
	title      string
	background color.RGBA
	drawRate   float64
	clock      *Clock
	log        *zap.Logger

	open         bool
	exiting      bool
	headlessDraw bool

	// Flip bookkeeping for FinishRender.
	staticDisplay bool
	flipCount     int
	frames        uint64

	offscreen *ebiten.Image
	surface   func() *ebiten.Image
}

var _ ebiten.Game = (*Window)(nil)

// New returns an open window running scene.
func New(scene Scene, opts Options) *Window {
	if opts.DrawRate <= 0 {
		opts.DrawRate = 60
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	w := &Window{
		scene:      scene,
		width:      opts.Width,
		height:     opts.Height,
		title:      opts.Title,
		background: color.RGBAModel.Convert(opts.Background).(color.RGBA),
		drawRate:   opts.DrawRate,
		clock:      NewClock(),
		log:        logging.OrNop(opts.Logger),
		open:       true,

		headlessDraw: opts.HeadlessDraw,
	}
	w.surface = w.offscreenImage
	return w
}

// Clock returns the window's scheduling clock.
func (w *Window) Clock() *Clock { return w.clock }

// Size returns the logical screen size.
func (w *Window) Size() (int, int) { return w.width, w.height }

// Open reports whether the window has not been closed.
func (w *Window) Open() bool { return w.open }

// Frames returns the number of flips so far.
func (w *Window) Frames() uint64 { return w.frames }

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.exiting || !w.open {
		return ebiten.Termination
	}
	return w.step(1.0 / float64(ebiten.TPS()))
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.Clear(screen)
	w.scene.Draw(screen)
	w.Flip()
}

// Layout implements ebiten.Game.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}

func (w *Window) step(dt float64) error {
	w.clock.Tick(dt)
	if err := w.scene.Update(dt); err != nil {
		return fmt.Errorf("scene update: %w", err)
	}
	return nil
}

// Clear fills screen with the background colour.
func (w *Window) Clear(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	screen.Fill(w.background)
}

// SetBackgroundColor sets the colour used by Clear.
func (w *Window) SetBackgroundColor(c color.Color) {
	w.background = color.RGBAModel.Convert(c).(color.RGBA)
}

// BackgroundColor returns the colour used by Clear.
func (w *Window) BackgroundColor() color.RGBA { return w.background }

// Flip records a presented frame. Under ebiten the swap itself happens
// after Draw returns.
func (w *Window) Flip() {
	w.flipCount++
	w.frames++
}

// FinishRender marks the display static and flips. Scenes driven by Run
// never need it; it exists for one-shot drawing outside the loop.
func (w *Window) FinishRender() {
	w.staticDisplay = true
	w.flipCount = 0
	w.Flip()
}

// Exit stops the loop after the current frame.
func (w *Window) Exit() {
	w.exiting = true
}

// Close closes the window. Further updates end the loop.
func (w *Window) Close() {
	if !w.open {
		return
	}
	w.open = false
	if w.offscreen != nil {
		w.offscreen.Deallocate()
		w.offscreen = nil
	}
	w.log.Debug("window closed", zap.String("title", w.title), zap.Uint64("frames", w.frames))
}

func (w *Window) offscreenImage() *ebiten.Image {
	if w.offscreen == nil {
		w.offscreen = ebiten.NewImage(w.width, w.height)
	}
	return w.offscreen
}

func (w *Window) drawOffscreen() {
	img := w.surface()
	w.Clear(img)
	w.scene.Draw(img)
}

// Run drives w in the given mode. Windowed mode blocks in ebiten.RunGame;
// pacer adjusts platform timer resolution around it and may be nil.
func Run(w *Window, mode Mode, pacer FramePacer) error {
	w.log.Info("run", zap.String("mode", mode.String()), zap.String("title", w.title))
	switch mode {
	case ModeTest:
		if err := w.step(1.0 / 60.0); err != nil {
			return err
		}
		w.drawOffscreen()
		return nil
	case ModeHeadless:
		return w.runHeadless()
	}

	if pacer == nil {
		pacer = NoopPacer{}
	}
	if err := pacer.Begin(); err != nil {
		w.log.Warn("frame pacer unavailable", zap.Error(err))
		pacer = NoopPacer{}
	}
	defer func() {
		if err := pacer.End(); err != nil {
			w.log.Warn("frame pacer release failed", zap.Error(err))
		}
	}()

	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetTPS(int(w.drawRate))
	return ebiten.RunGame(w)
}

// runHeadless emulates the event loop without a display. The first delta
// is one frame at the draw rate so it is never zero. Frames are flipped
// and counted; the scene draws only when HeadlessDraw is set.
func (w *Window) runHeadless() error {
	dt := 1.0 / w.drawRate
	last := time.Now()
	for w.open && !w.exiting {
		if err := w.step(dt); err != nil {
			return err
		}
		// Update or draw may close the window.
		if w.headlessDraw && w.open && !w.exiting {
			w.drawOffscreen()
		}
		if w.open {
			w.Flip()
		}
		now := time.Now()
		dt, last = now.Sub(last).Seconds(), now
	}
	return nil
}

var (
	currentMu sync.Mutex
	current   *Window
)

// Current returns the current window.
func Current() (*Window, error) {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current == nil {
		return nil, ErrNoWindow
	}
	return current, nil
}

// SetCurrent sets or clears the current window.
func SetCurrent(w *Window) {
	currentMu.Lock()
	current = w
	currentMu.Unlock()
}

// CloseCurrent closes and forgets the current window, then collects
// garbage so rapid open/close cycles in tests release GPU images.
func CloseCurrent() {
	currentMu.Lock()
	w := current
	current = nil
	currentMu.Unlock()
	if w == nil {
		return
	}
	w.Close()
	runtime.GC()
}

// DisplaySize returns the size of monitor screenID; 0 is the primary.
func DisplaySize(screenID int) (int, int, error) {
	monitors := ebiten.AppendMonitors(nil)
	if screenID < 0 || screenID >= len(monitors) {
		return 0, 0, fmt.Errorf("screen %d: %d monitors available", screenID, len(monitors))
	}
	wd, ht := monitors[screenID].Size()
	return wd, ht, nil
}
