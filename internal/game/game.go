package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/Garsondee/Sightline/internal/geom"
	"github.com/Garsondee/Sightline/internal/logging"
)

var (
	sightSeenColor   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	sightHiddenColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Game renders a World and feeds it keyboard input. It implements
// window.Scene.
type Game struct {
	world    *World
	hud      *HUDLog
	showHUD  bool
	prevKeys map[ebiten.Key]bool
	log      *zap.Logger

	// exit is called on Escape; the window's Exit in production.
	exit func()
	// copyText defaults to the system clipboard.
	copyText func(string) error
}

// New wraps world for rendering. exit may be nil.
func New(world *World, exit func(), log *zap.Logger) *Game {
	return &Game{
		world:    world,
		hud:      NewHUDLog(),
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
		log:      logging.OrNop(log),
		exit:     exit,
		copyText: setClipboardText,
	}
}

// World returns the simulated world.
func (g *Game) World() *World { return g.world }

// Update reads input and steps the world once. dt is unused: movement is
// per tick, as in the fixed-rate loop it runs under.
func (g *Game) Update(_ float64) error {
	g.handleInput()

	prev := append([]bool(nil), g.world.Visible...)
	if err := g.world.Step(readIntent()); err != nil {
		return err
	}
	for i, v := range g.world.Visible {
		if v != prev[i] {
			state := "lost"
			if v {
				state = "gained"
			}
			g.hud.Add(g.world.Tick, v, fmt.Sprintf("%s sight %s", enemyLabel(i), state))
		}
	}
	return nil
}

// handleInput processes toggle keypresses (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	for _, k := range []ebiten.Key{ebiten.KeyC, ebiten.KeyH, ebiten.KeyEscape} {
		currentKeys[k] = ebiten.IsKeyPressed(k)
	}

	// C: copy the visibility report.
	if currentKeys[ebiten.KeyC] && !g.prevKeys[ebiten.KeyC] {
		g.copyReport()
	}
	// H: toggle HUD.
	if currentKeys[ebiten.KeyH] && !g.prevKeys[ebiten.KeyH] {
		g.showHUD = !g.showHUD
	}
	if currentKeys[ebiten.KeyEscape] && !g.prevKeys[ebiten.KeyEscape] && g.exit != nil {
		g.exit()
	}

	g.prevKeys = currentKeys
}

func (g *Game) copyReport() {
	if err := g.copyText(g.world.Report().String()); err != nil {
		g.log.Warn("copy report to clipboard", zap.Error(err))
		g.hud.Add(g.world.Tick, true, "clipboard unavailable")
		return
	}
	g.hud.Add(g.world.Tick, false, "report copied")
}

// Draw renders walls, sprites and sight lines through the camera.
func (g *Game) Draw(screen *ebiten.Image) {
	w := g.world
	sw, sh := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	for _, b := range w.Walls.Boxes() {
		g.drawBox(screen, b, wallColor, true, sw, sh)
	}
	g.drawBox(screen, w.Player.Box, playerColor, false, sw, sh)
	for _, e := range w.Enemies {
		g.drawBox(screen, e.Box, enemyColor, false, sw, sh)
	}

	px, py := w.Camera.WorldToScreen(w.Player.Position(), sw, sh)
	for i, e := range w.Enemies {
		clr := sightHiddenColor
		if w.Visible[i] {
			clr = sightSeenColor
		}
		ex, ey := w.Camera.WorldToScreen(e.Position(), sw, sh)
		vector.StrokeLine(screen, float32(px), float32(py), float32(ex), float32(ey), 2, clr, true)
	}

	if g.showHUD {
		g.drawHUD(screen)
	}
}

// drawBox draws a world-space box. World y is up, so the box's top edge
// maps to its smaller screen y.
func (g *Game) drawBox(screen *ebiten.Image, b geom.AABB, clr color.Color, grassTop bool, sw, sh float64) {
	cam := g.world.Camera
	x, y := cam.WorldToScreen(geom.Pt(b.Left(), b.Top()), sw, sh)
	bw, bh := float32(b.Width*cam.Zoom), float32(b.Height*cam.Zoom)
	if x+float64(bw) < 0 || y+float64(bh) < 0 || x > sw || y > sh {
		return
	}
	vector.FillRect(screen, float32(x), float32(y), bw, bh, clr, false)
	if grassTop {
		vector.StrokeLine(screen, float32(x), float32(y), float32(x)+bw, float32(y), 3, wallEdge, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := g.world
	seen := 0
	for _, v := range w.Visible {
		if v {
			seen++
		}
	}
	lines := []string{
		fmt.Sprintf("T=%d  in sight: %d/%d", w.Tick, seen, len(w.Enemies)),
		fmt.Sprintf("player %v  camera %v", w.Player.Position(), w.Camera.Center),
		"arrows/WASD=move  C=copy report  H=hud  Esc=quit",
	}
	vector.FillRect(screen, 4, 4, hudPanelWidth+80, float32(len(lines)*hudLineHeight+6), color.RGBA{R: 10, G: 12, B: 10, A: 200}, false)
	for i, l := range lines {
		drawHUDText(screen, l, 10, float64(7+i*hudLineHeight), color.White)
	}
	g.hud.Draw(screen, screen.Bounds().Dy())
}
