package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	hudMaxEntries = 8
	hudLineHeight = 15
	hudPanelWidth = 300
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

// HUDEntry is a single line in the HUD log.
type HUDEntry struct {
	Tick    int
	Message string
	Alert   bool // drawn highlighted
}

// HUDLog is a ring buffer of recent events rendered in a screen corner.
type HUDLog struct {
	entries []HUDEntry
	head    int
	count   int
}

// NewHUDLog creates a HUD log with a fixed capacity.
func NewHUDLog() *HUDLog {
	return &HUDLog{entries: make([]HUDEntry, hudMaxEntries)}
}

// Add appends an entry to the log.
func (hl *HUDLog) Add(tick int, alert bool, msg string) {
	hl.entries[hl.head] = HUDEntry{Tick: tick, Message: msg, Alert: alert}
	hl.head = (hl.head + 1) % hudMaxEntries
	if hl.count < hudMaxEntries {
		hl.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (hl *HUDLog) Recent() []HUDEntry {
	result := make([]HUDEntry, hl.count)
	for i := 0; i < hl.count; i++ {
		idx := (hl.head - hl.count + i + hudMaxEntries) % hudMaxEntries
		result[i] = hl.entries[idx]
	}
	return result
}

// drawHUDText draws one line with its top-left corner at (x, y).
func drawHUDText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, hudFace, op)
}

// Draw renders the log panel in the bottom-left corner, newest last.
func (hl *HUDLog) Draw(screen *ebiten.Image, screenH int) {
	entries := hl.Recent()
	if len(entries) == 0 {
		return
	}
	panelH := len(entries)*hudLineHeight + 6
	top := float32(screenH - panelH - 4)
	vector.FillRect(screen, 4, top, hudPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 200}, false)

	y := float64(top) + 3
	for _, e := range entries {
		clr := color.RGBA{R: 190, G: 200, B: 190, A: 255}
		if e.Alert {
			clr = color.RGBA{R: 255, G: 90, B: 80, A: 255}
		}
		drawHUDText(screen, fmt.Sprintf("%5d %s", e.Tick, e.Message), 10, y, clr)
		y += hudLineHeight
	}
}
