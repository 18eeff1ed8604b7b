package game

import (
	"image/color"

	"github.com/Garsondee/Sightline/internal/geom"
)

// Native texture sizes of the character and tile art the layout was tuned
// for. Sprites are drawn as flat rectangles of the scaled size.
const (
	characterTexW = 96
	characterTexH = 128
	tileTexSize   = 128
)

var (
	playerColor = color.RGBA{R: 235, G: 180, B: 120, A: 255}
	enemyColor  = color.RGBA{R: 110, G: 160, B: 90, A: 255}
	wallColor   = color.RGBA{R: 120, G: 90, B: 60, A: 255}
	wallEdge    = color.RGBA{R: 70, G: 150, B: 50, A: 255}
)

// Sprite is a moving box with a per-tick velocity.
type Sprite struct {
	Box     geom.AABB
	ChangeX float64
	ChangeY float64
}

func newCharacter(x, y, scale float64) (*Sprite, error) {
	box, err := geom.NewAABB(x, y, characterTexW*scale, characterTexH*scale)
	if err != nil {
		return nil, err
	}
	return &Sprite{Box: box}, nil
}

// Position returns the sprite centre.
func (s *Sprite) Position() geom.Point { return s.Box.Center() }
