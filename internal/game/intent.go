package game

import "github.com/hajimehoshi/ebiten/v2"

// Intent is the movement the player is asking for this tick.
type Intent struct {
	Up, Down, Left, Right bool
}

// Velocity converts held directions to a per-tick velocity. Opposite
// directions held together cancel out. Diagonals are not normalised.
func (in Intent) Velocity(speed float64) (dx, dy float64) {
	if in.Up && !in.Down {
		dy = speed
	} else if in.Down && !in.Up {
		dy = -speed
	}
	if in.Left && !in.Right {
		dx = -speed
	} else if in.Right && !in.Left {
		dx = speed
	}
	return dx, dy
}

// readIntent samples the arrow keys and WASD.
func readIntent() Intent {
	return Intent{
		Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
	}
}
