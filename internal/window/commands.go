package window

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// The functions below act on the current window.

// RunCurrent runs the current window.
func RunCurrent(mode Mode, pacer FramePacer) error {
	w, err := Current()
	if err != nil {
		return err
	}
	return Run(w, mode, pacer)
}

// Exit asks the current window's loop to stop. It is a no-op without one.
func Exit() {
	if w, err := Current(); err == nil {
		w.Exit()
	}
}

// StartRender clears screen with the current window's background colour.
func StartRender(screen *ebiten.Image) error {
	w, err := Current()
	if err != nil {
		return err
	}
	w.Clear(screen)
	return nil
}

// FinishRender flips the current window.
func FinishRender() error {
	w, err := Current()
	if err != nil {
		return err
	}
	w.FinishRender()
	return nil
}

// SetBackgroundColor sets the current window's clear colour.
func SetBackgroundColor(c color.Color) error {
	w, err := Current()
	if err != nil {
		return err
	}
	w.SetBackgroundColor(c)
	return nil
}

// Schedule calls fn every interval seconds on the current window's clock.
func Schedule(fn TimerFunc, interval float64) (TimerID, error) {
	w, err := Current()
	if err != nil {
		return 0, err
	}
	return w.clock.Schedule(fn, interval), nil
}

// ScheduleOnce calls fn once after delay seconds on the current window's clock.
func ScheduleOnce(fn TimerFunc, delay float64) (TimerID, error) {
	w, err := Current()
	if err != nil {
		return 0, err
	}
	return w.clock.ScheduleOnce(fn, delay), nil
}

// Unschedule cancels a timer on the current window's clock.
func Unschedule(id TimerID) error {
	w, err := Current()
	if err != nil {
		return err
	}
	w.clock.Unschedule(id)
	return nil
}
