//go:build !windows

package window

// NewPlatformPacer returns the pacer for this OS. Only Windows needs one;
// its default timer resolution can cap the frame rate near 32 FPS.
func NewPlatformPacer(periodMS uint32) FramePacer {
	return NoopPacer{}
}
