package window

// FramePacer brackets the windowed run loop. Platform code that needs to
// tune the OS scheduler (timer resolution) lives behind it, so scene and
// game code never branch on the platform.
type FramePacer interface {
	Begin() error
	End() error
}

// NoopPacer leaves the OS timer alone.
type NoopPacer struct{}

func (NoopPacer) Begin() error { return nil }
func (NoopPacer) End() error   { return nil }

// clampPeriod bounds the requested timer period by what the device supports.
func clampPeriod(ms, lo, hi uint32) uint32 {
	if ms < lo {
		ms = lo
	}
	if ms > hi {
		ms = hi
	}
	return ms
}
