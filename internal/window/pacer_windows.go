//go:build windows

package window

import (
	"fmt"
	"syscall"
	"unsafe"
)

var (
	winmm               = syscall.NewLazyDLL("winmm.dll")
	procTimeGetDevCaps  = winmm.NewProc("timeGetDevCaps")
	procTimeBeginPeriod = winmm.NewProc("timeBeginPeriod")
	procTimeEndPeriod   = winmm.NewProc("timeEndPeriod")
)

type timeCaps struct {
	periodMin uint32
	periodMax uint32
}

// winmmPacer raises the multimedia timer resolution for the life of the loop.
type winmmPacer struct {
	want   uint32
	period uint32
}

// NewPlatformPacer returns a pacer that requests a periodMS timer
// resolution, clamped to what the device reports.
func NewPlatformPacer(periodMS uint32) FramePacer {
	return &winmmPacer{want: periodMS}
}

func (p *winmmPacer) Begin() error {
	var caps timeCaps
	if err := mmCall(procTimeGetDevCaps, uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps)); err != nil {
		return err
	}
	period := clampPeriod(p.want, caps.periodMin, caps.periodMax)
	if err := mmCall(procTimeBeginPeriod, uintptr(period)); err != nil {
		return err
	}
	p.period = period
	return nil
}

func (p *winmmPacer) End() error {
	if p.period == 0 {
		return nil
	}
	period := p.period
	p.period = 0
	return mmCall(procTimeEndPeriod, uintptr(period))
}

// mmCall invokes a winmm proc; a non-zero MMRESULT is an error.
func mmCall(proc *syscall.LazyProc, args ...uintptr) error {
	if err := proc.Find(); err != nil {
		return err
	}
	r, _, _ := proc.Call(args...)
	if r != 0 {
		return fmt.Errorf("%s error %d", proc.Name, r)
	}
	return nil
}
