package window

import "sync"

// TimerID identifies a scheduled callback for Unschedule.
type TimerID uint64

// TimerFunc receives the seconds elapsed since it was scheduled or last called.
type TimerFunc func(dt float64)

type timer struct {
	id       TimerID
	fn       TimerFunc
	interval float64
	elapsed  float64 // since scheduled or last fired
	due      float64 // time left until the next call
	repeat   bool
	cancel   bool
}

// Clock runs scheduled callbacks off the frame delta. It is advanced by
// Window.Update; callbacks run on the caller's goroutine and may schedule
// or unschedule other timers.
type Clock struct {
	mu     sync.Mutex
	nextID TimerID
	timers []*timer
	firing []*timer // due this tick, still cancellable
}

// NewClock returns an empty clock.
func NewClock() *Clock {
	return &Clock{}
}

// Schedule calls fn every interval seconds until unscheduled. An interval
// of zero or less fires on every tick.
func (c *Clock) Schedule(fn TimerFunc, interval float64) TimerID {
	if interval < 0 {
		interval = 0
	}
	return c.add(&timer{fn: fn, interval: interval, due: interval, repeat: true})
}

// ScheduleOnce calls fn a single time after delay seconds.
func (c *Clock) ScheduleOnce(fn TimerFunc, delay float64) TimerID {
	if delay < 0 {
		delay = 0
	}
	return c.add(&timer{fn: fn, interval: delay, due: delay})
}

func (c *Clock) add(t *timer) TimerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t.id = c.nextID
	c.timers = append(c.timers, t)
	return t.id
}

// Unschedule removes a timer. It reports whether the timer was still pending.
func (c *Clock) Unschedule(id TimerID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	found := false
	for i, t := range c.timers {
		if t.id == id {
			t.cancel = true
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			found = true
			break
		}
	}
	for _, t := range c.firing {
		if t.id == id && !t.cancel {
			t.cancel = true
			found = true
		}
	}
	return found
}

// Len returns the number of pending timers.
func (c *Clock) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Tick advances every timer by dt seconds and fires the ones that are due,
// in scheduling order. A repeating timer fires at most once per tick; if it
// fell more than a whole interval behind, the missed calls are dropped.
func (c *Clock) Tick(dt float64) {
	c.mu.Lock()
	var fire []*timer
	var args []float64
	kept := c.timers[:0]
	for _, t := range c.timers {
		t.elapsed += dt
		t.due -= dt
		if t.due > 0 {
			kept = append(kept, t)
			continue
		}
		fire = append(fire, t)
		args = append(args, t.elapsed)
		t.elapsed = 0
		if !t.repeat {
			continue
		}
		t.due += t.interval
		if t.due <= 0 {
			t.due = t.interval
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(c.timers); i++ {
		c.timers[i] = nil
	}
	c.timers = kept
	c.firing = fire
	c.mu.Unlock()

	for i, t := range fire {
		c.mu.Lock()
		// An earlier callback in this tick may have unscheduled t.
		skip := t.cancel
		c.mu.Unlock()
		if !skip {
			t.fn(args[i])
		}
	}

	c.mu.Lock()
	c.firing = nil
	c.mu.Unlock()
}
