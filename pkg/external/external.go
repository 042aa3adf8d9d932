// Package external defines the pluggable interface between a runtime system
// and its host: how the system asks for another refresh and how it reads
// time. Hosts provide their own backend; the default backend is a monotonic
// clock with no refresh delivery.
package external

import "time"

// Interface is implemented by hosts embedding a runtime system.
type Interface interface {
	// RequestAnimationRefresh asks the host to schedule another refresh
	// pass. Called at most once per batch of requests.
	RequestAnimationRefresh()

	// TickCount returns monotonic milliseconds. Wrapping is permitted;
	// consumers compute deltas as signed values.
	TickCount() uint32
}

// DefaultClock is the fallback backend: a steady monotonic millisecond
// counter and no refresh delivery.
type DefaultClock struct {
	start time.Time
}

// NewDefaultClock creates a clock anchored at the current instant.
func NewDefaultClock() *DefaultClock {
	return &DefaultClock{start: time.Now()}
}

// RequestAnimationRefresh is a no-op; without a host loop there is nothing
// to schedule.
func (c *DefaultClock) RequestAnimationRefresh() {}

// TickCount returns milliseconds since the clock was created, wrapping.
func (c *DefaultClock) TickCount() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// Callback adapts host closures to the Interface.
type Callback struct {
	OnRefreshRequested func()
	Ticks              func() uint32
}

// RequestAnimationRefresh invokes the host closure when set.
func (c *Callback) RequestAnimationRefresh() {
	if c.OnRefreshRequested != nil {
		c.OnRefreshRequested()
	}
}

// TickCount reads the host clock, falling back to zero when unset.
func (c *Callback) TickCount() uint32 {
	if c.Ticks != nil {
		return c.Ticks()
	}
	return 0
}
