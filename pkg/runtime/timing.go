package runtime

// Timing is the per-traversal time component: the external tick counter
// sampled once at dispatch.
type Timing struct {
	// Tick is monotonic milliseconds; it wraps, so deltas are computed
	// signed.
	Tick uint32
}

// GetTick returns the millisecond tick for the current traversal.
func GetTick(ctx Context) uint32 {
	return GetTiming(ctx).Tick
}

// TicksLeftUntil returns the non-negative milliseconds remaining until end,
// requesting an animation refresh so the countdown keeps being observed.
func TicksLeftUntil(ctx Context, end uint32) uint32 {
	RequestAnimationRefresh(GetSystem(ctx))
	delta := int32(end - GetTiming(ctx).Tick)
	if delta < 0 {
		return 0
	}
	return uint32(delta)
}
