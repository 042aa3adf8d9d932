package signals

import (
	"fmt"

	"github.com/ResistanceIsUseless/reflow/pkg/graph"
	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/runtime"
)

// ApplyStatus is the latched state of an applied computation.
type ApplyStatus int

const (
	// ApplyUnready means no result has been computed for the current input.
	ApplyUnready ApplyStatus = iota
	// ApplyReady means the cached result matches the current input.
	ApplyReady
	// ApplyFailed means the computation rejected the current input. The
	// failure stays latched until the input identity changes.
	ApplyFailed
)

// applyData is the per-slot memo for an applied computation. It lives in
// the graph as cached data, so deactivating the containing block releases
// it and the next visit recomputes.
type applyData[R any] struct {
	key     ids.Captured
	status  ApplyStatus
	version int
	result  R
	err     error
}

// AppliedSignal is the read-only result of Apply. Its identity combines an
// internal version counter with the input identity.
type AppliedSignal[R any] struct {
	writeStub[R]
	d *applyData[R]
}

// Status returns the latched computation state.
func (s *AppliedSignal[R]) Status() ApplyStatus { return s.d.status }

// Version returns the internal version counter; it bumps once per
// recomputation.
func (s *AppliedSignal[R]) Version() int { return s.d.version }

// Err returns the latched failure, if any.
func (s *AppliedSignal[R]) Err() error { return s.d.err }

func (s *AppliedSignal[R]) HasValue() bool { return s.d.status == ApplyReady }

func (s *AppliedSignal[R]) ValueID() ids.ID {
	if s.d.status != ApplyReady {
		return ids.Null()
	}
	return ids.Combine(ids.Make(s.d.version), s.d.key.Get())
}

func (s *AppliedSignal[R]) Read() R { return s.d.result }

func invoke1[A, R any](f func(A) (R, error), a A) (r R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("apply panicked: %v", p)
		}
	}()
	return f(a)
}

func (d *applyData[R]) settle(result R, err error) {
	d.version++
	if err != nil {
		var zero R
		d.status = ApplyFailed
		d.result = zero
		d.err = err
		return
	}
	d.status = ApplyReady
	d.result = result
	d.err = nil
}

func applyCell[R any](ctx runtime.Context) *applyData[R] {
	cell := graph.GetCachedData[applyData[R]](runtime.GetDataTraversal(ctx))
	if !cell.Valid() {
		cell.MarkValid()
	}
	return cell.Value()
}

// Apply1 eagerly applies f to a's value and memoizes the result in the data
// graph. f is re-invoked only during a refresh traversal in which a's
// identity differs from the memoized one; failures latch into the signal
// instead of propagating.
func Apply1[A, R any](ctx runtime.Context, f func(A) (R, error), a ReadSignal[A]) *AppliedSignal[R] {
	d := applyCell[R](ctx)
	if runtime.GetEventTraversal(ctx).IsRefresh() && a.HasValue() {
		if id := a.ValueID(); !d.key.Matches(id) {
			d.key.Refresh(id)
			d.settle(invoke1(f, a.Read()))
		}
	}
	return &AppliedSignal[R]{d: d}
}

func invoke2[A, B, R any](f func(A, B) (R, error), a A, b B) (r R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("apply panicked: %v", p)
		}
	}()
	return f(a, b)
}

// Apply2 is Apply1 over a binary computation; the memo key is the structural
// combination of both argument identities.
func Apply2[A, B, R any](ctx runtime.Context, f func(A, B) (R, error), a ReadSignal[A], b ReadSignal[B]) *AppliedSignal[R] {
	d := applyCell[R](ctx)
	if runtime.GetEventTraversal(ctx).IsRefresh() && a.HasValue() && b.HasValue() {
		if id := ids.Combine(a.ValueID(), b.ValueID()); !d.key.Matches(id) {
			d.key.Refresh(id)
			d.settle(invoke2(f, a.Read(), b.Read()))
		}
	}
	return &AppliedSignal[R]{d: d}
}
