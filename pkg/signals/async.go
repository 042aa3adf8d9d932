package signals

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ResistanceIsUseless/reflow/pkg/graph"
	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/runtime"
)

// AsyncStatus tracks an asynchronous computation through its lifecycle.
type AsyncStatus int

const (
	// AsyncUnready means no launch has happened for the current input.
	AsyncUnready AsyncStatus = iota
	// AsyncLaunched means the launcher ran and the result is pending.
	AsyncLaunched
	// AsyncComplete means the result arrived.
	AsyncComplete
	// AsyncFailed means the launcher or the reported result failed.
	AsyncFailed
)

// Launcher starts asynchronous work for an input value. The report callback
// must be delivered back on the thread running the system, typically by
// posting through the host's external interface; the library makes no
// synchronization promises for callbacks invoked elsewhere.
type Launcher[A, R any] func(ctx runtime.Context, report func(R, error), arg A)

// asyncData is the per-slot record of an asynchronous computation.
type asyncData[R any] struct {
	key     ids.Captured
	status  AsyncStatus
	version int
	token   uuid.UUID
	result  R
	err     error
}

// AsyncSignal is the read-only view of an asynchronous computation.
type AsyncSignal[R any] struct {
	writeStub[R]
	d *asyncData[R]
}

// Status returns the computation's lifecycle state.
func (s *AsyncSignal[R]) Status() AsyncStatus { return s.d.status }

// Version returns the internal version counter; it bumps on input changes
// and on completions.
func (s *AsyncSignal[R]) Version() int { return s.d.version }

// Err returns the latched failure, if any.
func (s *AsyncSignal[R]) Err() error { return s.d.err }

func (s *AsyncSignal[R]) HasValue() bool { return s.d.status == AsyncComplete }

func (s *AsyncSignal[R]) ValueID() ids.ID {
	if s.d.status != AsyncComplete {
		return ids.Null()
	}
	return ids.Combine(ids.Make(s.d.version), s.d.key.Get())
}

func (s *AsyncSignal[R]) Read() R { return s.d.result }

// Async1 launches asynchronous work keyed by a's identity and memoizes the
// reported result in the data graph. A changed input identity resets the
// cell to unready and discards any in-flight report via its launch token;
// the next refresh relaunches.
func Async1[A, R any](ctx runtime.Context, launcher Launcher[A, R], a ReadSignal[A]) *AsyncSignal[R] {
	cell := graph.GetCachedData[asyncData[R]](runtime.GetDataTraversal(ctx))
	if !cell.Valid() {
		cell.MarkValid()
	}
	d := cell.Value()

	if runtime.GetEventTraversal(ctx).IsRefresh() && a.HasValue() {
		if id := a.ValueID(); !d.key.Matches(id) {
			var zero R
			d.key.Refresh(id)
			d.status = AsyncUnready
			d.version++
			d.token = uuid.Nil
			d.result = zero
			d.err = nil
		}
		if d.status == AsyncUnready {
			launch(ctx, launcher, d, a.Read())
		}
	}
	return &AsyncSignal[R]{d: d}
}

func launch[A, R any](ctx runtime.Context, launcher Launcher[A, R], d *asyncData[R], arg A) {
	d.status = AsyncLaunched
	d.token = uuid.New()
	token := d.token
	sys := runtime.GetSystem(ctx)

	report := func(r R, err error) {
		if d.token != token {
			// A newer launch or a cache clear superseded this one.
			return
		}
		if err != nil {
			d.status = AsyncFailed
			d.err = err
		} else {
			d.status = AsyncComplete
			d.result = r
		}
		d.version++
		runtime.RequestAnimationRefresh(sys)
	}

	defer func() {
		if p := recover(); p != nil {
			d.status = AsyncFailed
			d.err = fmt.Errorf("async launcher panicked: %v", p)
			d.token = uuid.Nil
		}
	}()
	launcher(ctx, report, arg)
}
