// Package signals implements compositional reactive values. A signal carries
// a payload, a stable value identity, and a capability direction; the
// runtime compares identities across traversals to decide when cached
// results must be invalidated.
//
// Signals are scoped to a single traversal: they borrow their sources and
// may be copied freely, but must not be stored across traversals.
package signals

import (
	"cmp"
	"errors"

	"github.com/ResistanceIsUseless/reflow/pkg/graph"
	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/runtime"
)

// ErrNotWritable is returned by Write on signals without write capability.
var ErrNotWritable = errors.New("signal is not writable")

// Direction is a signal's capability set.
type Direction int

const (
	// None carries no capabilities.
	None Direction = iota
	// ReadOnly signals can be observed but not written.
	ReadOnly
	// WriteOnly signals accept writes but never report a value.
	WriteOnly
	// Duplex signals are readable and writable.
	Duplex
)

// Intersect narrows two directions to the capabilities present in both.
func Intersect(a, b Direction) Direction {
	switch {
	case a == b:
		return a
	case a == Duplex:
		return b
	case b == Duplex:
		return a
	default:
		return None
	}
}

// Union widens two directions to the capabilities present in either.
func Union(a, b Direction) Direction {
	switch {
	case a == b:
		return a
	case a == None:
		return b
	case b == None:
		return a
	default:
		return Duplex
	}
}

// ReadSignal is the read capability: a value that may be present, carrying
// an identity that changes iff the value changes.
type ReadSignal[T any] interface {
	// HasValue reports whether the signal currently carries a value.
	HasValue() bool
	// ValueID returns the value's identity, or the null identity when the
	// signal does not know its value yet. For two invocations with equal
	// values the identities are equal; a changed identity permits the
	// runtime to assume the value changed.
	ValueID() ids.ID
	// Read returns the value. Only meaningful while HasValue.
	Read() T
}

// WriteSignal is the write capability.
type WriteSignal[T any] interface {
	// ReadyToWrite reports whether a write would be accepted.
	ReadyToWrite() bool
	// Write stores a value. Writers may reject input, e.g. with a
	// validation error.
	Write(v T) error
}

// Signal is a value with both capability surfaces. Instances stub the
// direction they lack: a read-only signal is never ready to write, a
// write-only signal never has a value.
type Signal[T any] interface {
	ReadSignal[T]
	WriteSignal[T]
}

// readStub provides the read surface of write-only signals.
type readStub[T any] struct{}

func (readStub[T]) HasValue() bool  { return false }
func (readStub[T]) ValueID() ids.ID { return ids.Null() }
func (readStub[T]) Read() (zero T)  { return }

// writeStub provides the write surface of read-only signals.
type writeStub[T any] struct{}

func (writeStub[T]) ReadyToWrite() bool { return false }
func (writeStub[T]) Write(T) error      { return ErrNotWritable }

type empty[T any] struct {
	readStub[T]
	writeStub[T]
}

// Empty returns a signal with no value and no write readiness.
func Empty[T any]() Signal[T] { return empty[T]{} }

type constant[T cmp.Ordered] struct {
	writeStub[T]
	v T
}

// Value returns a read-only signal carrying a constant, identified by the
// value itself.
func Value[T cmp.Ordered](v T) Signal[T] { return &constant[T]{v: v} }

// Text returns a read-only signal carrying a string literal.
func Text(s string) Signal[string] { return Value(s) }

func (c *constant[T]) HasValue() bool  { return true }
func (c *constant[T]) ValueID() ids.ID { return ids.MakeRef(&c.v) }
func (c *constant[T]) Read() T         { return c.v }

type constantWithID[T any] struct {
	writeStub[T]
	v  T
	id ids.ID
}

// ValueWithID returns a read-only constant whose identity is supplied by the
// caller; use it for composites without a natural ordering.
func ValueWithID[T any](v T, id ids.ID) Signal[T] {
	return &constantWithID[T]{v: v, id: id}
}

func (c *constantWithID[T]) HasValue() bool  { return true }
func (c *constantWithID[T]) ValueID() ids.ID { return c.id }
func (c *constantWithID[T]) Read() T         { return c.v }

type direct[T cmp.Ordered] struct {
	p *T
}

// Direct returns a bidirectional view of the pointed-to cell. The identity
// tracks the cell's current value.
func Direct[T cmp.Ordered](p *T) Signal[T] { return &direct[T]{p: p} }

func (d *direct[T]) HasValue() bool     { return true }
func (d *direct[T]) ValueID() ids.ID    { return ids.MakeRef(d.p) }
func (d *direct[T]) Read() T            { return *d.p }
func (d *direct[T]) ReadyToWrite() bool { return true }
func (d *direct[T]) Write(v T) error    { *d.p = v; return nil }

type constantBool struct {
	writeStub[bool]
	v bool
}

// ValueBool returns a read-only boolean constant.
func ValueBool(v bool) Signal[bool] { return &constantBool{v: v} }

func (c *constantBool) HasValue() bool  { return true }
func (c *constantBool) ValueID() ids.ID { return ids.MakeBool(c.v) }
func (c *constantBool) Read() bool      { return c.v }

type directBool struct {
	p *bool
}

// DirectBool returns a bidirectional view of a boolean cell.
func DirectBool(p *bool) Signal[bool] { return &directBool{p: p} }

func (d *directBool) HasValue() bool     { return true }
func (d *directBool) ValueID() ids.ID    { return ids.MakeBool(*d.p) }
func (d *directBool) Read() bool         { return *d.p }
func (d *directBool) ReadyToWrite() bool { return true }
func (d *directBool) Write(v bool) error { *d.p = v; return nil }

type directKeyed[T any, K cmp.Ordered] struct {
	p   *T
	key func(T) K
}

// DirectKeyed returns a bidirectional view of a cell without a natural
// ordering. The identity is derived from the current value by key, which
// must map distinct values to distinct keys.
func DirectKeyed[T any, K cmp.Ordered](p *T, key func(T) K) Signal[T] {
	return &directKeyed[T, K]{p: p, key: key}
}

func (d *directKeyed[T, K]) HasValue() bool     { return true }
func (d *directKeyed[T, K]) ValueID() ids.ID    { return ids.Make(d.key(*d.p)) }
func (d *directKeyed[T, K]) Read() T            { return *d.p }
func (d *directKeyed[T, K]) ReadyToWrite() bool { return true }
func (d *directKeyed[T, K]) Write(v T) error    { *d.p = v; return nil }

// Lambda assembles a signal from closures. Nil closures degrade to the
// corresponding stub behavior.
type Lambda[T any] struct {
	HasValueFn     func() bool
	ValueIDFn      func() ids.ID
	ReadFn         func() T
	ReadyToWriteFn func() bool
	WriteFn        func(T) error
}

func (l *Lambda[T]) HasValue() bool {
	return l.HasValueFn != nil && l.HasValueFn()
}

func (l *Lambda[T]) ValueID() ids.ID {
	if l.ValueIDFn == nil {
		return ids.Null()
	}
	return l.ValueIDFn()
}

func (l *Lambda[T]) Read() (zero T) {
	if l.ReadFn == nil {
		return
	}
	return l.ReadFn()
}

func (l *Lambda[T]) ReadyToWrite() bool {
	return l.ReadyToWriteFn != nil && l.ReadyToWriteFn()
}

func (l *Lambda[T]) Write(v T) error {
	if l.WriteFn == nil {
		return ErrNotWritable
	}
	return l.WriteFn(v)
}

// Reader builds a read-only signal from closures.
func Reader[T any](hasValue func() bool, id func() ids.ID, read func() T) Signal[T] {
	return &Lambda[T]{HasValueFn: hasValue, ValueIDFn: id, ReadFn: read}
}

// Writer builds a write-only signal from closures.
func Writer[T any](ready func() bool, write func(T) error) Signal[T] {
	return &Lambda[T]{ReadyToWriteFn: ready, WriteFn: write}
}

type state[T cmp.Ordered] struct {
	p   *T
	sys *runtime.System
}

// State returns a bidirectional signal over persistent per-slot state,
// initialized to init on the slot's first visit. Writes request an
// animation refresh so dependents observe the change.
func State[T cmp.Ordered](ctx runtime.Context, init T) Signal[T] {
	tr := runtime.GetDataTraversal(ctx)
	p, fresh := graph.GetData[T](tr)
	if fresh {
		*p = init
	}
	return &state[T]{p: p, sys: runtime.GetSystem(ctx)}
}

func (s *state[T]) HasValue() bool     { return true }
func (s *state[T]) ValueID() ids.ID    { return ids.MakeRef(s.p) }
func (s *state[T]) Read() T            { return *s.p }
func (s *state[T]) ReadyToWrite() bool { return true }

func (s *state[T]) Write(v T) error {
	*s.p = v
	runtime.RequestAnimationRefresh(s.sys)
	return nil
}

type stateBool struct {
	p   *bool
	sys *runtime.System
}

// StateBool is State for boolean slots.
func StateBool(ctx runtime.Context, init bool) Signal[bool] {
	tr := runtime.GetDataTraversal(ctx)
	p, fresh := graph.GetData[bool](tr)
	if fresh {
		*p = init
	}
	return &stateBool{p: p, sys: runtime.GetSystem(ctx)}
}

func (s *stateBool) HasValue() bool     { return true }
func (s *stateBool) ValueID() ids.ID    { return ids.MakeBool(*s.p) }
func (s *stateBool) Read() bool         { return *s.p }
func (s *stateBool) ReadyToWrite() bool { return true }

func (s *stateBool) Write(v bool) error {
	*s.p = v
	runtime.RequestAnimationRefresh(s.sys)
	return nil
}
