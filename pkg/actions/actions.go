// Package actions implements deferred, readiness-gated effects with latched
// read-then-write semantics: during one Perform, every read of a source
// signal happens before the intermediary runs, and every write to a sink
// happens after it. Composing actions therefore sequence their captures
// before any of their effects land.
package actions

import (
	"errors"

	"github.com/ResistanceIsUseless/reflow/pkg/signals"
)

// ErrNotReady is returned by Perform on an action that is not ready.
var ErrNotReady = errors.New("action is not ready")

// Action is a deferred effect.
type Action interface {
	// IsReady reports whether the action can fire.
	IsReady() bool
	// Perform fires the action. The intermediary is called exactly once,
	// after this action's upstream reads and before its writes.
	Perform(intermediary func()) error
}

// Action1 is a deferred effect consuming one argument.
type Action1[A any] interface {
	IsReady() bool
	Perform(intermediary func(), arg A) error
}

// Perform fires a with a no-op intermediary, refusing when not ready.
func Perform(a Action) error {
	if !a.IsReady() {
		return ErrNotReady
	}
	return a.Perform(func() {})
}

type copyAction[T any] struct {
	sink signals.WriteSignal[T]
	src  signals.ReadSignal[T]
}

// Copy writes the source's value to the sink. Ready iff the source has a
// value and the sink is ready to write.
func Copy[T any](sink signals.WriteSignal[T], src signals.ReadSignal[T]) Action {
	return &copyAction[T]{sink: sink, src: src}
}

func (a *copyAction[T]) IsReady() bool {
	return a.src.HasValue() && a.sink.ReadyToWrite()
}

func (a *copyAction[T]) Perform(intermediary func()) error {
	v := a.src.Read()
	intermediary()
	return a.sink.Write(v)
}

type sequence struct {
	first  Action
	second Action
}

// Sequence fires both actions with all reads preceding all writes: the
// second action's reads happen, then the first performs completely inside
// the second's intermediary window, then the second's writes land.
func Sequence(first, second Action) Action {
	return &sequence{first: first, second: second}
}

func (a *sequence) IsReady() bool {
	return a.first.IsReady() && a.second.IsReady()
}

func (a *sequence) Perform(intermediary func()) error {
	var firstErr error
	err := a.second.Perform(func() {
		firstErr = a.first.Perform(intermediary)
	})
	if firstErr != nil {
		return firstErr
	}
	return err
}

type bound[A any] struct {
	a Action1[A]
	s signals.ReadSignal[A]
}

// Bind consumes an action's leftmost parameter from a readable signal.
func Bind[A any](a Action1[A], s signals.ReadSignal[A]) Action {
	return &bound[A]{a: a, s: s}
}

func (b *bound[A]) IsReady() bool {
	return b.a.IsReady() && b.s.HasValue()
}

func (b *bound[A]) Perform(intermediary func()) error {
	v := b.s.Read()
	return b.a.Perform(intermediary, v)
}

// AddTo adds delta to the sink, lifting a += b to a <<= a + b.
func AddTo[T signals.Number](sink signals.Signal[T], delta signals.ReadSignal[T]) Action {
	return Copy[T](sink, signals.Add[T](sink, delta))
}

// Increment adds a constant to the sink.
func Increment[T signals.Number](sink signals.Signal[T], delta T) Action {
	return AddTo(sink, signals.Value(delta))
}

// Toggle flips a boolean signal.
func Toggle(flag signals.Signal[bool]) Action {
	return Copy[bool](flag, signals.Not(flag))
}

type pushBack[E any] struct {
	sink signals.Signal[[]E]
	elem signals.ReadSignal[E]
}

// PushBack appends the element's value to the slice-valued sink.
func PushBack[E any](sink signals.Signal[[]E], elem signals.ReadSignal[E]) Action {
	return &pushBack[E]{sink: sink, elem: elem}
}

func (a *pushBack[E]) IsReady() bool {
	return a.sink.HasValue() && a.sink.ReadyToWrite() && a.elem.HasValue()
}

func (a *pushBack[E]) Perform(intermediary func()) error {
	sl := a.sink.Read()
	e := a.elem.Read()
	intermediary()
	return a.sink.Write(append(sl, e))
}

// Callback is an action assembled from closures. A nil readiness predicate
// means always ready.
type Callback struct {
	Ready  func() bool
	Effect func() error
}

func (c *Callback) IsReady() bool {
	return c.Ready == nil || c.Ready()
}

func (c *Callback) Perform(intermediary func()) error {
	intermediary()
	if c.Effect == nil {
		return nil
	}
	return c.Effect()
}

// Callback1 is a one-argument action assembled from closures.
type Callback1[A any] struct {
	Ready  func() bool
	Effect func(A) error
}

func (c *Callback1[A]) IsReady() bool {
	return c.Ready == nil || c.Ready()
}

func (c *Callback1[A]) Perform(intermediary func(), arg A) error {
	intermediary()
	if c.Effect == nil {
		return nil
	}
	return c.Effect(arg)
}
