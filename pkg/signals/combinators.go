package signals

import (
	"cmp"

	"github.com/ResistanceIsUseless/reflow/pkg/ids"
)

// lazyApply1 defers f until the result is first read, then caches it for the
// signal's lifetime (one traversal).
type lazyApply1[A, R any] struct {
	writeStub[R]
	f      func(A) R
	a      ReadSignal[A]
	cached bool
	result R
}

// LazyApply1 lifts f over a signal. The result is read-only; its identity is
// the argument's identity.
func LazyApply1[A, R any](f func(A) R, a ReadSignal[A]) Signal[R] {
	return &lazyApply1[A, R]{f: f, a: a}
}

func (s *lazyApply1[A, R]) HasValue() bool  { return s.a.HasValue() }
func (s *lazyApply1[A, R]) ValueID() ids.ID { return s.a.ValueID() }

func (s *lazyApply1[A, R]) Read() R {
	if !s.cached {
		s.result = s.f(s.a.Read())
		s.cached = true
	}
	return s.result
}

type lazyApply2[A, B, R any] struct {
	writeStub[R]
	f      func(A, B) R
	a      ReadSignal[A]
	b      ReadSignal[B]
	cached bool
	result R
}

// LazyApply2 lifts a binary f; the identity is the structural combination of
// the argument identities.
func LazyApply2[A, B, R any](f func(A, B) R, a ReadSignal[A], b ReadSignal[B]) Signal[R] {
	return &lazyApply2[A, B, R]{f: f, a: a, b: b}
}

func (s *lazyApply2[A, B, R]) HasValue() bool { return s.a.HasValue() && s.b.HasValue() }

func (s *lazyApply2[A, B, R]) ValueID() ids.ID {
	return ids.Combine(s.a.ValueID(), s.b.ValueID())
}

func (s *lazyApply2[A, B, R]) Read() R {
	if !s.cached {
		s.result = s.f(s.a.Read(), s.b.Read())
		s.cached = true
	}
	return s.result
}

type lazyApply3[A, B, C, R any] struct {
	writeStub[R]
	f      func(A, B, C) R
	a      ReadSignal[A]
	b      ReadSignal[B]
	c      ReadSignal[C]
	cached bool
	result R
}

// LazyApply3 lifts a ternary f.
func LazyApply3[A, B, C, R any](f func(A, B, C) R, a ReadSignal[A], b ReadSignal[B], c ReadSignal[C]) Signal[R] {
	return &lazyApply3[A, B, C, R]{f: f, a: a, b: b, c: c}
}

func (s *lazyApply3[A, B, C, R]) HasValue() bool {
	return s.a.HasValue() && s.b.HasValue() && s.c.HasValue()
}

func (s *lazyApply3[A, B, C, R]) ValueID() ids.ID {
	return ids.Combine(s.a.ValueID(), ids.Combine(s.b.ValueID(), s.c.ValueID()))
}

func (s *lazyApply3[A, B, C, R]) Read() R {
	if !s.cached {
		s.result = s.f(s.a.Read(), s.b.Read(), s.c.Read())
		s.cached = true
	}
	return s.result
}

type conditional[T any] struct {
	c ReadSignal[bool]
	t Signal[T]
	f Signal[T]
}

// Conditional dispatches value and write access by the value of c. Its
// direction is the intersection of the branch directions.
func Conditional[T any](c ReadSignal[bool], t, f Signal[T]) Signal[T] {
	return &conditional[T]{c: c, t: t, f: f}
}

func (s *conditional[T]) active() (Signal[T], bool) {
	if !s.c.HasValue() {
		return nil, false
	}
	if s.c.Read() {
		return s.t, true
	}
	return s.f, true
}

func (s *conditional[T]) HasValue() bool {
	a, ok := s.active()
	return ok && a.HasValue()
}

func (s *conditional[T]) ValueID() ids.ID {
	a, ok := s.active()
	if !ok || !a.HasValue() {
		return ids.Null()
	}
	return ids.Combine(ids.MakeBool(s.c.Read()), a.ValueID())
}

func (s *conditional[T]) Read() (zero T) {
	a, ok := s.active()
	if !ok {
		return
	}
	return a.Read()
}

func (s *conditional[T]) ReadyToWrite() bool {
	a, ok := s.active()
	return ok && a.ReadyToWrite()
}

func (s *conditional[T]) Write(v T) error {
	a, ok := s.active()
	if !ok {
		return ErrNotWritable
	}
	return a.Write(v)
}

type field[S, F any] struct {
	s    Signal[S]
	name string
	get  func(S) F
	set  func(*S, F)
}

// Field projects a member out of a structured signal. The write path reads
// the container, mutates the member, and writes the container back; a write
// therefore commits whatever the container held at Write time.
func Field[S, F any](s Signal[S], name string, get func(S) F, set func(*S, F)) Signal[F] {
	return &field[S, F]{s: s, name: name, get: get, set: set}
}

func (s *field[S, F]) HasValue() bool { return s.s.HasValue() }

func (s *field[S, F]) ValueID() ids.ID {
	if !s.s.HasValue() {
		return ids.Null()
	}
	return ids.Combine(s.s.ValueID(), ids.Make(s.name))
}

func (s *field[S, F]) Read() F { return s.get(s.s.Read()) }

func (s *field[S, F]) ReadyToWrite() bool {
	return s.s.HasValue() && s.s.ReadyToWrite()
}

func (s *field[S, F]) Write(v F) error {
	container := s.s.Read()
	s.set(&container, v)
	return s.s.Write(container)
}

type subscript[E any] struct {
	s Signal[[]E]
	i ReadSignal[int]
}

// Subscript projects one element out of a slice-valued signal. Writes follow
// the same read-modify-write path as Field.
func Subscript[E any](s Signal[[]E], i ReadSignal[int]) Signal[E] {
	return &subscript[E]{s: s, i: i}
}

func (s *subscript[E]) inRange() bool {
	if !s.s.HasValue() || !s.i.HasValue() {
		return false
	}
	idx := s.i.Read()
	return idx >= 0 && idx < len(s.s.Read())
}

func (s *subscript[E]) HasValue() bool { return s.inRange() }

func (s *subscript[E]) ValueID() ids.ID {
	if !s.inRange() {
		return ids.Null()
	}
	return ids.Combine(s.s.ValueID(), s.i.ValueID())
}

func (s *subscript[E]) Read() (zero E) {
	if !s.inRange() {
		return
	}
	return s.s.Read()[s.i.Read()]
}

func (s *subscript[E]) ReadyToWrite() bool {
	return s.inRange() && s.s.ReadyToWrite()
}

func (s *subscript[E]) Write(v E) error {
	if !s.inRange() {
		return ErrNotWritable
	}
	sl := s.s.Read()
	sl[s.i.Read()] = v
	return s.s.Write(sl)
}

type fallback[T any] struct {
	a Signal[T]
	b Signal[T]
}

// AddFallback reads a when it has a value and b otherwise. Writes always go
// to a.
func AddFallback[T any](a, b Signal[T]) Signal[T] {
	return &fallback[T]{a: a, b: b}
}

func (s *fallback[T]) HasValue() bool {
	return s.a.HasValue() || s.b.HasValue()
}

func (s *fallback[T]) ValueID() ids.ID {
	if s.a.HasValue() {
		return ids.Combine(ids.MakeBool(true), s.a.ValueID())
	}
	if s.b.HasValue() {
		return ids.Combine(ids.MakeBool(false), s.b.ValueID())
	}
	return ids.Null()
}

func (s *fallback[T]) Read() (zero T) {
	if s.a.HasValue() {
		return s.a.Read()
	}
	if s.b.HasValue() {
		return s.b.Read()
	}
	return
}

func (s *fallback[T]) ReadyToWrite() bool { return s.a.ReadyToWrite() }
func (s *fallback[T]) Write(v T) error    { return s.a.Write(v) }

type mask[T any] struct {
	s    Signal[T]
	cond ReadSignal[bool]
}

// Mask passes s through while cond is present and true; otherwise the result
// has no value and accepts no writes.
func Mask[T any](s Signal[T], cond ReadSignal[bool]) Signal[T] {
	return &mask[T]{s: s, cond: cond}
}

func (m *mask[T]) on() bool { return m.cond.HasValue() && m.cond.Read() }

func (m *mask[T]) HasValue() bool { return m.on() && m.s.HasValue() }

func (m *mask[T]) ValueID() ids.ID {
	if !m.on() {
		return ids.Null()
	}
	return m.s.ValueID()
}

func (m *mask[T]) Read() (zero T) {
	if !m.on() {
		return
	}
	return m.s.Read()
}

func (m *mask[T]) ReadyToWrite() bool { return m.on() && m.s.ReadyToWrite() }

func (m *mask[T]) Write(v T) error {
	if !m.on() {
		return ErrNotWritable
	}
	return m.s.Write(v)
}

type hasValueSignal[T any] struct {
	writeStub[bool]
	s ReadSignal[T]
}

// HasValueOf observes whether s has a value. The observation itself always
// has a value.
func HasValueOf[T any](s ReadSignal[T]) Signal[bool] {
	return &hasValueSignal[T]{s: s}
}

func (h *hasValueSignal[T]) HasValue() bool  { return true }
func (h *hasValueSignal[T]) ValueID() ids.ID { return ids.MakeBool(h.s.HasValue()) }
func (h *hasValueSignal[T]) Read() bool      { return h.s.HasValue() }

type readyToWriteSignal[T any] struct {
	writeStub[bool]
	s WriteSignal[T]
}

// ReadyToWriteOf observes whether s would accept a write.
func ReadyToWriteOf[T any](s WriteSignal[T]) Signal[bool] {
	return &readyToWriteSignal[T]{s: s}
}

func (r *readyToWriteSignal[T]) HasValue() bool  { return true }
func (r *readyToWriteSignal[T]) ValueID() ids.ID { return ids.MakeBool(r.s.ReadyToWrite()) }
func (r *readyToWriteSignal[T]) Read() bool      { return r.s.ReadyToWrite() }

type castSignal[T, U any] struct {
	s      Signal[T]
	to     func(T) U
	from   func(U) T
	cached bool
	result U
}

// Cast converts a signal between value types. The read conversion is lazy
// and cached for the signal's lifetime; writes convert back when from is
// provided.
func Cast[T, U any](s Signal[T], to func(T) U, from func(U) T) Signal[U] {
	return &castSignal[T, U]{s: s, to: to, from: from}
}

// CastNum converts between numeric signal types.
func CastNum[T, U Number](s Signal[T]) Signal[U] {
	return Cast(s, func(v T) U { return U(v) }, func(v U) T { return T(v) })
}

func (c *castSignal[T, U]) HasValue() bool  { return c.s.HasValue() }
func (c *castSignal[T, U]) ValueID() ids.ID { return c.s.ValueID() }

func (c *castSignal[T, U]) Read() U {
	if !c.cached {
		c.result = c.to(c.s.Read())
		c.cached = true
	}
	return c.result
}

func (c *castSignal[T, U]) ReadyToWrite() bool {
	return c.from != nil && c.s.ReadyToWrite()
}

func (c *castSignal[T, U]) Write(v U) error {
	if c.from == nil {
		return ErrNotWritable
	}
	return c.s.Write(c.from(v))
}

type fakeReadability[T any] struct {
	readStub[T]
	s WriteSignal[T]
}

// FakeReadability gives a write-only signal a read surface that never has a
// value, leaving write semantics unchanged.
func FakeReadability[T any](s WriteSignal[T]) Signal[T] {
	return &fakeReadability[T]{s: s}
}

func (f *fakeReadability[T]) ReadyToWrite() bool { return f.s.ReadyToWrite() }
func (f *fakeReadability[T]) Write(v T) error    { return f.s.Write(v) }

type fakeWritability[T any] struct {
	writeStub[T]
	s ReadSignal[T]
}

// FakeWritability gives a read-only signal a write surface that is never
// ready, leaving read semantics unchanged.
func FakeWritability[T any](s ReadSignal[T]) Signal[T] {
	return &fakeWritability[T]{s: s}
}

func (f *fakeWritability[T]) HasValue() bool  { return f.s.HasValue() }
func (f *fakeWritability[T]) ValueID() ids.ID { return f.s.ValueID() }
func (f *fakeWritability[T]) Read() T         { return f.s.Read() }

type simplifyID[T cmp.Ordered] struct {
	s Signal[T]
}

// SimplifyID replaces a signal's identity with the value itself. Useful when
// a composed identity is more expensive to compare than the payload.
func SimplifyID[T cmp.Ordered](s Signal[T]) Signal[T] {
	return &simplifyID[T]{s: s}
}

func (s *simplifyID[T]) HasValue() bool { return s.s.HasValue() }

func (s *simplifyID[T]) ValueID() ids.ID {
	if !s.s.HasValue() {
		return ids.Null()
	}
	return ids.Make(s.s.Read())
}

func (s *simplifyID[T]) Read() T            { return s.s.Read() }
func (s *simplifyID[T]) ReadyToWrite() bool { return s.s.ReadyToWrite() }
func (s *simplifyID[T]) Write(v T) error    { return s.s.Write(v) }
