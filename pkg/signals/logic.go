package signals

import "github.com/ResistanceIsUseless/reflow/pkg/ids"

func idOrNull[T any](s ReadSignal[T]) ids.ID {
	if !s.HasValue() {
		return ids.Null()
	}
	return s.ValueID()
}

type orSignal struct {
	writeStub[bool]
	a ReadSignal[bool]
	b ReadSignal[bool]
}

// Or is logical or, short-circuiting on value availability: the result has a
// value when both operands do, or when either operand is a present true.
func Or(a, b ReadSignal[bool]) Signal[bool] {
	return &orSignal{a: a, b: b}
}

func (s *orSignal) HasValue() bool {
	if s.a.HasValue() && s.a.Read() {
		return true
	}
	if s.b.HasValue() && s.b.Read() {
		return true
	}
	return s.a.HasValue() && s.b.HasValue()
}

func (s *orSignal) ValueID() ids.ID {
	if !s.HasValue() {
		return ids.Null()
	}
	return ids.Combine(idOrNull(s.a), idOrNull(s.b))
}

func (s *orSignal) Read() bool {
	return (s.a.HasValue() && s.a.Read()) || (s.b.HasValue() && s.b.Read())
}

type andSignal struct {
	writeStub[bool]
	a ReadSignal[bool]
	b ReadSignal[bool]
}

// And is logical and, short-circuiting on value availability: the result has
// a value when both operands do, or when either operand is a present false.
func And(a, b ReadSignal[bool]) Signal[bool] {
	return &andSignal{a: a, b: b}
}

func (s *andSignal) HasValue() bool {
	if s.a.HasValue() && !s.a.Read() {
		return true
	}
	if s.b.HasValue() && !s.b.Read() {
		return true
	}
	return s.a.HasValue() && s.b.HasValue()
}

func (s *andSignal) ValueID() ids.ID {
	if !s.HasValue() {
		return ids.Null()
	}
	return ids.Combine(idOrNull(s.a), idOrNull(s.b))
}

func (s *andSignal) Read() bool {
	if s.a.HasValue() && !s.a.Read() {
		return false
	}
	if s.b.HasValue() && !s.b.Read() {
		return false
	}
	return s.a.Read() && s.b.Read()
}

// Not negates a boolean signal.
func Not(s ReadSignal[bool]) Signal[bool] {
	return LazyApply1(func(v bool) bool { return !v }, s)
}
