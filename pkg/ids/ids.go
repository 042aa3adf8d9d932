// Package ids implements value identities: tokens that answer whether two
// reactive values are the same value. The runtime compares identities across
// traversals to decide when cached results must be invalidated, so the total
// order over identities must be well defined even across dynamic types.
package ids

import (
	"cmp"
	"fmt"
	"reflect"
)

// ID is a value identity. Implementations are pointer types so CopyInto can
// refresh an existing slot in place without allocating.
//
// For any two identities a and b with the same type key,
// a.Equal(b) ⇔ !a.Less(b) && !b.Less(a).
type ID interface {
	// Clone returns an owning copy of the identity.
	Clone() ID
	// Equal reports whether other carries a matching type and payload.
	Equal(other ID) bool
	// Less orders identities. Identities of different kinds are ordered by
	// their type key first so the order is total.
	Less(other ID) bool
	// CopyInto deep-copies this identity's payload into dst if dst already
	// holds a compatible dynamic type. It reports false when the types do
	// not match and the caller must fall back to Clone.
	CopyInto(dst ID) bool

	typeKey() string
}

// unwrap strips borrowing wrappers so payload comparisons see the real
// identity on both sides.
func unwrap(id ID) ID {
	for {
		w, ok := id.(*Wrapped)
		if !ok {
			return id
		}
		id = w.ref
	}
}

// Compare orders a before b (-1), equal (0), or after (1).
func Compare(a, b ID) int {
	if a.Equal(b) {
		return 0
	}
	if a.Less(b) {
		return -1
	}
	return 1
}

// RefreshID copies src into the slot, reusing the existing allocation when
// the slot already holds the same dynamic type. A nil src clears the slot.
func RefreshID(slot *ID, src ID) {
	if src == nil {
		*slot = nil
		return
	}
	if *slot != nil && src.CopyInto(*slot) {
		return
	}
	*slot = src.Clone()
}

// Simple is a by-value identity over an ordered payload.
type Simple[T cmp.Ordered] struct {
	v T
}

// Make builds a by-value identity.
func Make[T cmp.Ordered](v T) *Simple[T] {
	return &Simple[T]{v: v}
}

// Value returns the identity's payload.
func (s *Simple[T]) Value() T { return s.v }

func (s *Simple[T]) Clone() ID { c := *s; return &c }

func (s *Simple[T]) Equal(other ID) bool {
	switch o := unwrap(other).(type) {
	case *Simple[T]:
		return s.v == o.v
	case *Ref[T]:
		return s.v == *o.p
	}
	return false
}

func (s *Simple[T]) Less(other ID) bool {
	switch o := unwrap(other).(type) {
	case *Simple[T]:
		return s.v < o.v
	case *Ref[T]:
		return s.v < *o.p
	}
	return s.typeKey() < unwrap(other).typeKey()
}

func (s *Simple[T]) CopyInto(dst ID) bool {
	if d, ok := dst.(*Simple[T]); ok {
		d.v = s.v
		return true
	}
	return false
}

func (s *Simple[T]) typeKey() string {
	return "val:" + reflect.TypeOf(s.v).String()
}

func (s *Simple[T]) String() string { return fmt.Sprintf("id(%v)", s.v) }

// Ref is a by-reference identity: it points at an externally held value and
// compares by that value's payload. Cloning produces an owning Simple copy,
// so captured Refs remain valid after the referent goes away.
type Ref[T cmp.Ordered] struct {
	p *T
}

// MakeRef builds a by-reference identity over the pointed-to value.
func MakeRef[T cmp.Ordered](p *T) *Ref[T] {
	return &Ref[T]{p: p}
}

func (r *Ref[T]) Clone() ID { return &Simple[T]{v: *r.p} }

func (r *Ref[T]) Equal(other ID) bool {
	switch o := unwrap(other).(type) {
	case *Simple[T]:
		return *r.p == o.v
	case *Ref[T]:
		return *r.p == *o.p
	}
	return false
}

func (r *Ref[T]) Less(other ID) bool {
	switch o := unwrap(other).(type) {
	case *Simple[T]:
		return *r.p < o.v
	case *Ref[T]:
		return *r.p < *o.p
	}
	return r.typeKey() < unwrap(other).typeKey()
}

// CopyInto refreshes a Simple slot from the referent. A Ref slot cannot own
// the payload, so Ref-to-Ref refresh is refused.
func (r *Ref[T]) CopyInto(dst ID) bool {
	if d, ok := dst.(*Simple[T]); ok {
		d.v = *r.p
		return true
	}
	return false
}

func (r *Ref[T]) typeKey() string {
	var zero T
	return "val:" + reflect.TypeOf(zero).String()
}

// Pair is a two-part identity ordered lexicographically. It is the building
// block for structural identity composition.
type Pair struct {
	First  ID
	Second ID
}

// Combine builds a pair identity from two parts. Nil parts degrade to Null.
func Combine(first, second ID) *Pair {
	if first == nil {
		first = Null()
	}
	if second == nil {
		second = Null()
	}
	return &Pair{First: first, Second: second}
}

func (p *Pair) Clone() ID {
	return &Pair{First: p.First.Clone(), Second: p.Second.Clone()}
}

func (p *Pair) Equal(other ID) bool {
	o, ok := unwrap(other).(*Pair)
	return ok && p.First.Equal(o.First) && p.Second.Equal(o.Second)
}

func (p *Pair) Less(other ID) bool {
	o, ok := unwrap(other).(*Pair)
	if !ok {
		return p.typeKey() < unwrap(other).typeKey()
	}
	if c := Compare(p.First, o.First); c != 0 {
		return c < 0
	}
	return p.Second.Less(o.Second)
}

func (p *Pair) CopyInto(dst ID) bool {
	d, ok := dst.(*Pair)
	if !ok {
		return false
	}
	RefreshID(&d.First, p.First)
	RefreshID(&d.Second, p.Second)
	return true
}

func (p *Pair) typeKey() string { return "pair" }

// Wrapped borrows another identity without owning it. All operations
// delegate to the referent.
type Wrapped struct {
	ref ID
}

// Wrap borrows id.
func Wrap(id ID) *Wrapped { return &Wrapped{ref: id} }

func (w *Wrapped) Clone() ID            { return w.ref.Clone() }
func (w *Wrapped) Equal(other ID) bool  { return w.ref.Equal(other) }
func (w *Wrapped) Less(other ID) bool   { return w.ref.Less(other) }
func (w *Wrapped) CopyInto(dst ID) bool { return w.ref.CopyInto(dst) }
func (w *Wrapped) typeKey() string      { return unwrap(w.ref).typeKey() }

// boolID is the by-value identity for booleans, which the ordered identity
// cannot carry. False sorts before true.
type boolID struct {
	v bool
}

// MakeBool builds a by-value identity over a boolean.
func MakeBool(v bool) ID { return &boolID{v: v} }

func (b *boolID) Clone() ID { c := *b; return &c }

func (b *boolID) Equal(other ID) bool {
	o, ok := unwrap(other).(*boolID)
	return ok && o.v == b.v
}

func (b *boolID) Less(other ID) bool {
	if o, ok := unwrap(other).(*boolID); ok {
		return !b.v && o.v
	}
	return b.typeKey() < unwrap(other).typeKey()
}

func (b *boolID) CopyInto(dst ID) bool {
	if d, ok := dst.(*boolID); ok {
		d.v = b.v
		return true
	}
	return false
}

func (b *boolID) typeKey() string { return "bool" }

type unitID struct{}

var theUnit = &unitID{}

// Unit returns the shared single-value sentinel identity.
func Unit() ID { return theUnit }

func (u *unitID) Clone() ID { return theUnit }
func (u *unitID) Equal(other ID) bool {
	_, ok := unwrap(other).(*unitID)
	return ok
}
func (u *unitID) Less(other ID) bool {
	if _, ok := unwrap(other).(*unitID); ok {
		return false
	}
	return u.typeKey() < unwrap(other).typeKey()
}
func (u *unitID) CopyInto(dst ID) bool {
	_, ok := dst.(*unitID)
	return ok
}
func (u *unitID) typeKey() string { return "unit" }

type nullID struct{}

var theNull = &nullID{}

// Null returns the no-value sentinel identity.
func Null() ID { return theNull }

// IsNull reports whether id is absent or the no-value sentinel.
func IsNull(id ID) bool {
	if id == nil {
		return true
	}
	_, ok := unwrap(id).(*nullID)
	return ok
}

func (n *nullID) Clone() ID { return theNull }
func (n *nullID) Equal(other ID) bool {
	_, ok := unwrap(other).(*nullID)
	return ok
}
func (n *nullID) Less(other ID) bool {
	if _, ok := unwrap(other).(*nullID); ok {
		return false
	}
	return n.typeKey() < unwrap(other).typeKey()
}
func (n *nullID) CopyInto(dst ID) bool {
	_, ok := dst.(*nullID)
	return ok
}
func (n *nullID) typeKey() string { return "" }
