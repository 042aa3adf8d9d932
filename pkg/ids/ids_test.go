package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSimple_EqualAndLess(t *testing.T) {
	a := Make(3)
	b := Make(3)
	c := Make(7)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, a.Less(c))
	assert.False(t, c.Less(a))
	assert.False(t, a.Less(b))
}

func TestSimple_CrossTypeOrdering(t *testing.T) {
	i := Make(3)
	s := Make("three")

	assert.False(t, i.Equal(s))
	// Ordered by type key, consistently in both directions.
	assert.NotEqual(t, i.Less(s), s.Less(i))
}

func TestRef_TracksReferent(t *testing.T) {
	v := 5
	r := MakeRef(&v)

	assert.True(t, r.Equal(Make(5)))
	v = 6
	assert.True(t, r.Equal(Make(6)))
	assert.False(t, r.Equal(Make(5)))
}

func TestRef_CloneOwnsValue(t *testing.T) {
	v := 5
	r := MakeRef(&v)
	clone := r.Clone()
	v = 9

	assert.True(t, clone.Equal(Make(5)), "clone must not track the referent")
	assert.True(t, r.Equal(Make(9)))
}

func TestPair_LexicographicOrder(t *testing.T) {
	ab := Combine(Make(1), Make(2))
	ab2 := Combine(Make(1), Make(2))
	ac := Combine(Make(1), Make(3))
	bb := Combine(Make(2), Make(2))

	assert.True(t, ab.Equal(ab2))
	assert.True(t, ab.Less(ac))
	assert.True(t, ab.Less(bb))
	assert.True(t, ac.Less(bb))
	assert.False(t, ac.Less(ab))
}

func TestSentinels(t *testing.T) {
	assert.True(t, Null().Equal(Null()))
	assert.True(t, Unit().Equal(Unit()))
	assert.False(t, Null().Equal(Unit()))
	assert.True(t, IsNull(Null()))
	assert.True(t, IsNull(nil))
	assert.False(t, IsNull(Unit()))
	assert.False(t, IsNull(Make(0)))
}

func TestWrap_DelegatesToReferent(t *testing.T) {
	inner := Make(4)
	w := Wrap(inner)

	assert.True(t, w.Equal(Make(4)))
	assert.True(t, Make(4).Equal(w))
	assert.True(t, w.Less(Make(5)))
	assert.True(t, Make(3).Less(w))
}

func TestCaptured_RefreshReusesSlot(t *testing.T) {
	c := Capture(Make(1))
	require.True(t, c.IsSet())
	before := c.Get()

	c.Refresh(Make(2))
	assert.Same(t, before, c.Get(), "same dynamic type must refresh in place")
	assert.True(t, c.Matches(Make(2)))

	c.Refresh(Make("x"))
	assert.NotSame(t, before, c.Get(), "type change must reallocate")
	assert.True(t, c.Matches(Make("x")))
}

func TestCaptured_RefOwnership(t *testing.T) {
	v := 42
	c := Capture(MakeRef(&v))
	v = 0

	assert.True(t, c.Matches(Make(42)), "capture must deep-copy the referent")
}

func TestCaptured_Unset(t *testing.T) {
	var c Captured
	assert.False(t, c.IsSet())
	assert.False(t, c.Matches(Make(1)))

	c.Refresh(Make(1))
	assert.True(t, c.Matches(Make(1)))
	c.Clear()
	assert.False(t, c.IsSet())
}

func TestRefreshID(t *testing.T) {
	var slot ID
	RefreshID(&slot, Make(1))
	require.NotNil(t, slot)
	first := slot

	RefreshID(&slot, Make(2))
	assert.Same(t, first, slot)
	assert.True(t, slot.Equal(Make(2)))

	RefreshID(&slot, nil)
	assert.Nil(t, slot)
}

// Total-order laws: for same-typed identities, Equal must coincide with
// neither side ordering before the other, and Compare must agree.
func TestOrderLaws_Rapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Int().Draw(t, "x")
		y := rapid.Int().Draw(t, "y")
		a, b := Make(x), Make(y)

		assert.Equal(t, x == y, a.Equal(b))
		assert.Equal(t, a.Equal(b), !a.Less(b) && !b.Less(a))
		assert.Equal(t, x < y, a.Less(b))

		switch {
		case x == y:
			assert.Zero(t, Compare(a, b))
		case x < y:
			assert.Equal(t, -1, Compare(a, b))
		default:
			assert.Equal(t, 1, Compare(a, b))
		}
	})
}

func TestPairOrderLaws_Rapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := Combine(Make(rapid.Int().Draw(t, "a1")), Make(rapid.Int().Draw(t, "a2")))
		b := Combine(Make(rapid.Int().Draw(t, "b1")), Make(rapid.Int().Draw(t, "b2")))

		assert.Equal(t, a.Equal(b), !a.Less(b) && !b.Less(a))
	})
}
