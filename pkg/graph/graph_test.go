package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ResistanceIsUseless/reflow/pkg/ids"
)

// refresh runs one GC-enabled traversal over g.
func refresh(g *DataGraph, body func(*Traversal)) {
	tr := NewTraversal(g, true)
	tr.Run(func() { body(tr) })
}

// event runs one traversal with GC and cache clearing disabled.
func event(g *DataGraph, body func(*Traversal)) {
	tr := NewTraversal(g, false)
	tr.Run(func() { body(tr) })
}

func TestGetData_SlotStability(t *testing.T) {
	g := New()

	var first, second *int
	refresh(g, func(tr *Traversal) {
		p, fresh := GetData[int](tr)
		require.True(t, fresh)
		*p = 41
		first = p
	})
	refresh(g, func(tr *Traversal) {
		p, fresh := GetData[int](tr)
		require.False(t, fresh)
		second = p
	})

	assert.Same(t, first, second)
	assert.Equal(t, 41, *second)
}

func TestGetData_OrderedSlots(t *testing.T) {
	g := New()

	refresh(g, func(tr *Traversal) {
		a, _ := GetData[int](tr)
		b, _ := GetData[string](tr)
		*a = 1
		*b = "x"
	})
	refresh(g, func(tr *Traversal) {
		a, _ := GetData[int](tr)
		b, _ := GetData[string](tr)
		assert.Equal(t, 1, *a)
		assert.Equal(t, "x", *b)
	})
}

func TestGetData_TypeMismatchPanics(t *testing.T) {
	g := New()

	refresh(g, func(tr *Traversal) {
		GetData[int](tr)
	})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*SlotTypeError)
		assert.True(t, ok, "expected *SlotTypeError, got %T", r)
	}()
	refresh(g, func(tr *Traversal) {
		GetData[string](tr)
	})
}

func TestCachedData_ClearedWhenBranchNotTaken(t *testing.T) {
	g := New()

	visit := func(taken bool) (valid bool) {
		refresh(g, func(tr *Traversal) {
			tr.Branch(taken, func() {
				c := GetCachedData[int](tr)
				valid = c.Valid()
				c.Set(99)
			})
		})
		return valid
	}

	visit(true)
	assert.True(t, visit(true), "cache must survive consecutive visits")
	visit(false)
	assert.False(t, visit(true), "skipping the branch must release its caches")
}

func TestBranch_PersistentStateSurvivesSkip(t *testing.T) {
	g := New()

	visit := func(taken bool) (got int) {
		refresh(g, func(tr *Traversal) {
			tr.Branch(taken, func() {
				p, fresh := GetData[int](tr)
				if fresh {
					*p = 7
				}
				got = *p
			})
		})
		return got
	}

	assert.Equal(t, 7, visit(true))
	visit(false)
	assert.Equal(t, 7, visit(true), "persistent state must survive cache clearing")
}

func TestKeyedData_InvalidatesOnKeyChange(t *testing.T) {
	g := New()
	computes := 0

	visit := func(key int) (got string) {
		refresh(g, func(tr *Traversal) {
			k := GetKeyedData[string](tr)
			k.Refresh(ids.Make(key))
			if !k.Valid() {
				computes++
				k.Set(strings.Repeat("x", key))
			}
			got = *k.Value()
		})
		return got
	}

	assert.Equal(t, "xx", visit(2))
	assert.Equal(t, "xx", visit(2))
	assert.Equal(t, 1, computes)
	assert.Equal(t, "xxx", visit(3))
	assert.Equal(t, 2, computes)
}

func TestNamedBlocks_ReorderPreservesState(t *testing.T) {
	g := New()

	visit := func(order []string) map[string]int {
		values := make(map[string]int)
		refresh(g, func(tr *Traversal) {
			m := GetNamingMap(tr)
			for _, name := range order {
				name := name
				tr.NamedBlockIn(m, ids.Make(name), func() {
					p, fresh := GetData[int](tr)
					if fresh {
						*p = len(name) * 10
					}
					*p++
					values[name] = *p
				})
			}
		})
		return values
	}

	first := visit([]string{"a", "b", "c"})
	assert.Equal(t, map[string]int{"a": 11, "b": 11, "c": 11}, first)

	second := visit([]string{"c", "a", "b"})
	assert.Equal(t, map[string]int{"a": 12, "b": 12, "c": 12}, second,
		"each named block's state must survive reordering")

	report := Audit(g)
	assert.Equal(t, 3, report.RegisteredNamed)
	assert.Empty(t, report.Violations)
}

func TestNamedBlocks_DroppedBlocksAreCollected(t *testing.T) {
	g := New()

	visit := func(order ...string) {
		refresh(g, func(tr *Traversal) {
			m := GetNamingMap(tr)
			for _, name := range order {
				tr.NamedBlockIn(m, ids.Make(name), func() {})
			}
		})
	}

	visit("a", "b", "c")
	assert.Equal(t, 3, Audit(g).RegisteredNamed)

	visit("b")
	report := Audit(g)
	assert.Equal(t, 1, report.RegisteredNamed, "unreferenced named blocks must be destroyed")
	assert.Empty(t, report.Violations)
}

func TestNamedBlocks_OutOfOrderWithoutGC(t *testing.T) {
	g := New()

	refresh(g, func(tr *Traversal) {
		m := GetNamingMap(tr)
		tr.NamedBlockIn(m, ids.Make("a"), func() {})
		tr.NamedBlockIn(m, ids.Make("b"), func() {})
	})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*OutOfOrderError)
		assert.True(t, ok, "expected *OutOfOrderError, got %T", r)
	}()
	event(g, func(tr *Traversal) {
		m := GetNamingMap(tr)
		tr.NamedBlockIn(m, ids.Make("b"), func() {})
	})
}

func TestNamedBlocks_EventPassInPredictedOrder(t *testing.T) {
	g := New()

	populate := func(tr *Traversal) {
		m := GetNamingMap(tr)
		for _, name := range []string{"a", "b"} {
			tr.NamedBlockIn(m, ids.Make(name), func() {
				p, fresh := GetData[int](tr)
				if fresh {
					*p = 5
				}
				assert.Equal(t, 5, *p)
			})
		}
	}

	refresh(g, populate)
	event(g, populate)
	refresh(g, populate)
	assert.Equal(t, 2, Audit(g).RegisteredNamed)
}

func TestManualNamedBlock_SurvivesDereference(t *testing.T) {
	g := New()
	var m *NamingMap

	visit := func(use bool) (sawFresh bool) {
		refresh(g, func(tr *Traversal) {
			m = GetNamingMap(tr)
			if use {
				tr.ManualNamedBlock(m, ids.Make("kept"), func() {
					_, fresh := GetData[int](tr)
					sawFresh = fresh
				})
			}
		})
		return sawFresh
	}

	assert.True(t, visit(true))
	visit(false)
	assert.Equal(t, 1, m.Len(), "manual-delete block must survive losing its references")
	assert.False(t, visit(true), "state must still be attached")

	visit(false)
	require.True(t, m.Delete(ids.Make("kept")))
	assert.Equal(t, 0, m.Len())
	assert.True(t, visit(true), "deleted block must come back fresh")
}

func TestAbort_HoldsReferencesUntilNextRefresh(t *testing.T) {
	g := New()

	type abortMarker struct{}
	visit := func(abort bool) (sawFresh bool) {
		tr := NewTraversal(g, true)
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(abortMarker); !ok {
						panic(r)
					}
				}
			}()
			tr.Run(func() {
				m := GetNamingMap(tr)
				tr.NamedBlockIn(m, ids.Make("x"), func() {
					_, fresh := GetData[int](tr)
					sawFresh = fresh
				})
				if abort {
					panic(abortMarker{})
				}
			})
		}()
		return sawFresh
	}

	assert.True(t, visit(false))
	assert.False(t, visit(true), "abort must not destroy visited state")
	assert.False(t, visit(false), "state must survive across the abort")
	assert.Empty(t, Audit(g).Violations)
}

func TestLoopBlock_PerIterationState(t *testing.T) {
	g := New()

	visit := func(n int) (got []int) {
		refresh(g, func(tr *Traversal) {
			l := tr.BeginLoop()
			defer l.End()
			for i := 0; i < n; i++ {
				i := i
				l.Next(func() {
					p, fresh := GetData[int](tr)
					if fresh {
						*p = i * 100
					}
					got = append(got, *p)
				})
			}
		})
		return got
	}

	assert.Equal(t, []int{0, 100, 200}, visit(3))
	assert.Equal(t, []int{0, 100}, visit(2))
	assert.Equal(t, []int{0, 100, 200}, visit(3), "pool state is positional")
}

func TestSwitchBlock_PerCaseState(t *testing.T) {
	g := New()

	visit := func(c string) (fresh bool) {
		refresh(g, func(tr *Traversal) {
			sw := tr.BeginSwitch()
			Case(sw, c, func() {
				_, f := GetData[int](tr)
				fresh = f
			})
		})
		return fresh
	}

	assert.True(t, visit("a"))
	assert.False(t, visit("a"))
	assert.True(t, visit("b"), "cases must not share slots")
}

func TestRefreshIdempotence(t *testing.T) {
	g := New()

	controller := func(tr *Traversal) {
		m := GetNamingMap(tr)
		for _, name := range []string{"a", "b"} {
			tr.NamedBlockIn(m, ids.Make(name), func() {
				p, fresh := GetData[int](tr)
				if fresh {
					*p = 1
				}
			})
		}
		tr.Branch(true, func() {
			GetCachedData[string](tr).Set("warm")
		})
	}

	refresh(g, func(tr *Traversal) { controller(tr) })
	before := Audit(g)
	refresh(g, func(tr *Traversal) { controller(tr) })
	after := Audit(g)

	assert.Equal(t, before, after, "a no-change refresh must leave the graph unchanged")
}

func TestWriteDOT(t *testing.T) {
	g := New()
	refresh(g, func(tr *Traversal) {
		m := GetNamingMap(tr)
		tr.NamedBlockIn(m, ids.Make("panel"), func() {
			GetData[int](tr)
		})
		tr.Branch(true, func() {})
	})

	var buf bytes.Buffer
	require.NoError(t, WriteDOT(g, &buf))
	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "named")
}
