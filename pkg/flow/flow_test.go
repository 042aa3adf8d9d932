package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ResistanceIsUseless/reflow/pkg/actions"
	"github.com/ResistanceIsUseless/reflow/pkg/graph"
	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/routing"
	"github.com/ResistanceIsUseless/reflow/pkg/runtime"
	"github.com/ResistanceIsUseless/reflow/pkg/signals"
)

type click struct{}

// Scenario: a counter whose state survives refreshes and whose increment
// action fires once per click event.
func TestCounterScenario(t *testing.T) {
	var (
		value     int
		idHistory []ids.Captured
	)

	sys := runtime.NewSystem(func(ctx runtime.Context) {
		n := signals.State(ctx, 0)

		runtime.OnEvent(ctx, func(runtime.Context, *click) {
			require.NoError(t, actions.Perform(actions.Increment(n, 1)))
		})

		runtime.OnRefresh(ctx, func(runtime.Context) {
			value = n.Read()
			idHistory = append(idHistory, ids.Capture(n.ValueID()))
		})
	})

	runtime.Refresh(sys)
	for i := 0; i < 5; i++ {
		runtime.DispatchEvent(sys, &click{})
	}

	assert.Equal(t, 5, value)
	require.Len(t, idHistory, 6, "one refresh plus one per dispatch")
	for i := 1; i < len(idHistory); i++ {
		prev := idHistory[i-1].Get()
		assert.False(t, idHistory[i].Matches(prev),
			"the counter's identity must change between refreshes %d and %d", i-1, i)
	}
}

type renameEvent struct {
	order []string
}

// Scenario: named blocks keep per-item state when the iteration order
// changes.
func TestNamedBlocksReorderScenario(t *testing.T) {
	items := []string{"a", "b", "c"}
	seen := map[string]int{}

	sys := runtime.NewSystem(func(ctx runtime.Context) {
		ForEachKeyed(ctx, items, func(s string) string { return s }, func(ctx runtime.Context, item string) {
			n := signals.State(ctx, 0)
			runtime.OnRefresh(ctx, func(runtime.Context) {
				require.NoError(t, n.Write(n.Read()+1))
				seen[item] = n.Read()
			})
		})
		// Reordering takes effect on the refresh that follows the event, so
		// the handler sits after the loop.
		runtime.OnEvent(ctx, func(_ runtime.Context, e *renameEvent) {
			items = e.order
		})
	})

	runtime.Refresh(sys)
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, seen)

	runtime.DispatchEvent(sys, &renameEvent{order: []string{"c", "a", "b"}})
	assert.Equal(t, map[string]int{"a": 2, "b": 2, "c": 2}, seen,
		"per-item state must survive reordering")

	report := graph.Audit(sys.Graph())
	assert.Equal(t, 3, report.RegisteredNamed, "no named block may be destroyed by a reorder")
	assert.Empty(t, report.Violations)
}

func TestIfElse_BranchStateAndCacheClearing(t *testing.T) {
	takeFirst := true
	var (
		branchValue int
		cacheValid  bool
	)

	sys := runtime.NewSystem(func(ctx runtime.Context) {
		If(ctx, signals.DirectBool(&takeFirst), func(ctx runtime.Context) {
			n := signals.State(ctx, 10)
			branchValue = n.Read()

			tr := runtime.GetDataTraversal(ctx)
			c := graph.GetCachedData[string](tr)
			cacheValid = c.Valid()
			c.Set("cached")
		}).Else(func(ctx runtime.Context) {
			n := signals.State(ctx, 20)
			branchValue = n.Read()
		})
	})

	runtime.Refresh(sys)
	assert.Equal(t, 10, branchValue)
	assert.False(t, cacheValid)

	runtime.Refresh(sys)
	assert.True(t, cacheValid, "cache must persist while the branch stays taken")

	takeFirst = false
	runtime.Refresh(sys)
	assert.Equal(t, 20, branchValue)

	takeFirst = true
	runtime.Refresh(sys)
	assert.Equal(t, 10, branchValue, "branch state persists across a skip")
	assert.False(t, cacheValid, "branch caches must be cleared by a skip")
}

func TestIf_NoValueTakesNoBranch(t *testing.T) {
	ran := false
	sys := runtime.NewSystem(func(ctx runtime.Context) {
		If(ctx, signals.Empty[bool](), func(runtime.Context) {
			ran = true
		}).Else(func(runtime.Context) {
			ran = true
		})
	})
	runtime.Refresh(sys)
	assert.False(t, ran, "a condition without a value takes no branch")
}

func TestElseIfChain(t *testing.T) {
	mode := "b"
	var got string
	sys := runtime.NewSystem(func(ctx runtime.Context) {
		key := signals.DirectKeyed(&mode, func(s string) string { return s })
		If(ctx, signals.EqC[string](key, "a"), func(runtime.Context) {
			got = "first"
		}).ElseIf(signals.EqC[string](key, "b"), func(runtime.Context) {
			got = "second"
		}).Else(func(runtime.Context) {
			got = "fallback"
		})
	})

	runtime.Refresh(sys)
	assert.Equal(t, "second", got)

	mode = "z"
	runtime.Refresh(sys)
	assert.Equal(t, "fallback", got)
}

func TestSwitch_CaseStateIsolated(t *testing.T) {
	mode := "edit"
	var fresh bool
	sys := runtime.NewSystem(func(ctx runtime.Context) {
		key := signals.DirectKeyed(&mode, func(s string) string { return s })
		Switch[string](ctx, key).
			Case("view", func(ctx runtime.Context) {
				_, f := graph.GetData[int](runtime.GetDataTraversal(ctx))
				fresh = f
			}).
			Case("edit", func(ctx runtime.Context) {
				_, f := graph.GetData[int](runtime.GetDataTraversal(ctx))
				fresh = f
			}).
			Default(func(runtime.Context) {})
	})

	runtime.Refresh(sys)
	assert.True(t, fresh)
	runtime.Refresh(sys)
	assert.False(t, fresh, "the active case keeps its state")

	mode = "view"
	runtime.Refresh(sys)
	assert.True(t, fresh, "cases must not share slots")
}

func TestRepeat_PositionalState(t *testing.T) {
	count := 3
	var got []int
	sys := runtime.NewSystem(func(ctx runtime.Context) {
		got = got[:0]
		Repeat(ctx, count, func(ctx runtime.Context, i int) {
			n := signals.State(ctx, i*11)
			got = append(got, n.Read())
		})
	})

	runtime.Refresh(sys)
	assert.Equal(t, []int{0, 11, 22}, got)

	count = 2
	runtime.Refresh(sys)
	assert.Equal(t, []int{0, 11}, got)
}

func TestNamed_ExplicitIdentity(t *testing.T) {
	var first, second *int
	pass := 0
	sys := runtime.NewSystem(func(ctx runtime.Context) {
		Named(ctx, ids.Make("settings"), func(ctx runtime.Context) {
			p, _ := graph.GetData[int](runtime.GetDataTraversal(ctx))
			if pass == 0 {
				first = p
			} else {
				second = p
			}
		})
	})

	runtime.Refresh(sys)
	pass++
	runtime.Refresh(sys)
	assert.Same(t, first, second)
}

// Two sibling regions, a targeted event to the second: the first region's
// guard reports not relevant and its body never runs.
func TestRegionPruningScenario(t *testing.T) {
	var (
		target   = routingTarget{}
		r1Bodies int
		handler  int
	)

	sys := runtime.NewSystem(func(ctx runtime.Context) {
		Region(ctx, func(ctx runtime.Context) {
			if runtime.GetEventTraversal(ctx).IsTargeted() {
				r1Bodies++
			}
		})
		Region(ctx, func(ctx runtime.Context) {
			id := runtime.GetNodeID(ctx)
			runtime.OnRefresh(ctx, func(ctx runtime.Context) {
				target.node = runtime.MakeRoutable(ctx, id)
				target.set = true
			})
			runtime.OnTargetedEvent(ctx, id, func(runtime.Context, *click) {
				handler++
			})
		})
	})

	runtime.Refresh(sys)
	require.True(t, target.set)

	runtime.DispatchTargetedEvent(sys, &click{}, target.node)
	assert.Zero(t, r1Bodies)
	assert.Equal(t, 1, handler)
}

type routingTarget struct {
	node routing.NodeID
	set  bool
}
