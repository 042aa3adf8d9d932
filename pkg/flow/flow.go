// Package flow provides the closure-style control-flow annotations that hook
// application branching into the data graph. Each construct gives its
// branches stable data blocks, so state and caches stay attached to the
// logical node they belong to while the controller's control flow changes
// around them.
package flow

import (
	"cmp"

	"github.com/ResistanceIsUseless/reflow/pkg/graph"
	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/runtime"
	"github.com/ResistanceIsUseless/reflow/pkg/signals"
)

// Chain is the continuation of an If; it carries whether the chain is
// already decided, either because a prior branch ran or because the If
// condition had no value.
type Chain struct {
	ctx  runtime.Context
	done bool
}

// If runs body when cond is present and true. Each branch owns a child data
// block; untaken branches have their caches cleared. A condition without a
// value takes no branch: neither body nor any ElseIf or Else of the chain
// runs.
func If(ctx runtime.Context, cond signals.ReadSignal[bool], body func(runtime.Context)) *Chain {
	taken := cond.HasValue() && cond.Read()
	branch(ctx, taken, body)
	return &Chain{ctx: ctx, done: taken || !cond.HasValue()}
}

// ElseIf runs body when the chain is not yet decided and cond is present and
// true.
func (c *Chain) ElseIf(cond signals.ReadSignal[bool], body func(runtime.Context)) *Chain {
	taken := !c.done && cond.HasValue() && cond.Read()
	branch(c.ctx, taken, body)
	c.done = c.done || taken
	return c
}

// Else runs body when the chain is not yet decided.
func (c *Chain) Else(body func(runtime.Context)) {
	branch(c.ctx, !c.done, body)
}

func branch(ctx runtime.Context, taken bool, body func(runtime.Context)) {
	runtime.GetDataTraversal(ctx).Branch(taken, func() {
		body(ctx)
	})
}

// SwitchScope dispatches among cases keyed by a signal's value. Case state
// lives in named blocks keyed by the case value, so distinct cases never
// share slots.
type SwitchScope[K cmp.Ordered] struct {
	ctx     runtime.Context
	sw      *graph.SwitchBlock
	key     signals.ReadSignal[K]
	matched bool
}

// Switch opens a switch over key.
func Switch[K cmp.Ordered](ctx runtime.Context, key signals.ReadSignal[K]) *SwitchScope[K] {
	return &SwitchScope[K]{
		ctx: ctx,
		sw:  runtime.GetDataTraversal(ctx).BeginSwitch(),
		key: key,
	}
}

// Case runs body when the switch key equals k.
func (s *SwitchScope[K]) Case(k K, body func(runtime.Context)) *SwitchScope[K] {
	if !s.matched && s.key.HasValue() && s.key.Read() == k {
		s.matched = true
		graph.Case(s.sw, k, func() {
			body(s.ctx)
		})
	}
	return s
}

// Default runs body when no case matched.
func (s *SwitchScope[K]) Default(body func(runtime.Context)) {
	if !s.matched && s.key.HasValue() {
		s.sw.CaseID(ids.Unit(), func() {
			body(s.ctx)
		})
	}
}

// ForEach visits items in order, attaching each iteration's state to a named
// block addressed by the item's identity. Items may reorder freely between
// passes without losing state.
func ForEach[T any](ctx runtime.Context, items []T, idOf func(T) ids.ID, body func(runtime.Context, T)) {
	tr := runtime.GetDataTraversal(ctx)
	m := graph.GetNamingMap(tr)
	for _, item := range items {
		item := item
		tr.NamedBlockIn(m, idOf(item), func() {
			body(ctx, item)
		})
	}
}

// ForEachKeyed is ForEach with an ordered key function.
func ForEachKeyed[T any, K cmp.Ordered](ctx runtime.Context, items []T, key func(T) K, body func(runtime.Context, T)) {
	ForEach(ctx, items, func(item T) ids.ID {
		return ids.Make(key(item))
	}, body)
}

// Repeat runs body n times, giving each iteration its own child block from a
// positional pool. Use ForEach instead when iterations can reorder.
func Repeat(ctx runtime.Context, n int, body func(runtime.Context, int)) {
	l := runtime.GetDataTraversal(ctx).BeginLoop()
	defer l.End()
	for i := 0; i < n; i++ {
		i := i
		l.Next(func() {
			body(ctx, i)
		})
	}
}

// Named runs body inside the named block for id under the current naming
// map.
func Named(ctx runtime.Context, id ids.ID, body func(runtime.Context)) {
	runtime.GetDataTraversal(ctx).NamedBlock(id, func() {
		body(ctx)
	})
}

// Region runs body inside a routing region; see runtime.Region.
func Region(ctx runtime.Context, body func(runtime.Context)) {
	runtime.Region(ctx, body)
}
