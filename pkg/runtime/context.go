// Package runtime ties the core together: the heterogeneous context threaded
// through controller calls, typed event dispatch with region-based routing,
// and the system that owns the data graph and drives traversals.
package runtime

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ResistanceIsUseless/reflow/pkg/config"
	"github.com/ResistanceIsUseless/reflow/pkg/graph"
)

// ErrComponentNotFound reports a context lookup for a component that is not
// present. Get panics with it and TryGet returns it for side-bag components
// in every checking mode; the hot accessors raise it only when dynamic
// checking is active.
var ErrComponentNotFound = errors.New("context component not found")

// components is the storage behind a context: direct pointers for the hot
// components plus a type-keyed bag for everything else.
type components struct {
	sys    *System
	data   *graph.Traversal
	event  *EventTraversal
	timing *Timing

	bag     map[reflect.Type]any
	dynamic bool
}

// Context is a heterogeneous, typed component bag passed through every
// controller call. Copying a context is O(1); extending one copies only the
// side bag.
type Context struct {
	c *components
}

func tagOf[C any]() reflect.Type {
	return reflect.TypeOf((*C)(nil)).Elem()
}

// Add returns a context extended with component. Components are keyed by
// their static type.
func Add[C any](ctx Context, component C) Context {
	next := *ctx.c
	next.bag = make(map[reflect.Type]any, len(ctx.c.bag)+1)
	for k, v := range ctx.c.bag {
		next.bag[k] = v
	}
	next.bag[tagOf[C]()] = component
	return Context{c: &next}
}

// Remove returns a context without the component keyed by C.
func Remove[C any](ctx Context) Context {
	next := *ctx.c
	next.bag = make(map[reflect.Type]any, len(ctx.c.bag))
	for k, v := range ctx.c.bag {
		next.bag[k] = v
	}
	delete(next.bag, tagOf[C]())
	return Context{c: &next}
}

// Has reports whether the context carries a component keyed by C.
func Has[C any](ctx Context) bool {
	_, ok := ctx.c.bag[tagOf[C]()]
	return ok
}

// Get returns the component keyed by C. Absence is a programmer error and
// panics with ErrComponentNotFound; use TryGet to observe absence as a
// value.
func Get[C any](ctx Context) C {
	v, err := TryGet[C](ctx)
	if err != nil {
		panic(fmt.Errorf("%w: %v", ErrComponentNotFound, tagOf[C]()))
	}
	return v
}

// TryGet returns the component keyed by C, or ErrComponentNotFound.
func TryGet[C any](ctx Context) (C, error) {
	v, ok := ctx.c.bag[tagOf[C]()]
	if !ok {
		var zero C
		return zero, fmt.Errorf("%w: %v", ErrComponentNotFound, tagOf[C]())
	}
	return v.(C), nil
}

// GetDataTraversal returns the active data traversal. Under dynamic checking
// absence panics with ErrComponentNotFound; under static checking the
// accessor is a plain field read.
func GetDataTraversal(ctx Context) *graph.Traversal {
	if ctx.c.dynamic && ctx.c.data == nil {
		panic(fmt.Errorf("%w: data traversal", ErrComponentNotFound))
	}
	return ctx.c.data
}

// GetEventTraversal returns the active event traversal.
func GetEventTraversal(ctx Context) *EventTraversal {
	if ctx.c.dynamic && ctx.c.event == nil {
		panic(fmt.Errorf("%w: event traversal", ErrComponentNotFound))
	}
	return ctx.c.event
}

// GetSystem returns the owning system.
func GetSystem(ctx Context) *System {
	if ctx.c.dynamic && ctx.c.sys == nil {
		panic(fmt.Errorf("%w: system", ErrComponentNotFound))
	}
	return ctx.c.sys
}

// GetTiming returns the timing component for this traversal.
func GetTiming(ctx Context) *Timing {
	if ctx.c.dynamic && ctx.c.timing == nil {
		panic(fmt.Errorf("%w: timing", ErrComponentNotFound))
	}
	return ctx.c.timing
}

func makeContext(s *System, data *graph.Traversal, ev *EventTraversal, timing *Timing) Context {
	return Context{c: &components{
		sys:     s,
		data:    data,
		event:   ev,
		timing:  timing,
		dynamic: s.opts.CheckingMode == config.CheckingDynamic,
	}}
}
