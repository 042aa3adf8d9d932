package runtime

import (
	"reflect"

	"github.com/ResistanceIsUseless/reflow/pkg/config"
	"github.com/ResistanceIsUseless/reflow/pkg/external"
	"github.com/ResistanceIsUseless/reflow/pkg/graph"
	"github.com/ResistanceIsUseless/reflow/pkg/logger"
	"github.com/ResistanceIsUseless/reflow/pkg/routing"
)

// Controller is the application's traversal function, called once per event.
// It must be deterministic with respect to its control-flow annotations;
// side effects belong in actions.
type Controller func(Context)

// System owns a data graph, the controller that traverses it, and the hooks
// back into the host.
type System struct {
	gr         *graph.DataGraph
	controller Controller

	refreshNeeded bool
	external      external.Interface
	opts          config.Options

	component string
}

// Option configures a System.
type Option func(*System)

// WithExternal installs the host's external interface.
func WithExternal(iface external.Interface) Option {
	return func(s *System) { s.external = iface }
}

// WithOptions overrides the runtime options.
func WithOptions(opts config.Options) Option {
	return func(s *System) { s.opts = opts }
}

// NewSystem creates a system around controller. Without an external
// interface a default monotonic clock is used and animation refresh requests
// go nowhere.
func NewSystem(controller Controller, opts ...Option) *System {
	s := &System{
		gr:         graph.New(),
		controller: controller,
		opts:       config.Default(),
		component:  "system",
	}
	for _, o := range opts {
		o(s)
	}
	if s.external == nil {
		s.external = external.NewDefaultClock()
	}
	return s
}

// Graph returns the system's data graph.
func (s *System) Graph() *graph.DataGraph { return s.gr }

// RefreshNeeded reports whether an animation refresh has been requested and
// not yet delivered.
func (s *System) RefreshNeeded() bool { return s.refreshNeeded }

// RequestAnimationRefresh flags the system for another refresh pass and
// notifies the host, once per batch of requests.
func RequestAnimationRefresh(s *System) {
	if s.refreshNeeded {
		return
	}
	s.refreshNeeded = true
	s.external.RequestAnimationRefresh()
}

// Refresh runs one refresh traversal. GC and cache clearing are enabled for
// the duration; this is the only event during which they are.
func Refresh(s *System) {
	s.refreshNeeded = false
	s.routeEvent(&EventTraversal{refresh: true})
}

// DispatchEvent delivers an untargeted event to every region the controller
// visits, then refreshes so observation flags propagate.
func DispatchEvent[E any](s *System, e *E) {
	s.routeEvent(&EventTraversal{
		typ:     reflect.TypeOf(e).Elem(),
		payload: e,
	})
	Refresh(s)
}

// DispatchTargetedEvent delivers an event to the node identified by target,
// pruning every region not on the path to it, then refreshes.
func DispatchTargetedEvent[E any](s *System, e *E, target routing.NodeID) {
	ev := &EventTraversal{
		typ:      reflect.TypeOf(e).Elem(),
		payload:  e,
		targeted: true,
		target:   target,
	}
	if target.Region != nil {
		ev.path = routing.BuildPath(target.Region)
	}
	s.routeEvent(ev)
	Refresh(s)
}

// routeEvent runs the controller once under a fresh data traversal rooted at
// the graph root. Traversal aborts are caught here and treated as a normal
// return; any other panic escapes with cursor state already restored by the
// scope guards.
func (s *System) routeEvent(ev *EventTraversal) {
	tr := graph.NewTraversal(s.gr, ev.refresh)
	timing := &Timing{Tick: s.external.TickCount()}
	ctx := makeContext(s, tr, ev, timing)

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(traversalAbort); ok {
				logger.DebugCF(s.component, "traversal aborted", map[string]any{
					"refresh":  ev.refresh,
					"targeted": ev.targeted,
				})
				return
			}
			panic(r)
		}
	}()

	tr.Run(func() {
		s.controller(ctx)
	})
}
