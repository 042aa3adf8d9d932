package runtime

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/ResistanceIsUseless/reflow/pkg/graph"
	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/routing"
)

// EventTraversal carries the state for one dispatch: what kind of event is
// being delivered, to whom, and where routing currently stands.
type EventTraversal struct {
	typ     reflect.Type
	payload any
	refresh bool

	targeted bool
	target   routing.NodeID
	path     *routing.PathElement
	active   *routing.Region
}

// IsRefresh reports whether this traversal delivers the refresh event.
func (ev *EventTraversal) IsRefresh() bool { return ev.refresh }

// IsTargeted reports whether the event carries a routable target.
func (ev *EventTraversal) IsTargeted() bool { return ev.targeted }

// ActiveRegion returns the routing region currently being traversed.
func (ev *EventTraversal) ActiveRegion() *routing.Region { return ev.active }

// traversalAbort is the sentinel recovered by the top-level dispatcher.
type traversalAbort struct{}

// Abort unwinds the current traversal. Scope guards restore cursor state on
// the way out; consumed named-block references are parked on the graph's
// holding list and reclaimed on the next full refresh.
func Abort(Context) {
	panic(traversalAbort{})
}

// Region runs body inside a routing region. The region record lives in the
// data graph and is re-parented each traversal; the body gets its own child
// data block so pruning it cannot shift sibling slots. For targeted
// dispatches the body only runs while the region lies on the path to the
// target or inside the target's subtree.
func Region(ctx Context, body func(Context)) {
	tr := GetDataTraversal(ctx)
	p, fresh := graph.GetData[*routing.Region](tr)
	if fresh {
		*p = &routing.Region{}
	}
	r := *p
	block := tr.ChildBlock()

	ev := GetEventTraversal(ctx)
	savedActive := ev.active
	savedPath := ev.path
	r.SetParent(savedActive)
	ev.active = r
	defer func() {
		ev.active = savedActive
		ev.path = savedPath
	}()

	relevant := true
	if ev.targeted && ev.path != nil {
		if ev.path.Region == r {
			ev.path = ev.path.Rest
		} else {
			relevant = false
		}
	}
	if relevant {
		tr.VisitBlock(block, func() {
			body(ctx)
		})
	}
}

// GetNodeID returns an identity that is stable per call site across
// traversals. The first visit mints it; later visits replay it.
func GetNodeID(ctx Context) ids.ID {
	tr := GetDataTraversal(ctx)
	p, fresh := graph.GetData[string](tr)
	if fresh {
		*p = uuid.NewString()
	}
	return ids.MakeRef(p)
}

// MakeRoutable captures id against the region active at this point of the
// traversal, producing a target for DispatchTargetedEvent.
func MakeRoutable(ctx Context, id ids.ID) routing.NodeID {
	return routing.MakeNodeID(id, GetEventTraversal(ctx).active)
}

// OnRefresh invokes f only during a refresh traversal. All observation side
// effects belong here, where GC and cache clearing are active.
func OnRefresh(ctx Context, f func(Context)) {
	if GetEventTraversal(ctx).refresh {
		f(ctx)
	}
}

// OnEvent invokes f when the current dispatch delivers an untargeted event
// of type E.
func OnEvent[E any](ctx Context, f func(Context, *E)) {
	ev := GetEventTraversal(ctx)
	if ev.refresh || ev.targeted {
		return
	}
	if e, ok := ev.payload.(*E); ok {
		f(ctx, e)
	}
}

// OnTargetedEvent invokes f when the current dispatch delivers a targeted
// event of type E aimed at the node identified by id, then aborts the
// traversal so no further regions execute.
func OnTargetedEvent[E any](ctx Context, id ids.ID, f func(Context, *E)) {
	ev := GetEventTraversal(ctx)
	if !ev.targeted {
		return
	}
	e, ok := ev.payload.(*E)
	if !ok {
		return
	}
	if ev.target.Matches(id) {
		f(ctx, e)
		Abort(ctx)
	}
}
