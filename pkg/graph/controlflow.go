package graph

import (
	"cmp"

	"github.com/ResistanceIsUseless/reflow/pkg/ids"
)

// Branch gives one syntactic branch its own child block. The block is
// traversed when the branch is taken and has its caches cleared when it is
// not, so observation side effects inside dead branches cannot go stale.
func (tr *Traversal) Branch(taken bool, body func()) {
	b := tr.ChildBlock()
	if taken {
		tr.VisitBlock(b, body)
	} else {
		tr.SkipBlock(b)
	}
}

// SwitchBlock dispatches to per-case child blocks through a naming context
// keyed by the case value, so cases keep their state when the set of
// reachable cases changes.
type SwitchBlock struct {
	tr *Traversal
	m  *NamingMap
}

// BeginSwitch opens a switch block at the cursor's position.
func (tr *Traversal) BeginSwitch() *SwitchBlock {
	return &SwitchBlock{tr: tr, m: GetNamingMap(tr)}
}

// Case runs body inside the named block for the given case value.
func Case[K cmp.Ordered](s *SwitchBlock, key K, body func()) {
	s.tr.NamedBlockIn(s.m, ids.Make(key), body)
}

// CaseID runs body inside the named block for an explicit case identity.
func (s *SwitchBlock) CaseID(id ids.ID, body func()) {
	s.tr.NamedBlockIn(s.m, id, body)
}

// LoopBlock hands out one child block per iteration from a persistent pool,
// so iteration state is keyed by position. Use named blocks instead when
// items reorder.
type LoopBlock struct {
	tr    *Traversal
	pool  *[]*DataBlock
	index int
}

// BeginLoop opens a loop block at the cursor's position. End must be called
// when iteration stops, even on early exit.
func (tr *Traversal) BeginLoop() *LoopBlock {
	n, fresh := getNode[[]*DataBlock](tr)
	pool := n.value.(*[]*DataBlock)
	if fresh {
		n.clearCache = func() {
			for _, b := range *pool {
				b.clearCaches()
			}
		}
		n.destroy = func() {
			for _, b := range *pool {
				b.destroyContents()
			}
		}
	}
	return &LoopBlock{tr: tr, pool: pool}
}

// Next runs body inside the block for the next iteration.
func (l *LoopBlock) Next(body func()) {
	if l.index >= len(*l.pool) {
		*l.pool = append(*l.pool, &DataBlock{})
	}
	b := (*l.pool)[l.index]
	l.index++
	l.tr.VisitBlock(b, body)
}

// End closes the loop. When cache clearing is enabled, the caches of the
// block the loop would have used next are cleared, so recomputable data left
// behind by a longer previous pass does not stay live. That block's
// persistent state, and any pool blocks after it, are left as they are.
func (l *LoopBlock) End() {
	if l.tr.cacheClearingEnabled && l.index < len(*l.pool) {
		(*l.pool)[l.index].clearCaches()
	}
}
