package graph

import "github.com/ResistanceIsUseless/reflow/pkg/ids"

// CachedData is a holder for recomputable data. The held value is released
// whenever the containing block's caches are cleared.
type CachedData[T any] struct {
	value T
	valid bool
}

// GetCachedData returns the cache holder at the cursor's position.
func GetCachedData[T any](tr *Traversal) *CachedData[T] {
	n, fresh := getNode[CachedData[T]](tr)
	c := n.value.(*CachedData[T])
	if fresh {
		n.clearCache = c.Invalidate
	}
	return c
}

// Valid reports whether the holder currently owns a value.
func (c *CachedData[T]) Valid() bool { return c.valid }

// Get returns the held value. Only meaningful while Valid.
func (c *CachedData[T]) Get() T { return c.value }

// Set stores a value in the holder.
func (c *CachedData[T]) Set(v T) {
	c.value = v
	c.valid = true
}

// Value returns a pointer to the holder's payload. The pointer is stable
// for the life of the slot, so callers may mutate the payload in place and
// flag it with MarkValid.
func (c *CachedData[T]) Value() *T { return &c.value }

// MarkValid flags the in-place payload as valid.
func (c *CachedData[T]) MarkValid() { c.valid = true }

// Invalidate releases the held value.
func (c *CachedData[T]) Invalidate() {
	var zero T
	c.value = zero
	c.valid = false
}

// KeyedData is a cache cell guarded by a captured identity key: when the key
// changes the cell is invalidated. It memoizes expensive conversions and
// applied results across traversals.
type KeyedData[T any] struct {
	key   ids.Captured
	value T
	valid bool
}

// GetKeyedData returns the keyed cache cell at the cursor's position.
func GetKeyedData[T any](tr *Traversal) *KeyedData[T] {
	n, fresh := getNode[KeyedData[T]](tr)
	k := n.value.(*KeyedData[T])
	if fresh {
		n.clearCache = k.clear
	}
	return k
}

// Refresh updates the cell's key, reporting whether it changed. A changed
// key invalidates the held value.
func (k *KeyedData[T]) Refresh(id ids.ID) bool {
	if k.key.Matches(id) {
		return false
	}
	k.key.Refresh(id)
	k.invalidate()
	return true
}

// MatchesKey reports whether the cell's key equals id.
func (k *KeyedData[T]) MatchesKey(id ids.ID) bool { return k.key.Matches(id) }

// Valid reports whether the cell holds a value for the current key.
func (k *KeyedData[T]) Valid() bool { return k.valid }

// Value returns a pointer to the cell's payload. The pointer is stable for
// the life of the slot, so asynchronous completions may write through it
// after validating their version.
func (k *KeyedData[T]) Value() *T { return &k.value }

// Set stores a value for the current key.
func (k *KeyedData[T]) Set(v T) {
	k.value = v
	k.valid = true
}

// MarkValid flags the in-place payload as valid.
func (k *KeyedData[T]) MarkValid() { k.valid = true }

func (k *KeyedData[T]) invalidate() {
	var zero T
	k.value = zero
	k.valid = false
}

// clear resets both key and value; used when the containing block's caches
// are released.
func (k *KeyedData[T]) clear() {
	k.key.Clear()
	k.invalidate()
}
