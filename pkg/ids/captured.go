package ids

// Captured is an owning identity slot used for long-term storage, e.g.
// across traversals. Capturing deep-copies the source; refreshing reuses the
// existing allocation when the dynamic type matches.
type Captured struct {
	id ID
}

// Capture deep-copies id into an owning slot. A nil id yields an unset slot.
func Capture(id ID) Captured {
	if id == nil {
		return Captured{}
	}
	return Captured{id: id.Clone()}
}

// Borrow wraps id in a slot without copying. The slot is only valid while id
// is; it exists for transient lookups such as naming-map probes.
func Borrow(id ID) Captured {
	if id == nil {
		return Captured{}
	}
	return Captured{id: Wrap(id)}
}

// Get returns the stored identity, or nil when unset.
func (c *Captured) Get() ID { return c.id }

// IsSet reports whether the slot holds an identity.
func (c *Captured) IsSet() bool { return c.id != nil }

// Clear drops the stored identity.
func (c *Captured) Clear() { c.id = nil }

// Refresh stores src, reusing the existing allocation when possible.
func (c *Captured) Refresh(src ID) {
	RefreshID(&c.id, src)
}

// Matches reports whether the stored identity equals other. An unset slot
// matches nothing.
func (c *Captured) Matches(other ID) bool {
	if c.id == nil || other == nil {
		return false
	}
	return c.id.Equal(other)
}

// Less orders captured slots by their stored identities. Unset slots sort
// first.
func (c *Captured) Less(other *Captured) bool {
	if c.id == nil {
		return other.id != nil
	}
	if other.id == nil {
		return false
	}
	return c.id.Less(other.id)
}
