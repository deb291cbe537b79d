package telegram

import "sync"

// Cursor tracks the highest update id seen so far. Once set it never
// decreases.
type Cursor struct {
	mu  sync.Mutex
	id  int
	set bool
}

// Advance moves the cursor to id if it is unset or id is higher than the
// current value. It reports whether the cursor moved.
func (c *Cursor) Advance(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.set && id <= c.id {
		return false
	}
	c.id = id
	c.set = true

	return true
}

func (c *Cursor) Value() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.id, c.set
}

// NextOffset returns the exclusive lower bound for the next fetch. ok is
// false while the cursor is unset, meaning no offset constraint.
func (c *Cursor) NextOffset() (offset int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.set {
		return 0, false
	}

	return c.id + 1, true
}
