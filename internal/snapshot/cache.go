package snapshot

// Cache holds one optional snapshot per page.
type Cache struct {
	slots []*Snapshot
}

// NewCache returns a cache with n empty slots.
func NewCache(n int) *Cache {
	c := &Cache{}
	c.Reset(n)
	return c
}

// Reset drops every snapshot and resizes to n empty slots.
func (c *Cache) Reset(n int) {
	if n < 0 {
		n = 0
	}
	c.slots = make([]*Snapshot, n)
}

// Len is the page count the cache was sized for.
func (c *Cache) Len() int { return len(c.slots) }

// Get returns the snapshot for page i, or nil when the slot is empty or out
// of range.
func (c *Cache) Get(i int) *Snapshot {
	if i < 0 || i >= len(c.slots) {
		return nil
	}
	return c.slots[i]
}

// Has reports whether page i holds a snapshot.
func (c *Cache) Has(i int) bool { return c.Get(i) != nil }

// Put stores s for page i. Out-of-range indexes are ignored.
func (c *Cache) Put(i int, s *Snapshot) {
	if i < 0 || i >= len(c.slots) {
		return
	}
	c.slots[i] = s
}

// Populated returns the indexes that currently hold a snapshot.
func (c *Cache) Populated() []int {
	var out []int
	for i, s := range c.slots {
		if s != nil {
			out = append(out, i)
		}
	}
	return out
}
