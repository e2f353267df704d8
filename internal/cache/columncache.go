// Package cache implements the column LRU: a bounded, fully-resident pool
// of whole columns evicted strictly FIFO-by-insertion, generalized from the
// key-value engine's arena-backed skip list (fixed backing storage, slot
// reuse on reclamation instead of per-eviction allocation).
package cache

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Slot is one resident column: its column index and its owning buffer of
// exactly `rows` doubles.
type Slot struct {
	Col int
	Buf []float64
}

// ColumnCache holds up to `min(cols, capacity)` distinct columns, ordered
// oldest-first. Position 0 is always the eviction victim; the last
// position is the most recently loaded column. locate never reorders —
// this is FIFO-by-insertion, not touch-based LRU.
type ColumnCache struct {
	rows     int
	capacity int
	slots    []Slot
	member   roaring.Bitmap // fast "is column resident" membership test
}

// New creates an empty cache for columns of the given row length and
// capacity (must be >= 1).
func New(rows, capacity int) *ColumnCache {
	return &ColumnCache{
		rows:     rows,
		capacity: capacity,
		slots:    make([]Slot, 0, capacity),
	}
}

// Len returns the number of columns currently resident.
func (c *ColumnCache) Len() int { return len(c.slots) }

// Capacity returns the maximum number of resident columns.
func (c *ColumnCache) Capacity() int { return c.capacity }

// SetCapacity updates the maximum number of resident columns. Callers must
// ensure Len() <= newCapacity before calling this (ResizeColBuffer evicts
// down to size first).
func (c *ColumnCache) SetCapacity(newCapacity int) { c.capacity = newCapacity }

// Full reports whether the cache is at capacity.
func (c *ColumnCache) Full() bool { return len(c.slots) >= c.capacity }

// Contains reports whether col is resident, without touching order.
func (c *ColumnCache) Contains(col int) bool {
	return c.member.Contains(uint32(col))
}

// Locate returns the resident slot for col, or (nil, false) on a miss.
// Locate never promotes col's position — the distinctness invariant only
// requires that Locate be checked before Insert.
func (c *ColumnCache) Locate(col int) (*Slot, bool) {
	if !c.member.Contains(uint32(col)) {
		return nil, false
	}
	for i := range c.slots {
		if c.slots[i].Col == col {
			return &c.slots[i], true
		}
	}
	return nil, false
}

// Oldest returns the eviction-victim slot (position 0). Panics if empty;
// callers must check Len() first.
func (c *ColumnCache) Oldest() *Slot {
	return &c.slots[0]
}

// Insert appends a brand-new resident column at the end (most recent). The
// caller must have already confirmed col is not resident and that the
// cache is not full — EvictOldest reclaims a slot first when it is.
func (c *ColumnCache) Insert(col int, buf []float64) {
	c.slots = append(c.slots, Slot{Col: col, Buf: buf})
	c.member.Add(uint32(col))
}

// EvictOldest removes the oldest slot, shifting the remaining slots down by
// one, and returns the reclaimed column index and buffer so the caller can
// reuse the buffer's backing array for the new slot instead of allocating.
// The caller is responsible for writing the evicted column back to disk
// first if it needs to be preserved.
func (c *ColumnCache) EvictOldest() (col int, buf []float64) {
	victim := c.slots[0]
	copy(c.slots, c.slots[1:])
	c.slots = c.slots[:len(c.slots)-1]
	c.member.Remove(uint32(victim.Col))
	return victim.Col, victim.Buf
}

// Remove drops col from the cache without shifting semantics beyond a
// normal slice delete, outside the normal eviction path. It does not write
// the column back; the engine's resize-shrink uses EvictOldest instead.
func (c *ColumnCache) Remove(col int) (Slot, bool) {
	for i := range c.slots {
		if c.slots[i].Col == col {
			s := c.slots[i]
			c.slots = append(c.slots[:i], c.slots[i+1:]...)
			c.member.Remove(uint32(col))
			return s, true
		}
	}
	return Slot{}, false
}

// Columns returns the currently resident column indices, oldest first.
func (c *ColumnCache) Columns() []int {
	out := make([]int, len(c.slots))
	for i, s := range c.slots {
		out[i] = s.Col
	}
	return out
}

// DoneBitmap returns a fresh bitmap seeded with the currently resident
// column indices, used by the aggregation kernels to mark the cache-first
// sweep as already covering these columns.
func (c *ColumnCache) DoneBitmap() *roaring.Bitmap {
	bm := roaring.New()
	for _, s := range c.slots {
		bm.Add(uint32(s.Col))
	}
	return bm
}

func (c *ColumnCache) String() string {
	return fmt.Sprintf("ColumnCache{len=%d cap=%d cols=%v}", len(c.slots), c.capacity, c.Columns())
}
