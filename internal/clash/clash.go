// Package clash implements the single-slot coherence record between the
// column cache and the row window.
package clash

// Tracker records the most recent cell that was read or written through
// the row window while that same cell also lived in the column cache. Only
// one clash is ever tracked at a time; every access path reconciles the
// previous clash (if any) before it could record a new one, so a single
// slot is sufficient.
type Tracker struct {
	set bool
	row int
	col int
}

// Mark records (row, col) as the current clash, replacing any previous one.
func (t *Tracker) Mark(row, col int) {
	t.set = true
	t.row = row
	t.col = col
}

// Clear discards the tracked clash without reconciling it. Callers use
// this after reconciliation has already copied the row window's value
// into the column cache.
func (t *Tracker) Clear() {
	t.set = false
}

// Get returns the tracked cell and whether one is set.
func (t *Tracker) Get() (row, col int, ok bool) {
	return t.row, t.col, t.set
}
