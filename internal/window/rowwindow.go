// Package window implements the optional contiguous row band held resident
// across every column: one row segment per column, each reallocated when
// the band is resized.
package window

import (
	"fmt"

	"github.com/alexhholmes/bufmatrix/internal/cache"
	"github.com/alexhholmes/bufmatrix/internal/store"
)

// PathProvider resolves a column index to its on-disk file path. The
// engine implements this over its own path list; the window never owns
// paths itself.
type PathProvider interface {
	Path(col int) string
}

// RowWindow holds the row band [FirstRow, FirstRow+MaxRows) across every
// column when row-mode is active. Its segments are exclusively owned by
// the window; they never alias a ColumnCache buffer.
type RowWindow struct {
	st       *store.Store
	rows     int
	maxRows  int
	firstRow int
	segments [][]float64
	active   bool
}

// New creates an inactive RowWindow for a matrix with the given fixed row
// count. maxRows must satisfy 1 <= maxRows <= rows once rows is known;
// callers are expected to enforce that before calling Activate.
func New(st *store.Store, rows, maxRows int) *RowWindow {
	return &RowWindow{st: st, rows: rows, maxRows: maxRows}
}

func (w *RowWindow) Active() bool    { return w.active }
func (w *RowWindow) FirstRow() int   { return w.firstRow }
func (w *RowWindow) MaxRows() int    { return w.maxRows }
func (w *RowWindow) Cols() int       { return len(w.segments) }
func (w *RowWindow) SetRows(r int)   { w.rows = r }

// Contains reports whether row currently falls inside the resident band.
func (w *RowWindow) Contains(row int) bool {
	return w.active && row >= w.firstRow && row < w.firstRow+w.maxRows
}

// Get returns the value at (row, col); the caller must have already
// checked Contains(row) and that col is in range.
func (w *RowWindow) Get(row, col int) float64 {
	return w.segments[col][row-w.firstRow]
}

// Set writes v at (row, col); same preconditions as Get.
func (w *RowWindow) Set(row, col int, v float64) {
	w.segments[col][row-w.firstRow] = v
}

// Activate allocates the cols x maxRows band and positions it at row 0,
// reconciling against any columns already resident in cc.
func (w *RowWindow) Activate(cols int, paths PathProvider, cc *cache.ColumnCache) error {
	if w.maxRows < 1 || (w.rows > 0 && w.maxRows > w.rows) {
		return fmt.Errorf("window: activate: invalid max_rows %d for rows %d", w.maxRows, w.rows)
	}
	w.segments = make([][]float64, cols)
	for j := range w.segments {
		w.segments[j] = make([]float64, w.maxRows)
	}
	w.active = true
	return w.LoadAt(0, paths, cc)
}

// Deactivate frees the window's storage. The caller is responsible for
// reconciling any outstanding clash and flushing before calling this.
func (w *RowWindow) Deactivate() {
	w.segments = nil
	w.active = false
	w.firstRow = 0
}

// LoadAt repositions the window so it covers rows starting at (at most)
// row, clamped so the whole band fits in [0, rows). Every column is read
// fresh from disk, then any column also resident in cc has its cache copy
// overwrite the freshly-read segment — the cache is authoritative for its
// own columns at load time.
func (w *RowWindow) LoadAt(row int, paths PathProvider, cc *cache.ColumnCache) error {
	first := row
	if max := w.rows - w.maxRows; first > max {
		first = max
	}
	if first < 0 {
		first = 0
	}
	w.firstRow = first

	for j := range w.segments {
		if err := w.st.ReadSlice(paths.Path(j), w.firstRow, w.maxRows, w.segments[j]); err != nil {
			return fmt.Errorf("window: load column %d at row %d: %w", j, w.firstRow, err)
		}
	}
	for j := range w.segments {
		if slot, ok := cc.Locate(j); ok {
			copy(w.segments[j], slot.Buf[w.firstRow:w.firstRow+w.maxRows])
		}
	}
	return nil
}

// Flush writes every resident segment back to its file at the window's
// current row offset.
func (w *RowWindow) Flush(paths PathProvider) error {
	for j := range w.segments {
		if err := w.st.WriteSlice(paths.Path(j), w.firstRow, w.maxRows, w.segments[j]); err != nil {
			return fmt.Errorf("window: flush column %d at row %d: %w", j, w.firstRow, err)
		}
	}
	return nil
}

// AppendOneColumn extends the window with one new zero-filled segment,
// used when a column is appended while row-mode is active.
func (w *RowWindow) AppendOneColumn() {
	if !w.active {
		return
	}
	w.segments = append(w.segments, make([]float64, w.maxRows))
}

// Resize flushes the current band, reallocates every segment to newMaxRows,
// repositions FirstRow so the band still fits in [0, rows), and reloads.
func (w *RowWindow) Resize(newMaxRows int, paths PathProvider, cc *cache.ColumnCache) error {
	if newMaxRows < 1 || newMaxRows > w.rows {
		return fmt.Errorf("window: resize: invalid max_rows %d for rows %d", newMaxRows, w.rows)
	}
	if w.active {
		if err := w.Flush(paths); err != nil {
			return err
		}
	}
	w.maxRows = newMaxRows
	if !w.active {
		return nil
	}
	for j := range w.segments {
		w.segments[j] = make([]float64, newMaxRows)
	}
	first := w.firstRow
	if first+newMaxRows > w.rows {
		first = w.rows - newMaxRows
	}
	if first < 0 {
		first = 0
	}
	return w.LoadAt(first, paths, cc)
}
