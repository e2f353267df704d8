// Package engine implements the public contract of cell
// get/set, bulk column/row access, column append, buffer resize, mode
// switches, directory relocation, and the aggregation kernels. It routes
// every cell access through ClashTracker -> RowWindow -> ColumnCache ->
// FileStore, in that order of preference.
package engine

import (
	"fmt"
	"math"

	"github.com/alexhholmes/bufmatrix/internal/cache"
	"github.com/alexhholmes/bufmatrix/internal/clash"
	"github.com/alexhholmes/bufmatrix/internal/store"
	"github.com/alexhholmes/bufmatrix/internal/window"
)

// Engine is the opaque descriptor behind the public handle. All state is
// unexported; callers only reach it through pkg/matrix.
type Engine struct {
	rows int
	cols int

	maxCols int
	maxRows int

	colMode  bool
	readOnly bool

	st     *store.Store
	cache  *cache.ColumnCache
	window *window.RowWindow
	clash  clash.Tracker

	paths []string
}

// New creates an empty engine (rows=cols=0) rooted at directory with the
// given prefix, LRU capacity, and initial row-window capacity. Row-mode
// starts disabled; it can only be activated once rows is fixed.
func New(directory, prefix string, maxCols, maxRows int) (*Engine, error) {
	if maxCols < 1 {
		return nil, fmt.Errorf("%w: max_cols=%d", ErrInvalidCapacity, maxCols)
	}
	if maxRows < 1 {
		return nil, fmt.Errorf("%w: max_rows=%d", ErrInvalidCapacity, maxRows)
	}
	e := &Engine{
		maxCols: maxCols,
		maxRows: maxRows,
		colMode: true,
		st:      store.New(directory, prefix, 0),
	}
	e.cache = cache.New(0, maxCols)
	e.window = window.New(e.st, 0, maxRows)
	return e, nil
}

// Path implements window.PathProvider.
func (e *Engine) Path(col int) string { return e.paths[col] }

// Rows returns the fixed row count, or 0 if not yet set.
func (e *Engine) Rows() int { return e.rows }

// Cols returns the current column count.
func (e *Engine) Cols() int { return e.cols }

// SetRowCount fixes the matrix's row count. It succeeds exactly once,
// before any column has been appended.
func (e *Engine) SetRowCount(n int) error {
	if e.rows != 0 {
		return ErrRowsAlreadySet
	}
	if n <= 0 {
		return fmt.Errorf("%w: rows=%d", ErrInvalidCapacity, n)
	}
	if e.maxRows > n {
		e.maxRows = n
	}
	e.rows = n
	e.st = store.New(e.st.Directory(), e.st.Prefix(), n)
	e.cache = cache.New(n, e.maxCols)
	e.window = window.New(e.st, n, e.maxRows)
	return nil
}

func (e *Engine) inRange(row, col int) bool {
	return row >= 0 && row < e.rows && col >= 0 && col < e.cols
}

// reconcileClash copies the row window's tracked cell into the column
// cache's copy if they diverge, then clears the tracker. It must run
// before any operation that would read from the column cache, evict or
// overwrite the tracked column, leave row-mode, or flip read-only on.
func (e *Engine) reconcileClash() {
	row, col, ok := e.clash.Get()
	if !ok {
		return
	}
	if slot, found := e.cache.Locate(col); found {
		wv := e.window.Get(row, col)
		if math.Float64bits(slot.Buf[row]) != math.Float64bits(wv) {
			slot.Buf[row] = wv
		}
	}
	e.clash.Clear()
}

// markClash records a clash unless read-only row-mode short-circuits it:
// with read_only && !col_mode there is no write path, so the row window
// and column cache copies of a freshly-loaded cell can never diverge and
// there is nothing to reconcile later. Any clash already tracked for a
// different cell is reconciled first, since the tracker only ever holds
// one cell and overwriting it without reconciling would strand the
// previous cell's divergence with nothing left to fix it later.
func (e *Engine) markClash(row, col int) {
	if e.readOnly && !e.colMode {
		e.clash.Clear()
		return
	}
	e.reconcileClash()
	e.clash.Mark(row, col)
}

// evictOldestColumn reclaims the oldest cache slot, writing it back first
// unless read-only, and returns its zeroed buffer for reuse.
func (e *Engine) evictOldestColumn() ([]float64, error) {
	e.reconcileClash()
	col, buf := e.cache.EvictOldest()
	if !e.readOnly {
		if err := e.st.WriteWhole(e.paths[col], buf); err != nil {
			return nil, fmt.Errorf("engine: write back column %d: %w", col, err)
		}
	}
	for i := range buf {
		buf[i] = 0
	}
	return buf, nil
}

// loadColumnIntoCache ensures col is resident in the column cache,
// bringing it in from disk (evicting the oldest resident column if the
// cache is full) if it is not already present.
func (e *Engine) loadColumnIntoCache(col int) error {
	if e.cache.Contains(col) {
		return nil
	}
	var buf []float64
	if e.cache.Full() {
		reclaimed, err := e.evictOldestColumn()
		if err != nil {
			return err
		}
		buf = reclaimed
	} else {
		buf = make([]float64, e.rows)
	}
	if err := e.st.ReadWhole(e.paths[col], buf); err != nil {
		return fmt.Errorf("engine: load column %d: %w", col, err)
	}
	e.cache.Insert(col, buf)
	return nil
}

// ensureRowWindowCovers repositions the row window so it contains row,
// flushing its current contents first, and ensures col is resident in the
// column cache. Used on the row-mode double-miss path.
func (e *Engine) ensureRowWindowCovers(row, col int) error {
	e.reconcileClash()
	if err := e.window.Flush(e); err != nil {
		return err
	}
	if err := e.window.LoadAt(row, e, e.cache); err != nil {
		return err
	}
	return e.loadColumnIntoCache(col)
}

// Get returns the value at (row, col), or an error if out of range.
func (e *Engine) Get(row, col int) (float64, error) {
	if !e.inRange(row, col) {
		return 0, ErrOutOfRange
	}
	if !e.colMode {
		if e.window.Contains(row) {
			v := e.window.Get(row, col)
			if e.cache.Contains(col) {
				e.markClash(row, col)
			}
			return v, nil
		}
		if slot, ok := e.cache.Locate(col); ok {
			return slot.Buf[row], nil
		}
		if err := e.ensureRowWindowCovers(row, col); err != nil {
			return 0, err
		}
		v := e.window.Get(row, col)
		e.markClash(row, col)
		return v, nil
	}

	if slot, ok := e.cache.Locate(col); ok {
		return slot.Buf[row], nil
	}
	if err := e.loadColumnIntoCache(col); err != nil {
		return 0, err
	}
	slot, _ := e.cache.Locate(col)
	return slot.Buf[row], nil
}

// Set writes v at (row, col). It fails with ErrReadOnly if the engine is
// read-only, or ErrOutOfRange if the indices are out of bounds.
func (e *Engine) Set(row, col int, v float64) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if !e.inRange(row, col) {
		return ErrOutOfRange
	}
	if !e.colMode {
		if e.window.Contains(row) {
			e.window.Set(row, col, v)
			if e.cache.Contains(col) {
				e.markClash(row, col)
			}
			return nil
		}
		if slot, ok := e.cache.Locate(col); ok {
			slot.Buf[row] = v
			return nil
		}
		if err := e.ensureRowWindowCovers(row, col); err != nil {
			return err
		}
		e.window.Set(row, col, v)
		e.markClash(row, col)
		return nil
	}

	if slot, ok := e.cache.Locate(col); ok {
		slot.Buf[row] = v
		return nil
	}
	if err := e.loadColumnIntoCache(col); err != nil {
		return err
	}
	slot, _ := e.cache.Locate(col)
	slot.Buf[row] = v
	return nil
}

// GetSingleIndex and SetSingleIndex address a cell by a column-major
// linear index: index = col*rows + row.
func (e *Engine) GetSingleIndex(index int) (float64, error) {
	if e.rows == 0 {
		return 0, ErrOutOfRange
	}
	row, col := index%e.rows, index/e.rows
	return e.Get(row, col)
}

func (e *Engine) SetSingleIndex(index int, v float64) error {
	if e.rows == 0 {
		return ErrOutOfRange
	}
	row, col := index%e.rows, index/e.rows
	return e.Set(row, col, v)
}
