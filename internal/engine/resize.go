package engine

import "fmt"

// ResizeColBuffer changes the column cache's capacity. On shrink, the
// oldest columns are written back and discarded until the cache fits the
// new capacity. On grow, columns not already resident are brought in
// ascending index order until the new capacity is reached or there are
// no more columns. Go slices grow without a fixed-array resizing hazard;
// the capacity reported afterward is always the post-transition
// capacity.
func (e *Engine) ResizeColBuffer(newMaxCols int) error {
	if newMaxCols < 1 {
		return fmt.Errorf("%w: max_cols=%d", ErrInvalidCapacity, newMaxCols)
	}

	for e.cache.Len() > newMaxCols {
		if _, err := e.evictOldestColumn(); err != nil {
			return err
		}
	}

	e.cache.SetCapacity(newMaxCols)

	for col := 0; col < e.cols && e.cache.Len() < newMaxCols; col++ {
		if err := e.loadColumnIntoCache(col); err != nil {
			return err
		}
	}

	e.maxCols = newMaxCols
	return nil
}

// ResizeRowBuffer changes the row window's capacity. In column-mode this
// only updates the recorded max_rows for the next activation. In
// row-mode the window flushes, reallocates every segment, repositions to
// stay inside [0, rows), and reloads.
func (e *Engine) ResizeRowBuffer(newMaxRows int) error {
	if newMaxRows < 1 || (e.rows > 0 && newMaxRows > e.rows) {
		return fmt.Errorf("%w: max_rows=%d", ErrInvalidCapacity, newMaxRows)
	}

	if e.colMode {
		if e.rows > 0 {
			// The window is inactive, so this only records its new size.
			if err := e.window.Resize(newMaxRows, e, e.cache); err != nil {
				return err
			}
		}
		e.maxRows = newMaxRows
		return nil
	}

	e.reconcileClash()
	if err := e.window.Resize(newMaxRows, e, e.cache); err != nil {
		return err
	}
	e.maxRows = newMaxRows
	return nil
}
