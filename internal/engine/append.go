package engine

import "fmt"

// AppendColumn adds one new all-zero column, following a four-step
// sequence: reclaim or grow a cache slot, create the backing file, insert
// the slot and extend the row window if active, then advance Cols. If any
// file step fails, Cols is left unchanged.
func (e *Engine) AppendColumn() error {
	if e.rows == 0 {
		return ErrRowsNotSet
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

	path, err := e.st.CreateZero()
	if err != nil {
		return fmt.Errorf("engine: append column: %w", err)
	}

	newCol := e.cols
	e.cache.Insert(newCol, buf)
	if !e.colMode {
		e.window.AppendOneColumn()
	}
	e.paths = append(e.paths, path)
	e.cols++
	return nil
}
