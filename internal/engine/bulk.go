package engine

import "fmt"

func (e *Engine) checkCols(cols []int) error {
	for _, c := range cols {
		if c < 0 || c >= e.cols {
			return ErrOutOfRange
		}
	}
	return nil
}

func (e *Engine) checkRows(rows []int) error {
	for _, r := range rows {
		if r < 0 || r >= e.rows {
			return ErrOutOfRange
		}
	}
	return nil
}

// GetColumns reads len(cols) whole columns into out, a caller-supplied
// column-major buffer of length rows*len(cols). In row-mode this falls
// through to per-cell Get; in column-mode requested columns already
// resident are copied directly, others are loaded first.
func (e *Engine) GetColumns(cols []int, out []float64) error {
	if err := e.checkCols(cols); err != nil {
		return err
	}
	if len(out) != e.rows*len(cols) {
		return fmt.Errorf("engine: get columns: out has %d elements, want %d", len(out), e.rows*len(cols))
	}

	if !e.colMode {
		for k, c := range cols {
			for r := 0; r < e.rows; r++ {
				v, err := e.Get(r, c)
				if err != nil {
					return err
				}
				out[k*e.rows+r] = v
			}
		}
		return nil
	}

	for k, c := range cols {
		if slot, ok := e.cache.Locate(c); ok {
			copy(out[k*e.rows:(k+1)*e.rows], slot.Buf)
			continue
		}
		if err := e.loadColumnIntoCache(c); err != nil {
			return err
		}
		slot, _ := e.cache.Locate(c)
		copy(out[k*e.rows:(k+1)*e.rows], slot.Buf)
	}
	return nil
}

// SetColumns writes len(cols) whole columns from vals, a column-major
// buffer of length rows*len(cols), symmetric with GetColumns.
func (e *Engine) SetColumns(cols []int, vals []float64) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if err := e.checkCols(cols); err != nil {
		return err
	}
	if len(vals) != e.rows*len(cols) {
		return fmt.Errorf("engine: set columns: vals has %d elements, want %d", len(vals), e.rows*len(cols))
	}

	if !e.colMode {
		for k, c := range cols {
			for r := 0; r < e.rows; r++ {
				if err := e.Set(r, c, vals[k*e.rows+r]); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for k, c := range cols {
		if slot, ok := e.cache.Locate(c); ok {
			copy(slot.Buf, vals[k*e.rows:(k+1)*e.rows])
			continue
		}
		if err := e.loadColumnIntoCache(c); err != nil {
			return err
		}
		slot, _ := e.cache.Locate(c)
		copy(slot.Buf, vals[k*e.rows:(k+1)*e.rows])
	}
	return nil
}

// GetRows reads len(rowIdx) rows across every column into out, a
// caller-supplied row-major buffer of length len(rowIdx)*cols.
// In row-mode this falls through to per-cell Get. In column-mode it first
// extracts the requested rows from every currently-cached column, then
// streams the remaining columns in ascending order, loading each exactly
// once, so no on-disk column is read twice in a single call.
func (e *Engine) GetRows(rowIdx []int, out []float64) error {
	if err := e.checkRows(rowIdx); err != nil {
		return err
	}
	if len(out) != len(rowIdx)*e.cols {
		return fmt.Errorf("engine: get rows: out has %d elements, want %d", len(out), len(rowIdx)*e.cols)
	}

	if !e.colMode {
		for c := 0; c < e.cols; c++ {
			for i, r := range rowIdx {
				v, err := e.Get(r, c)
				if err != nil {
					return err
				}
				out[i*e.cols+c] = v
			}
		}
		return nil
	}

	done := e.cache.DoneBitmap()
	for _, c := range e.cache.Columns() {
		slot, _ := e.cache.Locate(c)
		for i, r := range rowIdx {
			out[i*e.cols+c] = slot.Buf[r]
		}
	}
	for c := 0; c < e.cols; c++ {
		if done.Contains(uint32(c)) {
			continue
		}
		if err := e.loadColumnIntoCache(c); err != nil {
			return err
		}
		slot, _ := e.cache.Locate(c)
		for i, r := range rowIdx {
			out[i*e.cols+c] = slot.Buf[r]
		}
	}
	return nil
}

// SetRows writes len(rowIdx) rows across every column from vals, a
// row-major buffer of length len(rowIdx)*cols, symmetric with GetRows.
func (e *Engine) SetRows(rowIdx []int, vals []float64) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if err := e.checkRows(rowIdx); err != nil {
		return err
	}
	if len(vals) != len(rowIdx)*e.cols {
		return fmt.Errorf("engine: set rows: vals has %d elements, want %d", len(vals), len(rowIdx)*e.cols)
	}

	if !e.colMode {
		for c := 0; c < e.cols; c++ {
			for i, r := range rowIdx {
				if err := e.Set(r, c, vals[i*e.cols+c]); err != nil {
					return err
				}
			}
		}
		return nil
	}

	done := e.cache.DoneBitmap()
	for _, c := range e.cache.Columns() {
		slot, _ := e.cache.Locate(c)
		for i, r := range rowIdx {
			slot.Buf[r] = vals[i*e.cols+c]
		}
	}
	for c := 0; c < e.cols; c++ {
		if done.Contains(uint32(c)) {
			continue
		}
		if err := e.loadColumnIntoCache(c); err != nil {
			return err
		}
		slot, _ := e.cache.Locate(c)
		for i, r := range rowIdx {
			slot.Buf[r] = vals[i*e.cols+c]
		}
	}
	return nil
}
