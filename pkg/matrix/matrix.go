// Package matrix is the public, opaque-handle-shaped surface for an
// out-of-core dense matrix of doubles, backed by one file per column,
// mediated by a column LRU and an optional row window. Internals live
// in internal/engine and are never exposed to callers.
package matrix

import (
	"fmt"

	"github.com/alexhholmes/bufmatrix/internal/engine"
)

// Matrix is the caller-facing handle. The zero value is not usable; call
// Open.
type Matrix struct {
	eng    *engine.Engine
	cfg    config
	closed bool
}

// Open creates a new matrix rooted at directory. The matrix starts empty
// (rows=cols=0); call SetRowCount once before appending any column.
func Open(directory string, opts ...Option) (*Matrix, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	eng, err := engine.New(directory, cfg.prefix, cfg.maxCols, cfg.maxRows)
	if err != nil {
		return nil, fmt.Errorf("matrix: open: %w", err)
	}
	m := &Matrix{eng: eng, cfg: cfg}
	if cfg.readOnly {
		if err := eng.SetReadOnly(true); err != nil {
			return nil, fmt.Errorf("matrix: open: %w", err)
		}
	}
	return m, nil
}

// Close deletes every file this matrix owns. It does not flush first:
// files already reflect committed state except for pages still held in
// a cache.
func (m *Matrix) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.eng.Destroy()
}

// Rows returns the fixed row count, or 0 if not yet set.
func (m *Matrix) Rows() int { return m.eng.Rows() }

// Cols returns the current column count.
func (m *Matrix) Cols() int { return m.eng.Cols() }

// SetRowCount fixes the matrix's row count. It succeeds exactly once. If
// the matrix was opened WithRowMode, row-mode is activated immediately
// after rows is fixed.
func (m *Matrix) SetRowCount(n int) error {
	if err := m.eng.SetRowCount(n); err != nil {
		return err
	}
	if m.cfg.rowMode {
		return m.eng.SetRowMode(true)
	}
	return nil
}

// AppendColumn adds one new all-zero column. rows must already be set.
func (m *Matrix) AppendColumn() error {
	return m.eng.AppendColumn()
}

// ResizeBuffer changes both buffer capacities in one call.
func (m *Matrix) ResizeBuffer(newMaxRows, newMaxCols int) error {
	if err := m.eng.ResizeColBuffer(newMaxCols); err != nil {
		return err
	}
	return m.eng.ResizeRowBuffer(newMaxRows)
}

// SetRowMode turns the row window on or off.
func (m *Matrix) SetRowMode(on bool) error { return m.eng.SetRowMode(on) }

// IsRowMode reports whether the row window is active.
func (m *Matrix) IsRowMode() bool { return m.eng.IsRowMode() }

// SetReadOnly turns read-only mode on or off.
func (m *Matrix) SetReadOnly(on bool) error { return m.eng.SetReadOnly(on) }

// IsReadOnly reports whether mutation is currently disabled.
func (m *Matrix) IsReadOnly() bool { return m.eng.IsReadOnly() }

// Prefix returns the file-name prefix used for future minted files.
func (m *Matrix) Prefix() string { return m.eng.GetPrefix() }

// SetPrefix changes the prefix used for future minted files only.
func (m *Matrix) SetPrefix(prefix string) { m.eng.SetPrefix(prefix) }

// Directory returns the directory new column files are minted under.
func (m *Matrix) Directory() string { return m.eng.GetDirectory() }

// MoveDirectory relocates every column file into newDir.
func (m *Matrix) MoveDirectory(newDir string) error { return m.eng.MoveDirectory(newDir) }

// Flush forces every dirty resident buffer to disk without changing mode.
func (m *Matrix) Flush() error { return m.eng.Flush() }

// Get returns the value at (row, col). ok is false when the indices are
// out of range; err reports an I/O failure encountered while bringing the
// cell's column or row window into memory.
func (m *Matrix) Get(row, col int) (value float64, ok bool, err error) {
	v, err := m.eng.Get(row, col)
	if isOutOfRange(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// Set writes v at (row, col). It fails with ErrReadOnly in read-only mode
// or ErrOutOfRange if the indices are out of bounds.
func (m *Matrix) Set(row, col int, v float64) error {
	return m.eng.Set(row, col, v)
}

// GetSingleIndex and SetSingleIndex address a cell by a column-major
// linear index: index = col*rows + row.
func (m *Matrix) GetSingleIndex(index int) (value float64, ok bool, err error) {
	v, err := m.eng.GetSingleIndex(index)
	if isOutOfRange(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (m *Matrix) SetSingleIndex(index int, v float64) error {
	return m.eng.SetSingleIndex(index, v)
}

// GetColumns returns a column-major buffer of length Rows()*len(cols)
// holding the requested columns.
func (m *Matrix) GetColumns(cols []int) ([]float64, error) {
	out := make([]float64, m.eng.Rows()*len(cols))
	if err := m.eng.GetColumns(cols, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetColumns writes vals, a column-major buffer of length
// Rows()*len(cols), into the requested columns.
func (m *Matrix) SetColumns(cols []int, vals []float64) error {
	return m.eng.SetColumns(cols, vals)
}

// GetRows returns a row-major buffer of length len(rows)*Cols() holding
// the requested rows across every column.
func (m *Matrix) GetRows(rows []int) ([]float64, error) {
	out := make([]float64, len(rows)*m.eng.Cols())
	if err := m.eng.GetRows(rows, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetRows writes vals, a row-major buffer of length len(rows)*Cols(),
// into the requested rows across every column.
func (m *Matrix) SetRows(rows []int, vals []float64) error {
	return m.eng.SetRows(rows, vals)
}

// CopyValues copies every cell of src into dst. Dimensions must match.
func CopyValues(dst, src *Matrix) error {
	return engine.CopyValues(dst.eng, src.eng)
}

// EwApply transforms every cell in place through fn.
func (m *Matrix) EwApply(fn func(float64) float64) error {
	return m.eng.EwApply(fn)
}

// MemoryInUse returns the approximate number of resident bytes.
func (m *Matrix) MemoryInUse() int { return m.eng.MemoryInUse() }

// FileSpaceInUse returns the total bytes committed to per-column files.
func (m *Matrix) FileSpaceInUse() float64 { return m.eng.FileSpaceInUse() }
