package engine

import "fmt"

// IsRowMode reports whether the row window is active.
func (e *Engine) IsRowMode() bool { return !e.colMode }

// SetRowMode activates or deactivates the row window. Activating loads
// the window at row 0; deactivating reconciles any outstanding clash and
// flushes before freeing the window's storage.
func (e *Engine) SetRowMode(on bool) error {
	if on == !e.colMode {
		return nil
	}
	if on {
		if e.rows == 0 {
			return ErrRowsNotSet
		}
		if err := e.window.Activate(e.cols, e, e.cache); err != nil {
			return err
		}
		e.colMode = false
		return nil
	}

	e.reconcileClash()
	if err := e.window.Flush(e); err != nil {
		return err
	}
	e.window.Deactivate()
	e.colMode = true
	return nil
}

// IsReadOnly reports whether mutation is currently disabled.
func (e *Engine) IsReadOnly() bool { return e.readOnly }

// SetReadOnly toggles read-only mode. Turning it on reconciles any clash
// and flushes the row window and every cached column so on-disk state is
// fully coherent before eviction starts skipping write-back. Turning it
// off is a pure flag flip.
func (e *Engine) SetReadOnly(on bool) error {
	if on == e.readOnly {
		return nil
	}
	if on {
		e.reconcileClash()
		if !e.colMode {
			if err := e.window.Flush(e); err != nil {
				return err
			}
		}
		for _, c := range e.cache.Columns() {
			slot, _ := e.cache.Locate(c)
			if err := e.st.WriteWhole(e.paths[c], slot.Buf); err != nil {
				return err
			}
		}
	}
	e.readOnly = on
	return nil
}

// Flush forces every dirty resident buffer to disk without changing
// read-only or row-mode state. It performs the same reconcile-then-flush
// sequence SetReadOnly(true) uses internally, without flipping the flag.
func (e *Engine) Flush() error {
	e.reconcileClash()
	if !e.colMode {
		if err := e.window.Flush(e); err != nil {
			return err
		}
	}
	for _, c := range e.cache.Columns() {
		slot, _ := e.cache.Locate(c)
		if err := e.st.WriteWhole(e.paths[c], slot.Buf); err != nil {
			return err
		}
	}
	return nil
}

// GetDirectory returns the directory new column files are minted under.
func (e *Engine) GetDirectory() string { return e.st.Directory() }

// GetPrefix returns the prefix used for newly minted file names.
func (e *Engine) GetPrefix() string { return e.st.Prefix() }

// SetPrefix changes the prefix used for future minted files only;
// already-minted paths are unaffected.
func (e *Engine) SetPrefix(prefix string) { e.st.SetPrefix(prefix) }

// MoveDirectory relocates every column file into newDir, updating the
// stored path list and the minter's directory.
func (e *Engine) MoveDirectory(newDir string) error {
	moved, err := e.st.MoveAll(e.paths, newDir)
	e.paths = moved
	if err != nil {
		return fmt.Errorf("engine: move directory: %w", err)
	}
	return nil
}

// MemoryInUse returns the approximate number of resident bytes across the
// column cache and the row window.
func (e *Engine) MemoryInUse() int {
	bytes := e.cache.Len() * e.rows * 8
	if !e.colMode {
		bytes += e.window.Cols() * e.window.MaxRows() * 8
	}
	return bytes
}

// FileSpaceInUse returns the total bytes committed to per-column files,
// regardless of cache residency.
func (e *Engine) FileSpaceInUse() float64 {
	return float64(e.cols) * float64(e.rows) * 8
}

// Destroy deletes every file this engine owns. It does not flush first —
// destruction removes files without writing back cache contents.
func (e *Engine) Destroy() error {
	return e.st.DeleteAll(e.paths)
}
