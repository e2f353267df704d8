package engine

// EwApply transforms every cell in place through fn.
// It flushes the row window (if active) before the sweep so disk is
// authoritative, mutates cached and on-disk columns, and — when row-mode
// is active — reloads the window afterward so its band reflects the
// transform.
func (e *Engine) EwApply(fn func(float64) float64) error {
	if e.readOnly {
		return ErrReadOnly
	}
	e.reconcileClash()
	if !e.colMode {
		if err := e.window.Flush(e); err != nil {
			return err
		}
	}

	for _, c := range e.cache.Columns() {
		slot, _ := e.cache.Locate(c)
		for i, v := range slot.Buf {
			slot.Buf[i] = fn(v)
		}
		if err := e.st.WriteWhole(e.paths[c], slot.Buf); err != nil {
			return err
		}
	}

	done := e.cache.DoneBitmap()
	scratch := make([]float64, e.rows)
	for c := 0; c < e.cols; c++ {
		if done.Contains(uint32(c)) {
			continue
		}
		if err := e.st.ReadWhole(e.paths[c], scratch); err != nil {
			return err
		}
		for i, v := range scratch {
			scratch[i] = fn(v)
		}
		if err := e.st.WriteWhole(e.paths[c], scratch); err != nil {
			return err
		}
	}

	if !e.colMode {
		return e.window.LoadAt(e.window.FirstRow(), e, e.cache)
	}
	return nil
}
