package engine

import "math"

// RowSums returns the per-row sum across every column, computed with a
// single full-matrix pass and a per-row accumulator.
func (e *Engine) RowSums(ignoreNA bool) ([]float64, error) {
	sums := make([]float64, e.rows)
	nan := make([]bool, e.rows)

	err := e.forEachColumn(func(_ int, buf []float64) error {
		for r, v := range buf {
			if nan[r] {
				continue
			}
			if math.IsNaN(v) {
				if !ignoreNA {
					nan[r] = true
				}
				continue
			}
			sums[r] += v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for r := range sums {
		if nan[r] {
			sums[r] = math.NaN()
		}
	}
	return sums, nil
}

// RowMeans returns the per-row mean across non-NaN cells.
func (e *Engine) RowMeans(ignoreNA bool) ([]float64, error) {
	sums := make([]float64, e.rows)
	counts := make([]int, e.rows)
	nan := make([]bool, e.rows)

	err := e.forEachColumn(func(_ int, buf []float64) error {
		for r, v := range buf {
			if nan[r] {
				continue
			}
			if math.IsNaN(v) {
				if !ignoreNA {
					nan[r] = true
				}
				continue
			}
			sums[r] += v
			counts[r]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]float64, e.rows)
	for r := range out {
		if nan[r] || counts[r] == 0 {
			out[r] = math.NaN()
			continue
		}
		out[r] = sums[r] / float64(counts[r])
	}
	return out, nil
}

// RowVars returns the per-row sample variance, applying the Welford
// update per row.
func (e *Engine) RowVars(ignoreNA bool) ([]float64, error) {
	accs := make([]welford, e.rows)
	nan := make([]bool, e.rows)

	err := e.forEachColumn(func(_ int, buf []float64) error {
		for r, v := range buf {
			if nan[r] {
				continue
			}
			if math.IsNaN(v) {
				if !ignoreNA {
					nan[r] = true
				}
				continue
			}
			accs[r].add(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]float64, e.rows)
	for r := range out {
		if nan[r] {
			out[r] = math.NaN()
			continue
		}
		out[r] = accs[r].sampleVariance()
	}
	return out, nil
}

func (e *Engine) rowExtreme(ignoreNA, wantMax bool) ([]float64, error) {
	best := make([]float64, e.rows)
	seen := make([]bool, e.rows)
	nan := make([]bool, e.rows)
	init := math.Inf(1)
	if wantMax {
		init = math.Inf(-1)
	}
	for r := range best {
		best[r] = init
	}

	err := e.forEachColumn(func(_ int, buf []float64) error {
		for r, v := range buf {
			if nan[r] {
				continue
			}
			if math.IsNaN(v) {
				if !ignoreNA {
					nan[r] = true
				}
				continue
			}
			seen[r] = true
			if wantMax {
				if v > best[r] {
					best[r] = v
				}
			} else if v < best[r] {
				best[r] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for r := range best {
		// With ignoreNA and an all-NaN row, yield NaN rather than +/-Inf
		//: a per-row result has no anyFinite side channel to
		// distinguish "no finite element" the way the global min/max does.
		if nan[r] || !seen[r] {
			best[r] = math.NaN()
		}
	}
	return best, nil
}

// RowMax returns the per-row maximum.
func (e *Engine) RowMax(ignoreNA bool) ([]float64, error) { return e.rowExtreme(ignoreNA, true) }

// RowMin returns the per-row minimum.
func (e *Engine) RowMin(ignoreNA bool) ([]float64, error) { return e.rowExtreme(ignoreNA, false) }

// RowMedians computes the median of each row's non-NaN values, averaging
// the two central order statistics into that same row's result slot.
// This implementation makes one cache-ordered pass over the columns and
// materializes the whole matrix row-by-row in memory (rows*cols values)
// to compute exact medians; it does not use the row window, so its cost
// is the same in row-mode and column-mode.
func (e *Engine) RowMedians(ignoreNA bool) ([]float64, error) {
	rowsBuf := make([][]float64, e.rows)
	for r := range rowsBuf {
		rowsBuf[r] = make([]float64, 0, e.cols)
	}

	err := e.forEachColumn(func(_ int, buf []float64) error {
		for r, v := range buf {
			rowsBuf[r] = append(rowsBuf[r], v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]float64, e.rows)
	for r, vals := range rowsBuf {
		out[r] = median(vals, ignoreNA)
	}
	return out, nil
}
