package engine

import (
	"math"
	"sort"
)

// prepareForBulkRead makes disk and the column cache fully authoritative
// for a whole-matrix scan: it reconciles the one outstanding clash (if
// any) and, when row-mode is active, flushes every column's row segment
// back to disk. Because only one clash is ever tracked at a time, this
// is sufficient to guarantee no column's on-disk or cached copy is stale
// relative to the row window before a cache-aware sweep.
func (e *Engine) prepareForBulkRead() error {
	e.reconcileClash()
	if !e.colMode {
		return e.window.Flush(e)
	}
	return nil
}

// forEachColumn visits every column exactly once: first the columns
// currently resident in the column cache (in cache order), then the
// remaining columns in ascending index order, streamed from disk into a
// shared scratch buffer without disturbing the cache.
func (e *Engine) forEachColumn(fn func(col int, buf []float64) error) error {
	if err := e.prepareForBulkRead(); err != nil {
		return err
	}

	done := e.cache.DoneBitmap()
	for _, c := range e.cache.Columns() {
		slot, _ := e.cache.Locate(c)
		if err := fn(c, slot.Buf); err != nil {
			return err
		}
	}

	scratch := make([]float64, e.rows)
	for c := 0; c < e.cols; c++ {
		if done.Contains(uint32(c)) {
			continue
		}
		if err := e.st.ReadWhole(e.paths[c], scratch); err != nil {
			return err
		}
		if err := fn(c, scratch); err != nil {
			return err
		}
	}
	return nil
}

// Min returns the smallest cell value. If a non-ignored NaN is
// encountered the result is NaN. With ignoreNA and no finite element, the
// result is +Inf and anyFinite is false.
func (e *Engine) Min(ignoreNA bool) (result float64, anyFinite bool, err error) {
	return e.globalExtreme(ignoreNA, false)
}

// Max is the Min counterpart returning -Inf when no finite element exists.
func (e *Engine) Max(ignoreNA bool) (result float64, anyFinite bool, err error) {
	return e.globalExtreme(ignoreNA, true)
}

func (e *Engine) globalExtreme(ignoreNA, wantMax bool) (float64, bool, error) {
	best := math.Inf(1)
	if wantMax {
		best = math.Inf(-1)
	}
	anyFinite := false
	nanHit := false

	err := e.forEachColumn(func(_ int, buf []float64) error {
		for _, v := range buf {
			if math.IsNaN(v) {
				if !ignoreNA {
					nanHit = true
				}
				continue
			}
			anyFinite = true
			if wantMax {
				if v > best {
					best = v
				}
			} else if v < best {
				best = v
			}
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	if nanHit {
		return math.NaN(), anyFinite, nil
	}
	return best, anyFinite, nil
}

// Sum returns the running sum of every cell.
func (e *Engine) Sum(ignoreNA bool) (float64, error) {
	sum := 0.0
	nanHit := false
	err := e.forEachColumn(func(_ int, buf []float64) error {
		for _, v := range buf {
			if math.IsNaN(v) {
				if !ignoreNA {
					nanHit = true
				}
				continue
			}
			sum += v
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if nanHit {
		return math.NaN(), nil
	}
	return sum, nil
}

// Mean divides the sum by the count of non-NaN cells (or all cells when
// ignoreNA is false and no NaN was encountered).
func (e *Engine) Mean(ignoreNA bool) (float64, error) {
	sum := 0.0
	count := 0
	nanHit := false
	err := e.forEachColumn(func(_ int, buf []float64) error {
		for _, v := range buf {
			if math.IsNaN(v) {
				if !ignoreNA {
					nanHit = true
				}
				continue
			}
			sum += v
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if nanHit || count == 0 {
		return math.NaN(), nil
	}
	return sum / float64(count), nil
}

// welford is the one-pass incremental mean/variance update, avoiding the
// catastrophic cancellation of Sum(x^2) - (Sum(x))^2/n.
type welford struct {
	n    int
	mean float64
	m2   float64
}

func (w *welford) add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

func (w *welford) sampleVariance() float64 {
	if w.n < 2 {
		return math.NaN()
	}
	return w.m2 / float64(w.n-1)
}

// Variance returns the sample variance across every non-NaN cell, or NaN
// with fewer than two such cells.
func (e *Engine) Variance(ignoreNA bool) (float64, error) {
	var w welford
	nanHit := false
	err := e.forEachColumn(func(_ int, buf []float64) error {
		for _, v := range buf {
			if math.IsNaN(v) {
				if !ignoreNA {
					nanHit = true
				}
				continue
			}
			w.add(v)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if nanHit {
		return math.NaN(), nil
	}
	return w.sampleVariance(), nil
}

// ColSums, ColMeans, ColVars, ColMax, ColMin, ColMedians and ColRanges each
// make one cache-ordered pass over the matrix, applying a per-column
// helper reused by the shared outer loop.
func (e *Engine) ColSums(ignoreNA bool) ([]float64, error) {
	out := make([]float64, e.cols)
	err := e.forEachColumn(func(c int, buf []float64) error {
		out[c] = colSum(buf, ignoreNA)
		return nil
	})
	return out, err
}

func (e *Engine) ColMeans(ignoreNA bool) ([]float64, error) {
	out := make([]float64, e.cols)
	err := e.forEachColumn(func(c int, buf []float64) error {
		out[c] = colMean(buf, ignoreNA)
		return nil
	})
	return out, err
}

func (e *Engine) ColVars(ignoreNA bool) ([]float64, error) {
	out := make([]float64, e.cols)
	err := e.forEachColumn(func(c int, buf []float64) error {
		out[c] = colVariance(buf, ignoreNA)
		return nil
	})
	return out, err
}

func (e *Engine) ColMax(ignoreNA bool) ([]float64, error) {
	out := make([]float64, e.cols)
	err := e.forEachColumn(func(c int, buf []float64) error {
		v, _ := colExtreme(buf, ignoreNA, true)
		out[c] = v
		return nil
	})
	return out, err
}

func (e *Engine) ColMin(ignoreNA bool) ([]float64, error) {
	out := make([]float64, e.cols)
	err := e.forEachColumn(func(c int, buf []float64) error {
		v, _ := colExtreme(buf, ignoreNA, false)
		out[c] = v
		return nil
	})
	return out, err
}

// ColRanges returns each column's (min, max) pair packed into a flat
// buffer of length 2*cols: out[2*c] is column c's minimum and
// out[2*c+1] is its maximum. This mirrors the paired min/max layout of
// the routine it's grounded on rather than collapsing to a single
// max-minus-min difference.
func (e *Engine) ColRanges(ignoreNA bool) ([]float64, error) {
	out := make([]float64, 2*e.cols)
	err := e.forEachColumn(func(c int, buf []float64) error {
		mn, _ := colExtreme(buf, ignoreNA, false)
		mx, _ := colExtreme(buf, ignoreNA, true)
		out[2*c] = mn
		out[2*c+1] = mx
		return nil
	})
	return out, err
}

// ColMedians uses a non-NaN compaction buffer per column and averages the
// two central order statistics for an even count.
func (e *Engine) ColMedians(ignoreNA bool) ([]float64, error) {
	out := make([]float64, e.cols)
	err := e.forEachColumn(func(c int, buf []float64) error {
		out[c] = median(buf, ignoreNA)
		return nil
	})
	return out, err
}

func colSum(buf []float64, ignoreNA bool) float64 {
	sum := 0.0
	for _, v := range buf {
		if math.IsNaN(v) {
			if !ignoreNA {
				return math.NaN()
			}
			continue
		}
		sum += v
	}
	return sum
}

func colMean(buf []float64, ignoreNA bool) float64 {
	sum := 0.0
	n := 0
	for _, v := range buf {
		if math.IsNaN(v) {
			if !ignoreNA {
				return math.NaN()
			}
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func colVariance(buf []float64, ignoreNA bool) float64 {
	var w welford
	for _, v := range buf {
		if math.IsNaN(v) {
			if !ignoreNA {
				return math.NaN()
			}
			continue
		}
		w.add(v)
	}
	return w.sampleVariance()
}

// colExtreme returns (value, ok). ok is false only when ignoreNA is true
// and every value is NaN.
func colExtreme(buf []float64, ignoreNA, wantMax bool) (float64, bool) {
	best := math.Inf(1)
	if wantMax {
		best = math.Inf(-1)
	}
	seen := false
	for _, v := range buf {
		if math.IsNaN(v) {
			if !ignoreNA {
				return math.NaN(), true
			}
			continue
		}
		seen = true
		if wantMax {
			if v > best {
				best = v
			}
		} else if v < best {
			best = v
		}
	}
	if !seen {
		return best, false
	}
	return best, true
}

// median compacts the non-NaN values of buf, sorts the compaction buffer,
// and averages the two central order statistics for an even count.
func median(buf []float64, ignoreNA bool) float64 {
	compact := make([]float64, 0, len(buf))
	for _, v := range buf {
		if math.IsNaN(v) {
			if !ignoreNA {
				return math.NaN()
			}
			continue
		}
		compact = append(compact, v)
	}
	if len(compact) == 0 {
		return math.NaN()
	}
	sort.Float64s(compact)
	n := len(compact)
	if n%2 == 1 {
		return compact[n/2]
	}
	return (compact[n/2-1] + compact[n/2]) / 2
}
