package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, rows, maxCols, maxRows int) *Engine {
	t.Helper()
	e, err := New(t.TempDir(), "col", maxCols, maxRows)
	require.NoError(t, err)
	if rows > 0 {
		require.NoError(t, e.SetRowCount(rows))
	}
	return e
}

func fillDiagonalSum(t *testing.T, e *Engine, rows, cols int) {
	t.Helper()
	for c := 0; c < cols; c++ {
		require.NoError(t, e.AppendColumn())
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			require.NoError(t, e.Set(r, c, float64(r+c)))
		}
	}
}

func TestRoundTripSetGet(t *testing.T) {
	e := newTestEngine(t, 5, 3, 1)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.Set(2, 0, 3.5))
	v, err := e.Get(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)
}

func TestRoundTripNaN(t *testing.T) {
	e := newTestEngine(t, 3, 3, 1)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.Set(0, 0, math.NaN()))
	v, err := e.Get(0, 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestAppendZeroFill(t *testing.T) {
	e := newTestEngine(t, 4, 2, 1)
	require.NoError(t, e.AppendColumn())
	for r := 0; r < 4; r++ {
		v, err := e.Get(r, 0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, v)
	}
}

func TestCacheCapacityInvariantUnderEviction(t *testing.T) {
	e := newTestEngine(t, 5, 2, 1)
	for c := 0; c < 5; c++ {
		require.NoError(t, e.AppendColumn())
	}
	assert.LessOrEqual(t, e.cache.Len(), e.cache.Capacity())
}

func TestFullReadbackAfterFill(t *testing.T) {
	e := newTestEngine(t, 5, 3, 1)
	fillDiagonalSum(t, e, 5, 5)

	want := [][]float64{
		{0, 1, 2, 3, 4},
		{1, 2, 3, 4, 5},
		{2, 3, 4, 5, 6},
		{3, 4, 5, 6, 7},
		{4, 5, 6, 7, 8},
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			v, err := e.Get(r, c)
			require.NoError(t, err)
			assert.Equal(t, want[r][c], v, "row %d col %d", r, c)
		}
	}
}

func TestColSumsUnderEviction(t *testing.T) {
	e := newTestEngine(t, 5, 2, 1) // max_cols=2 forces eviction
	fillDiagonalSum(t, e, 5, 5)

	sums, err := e.ColSums(false)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 15, 20, 25, 30}, sums)

	total, err := e.Sum(false)
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)
}

func TestColMeansWithNaN(t *testing.T) {
	e := newTestEngine(t, 3, 3, 1)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.AppendColumn())

	col0 := []float64{1, math.NaN(), 3}
	col1 := []float64{math.NaN(), 5, 6}
	col2 := []float64{7, 8, 9}
	for r := 0; r < 3; r++ {
		require.NoError(t, e.Set(r, 0, col0[r]))
		require.NoError(t, e.Set(r, 1, col1[r]))
		require.NoError(t, e.Set(r, 2, col2[r]))
	}

	means, err := e.ColMeans(true)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5.5, 8}, means)

	means, err = e.ColMeans(false)
	require.NoError(t, err)
	require.True(t, math.IsNaN(means[0]))
	require.True(t, math.IsNaN(means[1]))
	assert.Equal(t, 8.0, means[2])
}

func TestEwApplyAddOne(t *testing.T) {
	e := newTestEngine(t, 4, 2, 1)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.AppendColumn())

	col0 := []float64{1, 2, 3, 4}
	col1 := []float64{5, 6, 7, 8}
	for r := 0; r < 4; r++ {
		require.NoError(t, e.Set(r, 0, col0[r]))
		require.NoError(t, e.Set(r, 1, col1[r]))
	}

	require.NoError(t, e.EwApply(func(x float64) float64 { return x + 1 }))

	want := [][]float64{{2, 6}, {3, 7}, {4, 8}, {5, 9}}
	for r := 0; r < 4; r++ {
		for c := 0; c < 2; c++ {
			v, err := e.Get(r, c)
			require.NoError(t, err)
			assert.Equal(t, want[r][c], v)
		}
	}
}

func TestReadOnlyBlocksSet(t *testing.T) {
	e := newTestEngine(t, 3, 2, 1)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.Set(0, 0, 1))

	require.NoError(t, e.SetReadOnly(true))
	err := e.Set(0, 0, 99)
	assert.ErrorIs(t, err, ErrReadOnly)
	v, err := e.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	require.NoError(t, e.SetReadOnly(false))
	require.NoError(t, e.Set(0, 0, 99))
	v, err = e.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 99.0, v)
}

func TestRowSumsUnderEviction(t *testing.T) {
	e := newTestEngine(t, 10, 2, 1) // max_cols=2 forces eviction
	for c := 0; c < 10; c++ {
		require.NoError(t, e.AppendColumn())
	}
	for c := 0; c < 10; c++ {
		for r := 0; r < 10; r++ {
			require.NoError(t, e.Set(r, c, float64(c)))
		}
	}

	sums, err := e.RowSums(false)
	require.NoError(t, err)
	for _, s := range sums {
		assert.Equal(t, 45.0, s)
	}
}

func TestPersistenceAcrossReadOnlyToggle(t *testing.T) {
	e := newTestEngine(t, 4, 2, 1)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.AppendColumn())
	for c := 0; c < 2; c++ {
		for r := 0; r < 4; r++ {
			require.NoError(t, e.Set(r, c, float64(r*10+c)))
		}
	}

	require.NoError(t, e.SetReadOnly(true))
	require.NoError(t, e.SetReadOnly(false))

	for c := 0; c < 2; c++ {
		for r := 0; r < 4; r++ {
			v, err := e.Get(r, c)
			require.NoError(t, err)
			assert.Equal(t, float64(r*10+c), v)
		}
	}
}

func TestModeEquivalenceIsNoOpOnValues(t *testing.T) {
	e := newTestEngine(t, 6, 3, 2)
	fillDiagonalSum(t, e, 6, 4)

	before := snapshot(t, e, 6, 4)

	require.NoError(t, e.SetRowMode(true))
	require.NoError(t, e.SetRowMode(false))

	after := snapshot(t, e, 6, 4)
	assert.Equal(t, before, after)
}

func snapshot(t *testing.T, e *Engine, rows, cols int) [][]float64 {
	t.Helper()
	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			v, err := e.Get(r, c)
			require.NoError(t, err)
			out[r][c] = v
		}
	}
	return out
}

func TestRowWindowBoundsInvariant(t *testing.T) {
	e := newTestEngine(t, 5, 2, 3)
	fillDiagonalSum(t, e, 5, 3)
	require.NoError(t, e.SetRowMode(true))

	_, err := e.Get(4, 0)
	require.NoError(t, err)

	first := e.window.FirstRow()
	assert.GreaterOrEqual(t, first, 0)
	assert.LessOrEqual(t, first+e.window.MaxRows(), e.rows)
}

func TestOutOfRangeAccess(t *testing.T) {
	e := newTestEngine(t, 3, 2, 1)
	require.NoError(t, e.AppendColumn())

	_, err := e.Get(3, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = e.Get(0, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	err = e.Set(0, 5, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSetRowCountOnlyOnce(t *testing.T) {
	e := newTestEngine(t, 3, 2, 1)
	err := e.SetRowCount(4)
	assert.ErrorIs(t, err, ErrRowsAlreadySet)
}

func TestCopyValuesEquivalence(t *testing.T) {
	src := newTestEngine(t, 4, 2, 1)
	fillDiagonalSum(t, src, 4, 3)

	dst := newTestEngine(t, 4, 2, 1)
	for c := 0; c < 3; c++ {
		require.NoError(t, dst.AppendColumn())
	}

	require.NoError(t, CopyValues(dst, src))

	for r := 0; r < 4; r++ {
		for c := 0; c < 3; c++ {
			sv, err := src.Get(r, c)
			require.NoError(t, err)
			dv, err := dst.Get(r, c)
			require.NoError(t, err)
			assert.Equal(t, sv, dv)
		}
	}
}

func TestReductionAgreement(t *testing.T) {
	e := newTestEngine(t, 4, 2, 1)
	fillDiagonalSum(t, e, 4, 4)

	total, err := e.Sum(false)
	require.NoError(t, err)

	colSums, err := e.ColSums(false)
	require.NoError(t, err)
	var colTotal float64
	for _, v := range colSums {
		colTotal += v
	}

	rowSums, err := e.RowSums(false)
	require.NoError(t, err)
	var rowTotal float64
	for _, v := range rowSums {
		rowTotal += v
	}

	assert.InDelta(t, total, colTotal, 1e-9)
	assert.InDelta(t, total, rowTotal, 1e-9)
}

func TestGlobalMinMaxIgnoreNAAllNaN(t *testing.T) {
	e := newTestEngine(t, 2, 2, 1)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.Set(0, 0, math.NaN()))
	require.NoError(t, e.Set(1, 0, math.NaN()))

	min, anyFinite, err := e.Min(true)
	require.NoError(t, err)
	assert.False(t, anyFinite)
	assert.True(t, math.IsInf(min, 1))

	max, anyFinite, err := e.Max(true)
	require.NoError(t, err)
	assert.False(t, anyFinite)
	assert.True(t, math.IsInf(max, -1))
}

func TestVarianceRequiresTwoValues(t *testing.T) {
	e := newTestEngine(t, 1, 2, 1)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.Set(0, 0, 5))

	v, err := e.Variance(false)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestColRangesReturnsMinMaxPairs(t *testing.T) {
	e := newTestEngine(t, 3, 3, 1)
	fillDiagonalSum(t, e, 3, 3)

	ranges, err := e.ColRanges(false)
	require.NoError(t, err)
	require.Len(t, ranges, 2*3)

	// fillDiagonalSum sets column c to {c, c+1, c+2}: min=c, max=c+2.
	for c := 0; c < 3; c++ {
		assert.Equal(t, float64(c), ranges[2*c], "column %d min", c)
		assert.Equal(t, float64(c+2), ranges[2*c+1], "column %d max", c)
	}
}

func TestResizeColBufferGrowsResidentSetFromFullCache(t *testing.T) {
	e := newTestEngine(t, 3, 2, 1)
	for c := 0; c < 5; c++ {
		require.NoError(t, e.AppendColumn())
	}
	require.Equal(t, 2, e.cache.Len())
	require.True(t, e.cache.Full())

	require.NoError(t, e.ResizeColBuffer(5))

	assert.Equal(t, 5, e.cache.Capacity())
	assert.Equal(t, 5, e.cache.Len())
	for c := 0; c < 5; c++ {
		assert.True(t, e.cache.Contains(c), "column %d should be resident after growing to capacity 5", c)
	}
}

func TestResizeColBufferShrinkEvictsDownToCapacity(t *testing.T) {
	e := newTestEngine(t, 3, 5, 1)
	for c := 0; c < 5; c++ {
		require.NoError(t, e.AppendColumn())
	}
	require.Equal(t, 5, e.cache.Len())

	require.NoError(t, e.ResizeColBuffer(2))

	assert.Equal(t, 2, e.cache.Capacity())
	assert.Equal(t, 2, e.cache.Len())

	// Values must still be readable from disk after eviction.
	for c := 0; c < 5; c++ {
		v, err := e.Get(0, c)
		require.NoError(t, err)
		assert.Equal(t, 0.0, v)
	}
}

func TestResizeRowBufferReloadsWindowInRowMode(t *testing.T) {
	e := newTestEngine(t, 6, 3, 2)
	fillDiagonalSum(t, e, 6, 3)
	require.NoError(t, e.SetRowMode(true))

	require.NoError(t, e.ResizeRowBuffer(4))

	assert.Equal(t, 4, e.window.MaxRows())
	for r := 0; r < 6; r++ {
		for c := 0; c < 3; c++ {
			v, err := e.Get(r, c)
			require.NoError(t, err)
			assert.Equal(t, float64(r+c), v)
		}
	}
}

// twoColumnClashSetup reproduces two distinct cells that are each
// simultaneously window- and cache-resident: with maxCols=2 both appended
// columns stay cache-resident, and with maxRows=2 the window covers rows
// [0,2) for both. Writing to (0,0) then (1,1) marks a clash on each write,
// so the second write's clash overwrites the tracker unless the first is
// reconciled first.
func twoColumnClashSetup(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t, 5, 2, 2)
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.AppendColumn())
	require.NoError(t, e.SetRowMode(true))
	require.NoError(t, e.Set(0, 0, 10))
	require.NoError(t, e.Set(1, 1, 20))
	return e
}

func TestClashReconciliationSurvivesLeavingRowMode(t *testing.T) {
	e := twoColumnClashSetup(t)

	require.NoError(t, e.SetRowMode(false))

	v00, err := e.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v00)

	v11, err := e.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v11)
}

func TestClashReconciliationSurvivesReadOnlyToggle(t *testing.T) {
	e := twoColumnClashSetup(t)

	require.NoError(t, e.SetReadOnly(true))
	require.NoError(t, e.SetReadOnly(false))

	v00, err := e.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v00)

	v11, err := e.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v11)
}
