package matrix

// Min returns the smallest cell value and whether any finite element was
// observed (used by a binding layer to emit a "no finite arguments"
// diagnostic).
func (m *Matrix) Min(ignoreNA bool) (value float64, anyFinite bool, err error) {
	return m.eng.Min(ignoreNA)
}

// Max is the Min counterpart.
func (m *Matrix) Max(ignoreNA bool) (value float64, anyFinite bool, err error) {
	return m.eng.Max(ignoreNA)
}

// Sum returns the sum of every cell.
func (m *Matrix) Sum(ignoreNA bool) (float64, error) { return m.eng.Sum(ignoreNA) }

// Mean returns the mean of every non-NaN cell.
func (m *Matrix) Mean(ignoreNA bool) (float64, error) { return m.eng.Mean(ignoreNA) }

// Variance returns the sample variance of every non-NaN cell.
func (m *Matrix) Variance(ignoreNA bool) (float64, error) { return m.eng.Variance(ignoreNA) }

// ColSums returns the per-column sum.
func (m *Matrix) ColSums(ignoreNA bool) ([]float64, error) { return m.eng.ColSums(ignoreNA) }

// ColMeans returns the per-column mean.
func (m *Matrix) ColMeans(ignoreNA bool) ([]float64, error) { return m.eng.ColMeans(ignoreNA) }

// ColVars returns the per-column sample variance.
func (m *Matrix) ColVars(ignoreNA bool) ([]float64, error) { return m.eng.ColVars(ignoreNA) }

// ColMax returns the per-column maximum.
func (m *Matrix) ColMax(ignoreNA bool) ([]float64, error) { return m.eng.ColMax(ignoreNA) }

// ColMin returns the per-column minimum.
func (m *Matrix) ColMin(ignoreNA bool) ([]float64, error) { return m.eng.ColMin(ignoreNA) }

// ColMedians returns the per-column median.
func (m *Matrix) ColMedians(ignoreNA bool) ([]float64, error) { return m.eng.ColMedians(ignoreNA) }

// ColRanges returns each column's (min, max) pair packed into a flat
// buffer of length 2*Cols(): index 2*c is column c's minimum, 2*c+1 its
// maximum.
func (m *Matrix) ColRanges(ignoreNA bool) ([]float64, error) { return m.eng.ColRanges(ignoreNA) }

// RowSums returns the per-row sum.
func (m *Matrix) RowSums(ignoreNA bool) ([]float64, error) { return m.eng.RowSums(ignoreNA) }

// RowMeans returns the per-row mean.
func (m *Matrix) RowMeans(ignoreNA bool) ([]float64, error) { return m.eng.RowMeans(ignoreNA) }

// RowVars returns the per-row sample variance.
func (m *Matrix) RowVars(ignoreNA bool) ([]float64, error) { return m.eng.RowVars(ignoreNA) }

// RowMax returns the per-row maximum.
func (m *Matrix) RowMax(ignoreNA bool) ([]float64, error) { return m.eng.RowMax(ignoreNA) }

// RowMin returns the per-row minimum.
func (m *Matrix) RowMin(ignoreNA bool) ([]float64, error) { return m.eng.RowMin(ignoreNA) }

// RowMedians returns the per-row median. It holds every cell of the matrix
// in memory at once while computing, whether or not row-mode is active.
func (m *Matrix) RowMedians(ignoreNA bool) ([]float64, error) { return m.eng.RowMedians(ignoreNA) }
