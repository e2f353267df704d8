package engine

import "fmt"

// CopyValues copies every cell from src into dst, cell by cell. The two
// engines must have matching dimensions. This mirrors the original
// library's plain nested get/set loop (no cache-aware fast path is
// possible because the two engines have independent caches).
func CopyValues(dst, src *Engine) error {
	if dst.rows != src.rows || dst.cols != src.cols {
		return fmt.Errorf("%w: dst is %dx%d, src is %dx%d",
			ErrDimensionMismatch, dst.rows, dst.cols, src.rows, src.cols)
	}
	for c := 0; c < src.cols; c++ {
		for r := 0; r < src.rows; r++ {
			v, err := src.Get(r, c)
			if err != nil {
				return err
			}
			if err := dst.Set(r, c, v); err != nil {
				return err
			}
		}
	}
	return nil
}
