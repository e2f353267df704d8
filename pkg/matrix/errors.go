package matrix

import (
	"errors"

	"github.com/alexhholmes/bufmatrix/internal/engine"
)

// Sentinel errors surfaced by Matrix, aliasing the engine's so callers
// never need to import the internal package to use errors.Is.
var (
	ErrRowsAlreadySet    = engine.ErrRowsAlreadySet
	ErrRowsNotSet        = engine.ErrRowsNotSet
	ErrReadOnly          = engine.ErrReadOnly
	ErrOutOfRange        = engine.ErrOutOfRange
	ErrInvalidCapacity   = engine.ErrInvalidCapacity
	ErrDimensionMismatch = engine.ErrDimensionMismatch
)

func isOutOfRange(err error) bool {
	return errors.Is(err, engine.ErrOutOfRange)
}
