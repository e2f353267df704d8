package engine

import "errors"

var (
	// ErrRowsAlreadySet is returned by SetRowCount when rows has already
	// been fixed by an earlier call.
	ErrRowsAlreadySet = errors.New("engine: row count already set")
	// ErrRowsNotSet is returned by operations that require rows > 0
	// (append, activating row-mode) before it has been fixed.
	ErrRowsNotSet = errors.New("engine: row count not yet set")
	// ErrReadOnly is returned by any mutating cell operation while the
	// engine is in read-only mode.
	ErrReadOnly = errors.New("engine: read-only")
	// ErrOutOfRange is returned when a row or column index is outside its
	// current bounds.
	ErrOutOfRange = errors.New("engine: index out of range")
	// ErrInvalidCapacity is returned by resize/construction calls given a
	// non-positive capacity.
	ErrInvalidCapacity = errors.New("engine: invalid capacity")
	// ErrDimensionMismatch is returned by CopyValues when the two engines'
	// dimensions do not match.
	ErrDimensionMismatch = errors.New("engine: dimension mismatch")
)
