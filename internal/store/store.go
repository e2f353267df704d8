package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	multierror "github.com/hashicorp/go-multierror"
)

// Store owns the on-disk representation of every column of a matrix: one
// file per column, containing exactly rows little-endian doubles at offset
// zero, no header. It never interprets column contents beyond that layout.
type Store struct {
	rows   int
	minter *PathMinter
}

// New creates a Store rooted at directory, using prefix for newly minted
// file names. rows is the fixed column length; the engine starts with a
// Store of rows 0 and replaces it once SetRowCount fixes the row count.
func New(directory, prefix string, rows int) *Store {
	return &Store{rows: rows, minter: NewPathMinter(directory, prefix)}
}

// Directory returns the directory new column files are minted under.
func (s *Store) Directory() string { return s.minter.Directory() }

// Prefix returns the prefix used for newly minted file names.
func (s *Store) Prefix() string { return s.minter.Prefix() }

// SetPrefix changes the prefix used for future minted paths only.
func (s *Store) SetPrefix(prefix string) { s.minter.SetPrefix(prefix) }

// CreateZero mints a new path and writes rows zero doubles to it, returning
// the path on success.
func (s *Store) CreateZero() (string, error) {
	path := s.minter.Mint()
	buf := make([]float64, s.rows)
	if err := s.WriteWhole(path, buf); err != nil {
		return "", fmt.Errorf("store: create zero column: %w", err)
	}
	return path, nil
}

// ReadWhole reads exactly s.rows doubles from path into buf.
func (s *Store) ReadWhole(path string, buf []float64) error {
	return s.ReadSlice(path, 0, s.rows, buf)
}

// WriteWhole writes exactly s.rows doubles from buf to path, replacing its
// full contents.
func (s *Store) WriteWhole(path string, buf []float64) error {
	if len(buf) != s.rows {
		return fmt.Errorf("store: write whole: expected %d rows, got %d", s.rows, len(buf))
	}
	w, err := NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("store: open %s for write: %w", path, err)
	}
	defer func() { _ = w.Close() }()

	raw := encodeDoubles(buf)
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	// FileWriter pads the final block; cut the file back to rows doubles.
	if err := w.file.Truncate(int64(len(raw))); err != nil {
		return fmt.Errorf("store: truncate %s: %w", path, err)
	}
	return nil
}

// ReadSlice reads nRows doubles from path starting at row offsetRows into
// buf, which must have length nRows.
func (s *Store) ReadSlice(path string, offsetRows, nRows int, buf []float64) error {
	if len(buf) != nRows {
		return fmt.Errorf("store: read slice: buffer length %d != nRows %d", len(buf), nRows)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("store: open %s for read: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	raw := make([]byte, nRows*8)
	off := int64(offsetRows) * 8
	if _, err := f.ReadAt(raw, off); err != nil {
		return fmt.Errorf("store: read %s at row %d: %w", path, offsetRows, err)
	}
	decodeDoubles(raw, buf)
	return nil
}

// WriteSlice writes nRows doubles from buf to path starting at row
// offsetRows. The file must already exist and be at least offsetRows+nRows
// rows long.
func (s *Store) WriteSlice(path string, offsetRows, nRows int, buf []float64) error {
	if len(buf) != nRows {
		return fmt.Errorf("store: write slice: buffer length %d != nRows %d", len(buf), nRows)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("store: open %s for write: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	raw := encodeDoubles(buf)
	off := int64(offsetRows) * 8
	if _, err := f.WriteAt(raw, off); err != nil {
		return fmt.Errorf("store: write %s at row %d: %w", path, offsetRows, err)
	}
	return nil
}

// Rename moves the file at path into newDir, preserving its base name, and
// returns the new path.
func (s *Store) Rename(path, newDir string) (string, error) {
	newPath := filepath.Join(newDir, filepath.Base(path))
	if err := os.Rename(path, newPath); err != nil {
		return "", fmt.Errorf("store: rename %s to %s: %w", path, newPath, err)
	}
	return newPath, nil
}

// Delete removes the file at path. It is not an error for the file to
// already be gone.
func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: delete %s: %w", path, err)
	}
	return nil
}

// DeleteAll removes every path given, aggregating any failures instead of
// stopping at the first so a caller destroying a whole matrix always
// attempts to remove every file it owns.
func (s *Store) DeleteAll(paths []string) error {
	var result *multierror.Error
	for _, p := range paths {
		if err := s.Delete(p); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// MoveAll renames every path given into newDir, aggregating any failures.
// On full success it returns the new paths in the same order as the input;
// on partial failure the returned slice mixes moved and un-moved paths and
// the error identifies which failed.
func (s *Store) MoveAll(paths []string, newDir string) ([]string, error) {
	out := make([]string, len(paths))
	var result *multierror.Error
	for i, p := range paths {
		np, err := s.Rename(p, newDir)
		if err != nil {
			result = multierror.Append(result, err)
			out[i] = p
			continue
		}
		out[i] = np
	}
	if err := result.ErrorOrNil(); err != nil {
		return out, err
	}
	s.minter.SetDirectory(newDir)
	return out, nil
}

func encodeDoubles(buf []float64) []byte {
	raw := make([]byte, len(buf)*8)
	for i, v := range buf {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	return raw
}

func decodeDoubles(raw []byte, buf []float64) {
	for i := range buf {
		buf[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
}
