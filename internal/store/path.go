// Package store implements the file-per-column persistence layer: minting
// unique on-disk paths for newly appended columns and reading/writing whole
// columns or positional row slices.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// PathMinter mints file paths for newly appended columns. Each path is
// unique within its directory: the suffix is the xxHash64 of the column's
// insertion counter salted with the current prefix, so a prefix change
// (SetPrefix) never collides with paths minted under the old prefix.
type PathMinter struct {
	directory string
	prefix    string
	counter   uint64
}

// NewPathMinter creates a minter rooted at directory using prefix for all
// paths minted until the prefix is changed.
func NewPathMinter(directory, prefix string) *PathMinter {
	return &PathMinter{directory: directory, prefix: prefix}
}

// Directory returns the directory paths are currently minted under.
func (m *PathMinter) Directory() string {
	return m.directory
}

// SetDirectory changes the directory used for future minted paths. It does
// not touch any already-minted path; callers that need existing files moved
// must do so themselves (see Store.MoveAll).
func (m *PathMinter) SetDirectory(dir string) {
	m.directory = dir
}

// Prefix returns the prefix used for future minted paths.
func (m *PathMinter) Prefix() string {
	return m.prefix
}

// SetPrefix changes the prefix used for future minted paths. Files already
// minted under the previous prefix are unaffected.
func (m *PathMinter) SetPrefix(prefix string) {
	m.prefix = prefix
}

// Mint returns a new path guaranteed not to collide with any other path
// this minter has produced. It probes the target directory in the rare case
// a hash collision lands on an already-existing file (e.g. a leftover file
// from a previous run using the same directory and prefix).
func (m *PathMinter) Mint() string {
	for {
		m.counter++
		suffix := xxhash.Sum64String(m.prefix + ":" + strconv.FormatUint(m.counter, 10))
		name := fmt.Sprintf("%s%016x.col", m.prefix, suffix)
		path := filepath.Join(m.directory, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}
