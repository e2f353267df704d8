package store

import (
	"os"
	"sync"

	"github.com/ncw/directio"
)

// FileWriter wraps a directio file opened for whole-column writes. It
// writes data in multiples of the block size, staging every block through
// an aligned buffer; a trailing remainder is padded into one more block.
// Column files are only ever fully overwritten through this writer
// (create-zero, and whole-column write-back on eviction/flush) because
// O_DIRECT requires block-aligned offsets that arbitrary row-slice access
// cannot guarantee in general.
type FileWriter struct {
	file  *os.File
	block int
}

var blockOnce sync.Once
var blockSize = directio.BlockSize

func alignedBlockSize() int {
	blockOnce.Do(func() {
		blockSize = len(directio.AlignedBlock(directio.BlockSize))
	})
	return blockSize
}

// NewFileWriter opens path for direct I/O, truncating any existing content.
func NewFileWriter(path string) (*FileWriter, error) {
	file, err := directio.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: file, block: alignedBlockSize()}, nil
}

// Write writes buf in multiples of the block size, padding a final partial
// block with zero bytes. The padding never becomes visible to a reader
// because callers always know the logical column length and read exactly
// that many bytes. Every block, including a full-size final block, is
// staged through a single reused directio.AlignedBlock buffer before
// hitting the O_DIRECT file — the underlying memory address, not just the
// transfer size, must be block-aligned, so writing straight from buf
// (whose backing array is an ordinary make()) is not safe even when
// len(buf) happens to be an exact multiple of the block size.
func (w *FileWriter) Write(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	aligned := directio.AlignedBlock(w.block)
	blocks := 0
	for written := 0; written < len(buf); written += w.block {
		n := copy(aligned, buf[written:])
		for i := n; i < w.block; i++ {
			aligned[i] = 0
		}
		if _, err := w.file.Write(aligned); err != nil {
			return blocks, err
		}
		blocks++
	}
	return blocks, nil
}

func (w *FileWriter) Close() error {
	return w.file.Close()
}
