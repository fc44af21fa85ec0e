//go:build !unix

package imaging

import (
	"io"
	"os"
)

// mapFile falls back to reading the whole file on platforms without mmap.
func mapFile(f *os.File, size int64) ([]byte, func() error, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
