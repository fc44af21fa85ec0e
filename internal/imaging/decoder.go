package imaging

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/photoflow/internal/imgerr"
)

// MmapThreshold is the file size above which files are memory-mapped
// instead of read through a buffer.
const MmapThreshold int64 = 32 << 20

// StandardDecoder decodes JPEG, PNG, GIF, WebP and TIFF files into RGB8.
//
// Files larger than the mmap threshold are mapped read-only and decoded from
// the mapping, bounding peak memory to the decoded pixels. Smaller files are
// read sequentially through a buffer. Both paths feed the same codec, so the
// pixels produced for a given file never depend on which path was taken.
//
// The zero value is ready to use with MmapThreshold.
type StandardDecoder struct {
	// Threshold overrides MmapThreshold when positive.
	Threshold int64
}

// NewStandardDecoder returns a decoder that maps files larger than threshold
// bytes. A non-positive threshold selects MmapThreshold.
func NewStandardDecoder(threshold int64) *StandardDecoder {
	return &StandardDecoder{Threshold: threshold}
}

func (d *StandardDecoder) threshold() int64 {
	if d == nil || d.Threshold <= 0 {
		return MmapThreshold
	}
	return d.Threshold
}

// Decode opens path and decodes it with the generic codec registry.
//
// # Errors
//
//   - imgerr.ErrRead if the file cannot be opened, stat'd or mapped
//   - imgerr.ErrDecode if no registered codec accepts the bytes
func (d *StandardDecoder) Decode(path string) (*DecodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, imgerr.Read("decode", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, imgerr.Read("decode", path, fmt.Errorf("failed to stat file: %w", err))
	}

	var r io.Reader
	if stat.Size() > d.threshold() {
		data, release, err := mapFile(f, stat.Size())
		if err != nil {
			return nil, imgerr.Read("decode", path, fmt.Errorf("failed to map file: %w", err))
		}
		defer release()
		log.Debug().Str("path", path).Str("size", humanize.Bytes(uint64(stat.Size()))).Msg("decoding from memory map")
		r = bytes.NewReader(data)
	} else {
		r = bufio.NewReader(f)
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, imgerr.Decode("decode", path, err)
	}
	return FromImage(img), nil
}

// DecodeBytes decodes an in-memory encoded image, such as a preview embedded
// in a RAW container.
func (d *StandardDecoder) DecodeBytes(data []byte) (*DecodedImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, imgerr.Decode("decode bytes", "", err)
	}
	return FromImage(img), nil
}

// ReadFile returns the contents of path, memory-mapped when the file is larger
// than the threshold. The caller must call release once done with data and
// must not retain data afterwards.
func (d *StandardDecoder) ReadFile(path string) (data []byte, release func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, imgerr.Read("read", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, imgerr.Read("read", path, fmt.Errorf("failed to stat file: %w", err))
	}

	if stat.Size() > d.threshold() {
		data, release, err = mapFile(f, stat.Size())
		if err != nil {
			return nil, nil, imgerr.Read("read", path, fmt.Errorf("failed to map file: %w", err))
		}
		return data, release, nil
	}

	data, err = io.ReadAll(bufio.NewReader(f))
	if err != nil {
		return nil, nil, imgerr.Read("read", path, err)
	}
	return data, func() error { return nil }, nil
}
