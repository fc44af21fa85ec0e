package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/imgerr"
)

const (
	// HeaderSize is the number of leading bytes every classification reads.
	HeaderSize = 16

	// ScanWindow bounds the rescan used to find manufacturer markers inside
	// TIFF-based RAW containers.
	ScanWindow = 4096
)

var (
	jpegSignature = []byte{0xFF, 0xD8}
	pngSignature  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	gifSignature  = []byte("GIF")
	riffSignature = []byte("RIFF")
	webpSignature = []byte("WEBP")
	tiffBigEndian = []byte("MM\x00*")
	tiffLittle    = []byte("II*\x00")
	fujiSignature = []byte("FUJI")
	canonCR2      = []byte("CR\x02")
	canonCR3      = []byte("CR\x03")
	nikonMarker   = []byte("NIKON")
	sonySignature = []byte("SONY")
	panasonicRW2  = []byte("IIU\x00")

	// genericRawMarkers may appear anywhere in the header.
	genericRawMarkers = [][]byte{
		[]byte("CIFF"), // old Canon
		[]byte("HEIC"),
		[]byte("DNGK"),
		[]byte("EPAK"), // Sigma
	}
)

// Detect classifies the file at path by its header bytes.
//
// Unknown is a valid result, not an error. A file shorter than HeaderSize
// or one that cannot be opened yields an error matching imgerr.ErrRead.
func Detect(path string) (ImageType, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, imgerr.Read("detect", path, err)
	}
	defer f.Close()

	t, err := DetectReader(f)
	if err != nil {
		var ie *imgerr.Error
		if errors.As(err, &ie) && ie.Path == "" {
			ie.Path = path
		}
		return Unknown, err
	}

	log.Debug().Str("path", path).Stringer("type", t).Msg("detected image type")
	return t, nil
}

// DetectReader classifies the stream read from its start.
//
// Rules are applied in a fixed order and the first match wins. TIFF magic is
// only a tentative verdict: Canon CR2 files share the TIFF header, and Nikon
// NEF files are told apart by a "NIKON" marker within the first ScanWindow
// bytes.
func DetectReader(r io.ReadSeeker) (ImageType, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return Unknown, imgerr.Read("detect", "", fmt.Errorf("reading %d-byte header: %w", HeaderSize, err))
	}

	if bytes.HasPrefix(header, jpegSignature) {
		return Jpeg, nil
	}
	if bytes.HasPrefix(header, pngSignature) {
		return Png, nil
	}
	if bytes.HasPrefix(header, gifSignature) {
		return Gif, nil
	}
	if bytes.HasPrefix(header, riffSignature) && bytes.Equal(header[8:12], webpSignature) {
		return WebP, nil
	}

	tiff := bytes.HasPrefix(header, tiffBigEndian) || bytes.HasPrefix(header, tiffLittle)

	if bytes.HasPrefix(header, fujiSignature) {
		return RawFuji, nil
	}
	if bytes.Equal(header[8:11], canonCR2) || bytes.Equal(header[8:11], canonCR3) {
		return RawCanon, nil
	}

	if tiff {
		window, err := readWindow(r)
		if err != nil {
			return Unknown, err
		}
		if bytes.Contains(window, nikonMarker) {
			return RawNikon, nil
		}
		return Tiff, nil
	}

	if bytes.HasPrefix(header, sonySignature) {
		return RawSony, nil
	}
	if bytes.HasPrefix(header, panasonicRW2) {
		return RawPanasonic, nil
	}
	for _, marker := range genericRawMarkers {
		if bytes.Contains(header, marker) {
			return RawGeneric, nil
		}
	}

	return Unknown, nil
}

// readWindow rereads up to ScanWindow bytes from the start of r. Files shorter
// than the window are scanned in full.
func readWindow(r io.ReadSeeker) ([]byte, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, imgerr.Read("detect", "", fmt.Errorf("rewinding for marker scan: %w", err))
	}

	window := make([]byte, ScanWindow)
	n, err := io.ReadFull(r, window)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, imgerr.Read("detect", "", fmt.Errorf("reading marker window: %w", err))
	}
	return window[:n], nil
}
