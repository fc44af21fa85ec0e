package raw

import (
	"bytes"
	"errors"
	"image/jpeg"
)

// ErrNoPreview is returned when a RAW container holds no decodable JPEG.
var ErrNoPreview = errors.New("no embedded preview")

// maxPreviewCandidates bounds how many SOI markers are probed per file.
const maxPreviewCandidates = 64

var jpegSOI = []byte{0xFF, 0xD8, 0xFF}

// Preview locates the largest embedded JPEG in a RAW container.
//
// RAF, CR2, NEF and most other containers carry one or more JPEG renditions
// next to the sensor data. Every JPEG start-of-image marker is probed with a
// header-only decode; the candidate with the largest pixel area wins and the
// slice from its marker to the end of data is returned. The JPEG decoder
// stops at the end-of-image marker, so trailing bytes are harmless.
func Preview(data []byte) ([]byte, int, int, error) {
	var (
		best                []byte
		bestW, bestH, tried int
		bestArea            int64 = -1
	)

	for off := 0; off < len(data) && tried < maxPreviewCandidates; {
		idx := bytes.Index(data[off:], jpegSOI)
		if idx < 0 {
			break
		}
		start := off + idx
		off = start + len(jpegSOI)
		tried++

		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data[start:]))
		if err != nil {
			continue
		}
		if area := int64(cfg.Width) * int64(cfg.Height); area > bestArea {
			best, bestW, bestH, bestArea = data[start:], cfg.Width, cfg.Height, area
		}
	}

	if best == nil {
		return nil, 0, 0, ErrNoPreview
	}
	return best, bestW, bestH, nil
}
