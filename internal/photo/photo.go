package photo

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/imaging"
)

// Photo associates a file path with its metadata and, once decoded, its
// pixels. A Photo is owned by a single goroutine.
type Photo struct {
	path     string
	metadata *Metadata
	image    *imaging.DecodedImage
	rgb      []byte
}

// New creates a Photo for path and reads its metadata with extractor.
// Metadata failures are logged and leave Metadata nil; they never fail
// construction. A nil extractor skips metadata.
func New(path string, extractor Extractor) *Photo {
	p := &Photo{path: path}
	if extractor == nil {
		return p
	}

	md, err := extractor.Extract(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("failed to load metadata")
		return p
	}
	p.metadata = md
	return p
}

// Path returns the photo's file path.
func (p *Photo) Path() string { return p.path }

// Name returns the base name of the photo's file.
func (p *Photo) Name() string { return filepath.Base(p.path) }

// Metadata returns the extracted metadata, or nil.
func (p *Photo) Metadata() *Metadata { return p.metadata }

// Image returns the decoded image, or nil if not loaded yet.
func (p *Photo) Image() *imaging.DecodedImage { return p.image }

// SetImage attaches decoded pixels and refreshes the flattened RGB view.
// A nil image clears both.
func (p *Photo) SetImage(img *imaging.DecodedImage) {
	p.image = img
	if img == nil {
		p.rgb = nil
		return
	}
	p.rgb = make([]byte, len(img.Pix))
	copy(p.rgb, img.Pix)
}

// RGB returns the packed RGB8 view of the image, or nil. The caller must not
// modify it.
func (p *Photo) RGB() []byte { return p.rgb }

// Camera returns "Make Model", whichever half is known, or "Unknown Camera".
func (p *Photo) Camera() string {
	var parts []string
	if p.metadata != nil {
		if p.metadata.Make != nil {
			parts = append(parts, *p.metadata.Make)
		}
		if p.metadata.Model != nil {
			parts = append(parts, *p.metadata.Model)
		}
	}
	if len(parts) == 0 {
		return "Unknown Camera"
	}
	return strings.Join(parts, " ")
}

// Settings formats the exposure settings, e.g. "1/200s • f/2.8 • ISO 100 • 50mm".
// Missing values are skipped; the result is empty when none are known.
func (p *Photo) Settings() string {
	md := p.metadata
	if md == nil {
		return ""
	}

	var parts []string
	if md.ExposureTime != nil {
		parts = append(parts, *md.ExposureTime+"s")
	}
	if md.FNumber != nil {
		parts = append(parts, "f/"+strconv.FormatFloat(*md.FNumber, 'f', 1, 64))
	}
	if md.ISO != nil {
		parts = append(parts, "ISO "+strconv.Itoa(*md.ISO))
	}
	if md.FocalLength != nil {
		parts = append(parts, strconv.FormatFloat(*md.FocalLength, 'f', -1, 32)+"mm")
	}
	return strings.Join(parts, " • ")
}
