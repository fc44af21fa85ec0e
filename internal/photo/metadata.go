package photo

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/raw"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// Metadata is the camera information shown next to a photo. Every field is
// independently optional.
type Metadata struct {
	Make         *string  `json:"make,omitempty"`
	Model        *string  `json:"model,omitempty"`
	ExposureTime *string  `json:"exposure_time,omitempty"` // rational "num/den"
	FNumber      *float64 `json:"f_number,omitempty"`
	ISO          *int     `json:"iso,omitempty"`
	FocalLength  *float64 `json:"focal_length,omitempty"`
	DateTime     *string  `json:"datetime,omitempty"`
}

// Extractor reads Metadata for a file.
type Extractor interface {
	Extract(path string) (*Metadata, error)
}

// ExifExtractor reads EXIF tags from JPEG and TIFF-based files.
//
// RAW containers that are not TIFF-based (RAF) are handled by reading the
// EXIF block of their largest embedded JPEG preview.
type ExifExtractor struct {
	// Reader reads files for the preview fallback; nil uses a default
	// StandardDecoder.
	Reader *imaging.StandardDecoder
}

// Extract decodes the EXIF block of path.
func (e ExifExtractor) Extract(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening image file: %w", err)
	}
	x, err := exif.Decode(f)
	f.Close()
	if err == nil {
		return fromExif(x), nil
	}

	x, previewErr := e.previewExif(path)
	if previewErr != nil {
		return nil, fmt.Errorf("no EXIF data in %s: %w", path, err)
	}
	return fromExif(x), nil
}

func (e ExifExtractor) previewExif(path string) (*exif.Exif, error) {
	reader := e.Reader
	if reader == nil {
		reader = &imaging.StandardDecoder{}
	}
	data, release, err := reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer release()

	preview, _, _, err := raw.Preview(data)
	if err != nil {
		return nil, err
	}
	return exif.Decode(bytes.NewReader(preview))
}

func fromExif(x *exif.Exif) *Metadata {
	m := &Metadata{
		Make:     stringTag(x, exif.Make),
		Model:    stringTag(x, exif.Model),
		DateTime: stringTag(x, exif.DateTimeOriginal),
	}

	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			s := fmt.Sprintf("%d/%d", num, den)
			m.ExposureTime = &s
		}
	}
	m.FNumber = rationalTag(x, exif.FNumber)
	m.FocalLength = rationalTag(x, exif.FocalLength)

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if v, err := tag.Int(0); err == nil {
			iso := v
			m.ISO = &iso
		}
	}

	return m
}

func stringTag(x *exif.Exif, name exif.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	s, err := tag.StringVal()
	if err != nil {
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, "\x00"))
	if s == "" {
		return nil
	}
	return &s
}

func rationalTag(x *exif.Exif, name exif.FieldName) *float64 {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		log.Debug().Str("tag", string(name)).Msg("unusable rational tag")
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}
