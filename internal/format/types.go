package format

// ImageType is the container classification derived from a file's header bytes.
type ImageType uint8

const (
	Unknown ImageType = iota
	Jpeg
	Png
	Gif
	Tiff
	WebP
	RawFuji      // RAF
	RawCanon     // CR2/CR3
	RawNikon     // NEF
	RawSony      // ARW
	RawPanasonic // RW2
	RawGeneric   // other RAW containers
)

var typeNames = [...]string{
	Unknown:      "unknown",
	Jpeg:         "jpeg",
	Png:          "png",
	Gif:          "gif",
	Tiff:         "tiff",
	WebP:         "webp",
	RawFuji:      "raw-fuji",
	RawCanon:     "raw-canon",
	RawNikon:     "raw-nikon",
	RawSony:      "raw-sony",
	RawPanasonic: "raw-panasonic",
	RawGeneric:   "raw-generic",
}

// String returns the lower-case name used in logs and JSON results.
func (t ImageType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[Unknown]
}

// MarshalText implements encoding.TextMarshaler.
func (t ImageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IsRaw reports whether t is one of the camera RAW variants.
func (t ImageType) IsRaw() bool {
	switch t {
	case RawFuji, RawCanon, RawNikon, RawSony, RawPanasonic, RawGeneric:
		return true
	}
	return false
}
