package processor

import (
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/format"
	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/raw"
)

// Kind is the decoding strategy chosen for a file.
type Kind uint8

const (
	KindStandard Kind = iota
	KindRaw
)

func (k Kind) String() string {
	if k == KindRaw {
		return "raw"
	}
	return "standard"
}

// Router picks the RAW or standard decoder for each file from its header
// bytes and runs it. It implements imaging.Decoder, so it is what an
// imaging.ImageCache wraps.
type Router struct {
	detect   func(path string) (format.ImageType, error)
	standard *imaging.StandardDecoder
	raw      *raw.Decoder
}

// NewRouter creates a router over the two decoders. Nil arguments select
// defaults: a StandardDecoder with the default mmap threshold, and a RAW
// decoder without a sensor source that decodes embedded previews.
func NewRouter(standard *imaging.StandardDecoder, rawDecoder *raw.Decoder) *Router {
	if standard == nil {
		standard = &imaging.StandardDecoder{}
	}
	if rawDecoder == nil {
		rawDecoder = raw.NewDecoder(nil, standard)
	}
	return &Router{
		detect:   format.Detect,
		standard: standard,
		raw:      rawDecoder,
	}
}

// Route classifies path. A detection failure is logged and routed to the
// standard decoder with format.Unknown rather than returned; the standard
// decoder then reports whatever is really wrong with the file.
func (r *Router) Route(path string) (Kind, format.ImageType) {
	kind, err := r.detect(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("format detection failed, using standard decoder")
		return KindStandard, format.Unknown
	}
	if kind.IsRaw() {
		return KindRaw, kind
	}
	return KindStandard, kind
}

// Decode routes path and decodes it with the selected decoder.
func (r *Router) Decode(path string) (*imaging.DecodedImage, error) {
	kind, typ := r.Route(path)

	var (
		img *imaging.DecodedImage
		err error
	)
	switch kind {
	case KindRaw:
		img, err = r.raw.Decode(path, typ)
	default:
		img, err = r.standard.Decode(path)
	}
	if err != nil {
		log.Error().Err(err).Str("path", path).Stringer("processor", kind).Msg("decode failed")
		return nil, err
	}

	log.Debug().Str("path", path).Stringer("processor", kind).Str("format", typ.String()).
		Int("width", img.Width).Int("height", img.Height).Msg("decoded")
	return img, nil
}
