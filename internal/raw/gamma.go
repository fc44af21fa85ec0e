package raw

import "github.com/ironsheep/photoflow/internal/format"

// Per-sensor gamma exponents.
const (
	GammaFuji    = 2.4
	GammaCanon   = 2.1
	GammaDefault = 2.2
)

// GammaFor returns the encoding gamma tuned for a RAW sub-format.
func GammaFor(t format.ImageType) float64 {
	switch t {
	case format.RawFuji:
		return GammaFuji
	case format.RawCanon:
		return GammaCanon
	default:
		return GammaDefault
	}
}
