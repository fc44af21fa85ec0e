package raw

import (
	"fmt"

	"github.com/ironsheep/photoflow/internal/imgerr"
)

// SensorImage is the single-channel output of a RAW bitstream decoder.
//
// Exactly one of Samples and FloatSamples is populated. Integer samples are
// normalized against the per-channel black and white levels; float samples
// are taken as already scaled to [0, 1] and only clamped.
type SensorImage struct {
	Width  int
	Height int

	// Samples holds one value per sensor pixel, row-major, bit depth <= 16.
	Samples []uint16

	// FloatSamples holds one value per sensor pixel for float sensors.
	FloatSamples []float32

	// BlackLevels and WhiteLevels bound the valid input range, indexed by
	// Channel.
	BlackLevels [3]float64
	WhiteLevels [3]float64

	// WBCoeffs are the white-balance multipliers indexed by Channel. The
	// zero value leaves channels unscaled.
	WBCoeffs [3]float64

	CFA *CFA

	Make  string
	Model string
}

// UniformLevels returns black and white level arrays with the same values
// on every channel.
func UniformLevels(black, white float64) (blacks, whites [3]float64) {
	return [3]float64{black, black, black}, [3]float64{white, white, white}
}

// IsFloat reports whether the image carries float samples.
func (s *SensorImage) IsFloat() bool {
	return s.FloatSamples != nil
}

// Validate checks the image can be demosaiced.
//
// A sample buffer whose length differs from Width*Height is an
// imgerr.ErrDecode error. Invalid CFA geometry and a white level not above
// the black level are imgerr.ErrConfig errors.
func (s *SensorImage) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return imgerr.Decode("validate sensor", "", fmt.Errorf("invalid dimensions %dx%d", s.Width, s.Height))
	}

	n := len(s.Samples)
	if s.IsFloat() {
		if len(s.Samples) > 0 {
			return imgerr.Decode("validate sensor", "", fmt.Errorf("both integer and float samples present"))
		}
		n = len(s.FloatSamples)
	}
	if n != s.Width*s.Height {
		return imgerr.Decode("validate sensor", "", fmt.Errorf("sample buffer has %d entries, want %d for %dx%d", n, s.Width*s.Height, s.Width, s.Height))
	}

	if err := s.CFA.validate(); err != nil {
		return err
	}

	if !s.IsFloat() {
		for ch := Red; ch <= Blue; ch++ {
			if s.WhiteLevels[ch]-s.BlackLevels[ch] <= 0 {
				return imgerr.Config("validate sensor", fmt.Errorf("degenerate %s level range: black %g, white %g", ch, s.BlackLevels[ch], s.WhiteLevels[ch]))
			}
		}
	}
	return nil
}

func (s *SensorImage) whiteBalance() [3]float64 {
	if s.WBCoeffs == ([3]float64{}) {
		return [3]float64{1, 1, 1}
	}
	return s.WBCoeffs
}
