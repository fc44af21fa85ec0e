package raw

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/imgerr"
)

// Demosaic turns sensor samples into a packed RGB8 image of the same size.
//
// Each pixel's native sample is normalized against its channel's black and
// white levels, clamped to [0, 1] and scaled by the channel's white-balance
// coefficient. The two channels a pixel does not sample are the mean of the
// in-image neighbors that do sample them: the four axis-aligned neighbors
// first, the four diagonal neighbors when no axis-aligned neighbor carries
// the channel. A channel with no such neighbor stays 0. Finally each channel
// is clamped and gamma encoded as round(v^(1/gamma) * 255).
//
// Rows are processed in parallel; the result does not depend on scheduling.
func Demosaic(img *SensorImage, gamma float64) (*imaging.DecodedImage, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return nil, imgerr.Config("demosaic", fmt.Errorf("invalid gamma %g", gamma))
	}

	log.Debug().
		Str("make", img.Make).
		Str("model", img.Model).
		Int("width", img.Width).
		Int("height", img.Height).
		Stringer("cfa", img.CFA).
		Float64("gamma", gamma).
		Msg("demosaic")

	linear := reconstruct(img)
	pix := encode(linear, 1/gamma)
	return &imaging.DecodedImage{Width: img.Width, Height: img.Height, Pix: pix}, nil
}

// native returns the white-balanced, normalized value of each sensor pixel
// in its own channel.
func native(img *SensorImage) []float64 {
	w, h := img.Width, img.Height
	wb := img.whiteBalance()
	out := make([]float64, w*h)

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				ch := img.CFA.ColorAt(x, y)
				var v float64
				if img.IsFloat() {
					v = float64(img.FloatSamples[row+x])
				} else {
					black := img.BlackLevels[ch]
					v = (float64(img.Samples[row+x]) - black) / (img.WhiteLevels[ch] - black)
				}
				out[row+x] = clamp01(v) * wb[ch]
			}
		}
	})
	return out
}

var (
	axisOffsets     = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonalOffsets = [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
)

// reconstruct returns linear RGB, three float64 per pixel, row-major.
// Neighbors are read from the immutable native plane so rows are independent.
func reconstruct(img *SensorImage) []float64 {
	w, h := img.Width, img.Height
	plane := native(img)
	rgb := make([]float64, w*h*3)

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * 3
				own := img.CFA.ColorAt(x, y)
				rgb[i+int(own)] = plane[y*w+x]

				for ch := Red; ch <= Blue; ch++ {
					if ch == own {
						continue
					}
					v, ok := neighborMean(img.CFA, plane, w, h, x, y, ch, axisOffsets)
					if !ok {
						v, _ = neighborMean(img.CFA, plane, w, h, x, y, ch, diagonalOffsets)
					}
					rgb[i+int(ch)] = v
				}
			}
		}
	})
	return rgb
}

// neighborMean averages the in-bounds neighbors of (x, y) that natively
// sample ch. The mean is taken relative to the first value so equal inputs
// reproduce that value exactly.
func neighborMean(cfa *CFA, plane []float64, w, h, x, y int, ch Channel, offsets [4][2]int) (float64, bool) {
	var first, delta float64
	n := 0
	for _, off := range offsets {
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			continue
		}
		if cfa.ColorAt(nx, ny) != ch {
			continue
		}
		v := plane[ny*w+nx]
		if n == 0 {
			first = v
		} else {
			delta += v - first
		}
		n++
	}
	if n == 0 {
		return 0, false
	}
	return first + delta/float64(n), true
}

// encode clamps and gamma-encodes linear RGB into RGB8.
func encode(linear []float64, invGamma float64) []byte {
	pixels := len(linear) / 3
	pix := make([]byte, len(linear))

	parallel.Line(pixels, func(start, end int) {
		for p := start; p < end; p++ {
			i := p * 3
			c := colorful.Color{R: linear[i], G: linear[i+1], B: linear[i+2]}.Clamped()
			pix[i] = gammaByte(c.R, invGamma)
			pix[i+1] = gammaByte(c.G, invGamma)
			pix[i+2] = gammaByte(c.B, invGamma)
		}
	})
	return pix
}

func gammaByte(v, invGamma float64) byte {
	return byte(math.Round(math.Pow(v, invGamma) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
