package imaging

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor is an 8-bit RGB triple.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor is hue in degrees [0, 360), saturation and lightness in percent.
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ColorResult describes one sampled color.
type ColorResult struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`

	// Pixels is how many pixels were averaged.
	Pixels int `json:"pixels"`
}

func describe(r, g, b uint8, pixels int) *ColorResult {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return &ColorResult{
		Hex:    strings.ToUpper(c.Hex()),
		RGB:    RGBColor{R: r, G: g, B: b},
		HSL:    HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
		Pixels: pixels,
	}
}

// SampleColor reads the decoded color at (x, y), 0-based from the top-left.
func SampleColor(img *DecodedImage, x, y int) (*ColorResult, error) {
	return SampleArea(img, x, y, 0)
}

// SampleArea averages the pixels within radius of (x, y) in both axes, a
// (2*radius+1)² square clipped to the image. The center must be inside the
// image.
//
// Averaging a small patch of a neutral surface is the quickest way to check
// the white balance and gamma of the RAW pipeline without demosaic noise.
func SampleArea(img *DecodedImage, x, y, radius int) (*ColorResult, error) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside %dx%d image", x, y, img.Width, img.Height)
	}
	if radius < 0 {
		return nil, fmt.Errorf("invalid radius %d", radius)
	}

	x0, x1 := max(x-radius, 0), min(x+radius, img.Width-1)
	y0, y1 := max(y-radius, 0), min(y+radius, img.Height-1)

	var sum [3]int
	n := 0
	for py := y0; py <= y1; py++ {
		row := img.Pix[(py*img.Width+x0)*3 : (py*img.Width+x1+1)*3]
		for i := 0; i < len(row); i += 3 {
			sum[0] += int(row[i])
			sum[1] += int(row[i+1])
			sum[2] += int(row[i+2])
			n++
		}
	}

	mean := func(v int) uint8 { return uint8((v + n/2) / n) }
	return describe(mean(sum[0]), mean(sum[1]), mean(sum[2]), n), nil
}

// LabeledPoint is a sample location. Radius 0 samples the single pixel.
type LabeledPoint struct {
	X      int
	Y      int
	Radius int
	Label  string
}

// LabeledColorResult is one sample of SampleColorsMulti.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult holds samples in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti samples every point and fails on the first invalid one.
func SampleColorsMulti(img *DecodedImage, points []LabeledPoint) (*MultiColorResult, error) {
	res := &MultiColorResult{Samples: make([]LabeledColorResult, len(points))}
	for i, p := range points {
		c, err := SampleArea(img, p.X, p.Y, p.Radius)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		res.Samples[i] = LabeledColorResult{Label: p.Label, X: p.X, Y: p.Y, Color: *c}
	}
	return res, nil
}
