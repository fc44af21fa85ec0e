package raw

import (
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/photoflow/internal/format"
	"github.com/ironsheep/photoflow/internal/imgerr"
)

func expectByte(v, gamma float64) byte {
	return byte(math.Round(math.Pow(v, 1/gamma) * 255))
}

func uniformSensor(t *testing.T, w, h int, v uint16, cfa *CFA) *SensorImage {
	t.Helper()
	samples := make([]uint16, w*h)
	for i := range samples {
		samples[i] = v
	}
	black, white := UniformLevels(0, 65535)
	return &SensorImage{
		Width:       w,
		Height:      h,
		Samples:     samples,
		BlackLevels: black,
		WhiteLevels: white,
		WBCoeffs:    [3]float64{1, 1, 1},
		CFA:         cfa,
	}
}

func mustBayer(t *testing.T, name string) *CFA {
	t.Helper()
	cfa, err := NewBayer(name)
	require.NoError(t, err)
	return cfa
}

func TestDemosaic_UniformSamples(t *testing.T) {
	cfas := map[string]*CFA{
		"rggb":   mustBayer(t, "RGGB"),
		"gbrg":   mustBayer(t, "GBRG"),
		"xtrans": XTrans(),
	}

	for name, cfa := range cfas {
		for _, v := range []uint16{0, 1, 1234, 32768, 65535} {
			img, err := Demosaic(uniformSensor(t, 13, 11, v, cfa), GammaDefault)
			require.NoError(t, err, name)

			want := expectByte(float64(v)/65535, 2.2)
			for y := 1; y < img.Height-1; y++ {
				for x := 1; x < img.Width-1; x++ {
					r, g, b := img.RGB(x, y)
					if r != want || g != want || b != want {
						t.Fatalf("%s v=%d (%d,%d): got (%d,%d,%d), want %d", name, v, x, y, r, g, b, want)
					}
				}
			}
		}
	}
}

func TestDemosaic_OutputLength(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {2, 3}, {7, 5}, {64, 48}} {
		img, err := Demosaic(uniformSensor(t, size[0], size[1], 500, XTrans()), GammaDefault)
		require.NoError(t, err)
		assert.Equal(t, size[0], img.Width)
		assert.Equal(t, size[1], img.Height)
		assert.Len(t, img.Pix, size[0]*size[1]*3)
	}
}

func TestDemosaic_GammaTableDiffersBySensor(t *testing.T) {
	sensor := uniformSensor(t, 8, 8, 20000, mustBayer(t, "RGGB"))

	fuji, err := Demosaic(sensor, GammaFor(format.RawFuji))
	require.NoError(t, err)
	canon, err := Demosaic(sensor, GammaFor(format.RawCanon))
	require.NoError(t, err)

	r1, _, _ := fuji.RGB(3, 3)
	r2, _, _ := canon.RGB(3, 3)
	assert.NotEqual(t, r1, r2)
	assert.Equal(t, expectByte(20000.0/65535, 2.4), r1)
	assert.Equal(t, expectByte(20000.0/65535, 2.1), r2)
}

func TestGammaFor(t *testing.T) {
	assert.Equal(t, 2.4, GammaFor(format.RawFuji))
	assert.Equal(t, 2.1, GammaFor(format.RawCanon))
	for _, kind := range []format.ImageType{format.RawNikon, format.RawSony, format.RawPanasonic, format.RawGeneric, format.Jpeg} {
		assert.Equal(t, 2.2, GammaFor(kind), kind.String())
	}
}

func TestDemosaic_NeighborReconstruction(t *testing.T) {
	// RGGB 3x3, levels 0..100:
	//   R10 G50 R20
	//   G50 B80 G50
	//   R30 G50 R40
	sensor := &SensorImage{
		Width:  3,
		Height: 3,
		Samples: []uint16{
			10, 50, 20,
			50, 80, 50,
			30, 50, 40,
		},
		CFA: mustBayer(t, "RGGB"),
	}
	sensor.BlackLevels, sensor.WhiteLevels = UniformLevels(0, 100)

	img, err := Demosaic(sensor, 1)
	require.NoError(t, err)

	// Center blue: red from the four diagonals, green from the four axes.
	r, g, b := img.RGB(1, 1)
	assert.Equal(t, expectByte(0.25, 1), r)
	assert.Equal(t, expectByte(0.5, 1), g)
	assert.Equal(t, expectByte(0.8, 1), b)

	// Top edge green: red from left/right in-image neighbors, blue from below.
	r, g, b = img.RGB(1, 0)
	assert.Equal(t, expectByte(0.15, 1), r)
	assert.Equal(t, expectByte(0.5, 1), g)
	assert.Equal(t, expectByte(0.8, 1), b)

	// Corner red: green from two axis neighbors, blue from the one diagonal.
	r, g, b = img.RGB(0, 0)
	assert.Equal(t, expectByte(0.1, 1), r)
	assert.Equal(t, expectByte(0.5, 1), g)
	assert.Equal(t, expectByte(0.8, 1), b)
}

func TestDemosaic_LevelsAndWhiteBalance(t *testing.T) {
	sensor := uniformSensor(t, 4, 4, 0, mustBayer(t, "RGGB"))
	for i := range sensor.Samples {
		sensor.Samples[i] = 600
	}
	sensor.BlackLevels = [3]float64{100, 100, 100}
	sensor.WhiteLevels = [3]float64{1100, 1100, 1100}
	sensor.WBCoeffs = [3]float64{2, 1, 0.5}

	img, err := Demosaic(sensor, 1)
	require.NoError(t, err)

	r, g, b := img.RGB(1, 1)
	assert.Equal(t, byte(255), r, "0.5*2 saturates")
	assert.Equal(t, expectByte(0.5, 1), g)
	assert.Equal(t, expectByte(0.25, 1), b)
}

func TestDemosaic_ClampsOutOfRangeSamples(t *testing.T) {
	sensor := uniformSensor(t, 4, 4, 50, mustBayer(t, "RGGB"))
	sensor.BlackLevels, sensor.WhiteLevels = UniformLevels(100, 200)

	img, err := Demosaic(sensor, GammaDefault)
	require.NoError(t, err)
	for _, v := range img.Pix {
		require.Equal(t, byte(0), v)
	}

	for i := range sensor.Samples {
		sensor.Samples[i] = 1000
	}
	img, err = Demosaic(sensor, GammaDefault)
	require.NoError(t, err)
	for _, v := range img.Pix {
		require.Equal(t, byte(255), v)
	}
}

func TestDemosaic_FloatSamples(t *testing.T) {
	samples := make([]float32, 6*6)
	for i := range samples {
		samples[i] = 0.5
	}
	samples[0] = 1.5
	sensor := &SensorImage{
		Width:        6,
		Height:       6,
		FloatSamples: samples,
		CFA:          XTrans(),
	}

	img, err := Demosaic(sensor, GammaDefault)
	require.NoError(t, err)

	r, g, b := img.RGB(3, 3)
	want := expectByte(0.5, 2.2)
	assert.Equal(t, [3]byte{want, want, want}, [3]byte{r, g, b})

	_, _, b = img.RGB(0, 0)
	assert.Equal(t, byte(255), b, "float samples above 1 clamp")
}

func TestDemosaic_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *SensorImage)
		gamma  float64
		want   error
	}{
		{"short buffer", func(s *SensorImage) { s.Samples = s.Samples[:len(s.Samples)-1] }, 2.2, imgerr.ErrDecode},
		{"zero dimensions", func(s *SensorImage) { s.Width = 0 }, 2.2, imgerr.ErrDecode},
		{"both sample kinds", func(s *SensorImage) { s.FloatSamples = make([]float32, 16) }, 2.2, imgerr.ErrDecode},
		{"zero level range", func(s *SensorImage) { s.BlackLevels, s.WhiteLevels = UniformLevels(512, 512) }, 2.2, imgerr.ErrConfig},
		{"inverted blue range", func(s *SensorImage) { s.WhiteLevels[Blue] = -1 }, 2.2, imgerr.ErrConfig},
		{"missing cfa", func(s *SensorImage) { s.CFA = nil }, 2.2, imgerr.ErrConfig},
		{"zero tile", func(s *SensorImage) { s.CFA = &CFA{} }, 2.2, imgerr.ErrConfig},
		{"zero gamma", func(s *SensorImage) {}, 0, imgerr.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sensor := uniformSensor(t, 4, 4, 100, mustBayer(t, "RGGB"))
			tt.mutate(sensor)
			_, err := Demosaic(sensor, tt.gamma)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDemosaic_InteriorChannelsAlwaysReconstructed(t *testing.T) {
	tiles := []func() *CFA{
		func() *CFA { c, _ := NewBayer("RGGB"); return c },
		func() *CFA { c, _ := NewBayer("BGGR"); return c },
		func() *CFA { c, _ := NewBayer("GRBG"); return c },
		func() *CFA { c, _ := NewBayer("GBRG"); return c },
		XTrans,
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("interior pixels have all three channels", prop.ForAll(
		func(w, h, tile int, seed int64) bool {
			rng := rand.New(rand.NewSource(seed))
			samples := make([]uint16, w*h)
			for i := range samples {
				samples[i] = uint16(1 + rng.Intn(65535))
			}
			sensor := &SensorImage{Width: w, Height: h, Samples: samples, CFA: tiles[tile]()}
			sensor.BlackLevels, sensor.WhiteLevels = UniformLevels(0, 65535)
			if sensor.Validate() != nil {
				return false
			}

			rgb := reconstruct(sensor)
			for y := 1; y < h-1; y++ {
				for x := 1; x < w-1; x++ {
					i := (y*w + x) * 3
					if rgb[i] <= 0 || rgb[i+1] <= 0 || rgb[i+2] <= 0 {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(3, 20),
		gen.IntRange(3, 20),
		gen.IntRange(0, len(tiles)-1),
		gen.Int64(),
	))

	properties.Property("output length is width*height*3", prop.ForAll(
		func(w, h int) bool {
			img, err := Demosaic(&SensorImage{
				Width:       w,
				Height:      h,
				Samples:     make([]uint16, w*h),
				WhiteLevels: [3]float64{1, 1, 1},
				CFA:         XTrans(),
			}, GammaDefault)
			return err == nil && len(img.Pix) == w*h*3
		},
		gen.IntRange(1, 40),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}

func TestDemosaic_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sensor := uniformSensor(t, 97, 61, 0, XTrans())
	for i := range sensor.Samples {
		sensor.Samples[i] = uint16(rng.Intn(65536))
	}

	a, err := Demosaic(sensor, GammaFuji)
	require.NoError(t, err)
	b, err := Demosaic(sensor, GammaFuji)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}
