package raw

import (
	"fmt"
	"strings"

	"github.com/ironsheep/photoflow/internal/imgerr"
)

// Channel is a color channel index: 0=Red, 1=Green, 2=Blue.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	default:
		return "?"
	}
}

// CFA describes a color filter array as a repeating tile.
//
// Pattern is row-major: the channel for tile position (tx, ty) is
// Pattern[ty*Width+tx]. A sensor pixel at (x, y) uses tile position
// (x mod Width, y mod Height), so the tile need not divide the sensor
// dimensions evenly.
type CFA struct {
	Width   int
	Height  int
	Pattern []Channel
}

// NewCFA builds a tile after checking its geometry.
//
// Returns an imgerr.ErrConfig error when either dimension is not positive,
// when the pattern length does not match, or when the pattern names a
// channel other than Red, Green or Blue.
func NewCFA(width, height int, pattern []Channel) (*CFA, error) {
	c := &CFA{Width: width, Height: height, Pattern: pattern}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CFA) validate() error {
	if c == nil {
		return imgerr.Config("cfa", fmt.Errorf("missing color filter array"))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return imgerr.Config("cfa", fmt.Errorf("invalid tile dimensions %dx%d", c.Width, c.Height))
	}
	if len(c.Pattern) != c.Width*c.Height {
		return imgerr.Config("cfa", fmt.Errorf("pattern has %d entries, want %d", len(c.Pattern), c.Width*c.Height))
	}
	for i, ch := range c.Pattern {
		if ch > Blue {
			return imgerr.Config("cfa", fmt.Errorf("invalid channel %d at pattern index %d", ch, i))
		}
	}
	return nil
}

// ColorAt returns the channel sampled at sensor position (x, y).
func (c *CFA) ColorAt(x, y int) Channel {
	tx := ((x % c.Width) + c.Width) % c.Width
	ty := ((y % c.Height) + c.Height) % c.Height
	return c.Pattern[ty*c.Width+tx]
}

func (c *CFA) String() string {
	var b strings.Builder
	for i, ch := range c.Pattern {
		if i > 0 && i%c.Width == 0 {
			b.WriteByte('/')
		}
		b.WriteString(ch.String())
	}
	return b.String()
}

// NewBayer returns the 2x2 Bayer tile named by its first row then second
// row, e.g. "RGGB" or "GBRG". The name is case-insensitive.
func NewBayer(name string) (*CFA, error) {
	name = strings.ToUpper(name)
	switch name {
	case "RGGB", "BGGR", "GRBG", "GBRG":
	default:
		return nil, imgerr.Config("cfa", fmt.Errorf("unknown bayer pattern %q", name))
	}

	pattern := make([]Channel, 4)
	for i, r := range name {
		switch r {
		case 'R':
			pattern[i] = Red
		case 'G':
			pattern[i] = Green
		case 'B':
			pattern[i] = Blue
		}
	}
	return NewCFA(2, 2, pattern)
}

// xtransPattern is the 6x6 tile used by Fujifilm X-Trans sensors.
var xtransPattern = [36]Channel{
	Blue, Green, Green, Blue, Green, Green,
	Green, Blue, Red, Green, Red, Blue,
	Green, Red, Green, Blue, Green, Red,
	Blue, Green, Green, Blue, Green, Green,
	Green, Blue, Red, Green, Red, Blue,
	Green, Red, Green, Blue, Green, Red,
}

// XTrans returns the 6x6 Fujifilm X-Trans tile.
func XTrans() *CFA {
	pattern := make([]Channel, len(xtransPattern))
	copy(pattern, xtransPattern[:])
	return &CFA{Width: 6, Height: 6, Pattern: pattern}
}
