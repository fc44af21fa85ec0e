package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/photoflow/internal/imgerr"
)

// DecodedImage is a tightly packed RGB8 pixel buffer.
//
// Pix holds Width*Height*3 bytes in row-major R,G,B order with no row padding.
// A DecodedImage is produced only by decoders and must be treated as read-only
// once returned; the cache hands the same instance to every caller.
//
// DecodedImage implements image.Image so it can be passed directly to encoders
// and resamplers.
type DecodedImage struct {
	Width  int
	Height int
	Pix    []byte
}

// NewDecodedImage wraps pix after checking it matches the dimensions.
func NewDecodedImage(width, height int, pix []byte) (*DecodedImage, error) {
	if width <= 0 || height <= 0 {
		return nil, imgerr.Decode("new image", "", fmt.Errorf("invalid dimensions %dx%d", width, height))
	}
	if len(pix) != width*height*3 {
		return nil, imgerr.Decode("new image", "", fmt.Errorf("buffer length %d, want %d for %dx%d RGB8", len(pix), width*height*3, width, height))
	}
	return &DecodedImage{Width: width, Height: height, Pix: pix}, nil
}

// FromImage flattens any image.Image into RGB8.
//
// The source is first normalized to non-premultiplied RGBA; alpha is then
// dropped, keeping the straight color of translucent pixels.
func FromImage(img image.Image) *DecodedImage {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	pix := make([]byte, w*h*3)

	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		dst := pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}

	return &DecodedImage{Width: w, Height: h, Pix: pix}
}

// Len returns the number of bytes in the pixel buffer.
func (d *DecodedImage) Len() int { return len(d.Pix) }

// RGB returns the components at (x, y). Coordinates must be inside the image.
func (d *DecodedImage) RGB(x, y int) (r, g, b uint8) {
	i := (y*d.Width + x) * 3
	return d.Pix[i], d.Pix[i+1], d.Pix[i+2]
}

// NRGBA converts the buffer to an opaque *image.NRGBA.
func (d *DecodedImage) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	for i, j := 0, 0; i < len(d.Pix); i, j = i+3, j+4 {
		out.Pix[j] = d.Pix[i]
		out.Pix[j+1] = d.Pix[i+1]
		out.Pix[j+2] = d.Pix[i+2]
		out.Pix[j+3] = 0xFF
	}
	return out
}

// ColorModel implements image.Image.
func (d *DecodedImage) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (d *DecodedImage) Bounds() image.Rectangle { return image.Rect(0, 0, d.Width, d.Height) }

// At implements image.Image. Points outside the image are transparent black.
func (d *DecodedImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return color.RGBA{}
	}
	r, g, b := d.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
