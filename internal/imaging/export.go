package imaging

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// ExportResult describes a written image file.
type ExportResult struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Export encodes img to path, choosing the codec from the path's extension
// (.png, .jpg, .gif, .tif, .bmp). A scale other than 1 resizes with Lanczos
// resampling first.
func Export(img *DecodedImage, path string, scale float64) (*ExportResult, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %g", scale)
	}

	out := img.NRGBA()
	if scale != 1.0 {
		w := int(float64(img.Width) * scale)
		h := int(float64(img.Height) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %g reduces %dx%d image to nothing", scale, img.Width, img.Height)
		}
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	if err := imaging.Save(out, path); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ExportResult{
		Path:   path,
		Width:  out.Rect.Dx(),
		Height: out.Rect.Dy(),
	}, nil
}

// Thumbnail scales img down to fit within maxWidth x maxHeight, preserving
// aspect ratio. Images already inside the box are returned unchanged.
func Thumbnail(img *DecodedImage, maxWidth, maxHeight int) (*DecodedImage, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("invalid thumbnail box %dx%d", maxWidth, maxHeight)
	}
	if img.Width <= maxWidth && img.Height <= maxHeight {
		return img, nil
	}
	return FromImage(imaging.Fit(img.NRGBA(), maxWidth, maxHeight, imaging.Lanczos)), nil
}
