package raw

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/format"
	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/imgerr"
)

// ErrNoSensorData is returned by a SensorSource that cannot expose samples
// for a file, e.g. because the container's compression is unsupported.
var ErrNoSensorData = errors.New("no sensor data")

// SensorSource is the RAW bitstream decoder boundary: it unpacks a RAW file
// into a flat sample array with its levels, white balance and CFA.
type SensorSource interface {
	ReadSensor(path string) (*SensorImage, error)
}

// SensorSourceFunc adapts a function to the SensorSource interface.
type SensorSourceFunc func(path string) (*SensorImage, error)

// ReadSensor calls f(path).
func (f SensorSourceFunc) ReadSensor(path string) (*SensorImage, error) { return f(path) }

// Decoder decodes RAW files into RGB8.
//
// Sensor data from the source is demosaiced with the gamma tuned for the
// file's RAW sub-format. When there is no source, or the source reports
// ErrNoSensorData, the largest embedded JPEG preview is decoded instead.
type Decoder struct {
	source   SensorSource
	standard *imaging.StandardDecoder
}

// NewDecoder creates a RAW decoder. source may be nil; standard reads files
// and decodes embedded previews, and defaults to a zero StandardDecoder.
func NewDecoder(source SensorSource, standard *imaging.StandardDecoder) *Decoder {
	if standard == nil {
		standard = &imaging.StandardDecoder{}
	}
	return &Decoder{source: source, standard: standard}
}

// Decode decodes the RAW file at path, classified as kind.
//
// # Errors
//
//   - imgerr.ErrRead if the file cannot be read
//   - imgerr.ErrDecode for a malformed sample buffer or a container with
//     neither sensor data nor a preview
//   - imgerr.ErrConfig for invalid CFA geometry or a degenerate level range
func (d *Decoder) Decode(path string, kind format.ImageType) (*imaging.DecodedImage, error) {
	if d.source != nil {
		sensor, err := d.source.ReadSensor(path)
		switch {
		case err == nil:
			img, err := Demosaic(sensor, GammaFor(kind))
			if err != nil {
				return nil, withPath(err, path)
			}
			return img, nil
		case errors.Is(err, ErrNoSensorData):
			log.Debug().Str("path", path).Str("format", kind.String()).Msg("no sensor data, using embedded preview")
		default:
			if imgerr.KindOf(err) == 0 {
				return nil, imgerr.Decode("read sensor", path, err)
			}
			return nil, withPath(err, path)
		}
	}

	return d.decodePreview(path)
}

func (d *Decoder) decodePreview(path string) (*imaging.DecodedImage, error) {
	data, release, err := d.standard.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer release()

	preview, w, h, err := Preview(data)
	if err != nil {
		return nil, imgerr.Decode("decode preview", path, err)
	}
	log.Debug().Str("path", path).Int("width", w).Int("height", h).Msg("decoding embedded preview")

	img, err := d.standard.DecodeBytes(preview)
	if err != nil {
		return nil, imgerr.Decode("decode preview", path, fmt.Errorf("preview %dx%d: %w", w, h, err))
	}
	return img, nil
}

// withPath fills in the file path on a classified error produced from
// in-memory inputs.
func withPath(err error, path string) error {
	var e *imgerr.Error
	if errors.As(err, &e) && e.Path == "" {
		cp := *e
		cp.Path = path
		return &cp
	}
	return err
}
