// Package raw reconstructs full-color pixels from camera sensor samples.
//
// A RAW bitstream decoder (a SensorSource) exposes a SensorImage: one sample
// per sensor pixel, per-channel black and white levels, white-balance
// coefficients, and the color filter array (CFA) tile that says which channel
// each pixel records. Demosaic turns that into a packed RGB8
// imaging.DecodedImage of the same size.
//
// # Pipeline
//
//  1. Normalize each sample to [0, 1] against its channel's levels.
//  2. Scale by the channel's white-balance coefficient.
//  3. Fill the two missing channels of every pixel from same-channel
//     neighbors, axis-aligned first and diagonal otherwise.
//  4. Gamma encode with the exponent tuned for the sensor family
//     (Fuji 2.4, Canon 2.1, everything else 2.2).
//
// Border pixels use the same rule; neighbors outside the image are skipped.
//
// # Supported Tiles
//
// NewBayer builds the four 2x2 Bayer arrangements and XTrans returns the 6x6
// Fujifilm tile. Arbitrary tiles can be built with NewCFA.
//
// # Previews
//
// Decoder falls back to the largest JPEG embedded in the RAW container when
// no sensor data is available, so a RAW file that cannot be unpacked still
// displays.
package raw
