// Package imaging holds the decoded pixel representation shared by every
// decoder, the standard (non-RAW) decoder, and the freshness-aware image cache.
//
// # Pixel Buffers
//
// Decoders produce a DecodedImage: width, height and a tightly packed RGB8
// buffer of exactly width*height*3 bytes, row-major, with no row padding. The
// display layer reads Pix directly and must not modify it.
//
// Coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward.
//
// # Standard Decoding
//
// StandardDecoder hands JPEG, PNG, GIF, WebP and TIFF bytes to the generic
// codec registry. Files above 32 MiB are memory-mapped rather than read into a
// buffer; the output is identical either way.
//
// # Caching
//
// ImageCache maps a file path to its DecodedImage and the file's modification
// time at decode time. It holds 32 entries by default, evicts the least
// recently accessed entry, and re-decodes a path whose file has a newer
// modification time than the cached one. ImageCache is safe for concurrent use.
//
// # Inspection
//
// SampleColor, SampleArea and SampleColorsMulti read decoded pixels as hex,
// RGB and HSL.
// Export writes a DecodedImage through the encoder matching the output
// extension, and Thumbnail fits one inside a box.
//
// # Error Handling
//
// Decode failures carry an imgerr kind: imgerr.ErrRead for I/O problems and
// imgerr.ErrDecode when the codec rejects the bytes.
package imaging
