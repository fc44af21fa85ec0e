// Package format classifies image files by their leading bytes.
//
// Classification never trusts the file extension. A fixed 16-byte header is
// enough for every container except TIFF, whose magic is shared by plain TIFF
// images, Canon CR2 and Nikon NEF files; for those the detector rereads up to
// the first 4096 bytes looking for a manufacturer marker.
//
// # Detection Order
//
// Rules are evaluated in this order and the first match wins:
//
//  1. FF D8                      -> Jpeg
//  2. PNG signature              -> Png
//  3. "GIF"                      -> Gif
//  4. "RIFF" .... "WEBP"         -> WebP
//  5. "MM\0*" or "II*\0"         -> tentatively Tiff
//  6. "FUJI"                     -> RawFuji
//  7. "CR\x02"/"CR\x03" at 8..10 -> RawCanon
//  8. TIFF and "NIKON" in window -> RawNikon, otherwise Tiff
//  9. "SONY"                     -> RawSony
//  10. "IIU\0"                   -> RawPanasonic
//  11. CIFF/HEIC/DNGK/EPAK       -> RawGeneric
//  12. anything else             -> Unknown
//
// The order matters: reordering lets offset-ambiguous markers win over the
// container that actually owns them.
package format
