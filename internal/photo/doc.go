// Package photo holds a photo's path, camera metadata and decoded pixels, and
// enumerates the photos in a directory.
//
// Metadata comes from EXIF via ExifExtractor and is best effort: a file
// without readable EXIF still yields a Photo, just without Metadata.
//
// Directory listing keeps files whose extension is jpg, jpeg, raf or raw, in
// any case. The extension only decides what is listed; how a file is decoded
// is decided later from its header bytes.
package photo
