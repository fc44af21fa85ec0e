// Package processor routes each file to the RAW or the standard decoder.
//
// The choice is made from header bytes via format.Detect, never from the
// file extension. RAW variants go to raw.Decoder, everything else (including
// Unknown) to imaging.StandardDecoder. A detection failure does not fail the
// decode: the file is handed to the standard decoder, which either decodes it
// or returns a classified error of its own.
//
// # Example Usage
//
//	router := processor.NewRouter(nil, raw.NewDecoder(source, nil))
//	cache := imaging.NewImageCache(router, imaging.DefaultCacheCapacity)
//	img, err := cache.GetOrDecode(path)
package processor
