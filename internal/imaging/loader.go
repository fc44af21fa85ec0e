package imaging

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/format"
)

// DefaultCacheCapacity is the number of decoded images kept by default.
const DefaultCacheCapacity = 32

// Decoder turns a file into pixels. The processor router is the production
// implementation; tests substitute counting fakes.
type Decoder interface {
	Decode(path string) (*DecodedImage, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (*DecodedImage, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) (*DecodedImage, error) { return f(path) }

type cacheEntry struct {
	image   *DecodedImage
	modTime time.Time
}

// ImageCache is a bounded, freshness-checked store of decoded images keyed by
// file path.
//
// Each entry remembers the file's modification time at decode time. A lookup
// re-stats the file and reuses the entry only when the current modification
// time is not newer than the stored one. When the modification time cannot be
// read the entry is never trusted.
//
// At capacity, the least recently accessed entry is evicted; a cache hit
// promotes its entry, so eviction follows access order, not insertion order.
//
// # Concurrency
//
// ImageCache is safe for concurrent use. The mutex guards only the LRU
// bookkeeping; decoding runs outside it. Two goroutines that miss on the same
// path both decode it and both insert, and the last insert wins. That costs
// a redundant decode but never corrupts the cache.
//
// # Example Usage
//
//	cache := imaging.NewImageCache(router, imaging.DefaultCacheCapacity)
//	img, err := cache.GetOrDecode("/photos/DSCF0001.RAF")
//	if err != nil {
//	    return err
//	}
//	// Use img.Pix...
type ImageCache struct {
	mu       sync.Mutex
	entries  *simplelru.LRU[string, cacheEntry]
	decoder  Decoder
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewImageCache creates an empty cache holding at most capacity images.
// A non-positive capacity selects DefaultCacheCapacity.
func NewImageCache(decoder Decoder, capacity int) *ImageCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	// NewLRU only fails for a non-positive size.
	entries, _ := simplelru.NewLRU[string, cacheEntry](capacity, nil)

	return &ImageCache{
		entries:  entries,
		decoder:  decoder,
		capacity: capacity,
	}
}

// GetOrDecode returns the decoded image for path, decoding it on a miss or
// when the file changed since it was cached.
//
// Decoder errors are returned unchanged and leave any existing entry in place.
func (c *ImageCache) GetOrDecode(path string) (*DecodedImage, error) {
	modTime, statErr := fileModTime(path)

	if statErr == nil {
		c.mu.Lock()
		entry, ok := c.entries.Get(path)
		c.mu.Unlock()

		if ok && !modTime.After(entry.modTime) {
			c.hits.Add(1)
			log.Debug().Str("path", path).Msg("cache hit")
			return entry.image, nil
		}
		if ok {
			log.Debug().Str("path", path).Time("cached", entry.modTime).Time("current", modTime).Msg("cache entry stale")
		}
	} else {
		log.Debug().Err(statErr).Str("path", path).Msg("modification time unavailable, bypassing cache")
		c.mu.Lock()
		c.entries.Remove(path)
		c.mu.Unlock()
	}

	c.misses.Add(1)
	img, err := c.decoder.Decode(path)
	if err != nil {
		return nil, err
	}

	if statErr != nil {
		return img, nil
	}

	c.mu.Lock()
	if !c.entries.Contains(path) && c.entries.Len() >= c.capacity {
		if oldest, _, ok := c.entries.GetOldest(); ok {
			log.Debug().Str("path", oldest).Msg("cache evict")
		}
	}
	if c.entries.Add(path, cacheEntry{image: img, modTime: modTime}) {
		c.evictions.Add(1)
	}
	c.mu.Unlock()

	return img, nil
}

// ModTime returns the modification time stored for path without promoting
// the entry.
func (c *ImageCache) ModTime(path string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Peek(path)
	return entry.modTime, ok
}

// Contains reports whether path has an entry, fresh or not, without
// promoting it.
func (c *ImageCache) Contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Contains(path)
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries.Purge()
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next GetOrDecode call for this path decodes again.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	c.entries.Remove(path)
	c.mu.Unlock()
}

// CacheStats is a point-in-time view of cache activity.
type CacheStats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Entries   int    `json:"entries"`
	Capacity  int    `json:"capacity"`
}

// Stats returns hit, miss and eviction counters since creation.
func (c *ImageCache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.Len(),
		Capacity:  c.capacity,
	}
}

func fileModTime(path string) (time.Time, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return stat.ModTime(), nil
}

// ImageInfo contains metadata about an image file and its decoded pixels.
type ImageInfo struct {
	// Width is the decoded width in pixels.
	Width int `json:"width"`

	// Height is the decoded height in pixels.
	Height int `json:"height"`

	// Format is detected from the header bytes, not the extension.
	Format format.ImageType `json:"format"`

	// Raw reports whether Format is a camera RAW variant.
	Raw bool `json:"raw"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// FileSize is FileSizeBytes in human-readable form, e.g. "24 MB".
	FileSize string `json:"file_size"`

	// ModTime is the file's modification time.
	ModTime time.Time `json:"mod_time"`
}

// LoadImageInfo decodes path through the cache and reports its dimensions,
// detected format and file attributes.
//
// A format detection failure is not fatal here; Format is reported as
// format.Unknown.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.GetOrDecode(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	kind, err := format.Detect(path)
	if err != nil {
		kind = format.Unknown
	}

	return &ImageInfo{
		Width:         img.Width,
		Height:        img.Height,
		Format:        kind,
		Raw:           kind.IsRaw(),
		FileSizeBytes: stat.Size(),
		FileSize:      humanize.Bytes(uint64(stat.Size())),
		ModTime:       stat.ModTime(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the decoded dimensions of path, decoding through the
// cache if needed.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.GetOrDecode(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: img.Width, Height: img.Height}, nil
}
