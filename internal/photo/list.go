package photo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions is the allow-list of photo file extensions, lower case and
// without the dot.
var Extensions = []string{"jpg", "jpeg", "raf", "raw"}

// HasPhotoExtension reports whether path ends in an allowed extension,
// ignoring case.
func HasPhotoExtension(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, allowed := range Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ListDirectory returns the photo files directly inside dir, sorted by path.
// Subdirectories are not descended into.
func ListDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !HasPhotoExtension(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
