// Package config loads photoflow settings from the environment and an
// optional .env file.
//
// Process environment variables take precedence over the .env file, which
// takes precedence over the defaults. A missing .env file is not an error;
// unparsable values fall back to their defaults with a warning.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel      = "PHOTOFLOW_LOG_LEVEL"
	EnvCacheCapacity = "PHOTOFLOW_CACHE_CAPACITY"
	EnvMmapThreshold = "PHOTOFLOW_MMAP_THRESHOLD"
)

// Config holds the process-wide settings.
type Config struct {
	// LogLevel is the minimum level written to stderr.
	LogLevel zerolog.Level

	// CacheCapacity is the number of decoded images kept in memory.
	CacheCapacity int

	// MmapThreshold is the file size in bytes above which files are
	// memory-mapped. Accepts humanized sizes such as "32MiB".
	MmapThreshold int64
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:      zerolog.InfoLevel,
		CacheCapacity: imaging.DefaultCacheCapacity,
		MmapThreshold: imaging.MmapThreshold,
	}
}

// Load reads settings. envFiles defaults to ".env" in the working directory.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	fileEnv := map[string]string{}
	for _, name := range envFiles {
		vals, err := godotenv.Read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", name, err)
		}
		for k, v := range vals {
			if _, ok := fileEnv[k]; !ok {
				fileEnv[k] = v
			}
		}
	}

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return fileEnv[key]
	}
	return parse(get), nil
}

func parse(get func(string) string) Config {
	cfg := Default()

	if v := get(EnvLogLevel); v != "" {
		level, err := zerolog.ParseLevel(v)
		if err != nil || level == zerolog.NoLevel {
			log.Warn().Str("key", EnvLogLevel).Str("value", v).Msg("invalid log level, using default")
		} else {
			cfg.LogLevel = level
		}
	}

	if v := get(EnvCacheCapacity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Warn().Str("key", EnvCacheCapacity).Str("value", v).Msg("invalid cache capacity, using default")
		} else {
			cfg.CacheCapacity = n
		}
	}

	if v := get(EnvMmapThreshold); v != "" {
		n, err := humanize.ParseBytes(v)
		if err != nil || n == 0 || n > 1<<62 {
			log.Warn().Str("key", EnvMmapThreshold).Str("value", v).Msg("invalid mmap threshold, using default")
		} else {
			cfg.MmapThreshold = int64(n)
		}
	}

	return cfg
}
