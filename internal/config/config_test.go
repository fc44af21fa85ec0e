package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvCacheCapacity, EnvMmapThreshold} {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 32, cfg.CacheCapacity)
	assert.Equal(t, int64(32<<20), cfg.MmapThreshold)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "PHOTOFLOW_LOG_LEVEL=debug\nPHOTOFLOW_CACHE_CAPACITY=8\nPHOTOFLOW_MMAP_THRESHOLD=1MiB\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 8, cfg.CacheCapacity)
	assert.Equal(t, int64(1<<20), cfg.MmapThreshold)
}

func TestLoad_ProcessEnvWins(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "PHOTOFLOW_CACHE_CAPACITY=8\n")
	t.Setenv(EnvCacheCapacity, "64")
	t.Setenv(EnvMmapThreshold, "4096")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.CacheCapacity)
	assert.Equal(t, int64(4096), cfg.MmapThreshold)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "loud")
	t.Setenv(EnvCacheCapacity, "-3")
	t.Setenv(EnvMmapThreshold, "lots")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
