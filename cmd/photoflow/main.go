package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/photoflow/internal/config"
	"github.com/ironsheep/photoflow/internal/imaging"
	"github.com/ironsheep/photoflow/internal/photo"
	"github.com/ironsheep/photoflow/internal/processor"
	"github.com/ironsheep/photoflow/internal/raw"
	"github.com/ironsheep/photoflow/internal/server"
	"github.com/ironsheep/photoflow/internal/viewer"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("photoflow %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("photoflow - JPEG and camera RAW photo viewer over stdio")
			fmt.Println()
			fmt.Println("Usage: photoflow [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Printf("  %s=debug          Log level (debug, info, warn, error)\n", config.EnvLogLevel)
			fmt.Printf("  %s=32        Decoded images kept in memory\n", config.EnvCacheCapacity)
			fmt.Printf("  %s=32MiB     Memory-map files larger than this\n", config.EnvMmapThreshold)
			fmt.Println()
			fmt.Println("Requests are read as JSON-RPC 2.0, one per line, on stdin;")
			fmt.Println("responses are written to stdout and logs to stderr.")
			return
		}
	}

	// stdout carries the protocol.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	log.Debug().
		Str("version", Version).
		Str("built", BuildTime).
		Str("commit", GitCommit).
		Int("cache_capacity", cfg.CacheCapacity).
		Int64("mmap_threshold", cfg.MmapThreshold).
		Msg("starting photoflow")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("server error")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	standard := imaging.NewStandardDecoder(cfg.MmapThreshold)
	router := processor.NewRouter(standard, raw.NewDecoder(nil, standard))
	cache := imaging.NewImageCache(router, cfg.CacheCapacity)
	app := viewer.New(cache, photo.ExifExtractor{Reader: standard})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appErr := make(chan error, 1)
	go func() { appErr <- app.Run(ctx) }()

	err := server.New(app, cache, Version).Serve(ctx, os.Stdin, os.Stdout)
	cancel()
	<-appErr
	return err
}
