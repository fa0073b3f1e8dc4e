package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/veldt-labs/kerbwatch/config"
	"github.com/veldt-labs/kerbwatch/logging"
	"github.com/veldt-labs/kerbwatch/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to yaml config (optional)")
		logGlob    = flag.String("logs", "", "override sensor log glob")
		outputDir  = flag.String("output", "", "override output directory")
		workers    = flag.Int("workers", 0, "override extraction worker count")
	)
	flag.Parse()

	// Local overrides live in .env during analysis sessions
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kerbwatch: %v\n", err)
		os.Exit(1)
	}
	if *logGlob != "" {
		cfg.Inputs.LogGlob = *logGlob
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *workers > 0 {
		cfg.Extract.Workers = *workers
	}

	zl, err := logging.NewZapLogger(logging.ZapConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "kerbwatch: logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()
	logging.SetGlobalLogger(zl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, stopping...\n", sig)
		cancel()
	}()

	summary, err := pipeline.New(cfg).Run(ctx)
	if err != nil {
		logging.Error(err, "pipeline failed")
		os.Exit(1)
	}

	logging.Info("kerbwatch finished", logging.Fields{
		"run_id":          summary.RunID,
		"days":            summary.Days,
		"events":          summary.Events,
		"parse_failures":  summary.ParseFailures,
		"audio_extracted": summary.AudioExtracted,
		"audio_missing":   summary.AudioMissing,
		"audio_failed":    summary.AudioFailed,
		"image_extracted": summary.ImageExtracted,
		"image_missing":   summary.ImageMissing,
		"image_failed":    summary.ImageFailed,
	})
}
