// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/enrichit"
	"github.com/poiesic/enrichit/cache"
	"github.com/poiesic/enrichit/config"
	"github.com/poiesic/enrichit/pipeline"
	"github.com/poiesic/enrichit/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "enrichit",
		Usage: "Add company industries to customer records",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"ENRICHIT_CONFIG"},
			},
		}, runFlags()...),
		Before: setupLogger,
		Action: runCommand,
		Commands: []*cli.Command{
			{
				Name:   "export-cache",
				Usage:  "Write the latest capture to the text cache file",
				Action: exportCacheCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "capture-db",
						Usage:    "Path to the capture database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache-file",
						Usage: "Path of the text cache to write",
						Value: cache.DefaultPath,
					},
					&cli.BoolFlag{
						Name:  "allow-partial",
						Usage: "Export a capture from a pass that ended early",
					},
				},
			},
			{
				Name:   "show-capture",
				Usage:  "Print a summary of the latest capture",
				Action: showCaptureCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "capture-db",
						Usage:    "Path to the capture database directory",
						Required: true,
					},
				},
			},
		},
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "cached",
			Usage: "Read industries from the cache file instead of the provider",
		},
		&cli.BoolFlag{
			Name:  "replay",
			Usage: "Read industries from the capture recorded for the current customers",
		},
		&cli.StringFlag{
			Name:  "cache-file",
			Usage: "Path of the text cache file",
			Value: cache.DefaultPath,
		},
		&cli.StringFlag{
			Name:  "capture-db",
			Usage: "Path to the capture database directory (disabled when empty)",
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Customer database connection URL",
			EnvVars: []string{"ENRICHIT_DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Apollo API key",
			EnvVars: []string{"APOLLO_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "Apollo API base URL",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of domains per provider request (at most 10)",
			Value: 10,
		},
		&cli.DurationFlag{
			Name:  "pace",
			Usage: "Minimum interval between provider requests",
			Value: 4 * time.Second,
		},
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "Attempts per provider request",
			Value: 1,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Fail instead of writing when fewer industries than customers were fetched",
		},
		&cli.BoolFlag{
			Name:  "atomic",
			Usage: "Stage and merge results in a single transaction",
		},
	}
}

// loadConfig reads the config file and applies explicitly set flags over it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if !c.IsSet("log-level") && cfg.Logging.Level != "" {
		if err := configureLogging(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}

	if c.IsSet("cache-file") {
		cfg.Cache.Path = c.String("cache-file")
	}
	if c.IsSet("capture-db") {
		cfg.Capture.Path = c.String("capture-db")
	}
	if c.IsSet("database-url") {
		cfg.Postgres.URL = c.String("database-url")
	}
	if c.IsSet("api-key") {
		cfg.Provider.APIKey = c.String("api-key")
	}
	if c.IsSet("api-url") {
		cfg.Provider.BaseURL = c.String("api-url")
	}
	if c.IsSet("batch-size") {
		cfg.Enrich.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("pace") {
		cfg.Enrich.PaceInterval = c.Duration("pace")
	}
	if c.IsSet("max-attempts") {
		cfg.Enrich.MaxAttempts = c.Int("max-attempts")
	}
	if c.IsSet("retry-delay") {
		cfg.Enrich.RetryDelay = c.Duration("retry-delay")
	}
	if c.IsSet("strict") {
		cfg.Postgres.Strict = c.Bool("strict")
	}
	if c.IsSet("atomic") {
		cfg.Postgres.Atomic = c.Bool("atomic")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func selectMode(c *cli.Context) (enrichit.Mode, error) {
	switch {
	case c.Bool("cached") && c.Bool("replay"):
		return 0, fmt.Errorf("--cached and --replay cannot be combined")
	case c.Bool("cached"):
		return enrichit.ModeCached, nil
	case c.Bool("replay"):
		return enrichit.ModeReplay, nil
	default:
		return enrichit.ModeLive, nil
	}
}

func runCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	mode, err := selectMode(c)
	if err != nil {
		return err
	}

	runner, err := enrichit.New(cfg, enrichit.WithMode(mode), enrichit.WithProgress(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to set up: %w", err)
	}
	defer runner.Close()

	driver, err := runner.NewDriver()
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Mode: %s\n", mode)
	if mode == enrichit.ModeLive {
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.Provider.BaseURL)
	}
	fmt.Fprintln(os.Stderr)

	report, err := driver.Run(ctx)
	if errors.Is(err, pipeline.ErrStorageUnavailable) {
		return cli.Exit(fmt.Sprintf("[ERROR] Connection to the customer database failed: %v", err), 1)
	}
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	printReport(c.App.Writer, report)
	return nil
}

func printReport(w io.Writer, report *pipeline.Report) {
	fmt.Fprintf(w, "Customers: %d\n", report.Customers)
	fmt.Fprintf(w, "Enriched:  %d (%d known, %d unknown)\n", report.Enriched, report.Known, report.Unknown)
	if report.Partial {
		fmt.Fprintf(w, "Partial:   %d customers left without an industry\n", report.Customers-report.Enriched)
	}
}

func exportCacheCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := badger.NewCaptureRepository(c.String("capture-db"))
	if err != nil {
		return fmt.Errorf("failed to open capture database: %w", err)
	}
	defer repo.Close()

	capture, err := repo.LatestCapture(ctx)
	if err != nil {
		return fmt.Errorf("failed to load capture: %w", err)
	}
	if !capture.Complete && !c.Bool("allow-partial") {
		return fmt.Errorf("latest capture is partial (%d results); use --allow-partial to export it", len(capture.Attributes))
	}

	path := c.String("cache-file")
	if err := cache.SaveFile(path, capture.Attributes); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %d industries to %s\n", len(capture.Attributes), path)
	return nil
}

func showCaptureCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := badger.NewCaptureRepository(c.String("capture-db"))
	if err != nil {
		return fmt.Errorf("failed to open capture database: %w", err)
	}
	defer repo.Close()

	capture, err := repo.LatestCapture(ctx)
	if err != nil {
		return fmt.Errorf("failed to load capture: %w", err)
	}

	known := 0
	for _, a := range capture.Attributes {
		if a.IsKnown() {
			known++
		}
	}
	w := c.App.Writer
	fmt.Fprintf(w, "Fingerprint: %016x\n", uint64(capture.Fingerprint))
	fmt.Fprintf(w, "Captured:    %s\n", capture.CapturedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Complete:    %t\n", capture.Complete)
	fmt.Fprintf(w, "Results:     %d (%d known, %d unknown)\n", len(capture.Attributes), known, len(capture.Attributes)-known)
	return nil
}

func setupLogger(c *cli.Context) error {
	return configureLogging(c.String("log-level"))
}

func configureLogging(levelStr string) error {
	// Get log level and normalize to lowercase
	levelStr = strings.ToLower(levelStr)

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
