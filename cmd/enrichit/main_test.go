package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/enrichit/core"
	"github.com/poiesic/enrichit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findFlag[T cli.Flag](flags []cli.Flag, name string) T {
	var zero T
	for _, flag := range flags {
		if f, ok := flag.(T); ok && flag.Names()[0] == name {
			return f
		}
	}
	return zero
}

func TestRunFlags(t *testing.T) {
	app := newApp()

	t.Run("cached is off by default", func(t *testing.T) {
		f := findFlag[*cli.BoolFlag](app.Flags, "cached")
		require.NotNil(t, f)
		assert.False(t, f.Value)
	})

	t.Run("batch-size defaults to provider limit", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](app.Flags, "batch-size")
		require.NotNil(t, f)
		assert.Equal(t, 10, f.Value)
	})

	t.Run("pace defaults to four seconds", func(t *testing.T) {
		f := findFlag[*cli.DurationFlag](app.Flags, "pace")
		require.NotNil(t, f)
		assert.Equal(t, 4*time.Second, f.Value)
	})

	t.Run("max-attempts defaults to a single attempt", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](app.Flags, "max-attempts")
		require.NotNil(t, f)
		assert.Equal(t, 1, f.Value)
	})

	t.Run("credentials come from the environment", func(t *testing.T) {
		key := findFlag[*cli.StringFlag](app.Flags, "api-key")
		require.NotNil(t, key)
		assert.Equal(t, []string{"APOLLO_API_KEY"}, key.EnvVars)
		assert.Empty(t, key.Value)

		url := findFlag[*cli.StringFlag](app.Flags, "database-url")
		require.NotNil(t, url)
		assert.Equal(t, []string{"ENRICHIT_DATABASE_URL"}, url.EnvVars)
	})
}

func TestRunCommand_Validation(t *testing.T) {
	t.Run("cached and replay are exclusive", func(t *testing.T) {
		err := newApp().Run([]string{"enrichit", "--cached", "--replay"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be combined")
	})

	t.Run("missing config file", func(t *testing.T) {
		err := newApp().Run([]string{"enrichit", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid batch size", func(t *testing.T) {
		err := newApp().Run([]string{"enrichit", "--batch-size", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch_size")
	})
}

func TestRunCommand_StorageUnavailable(t *testing.T) {
	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {} // keep the test process alive
	err := app.Run([]string{
		"enrichit", "--cached",
		"--cache-file", filepath.Join(t.TempDir(), "industries.cached"),
		"--database-url", "postgres://postgres@127.0.0.1:1/postgres?sslmode=disable&connect_timeout=2",
	})
	require.Error(t, err)

	var exit cli.ExitCoder
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.ExitCode())
	assert.Contains(t, err.Error(), "[ERROR] Connection to the customer database failed")
}

func seedCapture(t *testing.T, complete bool) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "captures")
	repo, err := badger.NewCaptureRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.SaveCapture(context.Background(), &core.Capture{
		Fingerprint: core.FingerprintOf([]core.Domain{"x.com", "y.com"}),
		Attributes:  []core.Attribute{core.Known("Tech"), core.Unknown()},
		Complete:    complete,
		CapturedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.Close())
	return dir
}

func TestExportCacheCommand(t *testing.T) {
	t.Run("writes latest capture", func(t *testing.T) {
		dir := seedCapture(t, true)
		cachePath := filepath.Join(t.TempDir(), "industries.cached")

		app := newApp()
		var out bytes.Buffer
		app.Writer = &out
		err := app.Run([]string{"enrichit", "export-cache", "--capture-db", dir, "--cache-file", cachePath})
		require.NoError(t, err)

		data, err := os.ReadFile(cachePath)
		require.NoError(t, err)
		assert.Equal(t, "Tech\nNone\n", string(data))
		assert.Contains(t, out.String(), "Wrote 2 industries")
	})

	t.Run("partial capture needs allow-partial", func(t *testing.T) {
		dir := seedCapture(t, false)
		cachePath := filepath.Join(t.TempDir(), "industries.cached")

		err := newApp().Run([]string{"enrichit", "export-cache", "--capture-db", dir, "--cache-file", cachePath})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "partial")

		app := newApp()
		app.Writer = &bytes.Buffer{}
		err = app.Run([]string{"enrichit", "export-cache", "--capture-db", dir, "--cache-file", cachePath, "--allow-partial"})
		require.NoError(t, err)
	})

	t.Run("capture-db is required", func(t *testing.T) {
		err := newApp().Run([]string{"enrichit", "export-cache"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capture-db")
	})
}

func TestShowCaptureCommand(t *testing.T) {
	dir := seedCapture(t, true)

	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run([]string{"enrichit", "show-capture", "--capture-db", dir})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Captured:    2025-03-01T12:00:00Z")
	assert.Contains(t, out.String(), "Complete:    true")
	assert.Contains(t, out.String(), "Results:     2 (1 known, 1 unknown)")
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				require.NoError(t, configureLogging(tc.input))
				assert.True(t, slog.Default().Enabled(context.Background(), tc.expected))
				assert.False(t, slog.Default().Enabled(context.Background(), tc.expected-1))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				assert.NoError(t, configureLogging(tc))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
