// SPDX-License-Identifier: MIT

// Command rlaxx-sync logs in to the Rlaxx live-TV API, fetches the channel
// catalog and 24 hours of guide data, and writes an M3U playlist plus an
// XMLTV guide.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/tvsync/rlaxx-sync/internal/config"
	"github.com/tvsync/rlaxx-sync/internal/jobs"
	xglog "github.com/tvsync/rlaxx-sync/internal/log"
	"github.com/tvsync/rlaxx-sync/internal/metrics"
	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
	"github.com/tvsync/rlaxx-sync/internal/version"
	"golang.org/x/time/rate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rlaxx-sync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print version and exit")
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	}

	// Safe defaults until config is loaded
	xglog.Configure(xglog.Config{
		Level:   "info",
		Format:  config.DefaultLogFormat,
		Output:  stderr,
		Version: version.Version,
	})
	logger := xglog.WithComponent("cli")

	path := strings.TrimSpace(*configPath)
	cfg, err := config.NewLoader(path).Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str(xglog.FieldPath, path).
			Msg("failed to load configuration")
		return 1
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  stderr,
		Version: version.Version,
	})
	logger = xglog.WithComponent("cli")
	source := "env+defaults"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str("source", source).
		Str(xglog.FieldPlaylistPath, cfg.PlaylistPath).
		Str(xglog.FieldXMLTVPath, cfg.XMLTVPath).
		Msg("configuration loaded")

	opts := rlaxx.Options{
		BaseURL:    cfg.APIBase,
		Timeout:    cfg.Timeout,
		LoginDelay: cfg.LoginDelay,
	}
	if cfg.RequestInterval > 0 {
		opts.Limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}
	client := rlaxx.New(opts)
	logger.Info().
		Str(xglog.FieldEvent, "client.ready").
		Str(xglog.FieldBaseURL, client.BaseURL()).
		Dur("request_interval", cfg.RequestInterval).
		Msg("upstream client configured")

	status, err := jobs.Sync(ctx, jobs.Deps{
		Config: cfg.JobsConfig(),
		Client: client,
	})
	code := exitCode(logger, err)

	if cfg.MetricsFile != "" {
		if merr := metrics.WriteTextfile(cfg.MetricsFile); merr != nil {
			logger.Warn().
				Err(merr).
				Str(xglog.FieldEvent, "metrics.write_failed").
				Str(xglog.FieldPath, cfg.MetricsFile).
				Msg("failed to write metrics textfile")
		}
	}

	if code == 0 && err == nil {
		_, _ = fmt.Fprintf(stdout, "Wrote %d channels to %s and %d programmes to %s\n",
			status.Channels, status.PlaylistPath, status.Programmes, status.XMLTVPath)
	}
	return code
}

// exitCode logs a failed run and maps it to the process exit status.
func exitCode(logger zerolog.Logger, err error) int {
	if err == nil {
		return 0
	}
	switch kind := jobs.KindOf(err); kind {
	case jobs.KindEmptyCatalog:
		logger.Warn().
			Str(xglog.FieldEvent, "sync.empty_catalog").
			Msg("no channels returned, nothing written")
		return 0
	case jobs.KindConfig, jobs.KindAuthentication, jobs.KindFetch, jobs.KindWrite:
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "sync.failed").
			Str("kind", kind.String()).
			Msg("sync failed")
		return 1
	default:
		logger.Error().Err(err).Str(xglog.FieldEvent, "sync.failed").Msg("sync failed")
		return 1
	}
}
