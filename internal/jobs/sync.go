// SPDX-License-Identifier: MIT

// Package jobs runs the playlist and guide synchronisation.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tvsync/rlaxx-sync/internal/epg"
	xglog "github.com/tvsync/rlaxx-sync/internal/log"
	"github.com/tvsync/rlaxx-sync/internal/metrics"
	"github.com/tvsync/rlaxx-sync/internal/playlist"
	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
)

// Sync performs one complete run: login → channels → playlist → guide.
// Calls are strictly sequential and each is attempted once. The returned
// Status is never nil; on failure the error is a *SyncError.
func Sync(ctx context.Context, deps Deps) (*Status, error) {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.FileWriter == nil {
		deps.FileWriter = atomicFileWriter{}
	}

	runID := xglog.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = xglog.ContextWithRunID(ctx, runID)
	}
	logger := xglog.WithComponentFromContext(ctx, "jobs")

	status := &Status{
		RunID:        runID,
		StartedAt:    deps.Clock(),
		PlaylistPath: deps.Config.PlaylistPath,
		XMLTVPath:    deps.Config.XMLTVPath,
	}

	err := run(ctx, deps, status, logger)

	status.FinishedAt = deps.Clock()
	status.Duration = status.FinishedAt.Sub(status.StartedAt)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = KindOf(err).outcome()
	}
	metrics.RecordRun(outcome, status.Duration, status.FinishedAt)

	if err != nil {
		return status, err
	}
	logger.Info().
		Str(xglog.FieldEvent, "sync.success").
		Int(xglog.FieldChannels, status.Channels).
		Int(xglog.FieldProgrammes, status.Programmes).
		Int("skipped_batches", status.SkippedBatches).
		Dur("duration", status.Duration).
		Msg("sync completed")
	return status, nil
}

func run(ctx context.Context, deps Deps, status *Status, logger zerolog.Logger) error {
	cfg := deps.Config
	if err := validateConfig(cfg); err != nil {
		return &SyncError{Kind: KindConfig, Stage: "config", Err: err}
	}
	if deps.Client == nil {
		return &SyncError{Kind: KindConfig, Stage: "config", Err: fmt.Errorf("no API client")}
	}
	policy, _ := ParseFailurePolicy(string(cfg.EPGFailurePolicy))

	logger.Info().
		Str(xglog.FieldEvent, "sync.start").
		Str(xglog.FieldRegion, cfg.Region).
		Str(xglog.FieldPolicy, string(policy)).
		Msg("authenticating with Rlaxx API")

	session, err := deps.Client.Login(ctx, rlaxx.NewDeviceIdentity(cfg.Region))
	if err != nil {
		return &SyncError{Kind: KindAuthentication, Stage: "login", Err: err}
	}
	if !session.Valid() {
		return &SyncError{Kind: KindAuthentication, Stage: "login", Err: rlaxx.ErrMissingToken}
	}
	logger.Info().Str(xglog.FieldEvent, "auth.success").Msg("session established")

	channels, err := deps.Client.Channels(ctx, session)
	if err != nil {
		return &SyncError{Kind: KindFetch, Stage: "channels", Err: err}
	}
	status.Channels = len(channels)
	metrics.RecordChannels(len(channels))
	if len(channels) == 0 {
		return &SyncError{Kind: KindEmptyCatalog, Stage: "channels", Err: ErrEmptyCatalog}
	}
	logger.Info().
		Str(xglog.FieldEvent, "channels.fetched").
		Int(xglog.FieldChannels, len(channels)).
		Msg("channel list fetched")

	items := playlistItems(channels)
	if !cfg.AtomicOutputs {
		if err := emitPlaylist(ctx, deps, items, status, logger); err != nil {
			return err
		}
	}

	ids := make([]string, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ID)
	}
	window := rlaxx.NewTimeWindow(deps.Clock())
	guide, err := collectGuide(ctx, deps.Client, session, ids, window, policy)
	status.Batches = guide.batches
	status.SkippedBatches = guide.skipped
	if err != nil {
		return &SyncError{Kind: KindFetch, Stage: "epg", Err: err}
	}
	if cfg.SortProgrammes {
		epg.SortByStart(guide.programmes)
	}
	status.Programmes = len(guide.programmes)

	if cfg.AtomicOutputs {
		if err := emitPlaylist(ctx, deps, items, status, logger); err != nil {
			return err
		}
	}

	tv := epg.GenerateXMLTV(epg.ChannelsFromCatalog(channels), epg.ProgrammesFromEPG(guide.programmes))
	if err := writeXMLTV(ctx, deps.FileWriter, cfg.XMLTVPath, tv); err != nil {
		metrics.IncWriteError("xmltv")
		return &SyncError{Kind: KindWrite, Stage: "xmltv", Err: err}
	}
	status.XMLTVWritten = true
	logger.Info().
		Str(xglog.FieldEvent, "xmltv.write").
		Str(xglog.FieldPath, cfg.XMLTVPath).
		Int(xglog.FieldChannels, len(tv.Channels)).
		Int(xglog.FieldProgrammes, len(tv.Programs)).
		Msg("XMLTV guide written")
	return nil
}

func emitPlaylist(ctx context.Context, deps Deps, items []playlist.Item, status *Status, logger zerolog.Logger) error {
	path := deps.Config.PlaylistPath
	if err := writeM3U(ctx, deps.FileWriter, path, items, deps.Config.PlaylistTVGURL); err != nil {
		metrics.IncWriteError("playlist")
		return &SyncError{Kind: KindWrite, Stage: "playlist", Err: err}
	}
	status.PlaylistWritten = true
	logger.Info().
		Str(xglog.FieldEvent, "playlist.write").
		Str(xglog.FieldPath, path).
		Int(xglog.FieldChannels, len(items)).
		Msg("playlist written")
	return nil
}

func playlistItems(channels []rlaxx.Channel) []playlist.Item {
	items := make([]playlist.Item, 0, len(channels))
	for _, ch := range channels {
		items = append(items, playlist.Item{
			Name:    ch.Name,
			TvgID:   ch.ID,
			TvgLogo: ch.Logo,
			URL:     ch.StreamURL(),
		})
	}
	return items
}
