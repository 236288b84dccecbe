// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"time"

	xglog "github.com/tvsync/rlaxx-sync/internal/log"
	"github.com/tvsync/rlaxx-sync/internal/metrics"
	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
)

// Batches splits ids into consecutive groups of at most size, keeping order.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = rlaxx.MaxChannelsPerEPGRequest
	}
	out := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end:end])
	}
	return out
}

type guideResult struct {
	programmes []rlaxx.Programme
	batches    int
	skipped    int
}

// collectGuide fetches the EPG one batch at a time and concatenates the
// results in batch order. All batches share the window w.
func collectGuide(ctx context.Context, client APIClient, s rlaxx.Session, ids []string, w rlaxx.TimeWindow, policy FailurePolicy) (guideResult, error) {
	logger := xglog.WithComponentFromContext(ctx, "epg")
	started := time.Now()

	var res guideResult
	batches := Batches(ids, rlaxx.MaxChannelsPerEPGRequest)
	for i, batch := range batches {
		progs, err := client.EPG(ctx, s, batch, w)
		res.batches++
		if err != nil {
			metrics.IncEPGRequest("error")
			if policy == PolicySkip && ctx.Err() == nil {
				res.skipped++
				metrics.IncEPGBatchSkipped()
				logger.Warn().
					Err(err).
					Str(xglog.FieldEvent, "epg.batch_skipped").
					Int(xglog.FieldBatch, i+1).
					Int(xglog.FieldBatches, len(batches)).
					Int(xglog.FieldChannels, len(batch)).
					Msg("EPG batch failed, continuing without it")
				continue
			}
			return res, fmt.Errorf("epg batch %d/%d: %w", i+1, len(batches), err)
		}
		metrics.IncEPGRequest("success")
		res.programmes = append(res.programmes, progs...)

		logger.Debug().
			Str(xglog.FieldEvent, "epg.batch").
			Int(xglog.FieldBatch, i+1).
			Int(xglog.FieldBatches, len(batches)).
			Int(xglog.FieldChannels, len(batch)).
			Int(xglog.FieldProgrammes, len(progs)).
			Msg("EPG batch fetched")
	}

	metrics.RecordEPGCollection(len(res.programmes), time.Since(started))
	logger.Info().
		Str(xglog.FieldEvent, "epg.collected").
		Int(xglog.FieldProgrammes, len(res.programmes)).
		Int(xglog.FieldBatches, res.batches).
		Int("skipped_batches", res.skipped).
		Msg("EPG collected")
	return res, nil
}
