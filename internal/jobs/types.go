// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
)

// FailurePolicy decides what happens when one EPG batch fails.
type FailurePolicy string

const (
	// PolicyAbort stops at the first failed batch; no guide is written.
	PolicyAbort FailurePolicy = "abort"
	// PolicySkip drops the failed batch and continues with the next one.
	PolicySkip FailurePolicy = "skip"
)

// ParseFailurePolicy accepts "abort" or "skip"; empty means abort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyAbort, nil
	case PolicyAbort, PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown EPG failure policy %q (want abort or skip)", s)
	}
}

// APIClient is the part of the Rlaxx API a sync run needs.
type APIClient interface {
	Login(ctx context.Context, id rlaxx.DeviceIdentity) (rlaxx.Session, error)
	Channels(ctx context.Context, s rlaxx.Session) ([]rlaxx.Channel, error)
	EPG(ctx context.Context, s rlaxx.Session, channelIDs []string, w rlaxx.TimeWindow) ([]rlaxx.Programme, error)
}

// Config holds the settings of one sync run.
type Config struct {
	Region           string
	PlaylistPath     string
	XMLTVPath        string
	PlaylistTVGURL   string        // optional guide reference in the playlist header
	EPGFailurePolicy FailurePolicy // abort (default) or skip
	SortProgrammes   bool          // order programmes by start time instead of batch order
	AtomicOutputs    bool          // write the playlist only once the guide is complete
}

// Deps holds all dependencies for a sync run.
type Deps struct {
	Config     Config
	Client     APIClient
	FileWriter FileWriter       // defaults to renameio-backed atomic writes
	Clock      func() time.Time // defaults to time.Now
}

// Status summarises a sync run. Sync returns it even when the run fails.
type Status struct {
	RunID           string        `json:"run_id"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
	Duration        time.Duration `json:"duration"`
	Channels        int           `json:"channels"`
	Programmes      int           `json:"programmes"`
	Batches         int           `json:"batches"`
	SkippedBatches  int           `json:"skipped_batches"`
	PlaylistPath    string        `json:"playlist_path,omitempty"`
	XMLTVPath       string        `json:"xmltv_path,omitempty"`
	PlaylistWritten bool          `json:"playlist_written"`
	XMLTVWritten    bool          `json:"xmltv_written"`
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Region) == "" {
		return fmt.Errorf("region is empty")
	}
	if strings.TrimSpace(cfg.PlaylistPath) == "" {
		return fmt.Errorf("playlist path is empty")
	}
	if strings.TrimSpace(cfg.XMLTVPath) == "" {
		return fmt.Errorf("xmltv path is empty")
	}
	if cfg.PlaylistPath == cfg.XMLTVPath {
		return fmt.Errorf("playlist and xmltv paths must differ (%q)", cfg.PlaylistPath)
	}
	if _, err := ParseFailurePolicy(string(cfg.EPGFailurePolicy)); err != nil {
		return err
	}
	return nil
}
