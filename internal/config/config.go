// SPDX-License-Identifier: MIT

// Package config loads the rlaxx-sync settings from defaults, an optional
// YAML file and RLAXX_* environment variables, in that order.
package config

import (
	"time"

	"github.com/tvsync/rlaxx-sync/internal/jobs"
	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
)

const (
	DefaultRegion       = "GB"
	DefaultPlaylistPath = "rlaxx_playlist.m3u"
	DefaultXMLTVPath    = "rlaxx_guide.xml"
	DefaultLoginDelay   = 2 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"

	MinTimeout = time.Second
	MaxTimeout = 120 * time.Second
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Region         string
	APIBase        string
	PlaylistPath   string
	XMLTVPath      string
	PlaylistTVGURL string

	Timeout         time.Duration
	LoginDelay      time.Duration
	RequestInterval time.Duration // minimum gap between upstream calls, 0 disables pacing

	EPGFailurePolicy string
	SortProgrammes   bool
	AtomicOutputs    bool

	LogLevel    string
	LogFormat   string
	MetricsFile string // Prometheus textfile written after each run, empty disables
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Region:           DefaultRegion,
		APIBase:          rlaxx.DefaultBaseURL,
		PlaylistPath:     DefaultPlaylistPath,
		XMLTVPath:        DefaultXMLTVPath,
		Timeout:          rlaxx.DefaultTimeout,
		LoginDelay:       DefaultLoginDelay,
		EPGFailurePolicy: string(jobs.PolicyAbort),
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}
}

// JobsConfig returns the subset consumed by jobs.Sync.
func (c Config) JobsConfig() jobs.Config {
	policy, _ := jobs.ParseFailurePolicy(c.EPGFailurePolicy)
	return jobs.Config{
		Region:           c.Region,
		PlaylistPath:     c.PlaylistPath,
		XMLTVPath:        c.XMLTVPath,
		PlaylistTVGURL:   c.PlaylistTVGURL,
		EPGFailurePolicy: policy,
		SortProgrammes:   c.SortProgrammes,
		AtomicOutputs:    c.AtomicOutputs,
	}
}
