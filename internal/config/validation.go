// SPDX-License-Identifier: MIT

package config

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/tvsync/rlaxx-sync/internal/jobs"
	"github.com/tvsync/rlaxx-sync/internal/validate"
)

// Validate checks a resolved Config.
func Validate(cfg Config) error {
	v := validate.New()

	v.NotEmpty("Region", cfg.Region)
	v.URL("APIBase", cfg.APIBase, []string{"http", "https"})
	if cfg.PlaylistTVGURL != "" {
		v.URL("PlaylistTVGURL", cfg.PlaylistTVGURL, []string{"http", "https"})
	}

	v.OutputFile("PlaylistPath", cfg.PlaylistPath)
	v.OutputFile("XMLTVPath", cfg.XMLTVPath)
	v.Distinct("PlaylistPath", cfg.PlaylistPath, "XMLTVPath", cfg.XMLTVPath)
	if cfg.MetricsFile != "" {
		v.OutputFile("MetricsFile", cfg.MetricsFile)
	}

	v.DurationRange("Timeout", cfg.Timeout, MinTimeout, MaxTimeout)
	v.NonNegativeDuration("LoginDelay", cfg.LoginDelay)
	v.NonNegativeDuration("RequestInterval", cfg.RequestInterval)

	v.Custom("EPGFailurePolicy", cfg.EPGFailurePolicy, func(val any) error {
		_, err := jobs.ParseFailurePolicy(val.(string))
		return err
	})

	v.Custom("LogLevel", cfg.LogLevel, func(val any) error {
		_, err := zerolog.ParseLevel(strings.ToLower(val.(string)))
		return err
	})
	v.OneOf("LogFormat", strings.ToLower(cfg.LogFormat), []string{"json", "console"})

	return v.Err()
}
