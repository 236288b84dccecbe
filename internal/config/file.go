// SPDX-License-Identifier: MIT

package config

// FileConfig mirrors the YAML file. Pointer fields distinguish "unset" from
// the zero value so that an explicit false or empty string still overrides.
type FileConfig struct {
	Region         *string `yaml:"region"`
	APIBase        *string `yaml:"api_base"`
	PlaylistPath   *string `yaml:"playlist_path"`
	XMLTVPath      *string `yaml:"xmltv_path"`
	PlaylistTVGURL *string `yaml:"playlist_tvg_url"`

	Timeout         *string `yaml:"timeout"`
	LoginDelay      *string `yaml:"login_delay"`
	RequestInterval *string `yaml:"request_interval"`

	EPG *EPGFileConfig `yaml:"epg"`
	Log *LogFileConfig `yaml:"log"`

	MetricsFile *string `yaml:"metrics_file"`
}

type EPGFileConfig struct {
	FailurePolicy  *string `yaml:"failure_policy"`
	SortProgrammes *bool   `yaml:"sort_programmes"`
	AtomicOutputs  *bool   `yaml:"atomic_outputs"`
}

type LogFileConfig struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}
