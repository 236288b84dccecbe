// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader; configPath may be empty.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return strings.TrimSpace(ParseString(key, defaultVal))
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults, then
// validates the result.
func (l *Loader) Load() (Config, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", l.configPath, err)
		}
	}

	l.mergeEnvConfig(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// loadFile decodes a single strict YAML document. Unknown keys are errors.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(dst *Config, src *FileConfig) error {
	setString(&dst.Region, src.Region)
	setString(&dst.APIBase, src.APIBase)
	setString(&dst.PlaylistPath, src.PlaylistPath)
	setString(&dst.XMLTVPath, src.XMLTVPath)
	setString(&dst.PlaylistTVGURL, src.PlaylistTVGURL)
	setString(&dst.MetricsFile, src.MetricsFile)

	for _, d := range []struct {
		key string
		dst *time.Duration
		src *string
	}{
		{"timeout", &dst.Timeout, src.Timeout},
		{"login_delay", &dst.LoginDelay, src.LoginDelay},
		{"request_interval", &dst.RequestInterval, src.RequestInterval},
	} {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(*d.src))
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}

	if src.EPG != nil {
		setString(&dst.EPGFailurePolicy, src.EPG.FailurePolicy)
		setBool(&dst.SortProgrammes, src.EPG.SortProgrammes)
		setBool(&dst.AtomicOutputs, src.EPG.AtomicOutputs)
	}
	if src.Log != nil {
		setString(&dst.LogLevel, src.Log.Level)
		setString(&dst.LogFormat, src.Log.Format)
	}
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *Config) {
	cfg.Region = l.envString("RLAXX_REGION", cfg.Region)
	cfg.APIBase = l.envString("RLAXX_API_BASE", cfg.APIBase)
	cfg.PlaylistPath = l.envString("RLAXX_PLAYLIST_PATH", cfg.PlaylistPath)
	cfg.XMLTVPath = l.envString("RLAXX_XMLTV_PATH", cfg.XMLTVPath)
	cfg.PlaylistTVGURL = l.envString("RLAXX_PLAYLIST_TVG_URL", cfg.PlaylistTVGURL)

	cfg.Timeout = l.envDuration("RLAXX_TIMEOUT", cfg.Timeout)
	cfg.LoginDelay = l.envDuration("RLAXX_LOGIN_DELAY", cfg.LoginDelay)
	cfg.RequestInterval = l.envDuration("RLAXX_REQUEST_INTERVAL", cfg.RequestInterval)

	cfg.EPGFailurePolicy = l.envString("RLAXX_EPG_FAILURE_POLICY", cfg.EPGFailurePolicy)
	cfg.SortProgrammes = l.envBool("RLAXX_SORT_PROGRAMMES", cfg.SortProgrammes)
	cfg.AtomicOutputs = l.envBool("RLAXX_ATOMIC_OUTPUTS", cfg.AtomicOutputs)

	cfg.LogLevel = l.envString("RLAXX_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = l.envString("RLAXX_LOG_FORMAT", cfg.LogFormat)
	cfg.MetricsFile = l.envString("RLAXX_METRICS_FILE", cfg.MetricsFile)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
