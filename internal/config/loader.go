package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name searched for in
// the current and home directories.
const DefaultConfigFile = ".clutchscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
// Callers decide whether that matters: a missing default file is fine, a
// missing explicitly specified file is not.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile applies settings from a YAML file on top of cfg.
// Fields absent from the file keep their current values.
func LoadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return nil
}

// FindConfigFile searches for the configuration file:
// 1. The explicit path, if given
// 2. .clutchscan in the current directory
// 3. .clutchscan in the user's home directory
//
// Returns the path if found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// ApplyEnv overrides cfg from CLUTCHSCAN_* environment variables.
// Unparseable values are ignored rather than fatal: the environment is the
// least explicit configuration layer, and Validate() still catches values
// that are out of range.
func ApplyEnv(cfg *Config) {
	if v, ok := envDuration("CLUTCHSCAN_MIN_DELAY"); ok {
		cfg.MinDelay = v
	}
	if v, ok := envDuration("CLUTCHSCAN_MAX_DELAY"); ok {
		cfg.MaxDelay = v
	}
	if v, ok := envDuration("CLUTCHSCAN_TIMEOUT"); ok {
		cfg.Timeout = v
	}
	if v, ok := envInt("CLUTCHSCAN_MAX_RETRIES"); ok {
		cfg.MaxRetries = v
	}
	if v, ok := envInt("CLUTCHSCAN_MAX_PAGES"); ok {
		cfg.MaxPagesPerCategory = v
	}
	if v, ok := envInt("CLUTCHSCAN_MAX_COMPANIES"); ok {
		cfg.MaxCompaniesPerPage = v
	}
	if v, ok := envInt("CLUTCHSCAN_MAX_REVIEWS"); ok {
		cfg.MaxReviewsPerCompany = v
	}
	if v, ok := envInt("CLUTCHSCAN_CONCURRENCY"); ok {
		cfg.Concurrency = v
	}
	if v := os.Getenv("CLUTCHSCAN_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("CLUTCHSCAN_TARGET_CATEGORIES"); v != "" {
		cfg.Targets.Include = splitList(v)
	}
	if v := os.Getenv("CLUTCHSCAN_SKIP_CATEGORIES"); v != "" {
		cfg.Targets.Skip = splitList(v)
	}
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Plain numbers are treated as seconds for compatibility with
		// the original tool's environment format.
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), true
		}
		return 0, false
	}
	return d, true
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
