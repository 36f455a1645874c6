// Package config loads and applies .ironwall.yml configuration files
// for scan settings, quarantine placement, and cleanup policy.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CleanupPolicy configures automatic quarantine cleanup.
type CleanupPolicy struct {
	MaxAgeDays     int   `yaml:"max_age_days,omitempty"`
	MaxTotalSizeMB int64 `yaml:"max_total_size_mb,omitempty"`
}

// CloudLookup configures the optional hash reputation service.
type CloudLookup struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
}

// Config represents the .ironwall.yml configuration file.
type Config struct {
	Paths         []string      `yaml:"paths,omitempty"`
	SizeCapMB     int64         `yaml:"size_cap_mb,omitempty"`
	Workers       int           `yaml:"workers,omitempty"`
	BatchSize     int           `yaml:"batch_size,omitempty"`
	QuarantineDir string        `yaml:"quarantine_dir,omitempty"`
	SignaturePath string        `yaml:"signature_path,omitempty"`
	HistoryPath   string        `yaml:"history_path,omitempty"`
	DenyDirs      []string      `yaml:"deny_dirs,omitempty"`
	Cleanup       CleanupPolicy `yaml:"cleanup,omitempty"`
	Cloud         CloudLookup   `yaml:"cloud,omitempty"`
}

// Load reads the .ironwall.yml or .ironwall.yaml config file from the
// given directory. If path is a file, its parent directory is used. If
// no config file is found, it returns a zero Config (not an error).
func Load(dir string) (Config, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for _, name := range []string{".ironwall.yml", ".ironwall.yaml"} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		if info.Size() > 1<<20 {
			return Config{}, fmt.Errorf("config file too large: %s (%d bytes, max 1 MB)", path, info.Size())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}
	return Config{}, nil
}

// DefaultDataDir returns the default directory for the signature store,
// quarantine, and history files (~/.ironwall).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ironwall"
	}
	return filepath.Join(home, ".ironwall")
}
