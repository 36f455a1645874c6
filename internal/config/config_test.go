package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Krish948/IronWall/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
paths:
  - C:\Users
  - D:\Shares
size_cap_mb: 50
workers: 8
batch_size: 10
quarantine_dir: /var/lib/ironwall/quarantine
signature_path: /var/lib/ironwall/threat_database.json
history_path: /var/log/ironwall/history.jsonl
deny_dirs:
  - vendor
  - dist
cleanup:
  max_age_days: 30
  max_total_size_mb: 500
cloud:
  enabled: true
  base_url: https://hashes.example.com/api/v3
  api_key: secret
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ironwall.yml"), data, 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, []string{`C:\Users`, `D:\Shares`}, cfg.Paths)
	require.Equal(t, int64(50), cfg.SizeCapMB)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, 10, cfg.BatchSize)
	require.Equal(t, "/var/lib/ironwall/quarantine", cfg.QuarantineDir)
	require.Equal(t, []string{"vendor", "dist"}, cfg.DenyDirs)
	require.Equal(t, 30, cfg.Cleanup.MaxAgeDays)
	require.Equal(t, int64(500), cfg.Cleanup.MaxTotalSizeMB)
	require.True(t, cfg.Cloud.Enabled)
	require.Equal(t, "secret", cfg.Cloud.APIKey)
}

func TestLoadConfigYAMLExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ironwall.yaml"), []byte("workers: 4\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Workers)
}

func TestLoadConfigPrecedence(t *testing.T) {
	// .ironwall.yml takes priority over .ironwall.yaml
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ironwall.yml"), []byte("workers: 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ironwall.yaml"), []byte("workers: 9\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Workers)
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, config.Config{}, cfg)
}

func TestLoadConfigFromFilePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ironwall.yml"), []byte("workers: 3\n"), 0o644))
	target := filepath.Join(dir, "scanme.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	cfg, err := config.Load(target)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Workers)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ironwall.yml"), []byte("{{invalid yaml"), 0o644))

	_, err := config.Load(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing")
}
