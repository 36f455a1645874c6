package ironwall_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	ironwall "github.com/Krish948/IronWall"
	"github.com/Krish948/IronWall/internal/config"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestOneShotScan(t *testing.T) {
	dataDir := t.TempDir()
	root := writeTree(t, map[string]string{
		"clean.txt":     "grocery list\n",
		"installer.bat": "reg add HKEY_LOCAL_MACHINE\\Software\\Run /v x\n",
	})

	report, err := ironwall.Scan(context.Background(), root, ironwall.WithDataDir(dataDir))
	require.NoError(t, err)
	require.Equal(t, 2, report.Summary.FilesScanned)
	require.Equal(t, 1, report.Summary.ThreatsFound)
	require.Len(t, report.Results, 2)

	var threat *ironwall.Result
	for i := range report.Results {
		if report.Results[i].Classification.Verdict.IsThreat() {
			threat = &report.Results[i]
		}
	}
	require.NotNil(t, threat)
	require.Equal(t, ironwall.VerdictPatternMatch, threat.Classification.Verdict)
	require.NotEmpty(t, threat.QuarantineID)

	// the quarantine lives under the data directory
	entries, err := os.ReadDir(filepath.Join(dataDir, "quarantine"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}

func TestEngineAccessors(t *testing.T) {
	engine, err := ironwall.New(ironwall.WithDataDir(t.TempDir()))
	require.NoError(t, err)

	require.NotNil(t, engine.Signatures())
	require.NotNil(t, engine.Quarantine())
	require.NotNil(t, engine.Session())

	// the seeded corpus is reachable through the engine handle
	_, ok := engine.Signatures().CheckHash("a1b2c3d4e5f678901234567890123456")
	require.True(t, ok)
}

func TestEngineScanWithHistory(t *testing.T) {
	dataDir := t.TempDir()
	historyPath := filepath.Join(dataDir, "history.jsonl")
	root := writeTree(t, map[string]string{
		"wipe.bat": "del /s /q C:\\Users\\*\n",
	})

	engine, err := ironwall.New(
		ironwall.WithDataDir(dataDir),
		ironwall.WithHistoryPath(historyPath),
	)
	require.NoError(t, err)

	sum, err := engine.Scan(context.Background(), []string{root}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, sum.ThreatsFound)

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"threat"`)
	require.Contains(t, string(data), `"kind":"summary"`)
}

func TestFromConfig(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config.Config{
		Workers:       2,
		BatchSize:     4,
		SizeCapMB:     1,
		QuarantineDir: filepath.Join(dataDir, "custom-q"),
	}
	root := writeTree(t, map[string]string{
		"wipe.bat": "del /s /q C:\\\n",
	})

	engine, err := ironwall.New(ironwall.WithDataDir(dataDir), ironwall.FromConfig(cfg))
	require.NoError(t, err)

	sum, err := engine.Scan(context.Background(), []string{root}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, sum.ThreatsFound)

	entries, err := os.ReadDir(filepath.Join(dataDir, "custom-q"))
	require.NoError(t, err)
	require.NotEmpty(t, entries)
}
