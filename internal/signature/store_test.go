package signature_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Krish948/IronWall/internal/rules"
	"github.com/Krish948/IronWall/internal/signature"
	"github.com/Krish948/IronWall/internal/types"
	"github.com/stretchr/testify/require"
)

const wannaCryDigest = "a1b2c3d4e5f678901234567890123456"

func openStore(t *testing.T) (*signature.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "threat_database.json")
	store, err := signature.Open(path)
	require.NoError(t, err)
	return store, path
}

func TestOpenSeedsDefaults(t *testing.T) {
	store, _ := openStore(t)

	entry, ok := store.CheckHash(wannaCryDigest)
	require.True(t, ok)
	require.Equal(t, "WannaCry_Ransomware", entry.Name)
	require.Equal(t, "Ransomware", entry.Family)
	require.Equal(t, types.SeverityCritical, entry.Severity)

	st := store.Stats()
	require.Equal(t, 12, st.Hashes)
	require.NotZero(t, st.Rules)
	require.Equal(t, 3, st.Families["Ransomware"])
}

func TestOpenCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threat_database.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := signature.Open(path)
	require.NoError(t, err)
	_, ok := store.CheckHash(wannaCryDigest)
	require.True(t, ok)
}

func TestAddPersistsAndReloads(t *testing.T) {
	store, path := openStore(t)

	digest := "ffffffffffffffffffffffffffffffff"
	require.NoError(t, store.Add(digest, signature.Entry{
		Name: "Custom_Threat", Family: "Trojan", Severity: types.SeverityHigh,
	}))

	reopened, err := signature.Open(path)
	require.NoError(t, err)
	entry, ok := reopened.CheckHash(digest)
	require.True(t, ok)
	require.Equal(t, "Custom_Threat", entry.Name)
	require.False(t, entry.AddedAt.IsZero())
}

func TestUserEditsSurviveReseeding(t *testing.T) {
	store, path := openStore(t)
	require.NoError(t, store.Add(wannaCryDigest, signature.Entry{
		Name: "Renamed", Family: "Ransomware", Severity: types.SeverityLow,
	}))

	reopened, err := signature.Open(path)
	require.NoError(t, err)
	entry, ok := reopened.CheckHash(wannaCryDigest)
	require.True(t, ok)
	require.Equal(t, "Renamed", entry.Name)
	require.Equal(t, types.SeverityLow, entry.Severity)
}

func TestRemove(t *testing.T) {
	store, path := openStore(t)

	digest := "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
	require.NoError(t, store.Add(digest, signature.Entry{Name: "X"}))
	require.NoError(t, store.Remove(digest))
	_, ok := store.CheckHash(digest)
	require.False(t, ok)

	err := store.Remove(digest)
	require.ErrorIs(t, err, types.ErrNotFound)

	// removal is persisted, but defaults reseed on reload
	reopened, err := signature.Open(path)
	require.NoError(t, err)
	_, ok = reopened.CheckHash(digest)
	require.False(t, ok)
}

func TestPatterns(t *testing.T) {
	store, _ := openStore(t)

	require.NoError(t, store.AddPattern("evil_payload"))
	require.NoError(t, store.AddPattern("evil_payload")) // duplicate ignored

	matches := store.CheckPatterns("found EVIL_PAYLOAD in here")
	var flat []signature.Match
	for _, m := range matches {
		if m.RuleID == "signature" {
			flat = append(flat, m)
		}
	}
	require.Len(t, flat, 1)
	require.Equal(t, "evil_payload", flat[0].Matched)
	require.Equal(t, types.SeverityMedium, flat[0].Severity)

	require.NoError(t, store.RemovePattern("evil_payload"))
	err := store.RemovePattern("evil_payload")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCheckPatternsDestructiveCommand(t *testing.T) {
	store, _ := openStore(t)

	matches := store.CheckPatterns(`@echo off
del /s /q C:\Users\*
`)
	require.NotEmpty(t, matches)
	require.Equal(t, rules.CategoryDestructive, matches[0].Category)
	require.Equal(t, types.SeverityCritical, matches[0].Severity)
	require.Contains(t, matches[0].Matched, "del")
}

func TestCheckPatternsReturnsEveryCategory(t *testing.T) {
	store, _ := openStore(t)

	text := "del /s /q C:\\ and reg add HKLM\\Software\\Microsoft\\Windows\\CurrentVersion\\Run"
	matches := store.CheckPatterns(text)

	seen := make(map[string]bool)
	for _, m := range matches {
		seen[m.Category] = true
	}
	require.True(t, seen[rules.CategoryDestructive])
	require.True(t, seen[rules.CategoryPersistence])
}

func TestSnapshotIsImmutable(t *testing.T) {
	store, _ := openStore(t)
	snap := store.Snapshot()

	digest := "dddddddddddddddddddddddddddddddd"
	require.NoError(t, store.Add(digest, signature.Entry{Name: "Late"}))
	require.NoError(t, store.AddPattern("late_pattern"))

	_, ok := snap.CheckHash(digest)
	require.False(t, ok)
	require.Empty(t, snap.CheckPatterns("late_pattern"))

	_, ok = store.Snapshot().CheckHash(digest)
	require.True(t, ok)
}

func TestSaveRejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real.json")
	require.NoError(t, os.WriteFile(real, []byte("{}"), 0o600))
	link := filepath.Join(dir, "threat_database.json")
	require.NoError(t, os.Symlink(real, link))

	store, err := signature.Open(link)
	require.NoError(t, err)

	err = store.Add("cccccccccccccccccccccccccccccccc", signature.Entry{Name: "X"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "symlink")
}

func TestStoreFileShape(t *testing.T) {
	store, path := openStore(t)
	require.NoError(t, store.AddPattern("marker"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var f struct {
		Version  string          `json:"version"`
		Hashes   json.RawMessage `json:"hashes"`
		Patterns []string        `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal(data, &f))
	require.Equal(t, "1.0", f.Version)
	require.NotEmpty(t, f.Hashes)
	require.Equal(t, []string{"marker"}, f.Patterns)
}

func TestEntriesReturnsCopy(t *testing.T) {
	store, _ := openStore(t)
	entries := store.Entries()
	delete(entries, wannaCryDigest)

	_, ok := store.CheckHash(wannaCryDigest)
	require.True(t, ok)
}

func TestOpenWithCustomRules(t *testing.T) {
	compiled, err := rules.CompileAll([]rules.RawRule{{
		ID: "ONLY", Name: "Only Rule", Severity: "high", Category: "custom",
		Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "unique-marker"}},
	}})
	require.NoError(t, err)

	store, err := signature.Open(filepath.Join(t.TempDir(), "db.json"), signature.WithRules(compiled))
	require.NoError(t, err)

	require.NotEmpty(t, store.CheckPatterns("unique-marker"))
	require.Empty(t, store.CheckPatterns("del /s /q c:"))
}
