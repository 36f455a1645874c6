package classifier_test

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Krish948/IronWall/internal/classifier"
	"github.com/Krish948/IronWall/internal/cloud"
	"github.com/Krish948/IronWall/internal/signature"
	"github.com/Krish948/IronWall/internal/types"
	"github.com/stretchr/testify/require"
)

func newSnapshot(t *testing.T) signature.Snapshot {
	t.Helper()
	store, err := signature.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return store.Snapshot()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestClassifyClean(t *testing.T) {
	snap := newSnapshot(t)
	path := writeFile(t, "notes.txt", []byte("meeting at noon\nbring the slides\n"))

	rec, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, types.VerdictClean, cls.Verdict)
	require.Equal(t, types.HeuristicNone, cls.Heuristic)
	require.Equal(t, "notes.txt", rec.Name)
	require.Equal(t, ".txt", rec.Extension)
	require.Equal(t, "text/plain", rec.TypeGuess)
	require.Len(t, rec.MD5, 32)
	require.Len(t, rec.SHA256, 64)
	require.False(t, rec.Obfuscated)
}

func TestClassifyIsDeterministic(t *testing.T) {
	snap := newSnapshot(t)
	path := writeFile(t, "same.txt", []byte("identical content"))

	rec1, cls1, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	rec2, cls2, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, rec1, rec2)
	require.Equal(t, cls1, cls2)
}

func TestClassifyKnownHash(t *testing.T) {
	store, err := signature.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	content := []byte("sample body that hashes to a known digest")
	digest := md5.Sum(content)
	require.NoError(t, store.Add(hex.EncodeToString(digest[:]), signature.Entry{
		Name: "Test_Threat", Family: "Trojan", Severity: types.SeverityHigh,
	}))

	path := writeFile(t, "dropper.bin", content)
	rec, cls, err := classifier.Classify(context.Background(), store.Snapshot(), path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, types.VerdictKnownThreat, cls.Verdict)
	require.Equal(t, "Trojan: Test_Threat", cls.Label)
	require.Equal(t, rec.MD5, cls.Evidence)
	require.Equal(t, types.SeverityHigh, cls.Severity)
}

func TestClassifyPatternMatchInScript(t *testing.T) {
	snap := newSnapshot(t)
	path := writeFile(t, "wipe.bat", []byte("@echo off\ndel /s /q C:\\Users\\*\n"))

	_, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, types.VerdictPatternMatch, cls.Verdict)
	require.Equal(t, types.SeverityCritical, cls.Severity)
	require.Contains(t, cls.Evidence, "destructive-command")
}

func TestClassifyMarkdownThreatURL(t *testing.T) {
	snap := newSnapshot(t)
	path := writeFile(t, "readme.md", []byte("Click [here](http://updates.evil.top/payload) for the update.\n"))

	_, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, types.VerdictPatternMatch, cls.Verdict)
	require.Contains(t, cls.Evidence, "suspicious-url")
}

func TestClassifySizeCapBoundary(t *testing.T) {
	snap := newSnapshot(t)
	opts := classifier.Options{SizeCap: 64}

	atCap := writeFile(t, "exact.txt", make([]byte, 64))
	_, cls, err := classifier.Classify(context.Background(), snap, atCap, opts)
	require.NoError(t, err)
	require.Equal(t, types.VerdictClean, cls.Verdict)

	over := writeFile(t, "over.txt", make([]byte, 65))
	_, _, err = classifier.Classify(context.Background(), snap, over, opts)
	require.ErrorIs(t, err, types.ErrOversized)
}

func TestClassifyMissingFile(t *testing.T) {
	snap := newSnapshot(t)
	_, _, err := classifier.Classify(context.Background(), snap,
		filepath.Join(t.TempDir(), "gone.txt"), classifier.Options{})
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestClassifyExecutableWithWrongExtension(t *testing.T) {
	snap := newSnapshot(t)
	// PE content under a registry-file extension
	path := writeFile(t, "update.reg", append([]byte("MZ\x90\x00"), make([]byte, 128)...))

	_, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, types.VerdictSuspiciousExtension, cls.Verdict)
	require.Equal(t, "Executable with Wrong Extension", cls.Label)
	require.Equal(t, types.SeverityHigh, cls.Severity)
}

func TestClassifyOversizedScript(t *testing.T) {
	snap := newSnapshot(t)
	body := strings.Repeat("rem padding line\n", 70000) // > 1 MB
	path := writeFile(t, "huge.vbs", []byte(body))

	_, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, types.VerdictSuspiciousExtension, cls.Verdict)
	require.Equal(t, "Oversized Script", cls.Label)
}

func TestClassifyBinaryHeaderStrings(t *testing.T) {
	snap := newSnapshot(t)
	content := append([]byte("MZ\x90\x00"), []byte("...CreateRemoteThread...")...)
	path := writeFile(t, "svc.exe", content)

	_, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, types.VerdictBinaryHeuristic, cls.Verdict)
	require.Equal(t, "CreateRemoteThread", cls.Evidence)
	require.Equal(t, types.SeverityMedium, cls.Severity)
}

func TestClassifyHighEntropyTag(t *testing.T) {
	snap := newSnapshot(t)
	data := make([]byte, 64<<10)
	_, err := rand.Read(data)
	require.NoError(t, err)
	path := writeFile(t, "blob.bin", data)

	rec, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, types.VerdictClean, cls.Verdict)
	require.Equal(t, types.HeuristicHighEntropy, cls.Heuristic)
	require.Greater(t, rec.Entropy, 7.5)
}

func TestClassifyObfuscatedTag(t *testing.T) {
	snap := newSnapshot(t)
	body := "x = \"" + strings.Repeat("A", 300) + "\"\n"
	path := writeFile(t, "packed.ps1", []byte(body))

	rec, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{})
	require.NoError(t, err)
	require.True(t, rec.Obfuscated)
	require.Equal(t, types.HeuristicObfuscated, cls.Heuristic)
}

func TestClassifyCloudLookup(t *testing.T) {
	snap := newSnapshot(t)
	path := writeFile(t, "blob.bin", []byte("unremarkable bytes"))

	hit := cloud.LookupFunc(func(ctx context.Context, digest string) (*cloud.Result, error) {
		return &cloud.Result{Name: "Cloud_Threat", Family: "Spyware", Positive: true}, nil
	})
	_, cls, err := classifier.Classify(context.Background(), snap, path, classifier.Options{Cloud: hit})
	require.NoError(t, err)
	require.Equal(t, types.VerdictKnownThreat, cls.Verdict)
	require.Equal(t, "Spyware: Cloud_Threat", cls.Label)

	down := cloud.LookupFunc(func(ctx context.Context, digest string) (*cloud.Result, error) {
		return nil, fmt.Errorf("service unavailable")
	})
	_, cls, err = classifier.Classify(context.Background(), snap, path, classifier.Options{Cloud: down})
	require.NoError(t, err)
	require.Equal(t, types.VerdictClean, cls.Verdict)
}
