// Package classifier inspects one file at a time and produces a verdict.
// Classification is stateless and safe to call from many workers
// concurrently; the only inputs are the path and an immutable signature
// store snapshot.
package classifier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Krish948/IronWall/internal/cloud"
	"github.com/Krish948/IronWall/internal/signature"
	"github.com/Krish948/IronWall/internal/types"
)

// DefaultSizeCap is the per-file scan limit. Files over the cap are
// skipped with no verdict.
const DefaultSizeCap = 100 << 20 // 100 MB

// Per-class size anomaly thresholds.
const (
	oversizedExecutable = 50 << 20 // .exe
	oversizedLibrary    = 10 << 20 // .dll
	oversizedScript     = 1 << 20  // script-class
)

// Options tune a single classification call.
type Options struct {
	// SizeCap bounds file size; zero means DefaultSizeCap.
	SizeCap int64
	// Cloud, when set, is consulted after a local signature miss.
	// Its errors are swallowed; a scan never fails because the
	// reputation service is down.
	Cloud cloud.Lookup
}

func (o Options) sizeCap() int64 {
	if o.SizeCap > 0 {
		return o.SizeCap
	}
	return DefaultSizeCap
}

// Classify inspects the file at path against the signature snapshot.
// A nil error always carries both a record and a classification. A
// non-nil error means the file was skipped with no verdict: missing
// paths return types.ErrNotFound, files over the cap types.ErrOversized,
// and read failures the wrapped I/O error.
func Classify(ctx context.Context, snap signature.Snapshot, path string, opts Options) (*types.FileRecord, *types.Classification, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%s: %w", path, types.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("%s: is a directory", path)
	}
	if info.Size() > opts.sizeCap() {
		return nil, nil, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), types.ErrOversized)
	}

	ext := extOf(path)
	record := &types.FileRecord{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      info.Size(),
		Extension: ext,
		TypeGuess: guessType(ext),
	}

	dig, err := digestFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	record.MD5 = dig.md5Hex
	record.SHA256 = dig.sha256Hex
	record.Entropy = dig.entropy

	// Header window is reused by the wrong-extension check, the binary
	// string scan, and the obfuscation tag for non-text files.
	header, err := readHeader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var content string
	if textScriptExts[ext] {
		// Best-effort decode: invalid bytes are scanned as-is, the
		// pattern set is ASCII either way.
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		content = string(data)
		record.Obfuscated = isObfuscated(content)
	} else {
		record.Obfuscated = isObfuscated(string(header))
	}

	// Random bytes trip the character-ratio check too; the entropy tag
	// outranks it.
	tag := types.HeuristicNone
	if record.Obfuscated {
		tag = types.HeuristicObfuscated
	}
	if record.Entropy > entropyThreshold {
		tag = types.HeuristicHighEntropy
	}

	cls := classifyVerdict(ctx, snap, record, header, content, opts)
	cls.Heuristic = tag
	return record, cls, nil
}

// classifyVerdict runs the detection ladder in priority order: hash
// match, text patterns, extension anomalies, binary header strings,
// then the optional cloud lookup.
func classifyVerdict(ctx context.Context, snap signature.Snapshot, record *types.FileRecord, header []byte, content string, opts Options) *types.Classification {
	if entry, ok := snap.CheckHash(record.MD5); ok {
		return &types.Classification{
			Verdict:  types.VerdictKnownThreat,
			Label:    entry.Label(),
			Evidence: record.MD5,
			Severity: entry.Severity,
		}
	}

	ext := record.Extension

	if textScriptExts[ext] {
		scanText := content
		if ext == ".md" {
			// Append link destinations so URL rules see targets hidden
			// behind link text.
			if links := extractMarkdownLinks([]byte(content)); len(links) > 0 {
				scanText = content + "\n" + strings.Join(links, "\n")
			}
		}
		if matches := snap.CheckPatterns(scanText); len(matches) > 0 {
			first := matches[0]
			label := first.RuleName
			if first.Family != "" {
				label = fmt.Sprintf("%s (%s)", first.RuleName, first.Family)
			}
			return &types.Classification{
				Verdict:  types.VerdictPatternMatch,
				Label:    label,
				Evidence: fmt.Sprintf("%s [%s]: %s", first.RuleID, first.Category, first.Matched),
				Severity: first.Severity,
			}
		}
	}

	if suspiciousExts[ext] {
		if label, ok := checkSizeAnomaly(ext, record.Size); ok {
			return &types.Classification{
				Verdict:  types.VerdictSuspiciousExtension,
				Label:    label,
				Evidence: fmt.Sprintf("size %d bytes", record.Size),
				Severity: types.SeverityMedium,
			}
		}
		if hasExecutableHeader(header) && !executableExts[ext] {
			return &types.Classification{
				Verdict:  types.VerdictSuspiciousExtension,
				Label:    "Executable with Wrong Extension",
				Evidence: fmt.Sprintf("MZ header under %s", ext),
				Severity: types.SeverityHigh,
			}
		}
	}

	if binaryExts[ext] {
		if hit, ok := scanBinaryHeader(header); ok {
			return &types.Classification{
				Verdict:  types.VerdictBinaryHeuristic,
				Label:    "Suspicious Binary Content",
				Evidence: hit,
				Severity: types.SeverityMedium,
			}
		}
	}

	if opts.Cloud != nil {
		if result, err := opts.Cloud.Check(ctx, record.SHA256); err == nil && result != nil {
			return &types.Classification{
				Verdict:  types.VerdictKnownThreat,
				Label:    fmt.Sprintf("%s: %s", result.Family, result.Name),
				Evidence: "cloud:" + record.SHA256,
				Severity: types.SeverityHigh,
			}
		}
	}

	return &types.Classification{Verdict: types.VerdictClean}
}

// checkSizeAnomaly flags files implausibly large for their class.
func checkSizeAnomaly(ext string, size int64) (string, bool) {
	switch {
	case ext == ".exe" && size > oversizedExecutable:
		return "Oversized Executable", true
	case ext == ".dll" && size > oversizedLibrary:
		return "Oversized DLL", true
	case scriptClass(ext) && size > oversizedScript:
		return "Oversized Script", true
	}
	return "", false
}

func scriptClass(ext string) bool {
	switch ext {
	case ".bat", ".ps1", ".vbs", ".js":
		return true
	}
	return false
}
