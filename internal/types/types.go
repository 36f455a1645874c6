// Package types defines the shared data structures (Verdict, Severity,
// FileRecord, Classification) used across the signature, classifier,
// scan, and quarantine packages to prevent import cycles.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Severity represents how dangerous a detected threat is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	case SeverityLow:
		return "Low"
	default:
		return "Unknown"
	}
}

// ParseSeverity converts a string to a Severity level.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "medium", "moderate":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so severities persist
// as their names rather than opaque integers.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Verdict is the classification outcome for a scanned file.
type Verdict int

const (
	VerdictClean Verdict = iota
	VerdictKnownThreat
	VerdictPatternMatch
	VerdictSuspiciousExtension
	VerdictBinaryHeuristic
)

func (v Verdict) String() string {
	switch v {
	case VerdictClean:
		return "Clean"
	case VerdictKnownThreat:
		return "Known Threat"
	case VerdictPatternMatch:
		return "Pattern Match"
	case VerdictSuspiciousExtension:
		return "Suspicious"
	case VerdictBinaryHeuristic:
		return "Binary Analysis"
	default:
		return "Unknown"
	}
}

// IsThreat reports whether the verdict warrants quarantine.
func (v Verdict) IsThreat() bool {
	return v != VerdictClean
}

// HeuristicTag is a secondary signal attached to a result independent
// of the primary verdict. It never triggers quarantine on its own.
type HeuristicTag int

const (
	HeuristicNone HeuristicTag = iota
	HeuristicHighEntropy
	HeuristicObfuscated
)

func (h HeuristicTag) String() string {
	switch h {
	case HeuristicHighEntropy:
		return "High Entropy"
	case HeuristicObfuscated:
		return "Obfuscated"
	default:
		return "Clean"
	}
}

// FileRecord holds the per-file facts gathered during classification.
// Records are ephemeral: created per file, streamed to the caller, and
// discarded.
type FileRecord struct {
	Path       string  `json:"path"`
	Name       string  `json:"name"`
	Size       int64   `json:"size"`
	Extension  string  `json:"extension"`
	TypeGuess  string  `json:"type_guess"`
	MD5        string  `json:"md5"`
	SHA256     string  `json:"sha256"`
	Entropy    float64 `json:"entropy"`
	Obfuscated bool    `json:"obfuscated"`
}

// Classification is the verdict for one file together with its evidence.
type Classification struct {
	Verdict   Verdict      `json:"verdict"`
	Label     string       `json:"label,omitempty"`
	Evidence  string       `json:"evidence,omitempty"`
	Severity  Severity     `json:"severity"`
	Heuristic HeuristicTag `json:"heuristic"`
}

// ThreatEvent is the record handed to the history sink and the
// quarantine manager for every confirmed threat.
type ThreatEvent struct {
	File           FileRecord     `json:"file"`
	Classification Classification `json:"classification"`
	DetectedAt     time.Time      `json:"detected_at"`
}

// ScanSummary holds the final counters for a completed or stopped scan.
type ScanSummary struct {
	FilesScanned int           `json:"files_scanned"`
	ThreatsFound int           `json:"threats_found"`
	StartedAt    time.Time     `json:"started_at"`
	EndedAt      time.Time     `json:"ended_at"`
	Duration     time.Duration `json:"-"`
}

// Sentinel errors forming the failure taxonomy. Per-file errors are
// recovered locally by the coordinator; quarantine operations surface
// them to the caller.
var (
	// ErrNotFound indicates a missing path or record.
	ErrNotFound = errors.New("not found")
	// ErrOversized marks a file above the scan size cap. It is a skip
	// signal, not a failure.
	ErrOversized = errors.New("file exceeds size cap")
	// ErrCorruptStore indicates an unreadable persisted store. Loaders
	// fail soft to defaults and report it as a warning.
	ErrCorruptStore = errors.New("persisted store is corrupt")
	// ErrInvalidState rejects a lifecycle transition out of a terminal
	// quarantine status.
	ErrInvalidState = errors.New("record is not pending")
)
