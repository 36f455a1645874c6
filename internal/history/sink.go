// Package history is the fire-and-forget sink for confirmed threats and
// scan summaries. Append failures are logged, never propagated; losing
// a history line must not fail a scan.
package history

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Krish948/IronWall/internal/types"
)

// Sink receives threat events and scan summaries.
type Sink interface {
	AppendThreat(ev types.ThreatEvent)
	AppendSummary(sum types.ScanSummary)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) AppendThreat(types.ThreatEvent)  {}
func (NopSink) AppendSummary(types.ScanSummary) {}

// FileSink appends JSON lines to a log file on disk.
type FileSink struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
}

// NewFileSink creates a sink writing to path. The file is created lazily
// on first append.
func NewFileSink(path string, log *slog.Logger) *FileSink {
	if log == nil {
		log = slog.Default()
	}
	return &FileSink{path: path, log: log}
}

type historyLine struct {
	Kind     string             `json:"kind"`
	LoggedAt time.Time          `json:"logged_at"`
	Threat   *types.ThreatEvent `json:"threat,omitempty"`
	Summary  *types.ScanSummary `json:"summary,omitempty"`
}

// AppendThreat writes one threat line.
func (s *FileSink) AppendThreat(ev types.ThreatEvent) {
	s.append(historyLine{Kind: "threat", LoggedAt: time.Now().UTC(), Threat: &ev})
}

// AppendSummary writes one scan summary line.
func (s *FileSink) AppendSummary(sum types.ScanSummary) {
	s.append(historyLine{Kind: "summary", LoggedAt: time.Now().UTC(), Summary: &sum})
}

func (s *FileSink) append(line historyLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			s.log.Warn("history sink mkdir failed", "path", s.path, "err", err)
			return
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		s.log.Warn("history sink open failed", "path", s.path, "err", err)
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(line); err != nil {
		s.log.Warn("history sink write failed", "path", s.path, "err", err)
	}
}
