package scan

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Krish948/IronWall/internal/types"
)

// State is the coordinator lifecycle. Transitions only move forward:
// Idle → Enumerating → Dispatching → Aggregating → a terminal state.
type State int32

const (
	StateIdle State = iota
	StateEnumerating
	StateDispatching
	StateAggregating
	StateCompleted
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateEnumerating:
		return "Enumerating"
	case StateDispatching:
		return "Dispatching"
	case StateAggregating:
		return "Aggregating"
	case StateCompleted:
		return "Completed"
	case StateStopped:
		return "Stopped"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// pausePollInterval is how often a paused worker re-checks the flag.
// Pause is cooperative and coarse; a hash in flight is never interrupted.
const pausePollInterval = 100 * time.Millisecond

// Session owns the mutable flags and counters of one scan. It replaces
// ambient scanner state so independent sessions can coexist.
type Session struct {
	state        atomic.Int32
	filesScanned atomic.Int64
	threatsFound atomic.Int64
	skipped      atomic.Int64
	paused       atomic.Bool
	stopped      atomic.Bool

	startedAt time.Time
	endedAt   time.Time
}

// NewSession returns an Idle session.
func NewSession() *Session {
	return &Session{}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// Stop requests cancellation: no new batches are dispatched and workers
// exit between files. Already-computed results are still delivered.
func (s *Session) Stop() {
	s.stopped.Store(true)
}

// Stopping reports whether stop has been requested.
func (s *Session) Stopping() bool {
	return s.stopped.Load()
}

// Pause suspends classification between files.
func (s *Session) Pause() {
	s.paused.Store(true)
}

// Resume clears the pause flag.
func (s *Session) Resume() {
	s.paused.Store(false)
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	return s.paused.Load()
}

// waitWhilePaused blocks while the session is paused. It returns false
// when the session should abort instead of continuing.
func (s *Session) waitWhilePaused(ctx context.Context) bool {
	for s.paused.Load() {
		if s.stopped.Load() || ctx.Err() != nil {
			return false
		}
		time.Sleep(pausePollInterval)
	}
	return !s.stopped.Load() && ctx.Err() == nil
}

// Counters returns the running (files_scanned, threats_found) pair.
func (s *Session) Counters() (int64, int64) {
	return s.filesScanned.Load(), s.threatsFound.Load()
}

func (s *Session) countFile() int64 {
	return s.filesScanned.Add(1)
}

func (s *Session) countThreat() {
	s.threatsFound.Add(1)
}

func (s *Session) countSkip() {
	s.skipped.Add(1)
}

// Skipped returns how many files were skipped without a verdict.
func (s *Session) Skipped() int64 {
	return s.skipped.Load()
}

func (s *Session) begin() {
	s.filesScanned.Store(0)
	s.threatsFound.Store(0)
	s.skipped.Store(0)
	s.stopped.Store(false)
	s.paused.Store(false)
	s.startedAt = time.Now()
	s.setState(StateEnumerating)
}

func (s *Session) finish(st State) {
	s.endedAt = time.Now()
	s.setState(st)
}

// Summary snapshots the session counters.
func (s *Session) Summary() types.ScanSummary {
	files, threats := s.Counters()
	end := s.endedAt
	if end.IsZero() {
		end = time.Now()
	}
	return types.ScanSummary{
		FilesScanned: int(files),
		ThreatsFound: int(threats),
		StartedAt:    s.startedAt,
		EndedAt:      end,
		Duration:     end.Sub(s.startedAt),
	}
}
