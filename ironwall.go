// Package ironwall provides a public API for endpoint malware scanning
// and threat containment: directory scans with parallel classification,
// a persisted signature store, and a reversible quarantine.
//
// This is the library entry point. For the CLI tool, see cmd/ironwall/.
package ironwall

import (
	"context"

	"github.com/Krish948/IronWall/internal/history"
	"github.com/Krish948/IronWall/internal/quarantine"
	"github.com/Krish948/IronWall/internal/scan"
	"github.com/Krish948/IronWall/internal/signature"
	"github.com/Krish948/IronWall/internal/types"
)

// Re-export core types so consumers don't need to import internal
// packages.
type (
	Severity       = types.Severity
	Verdict        = types.Verdict
	HeuristicTag   = types.HeuristicTag
	FileRecord     = types.FileRecord
	Classification = types.Classification
	ScanSummary    = types.ScanSummary
	ThreatEvent    = types.ThreatEvent

	Result   = scan.Result
	Progress = scan.Progress
	Session  = scan.Session
	State    = scan.State

	QuarantineRecord = quarantine.Record
	QuarantineFilter = quarantine.Filter
	SignatureEntry   = signature.Entry
)

const (
	VerdictClean               = types.VerdictClean
	VerdictKnownThreat         = types.VerdictKnownThreat
	VerdictPatternMatch        = types.VerdictPatternMatch
	VerdictSuspiciousExtension = types.VerdictSuspiciousExtension
	VerdictBinaryHeuristic     = types.VerdictBinaryHeuristic

	SeverityLow      = types.SeverityLow
	SeverityMedium   = types.SeverityMedium
	SeverityHigh     = types.SeverityHigh
	SeverityCritical = types.SeverityCritical

	StateCompleted = scan.StateCompleted
	StateStopped   = scan.StateStopped
	StateFailed    = scan.StateFailed
)

// Engine bundles the signature store, quarantine manager, and scan
// coordinator behind one handle.
type Engine struct {
	store       *signature.Store
	quarantine  *quarantine.Manager
	coordinator *scan.Coordinator
}

// New opens the persisted stores and wires the scan pipeline. Store
// corruption falls back to defaults; only unusable paths fail.
func New(opts ...Option) (*Engine, error) {
	o := applyOpts(opts)

	var storeOpts []signature.Option
	if o.logger != nil {
		storeOpts = append(storeOpts, signature.WithLogger(o.logger))
	}
	store, err := signature.Open(o.signaturePath, storeOpts...)
	if err != nil {
		return nil, err
	}

	var qOpts []quarantine.Option
	if o.logger != nil {
		qOpts = append(qOpts, quarantine.WithLogger(o.logger))
	}
	qm, err := quarantine.Open(o.quarantineDir, qOpts...)
	if err != nil {
		return nil, err
	}

	sink := o.sink
	if sink == nil {
		if o.historyPath != "" {
			sink = history.NewFileSink(o.historyPath, o.logger)
		} else {
			sink = history.NopSink{}
		}
	}

	coordOpts := []scan.Option{scan.WithHistorySink(sink)}
	if o.logger != nil {
		coordOpts = append(coordOpts, scan.WithLogger(o.logger))
	}
	if o.workers > 0 {
		coordOpts = append(coordOpts, scan.WithWorkerCap(o.workers))
	}
	if o.batchSize > 0 {
		coordOpts = append(coordOpts, scan.WithBatchSize(o.batchSize))
	}
	if o.sizeCap > 0 {
		coordOpts = append(coordOpts, scan.WithSizeCap(o.sizeCap))
	}
	if len(o.denyDirs) > 0 {
		coordOpts = append(coordOpts, scan.WithDenyDirs(o.denyDirs...))
	}
	if o.cloudLookup != nil {
		coordOpts = append(coordOpts, scan.WithCloudLookup(o.cloudLookup))
	}

	return &Engine{
		store:       store,
		quarantine:  qm,
		coordinator: scan.New(store, qm, coordOpts...),
	}, nil
}

// Scan runs one scan over roots, streaming results and progress to the
// callbacks (either may be nil).
func (e *Engine) Scan(ctx context.Context, roots []string, onResult scan.ResultFunc, onProgress scan.ProgressFunc) (ScanSummary, error) {
	return e.coordinator.Scan(ctx, roots, onResult, onProgress)
}

// Session exposes pause/stop control and the running counters of the
// current scan.
func (e *Engine) Session() *Session {
	return e.coordinator.Session()
}

// Signatures returns the signature store for lookup and editing.
func (e *Engine) Signatures() *signature.Store {
	return e.store
}

// Quarantine returns the quarantine manager.
func (e *Engine) Quarantine() *quarantine.Manager {
	return e.quarantine
}

// Report is the collected outcome of a one-shot Scan call.
type Report struct {
	Summary ScanSummary `json:"summary"`
	Results []Result    `json:"results"`
}

// Scan is the one-shot convenience: it builds an engine, scans root,
// and returns every result along with the summary.
func Scan(ctx context.Context, root string, opts ...Option) (*Report, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	var report Report
	summary, err := e.Scan(ctx, []string{root}, func(r Result) {
		report.Results = append(report.Results, r)
	}, nil)
	if err != nil {
		return nil, err
	}
	report.Summary = summary
	return &report, nil
}
