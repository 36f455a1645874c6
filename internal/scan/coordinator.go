// Package scan drives the scan pipeline: enumeration, batching,
// parallel classification on a bounded worker pool, and aggregation of
// streamed results. One coordinator runs one session at a time; threat
// verdicts are routed synchronously into the quarantine manager.
package scan

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Krish948/IronWall/internal/classifier"
	"github.com/Krish948/IronWall/internal/cloud"
	"github.com/Krish948/IronWall/internal/history"
	"github.com/Krish948/IronWall/internal/quarantine"
	"github.com/Krish948/IronWall/internal/signature"
	"github.com/Krish948/IronWall/internal/types"
)

// Pipeline defaults. Batching amortizes scheduling overhead; the buffer
// and progress cadence bound callback overhead on large scans.
const (
	DefaultBatchSize     = 20
	DefaultBufferSize    = 50
	DefaultProgressEvery = 5
	DefaultWorkerCap     = 16
)

// Result is one classified file streamed to the caller.
type Result struct {
	File           types.FileRecord
	Classification types.Classification
	// QuarantineID is set when the file was isolated during this scan.
	QuarantineID string
}

// Progress carries the running counters, delivered on a bounded cadence.
type Progress struct {
	FilesScanned int64
	ThreatsFound int64
}

// ResultFunc receives flushed result batches. It must return quickly;
// a slow callback stalls aggregation.
type ResultFunc func(Result)

// ProgressFunc receives periodic counter updates.
type ProgressFunc func(Progress)

// Coordinator wires the signature store, classifier workers, quarantine
// manager, and history sink into one scan pipeline.
type Coordinator struct {
	store      *signature.Store
	quarantine *quarantine.Manager
	sink       history.Sink
	log        *slog.Logger
	cloudLU    cloud.Lookup

	batchSize     int
	bufferSize    int
	progressEvery int
	workerCap     int
	sizeCap       int64
	denyDirs      []string

	scanMu  sync.Mutex
	session *Session
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for recovered per-file errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithHistorySink routes threat events and summaries to sink.
func WithHistorySink(s history.Sink) Option {
	return func(c *Coordinator) { c.sink = s }
}

// WithWorkerCap bounds the worker pool; the effective count is
// min(cap, 2×NumCPU, batch count).
func WithWorkerCap(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.workerCap = n
		}
	}
}

// WithBatchSize sets how many paths one worker receives at a time.
func WithBatchSize(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithBufferSize sets the flush threshold for the result stream.
func WithBufferSize(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithProgressEvery sets the progress callback cadence in files.
func WithProgressEvery(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.progressEvery = n
		}
	}
}

// WithSizeCap sets the per-file size limit in bytes.
func WithSizeCap(n int64) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.sizeCap = n
		}
	}
}

// WithDenyDirs adds directory names to the enumeration deny list.
func WithDenyDirs(dirs ...string) Option {
	return func(c *Coordinator) { c.denyDirs = append(c.denyDirs, dirs...) }
}

// WithCloudLookup enables the optional reputation lookup after local
// signature misses.
func WithCloudLookup(lu cloud.Lookup) Option {
	return func(c *Coordinator) { c.cloudLU = lu }
}

// New creates a Coordinator over the given store and quarantine manager.
func New(store *signature.Store, qm *quarantine.Manager, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:         store,
		quarantine:    qm,
		sink:          history.NopSink{},
		batchSize:     DefaultBatchSize,
		bufferSize:    DefaultBufferSize,
		progressEvery: DefaultProgressEvery,
		workerCap:     DefaultWorkerCap,
		sizeCap:       classifier.DefaultSizeCap,
		session:       NewSession(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Session returns the coordinator's session for pause/stop control and
// counter inspection.
func (c *Coordinator) Session() *Session {
	return c.session
}

// workerItem crosses the worker boundary: value copies only, no shared
// mutable state.
type workerItem struct {
	rec types.FileRecord
	cls types.Classification
}

// Scan enumerates roots, classifies every eligible file, streams results
// to onResult, and reports progress to onProgress. Zero discovered files
// is an explicit empty Completed result, not an error. Scan returns the
// final summary; the error is non-nil only when the scan failed to start.
func (c *Coordinator) Scan(ctx context.Context, roots []string, onResult ResultFunc, onProgress ProgressFunc) (types.ScanSummary, error) {
	c.scanMu.Lock()
	defer c.scanMu.Unlock()

	s := c.session
	s.begin()

	paths, err := c.enumerate(ctx, s, roots)
	if err != nil {
		s.finish(StateFailed)
		return s.Summary(), err
	}
	if s.Stopping() || ctx.Err() != nil {
		s.finish(StateStopped)
		return s.Summary(), nil
	}
	if len(paths) == 0 {
		c.log.Info("scan found no files", "roots", roots)
		s.finish(StateCompleted)
		sum := s.Summary()
		c.sink.AppendSummary(sum)
		return sum, nil
	}

	snapshot := c.store.Snapshot()
	batches := chunkPaths(paths, c.batchSize)
	workers := min(c.workerCap, 2*runtime.NumCPU(), len(batches))

	s.setState(StateDispatching)

	batchCh := make(chan []string)
	resultCh := make(chan workerItem, c.bufferSize)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, s, snapshot, batchCh, resultCh)
		}()
	}

	// Dispatch checks the stop flag before every submission; stop means
	// no new batches while in-flight ones drain.
	go func() {
		for _, batch := range batches {
			if s.Stopping() || ctx.Err() != nil {
				break
			}
			batchCh <- batch
		}
		close(batchCh)
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	s.setState(StateAggregating)
	c.aggregate(s, resultCh, onResult, onProgress)

	switch {
	case s.Stopping(), ctx.Err() != nil:
		s.finish(StateStopped)
	default:
		s.finish(StateCompleted)
	}

	sum := s.Summary()
	c.sink.AppendSummary(sum)
	return sum, nil
}

// worker classifies each file of each batch. Stop and pause are polled
// between files; a file's hash computation is never interrupted.
func (c *Coordinator) worker(ctx context.Context, s *Session, snap signature.Snapshot, batchCh <-chan []string, resultCh chan<- workerItem) {
	for batch := range batchCh {
		for _, path := range batch {
			// Keep draining after stop so the dispatcher never blocks,
			// but classify nothing new.
			if s.Stopping() || ctx.Err() != nil {
				continue
			}
			if !s.waitWhilePaused(ctx) {
				continue
			}
			rec, cls, err := classifier.Classify(ctx, snap, path, classifier.Options{
				SizeCap: c.sizeCap,
				Cloud:   c.cloudLU,
			})
			if err != nil {
				s.countSkip()
				if !errors.Is(err, types.ErrOversized) && !errors.Is(err, types.ErrNotFound) {
					c.log.Warn("file skipped", "path", path, "err", err)
				}
				continue
			}
			resultCh <- workerItem{rec: *rec, cls: *cls}
		}
	}
}

// aggregate buffers streamed results, routes threats into quarantine,
// and invokes the caller's callbacks on a bounded cadence. Unflushed
// results computed before a stop are still delivered.
func (c *Coordinator) aggregate(s *Session, resultCh <-chan workerItem, onResult ResultFunc, onProgress ProgressFunc) {
	buffer := make([]Result, 0, c.bufferSize)
	isolated := make(map[string]bool) // per-scan quarantine de-dup by path

	flush := func() {
		if onResult != nil {
			for _, r := range buffer {
				onResult(r)
			}
		}
		buffer = buffer[:0]
	}

	for item := range resultCh {
		res := Result{File: item.rec, Classification: item.cls}

		if item.cls.Verdict.IsThreat() {
			s.countThreat()
			ev := types.ThreatEvent{
				File:           item.rec,
				Classification: item.cls,
				DetectedAt:     time.Now().UTC(),
			}
			if !isolated[item.rec.Path] {
				isolated[item.rec.Path] = true
				qrec, err := c.quarantine.Quarantine(item.rec.Path, quarantine.Meta{
					ThreatType:  item.cls.Label,
					Severity:    item.cls.Severity,
					Description: item.cls.Evidence,
					Origin:      "Scan",
				})
				if err != nil {
					c.log.Warn("quarantine failed", "path", item.rec.Path, "err", err)
				} else {
					res.QuarantineID = qrec.ID
				}
			}
			c.sink.AppendThreat(ev)
		}

		n := s.countFile()
		buffer = append(buffer, res)
		if len(buffer) >= c.bufferSize {
			flush()
		}
		if onProgress != nil && n%int64(c.progressEvery) == 0 {
			files, threats := s.Counters()
			onProgress(Progress{FilesScanned: files, ThreatsFound: threats})
		}
	}

	flush()
}

func chunkPaths(paths []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(paths); start += size {
		end := min(start+size, len(paths))
		batches = append(batches, paths[start:end])
	}
	return batches
}
