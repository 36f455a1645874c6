package ironwall

import (
	"log/slog"
	"path/filepath"

	"github.com/Krish948/IronWall/internal/cloud"
	"github.com/Krish948/IronWall/internal/config"
	"github.com/Krish948/IronWall/internal/history"
)

type options struct {
	dataDir       string
	signaturePath string
	quarantineDir string
	historyPath   string
	sink          history.Sink
	logger        *slog.Logger
	workers       int
	batchSize     int
	sizeCap       int64
	denyDirs      []string
	cloudLookup   cloud.Lookup
}

// Option configures the engine.
type Option func(*options)

// WithDataDir sets the base directory for the signature store,
// quarantine directory, and history log (default ~/.ironwall).
func WithDataDir(dir string) Option {
	return func(o *options) { o.dataDir = dir }
}

// WithSignaturePath overrides the signature store file location.
func WithSignaturePath(path string) Option {
	return func(o *options) { o.signaturePath = path }
}

// WithQuarantineDir overrides the quarantine directory location.
func WithQuarantineDir(dir string) Option {
	return func(o *options) { o.quarantineDir = dir }
}

// WithHistoryPath enables the file history sink at path.
func WithHistoryPath(path string) Option {
	return func(o *options) { o.historyPath = path }
}

// WithHistorySink injects a custom history sink, overriding WithHistoryPath.
func WithHistorySink(s history.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithLogger sets the structured logger used across the engine.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers caps the classification worker pool.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithBatchSize sets the dispatch batch size.
func WithBatchSize(n int) Option {
	return func(o *options) { o.batchSize = n }
}

// WithSizeCap sets the per-file scan limit in bytes.
func WithSizeCap(n int64) Option {
	return func(o *options) { o.sizeCap = n }
}

// WithDenyDirs adds directory names to the enumeration deny list.
func WithDenyDirs(dirs ...string) Option {
	return func(o *options) { o.denyDirs = append(o.denyDirs, dirs...) }
}

// WithCloudLookup enables the optional hash reputation lookup.
func WithCloudLookup(lu cloud.Lookup) Option {
	return func(o *options) { o.cloudLookup = lu }
}

// FromConfig applies settings loaded from a .ironwall.yml file. Explicit
// options passed after it still win.
func FromConfig(cfg config.Config) Option {
	return func(o *options) {
		if cfg.SizeCapMB > 0 {
			o.sizeCap = cfg.SizeCapMB << 20
		}
		if cfg.Workers > 0 {
			o.workers = cfg.Workers
		}
		if cfg.BatchSize > 0 {
			o.batchSize = cfg.BatchSize
		}
		if cfg.QuarantineDir != "" {
			o.quarantineDir = cfg.QuarantineDir
		}
		if cfg.SignaturePath != "" {
			o.signaturePath = cfg.SignaturePath
		}
		if cfg.HistoryPath != "" {
			o.historyPath = cfg.HistoryPath
		}
		o.denyDirs = append(o.denyDirs, cfg.DenyDirs...)
		if cfg.Cloud.Enabled && cfg.Cloud.BaseURL != "" {
			o.cloudLookup = cloud.NewHTTPLookup(cfg.Cloud.BaseURL, cfg.Cloud.APIKey)
		}
	}
}

func applyOpts(opts []Option) options {
	o := options{dataDir: config.DefaultDataDir()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.signaturePath == "" {
		o.signaturePath = filepath.Join(o.dataDir, "threat_database.json")
	}
	if o.quarantineDir == "" {
		o.quarantineDir = filepath.Join(o.dataDir, "quarantine")
	}
	return o
}
