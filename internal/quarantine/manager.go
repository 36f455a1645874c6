// Package quarantine isolates confirmed threats into a controlled
// directory and manages their reversible lifecycle through a persisted
// JSON index. One mutating operation completes fully, filesystem action
// then index persist, before the next begins.
package quarantine

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Krish948/IronWall/internal/types"
)

const indexFileName = "quarantine_index.json"

// Manager owns the quarantine directory and its persisted index.
type Manager struct {
	mu        sync.RWMutex
	dir       string
	indexPath string
	records   map[string]*Record // keyed by isolated filename
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for load warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// withClock overrides the time source, used by tests.
func withClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Open creates the quarantine directory (owner-only) if needed and
// loads the index. A corrupt index logs a warning and starts empty;
// the isolated files themselves are untouched.
func Open(dir string, opts ...Option) (*Manager, error) {
	m := &Manager{
		dir:       dir,
		indexPath: filepath.Join(dir, indexFileName),
		records:   make(map[string]*Record),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating quarantine dir: %w", err)
	}
	m.loadIndex()
	return m, nil
}

// Dir returns the quarantine directory path.
func (m *Manager) Dir() string { return m.dir }

func (m *Manager) loadIndex() {
	data, err := os.ReadFile(m.indexPath)
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Warn("quarantine index unreadable, starting empty", "path", m.indexPath, "err", err)
		}
		return
	}
	var records map[string]*Record
	if err := json.Unmarshal(data, &records); err != nil {
		m.log.Warn("quarantine index corrupt, starting empty",
			"path", m.indexPath, "err", fmt.Errorf("%w: %v", types.ErrCorruptStore, err))
		return
	}
	m.records = records
}

// saveIndex persists the index. It is always the last step of a
// mutating operation so the filesystem never lags the recorded state.
func (m *Manager) saveIndex() error {
	data, err := json.MarshalIndent(m.records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.indexPath, data, 0o600)
}

// Quarantine moves the file at path into the quarantine directory and
// records it as Pending. The isolated filename combines a timestamp, a
// short hash of the original path, and if needed a counter suffix, so
// repeated isolations never collide.
func (m *Manager) Quarantine(path string, meta Meta) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("quarantine %s: %w", path, types.ErrNotFound)
		}
		return nil, fmt.Errorf("quarantine %s: %w", path, err)
	}

	pathHash := md5.Sum([]byte(path))
	stem := fmt.Sprintf("%s_%s",
		m.now().Format("20060102_150405"),
		hex.EncodeToString(pathHash[:])[:8])
	ext := filepath.Ext(path)

	// Re-isolating the same path within one second would reuse the
	// name; a counter suffix keeps every record and file distinct.
	isolatedName := stem + ext
	for n := 1; m.records[isolatedName] != nil; n++ {
		isolatedName = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
	isolatedPath := filepath.Join(m.dir, isolatedName)

	if err := moveFile(path, isolatedPath); err != nil {
		return nil, fmt.Errorf("isolating %s: %w", path, err)
	}

	md5Hex, sha256Hex, err := hashFile(isolatedPath)
	if err != nil {
		// The file is already isolated; record it without digests
		// rather than leaving it orphaned.
		m.log.Warn("hashing isolated file failed", "path", isolatedPath, "err", err)
	}

	rec := &Record{
		ID:            uuid.NewString(),
		FileName:      filepath.Base(path),
		IsolatedName:  isolatedName,
		OriginalPath:  path,
		IsolatedPath:  isolatedPath,
		ThreatType:    meta.ThreatType,
		Severity:      meta.Severity,
		Description:   meta.Description,
		Origin:        meta.Origin,
		Size:          info.Size(),
		MD5:           md5Hex,
		SHA256:        sha256Hex,
		Status:        StatusPending,
		QuarantinedAt: m.now().UTC(),
	}
	m.records[isolatedName] = rec

	if err := m.saveIndex(); err != nil {
		return nil, fmt.Errorf("persisting quarantine index: %w", err)
	}
	return rec, nil
}

// Restore moves the isolated file back. target empty means the original
// path. The record becomes Restored, which is terminal.
func (m *Manager) Restore(id, target string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.findLocked(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusPending {
		return nil, fmt.Errorf("restore %s (status %s): %w", id, rec.Status, types.ErrInvalidState)
	}

	if target == "" {
		target = rec.OriginalPath
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("restore %s: %w", id, err)
		}
	}
	if err := moveFile(rec.IsolatedPath, target); err != nil {
		return nil, fmt.Errorf("restore %s: %w", id, err)
	}

	now := m.now().UTC()
	rec.Status = StatusRestored
	rec.RestoredAt = &now
	rec.RestorePath = target

	if err := m.saveIndex(); err != nil {
		return nil, fmt.Errorf("persisting quarantine index: %w", err)
	}
	return rec, nil
}

// Delete permanently removes the isolated file. The record becomes
// Deleted, which is terminal; a repeat call fails with ErrInvalidState
// and the file is never deleted twice.
func (m *Manager) Delete(id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(id)
}

func (m *Manager) deleteLocked(id string) (*Record, error) {
	rec, err := m.findLocked(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusPending {
		return nil, fmt.Errorf("delete %s (status %s): %w", id, rec.Status, types.ErrInvalidState)
	}

	if err := os.Remove(rec.IsolatedPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("delete %s: %w", id, err)
	}

	now := m.now().UTC()
	rec.Status = StatusDeleted
	rec.DeletedAt = &now

	if err := m.saveIndex(); err != nil {
		return nil, fmt.Errorf("persisting quarantine index: %w", err)
	}
	return rec, nil
}

func (m *Manager) findLocked(id string) (*Record, error) {
	for _, rec := range m.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("record %s: %w", id, types.ErrNotFound)
}

// Get returns a copy of the record with the given id.
func (m *Manager) Get(id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, err := m.findLocked(id)
	if err != nil {
		return nil, err
	}
	cp := *rec
	return &cp, nil
}

// List returns record copies matching the filter, sorted by key.
func (m *Manager) List(f Filter, key SortKey, desc bool) []*Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for _, rec := range m.records {
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(rec.FileName), strings.ToLower(f.Search)) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch key {
		case SortByName:
			less = out[i].FileName < out[j].FileName
		case SortBySize:
			less = out[i].Size < out[j].Size
		default:
			less = out[i].QuarantinedAt.Before(out[j].QuarantinedAt)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// StorageInfo reports the Pending footprint and the free space on the
// isolation volume.
func (m *Manager) StorageInfo() StorageInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info := StorageInfo{AvailableSpace: availableSpace(m.dir)}
	for _, rec := range m.records {
		if rec.Status != StatusPending {
			continue
		}
		info.PendingCount++
		info.PendingSize += rec.Size
	}
	return info
}

// ApplyCleanupPolicy deletes Pending records past maxAge and then, if
// the cumulative Pending size still exceeds maxTotalSize, deletes the
// oldest until it fits. Zero disables a limit. The operation is
// idempotent and returns the number of records deleted.
func (m *Manager) ApplyCleanupPolicy(maxAge time.Duration, maxTotalSize int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	pending := m.pendingOldestFirstLocked()

	if maxAge > 0 {
		cutoff := m.now().UTC().Add(-maxAge)
		for _, rec := range pending {
			if rec.QuarantinedAt.Before(cutoff) {
				if _, err := m.deleteLocked(rec.ID); err != nil {
					return deleted, err
				}
				deleted++
			}
		}
		pending = m.pendingOldestFirstLocked()
	}

	if maxTotalSize > 0 {
		var total int64
		for _, rec := range pending {
			total += rec.Size
		}
		for _, rec := range pending {
			if total <= maxTotalSize {
				break
			}
			if _, err := m.deleteLocked(rec.ID); err != nil {
				return deleted, err
			}
			total -= rec.Size
			deleted++
		}
	}

	return deleted, nil
}

func (m *Manager) pendingOldestFirstLocked() []*Record {
	var pending []*Record
	for _, rec := range m.records {
		if rec.Status == StatusPending {
			pending = append(pending, rec)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].QuarantinedAt.Before(pending[j].QuarantinedAt)
	})
	return pending
}

// VerifyIndex reports Pending records whose isolated file is missing,
// the orphan case a crash between move and persist can leave behind.
// It only reports; repair policy belongs to the host.
func (m *Manager) VerifyIndex() []*Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var missing []*Record
	for _, rec := range m.records {
		if rec.Status != StatusPending {
			continue
		}
		if _, err := os.Stat(rec.IsolatedPath); os.IsNotExist(err) {
			cp := *rec
			missing = append(missing, &cp)
		}
	}
	return missing
}

// moveFile renames src to dst, falling back to copy+remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	in.Close()
	return os.Remove(src)
}

// hashFile computes both digests of the isolated copy in one pass.
func hashFile(path string) (md5Hex, sha256Hex string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	fast := md5.New()
	strong := sha256.New()
	if _, err := io.Copy(io.MultiWriter(fast, strong), f); err != nil {
		return "", "", err
	}
	return hex.EncodeToString(fast.Sum(nil)), hex.EncodeToString(strong.Sum(nil)), nil
}
