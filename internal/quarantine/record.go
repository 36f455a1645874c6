package quarantine

import (
	"time"

	"github.com/Krish948/IronWall/internal/types"
)

// Status is the lifecycle state of a quarantine record. Transitions are
// monotonic: Pending moves to Restored or Deleted exactly once and both
// are terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusRestored Status = "Restored"
	StatusDeleted  Status = "Deleted"
)

// Record describes one isolated file. While Pending the record owns
// exactly one file under the quarantine directory; re-isolating the same
// original path creates a new, distinct record.
type Record struct {
	ID            string         `json:"id"`
	FileName      string         `json:"file_name"`
	IsolatedName  string         `json:"isolated_name"`
	OriginalPath  string         `json:"original_path"`
	IsolatedPath  string         `json:"isolated_path"`
	ThreatType    string         `json:"threat_type"`
	Severity      types.Severity `json:"severity"`
	Description   string         `json:"description,omitempty"`
	Origin        string         `json:"origin,omitempty"`
	Size          int64          `json:"size"`
	MD5           string         `json:"md5"`
	SHA256        string         `json:"sha256"`
	Status        Status         `json:"status"`
	QuarantinedAt time.Time      `json:"quarantined_at"`
	RestoredAt    *time.Time     `json:"restored_at,omitempty"`
	RestorePath   string         `json:"restore_path,omitempty"`
	DeletedAt     *time.Time     `json:"deleted_at,omitempty"`
}

// Meta carries the verdict context recorded at isolation time.
type Meta struct {
	ThreatType  string
	Severity    types.Severity
	Description string
	Origin      string
}

// Filter selects records for List.
type Filter struct {
	// Status limits results to one lifecycle state; empty means all.
	Status Status
	// Search matches case-insensitively against the original file name.
	Search string
}

// SortKey orders List results.
type SortKey string

const (
	SortByDate SortKey = "date"
	SortByName SortKey = "name"
	SortBySize SortKey = "size"
)

// StorageInfo aggregates the Pending footprint of the quarantine
// directory plus the free space left on the isolation volume.
type StorageInfo struct {
	PendingCount   int   `json:"pending_count"`
	PendingSize    int64 `json:"pending_size"`
	AvailableSpace int64 `json:"available_space"`
}
