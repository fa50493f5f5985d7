package library

import (
	"time"

	"github.com/portaldeleis/lexbr/pkg/legaldoc"
)

// DocumentStatus represents the state of a law in the library.
type DocumentStatus string

const (
	// StatusReady indicates the law has at least one ingested version
	// available for queries.
	StatusReady DocumentStatus = "ready"

	// StatusFailed indicates the most recent ingestion attempt failed and
	// no usable version exists yet.
	StatusFailed DocumentStatus = "failed"
)

// Manifest is the top-level index of all laws in the library.
type Manifest struct {
	Version   string           `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Documents []*DocumentEntry `json:"documents"`
}

// DocumentEntry represents one law tracked by the library, with all of its
// ingested versions. Versions are immutable once written; re-ingesting a
// law appends a new version rather than touching an old one.
type DocumentEntry struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Source      string         `json:"source,omitempty"`
	Status      DocumentStatus `json:"status"`
	UpdatedAt   time.Time      `json:"updated_at"`
	StorageHash string         `json:"storage_hash"`
	Versions    []*VersionInfo `json:"versions"`
	Error       string         `json:"error,omitempty"`
}

// VersionInfo describes one immutable snapshot of a law.
type VersionInfo struct {
	Number     int                    `json:"number"`
	IngestedAt time.Time              `json:"ingested_at"`
	Records    int                    `json:"records"`
	Stats      legaldoc.DocumentStats `json:"stats"`
}

// Latest returns the highest version number in the entry, or 0 when no
// version has been ingested.
func (e *DocumentEntry) Latest() int {
	latest := 0
	for _, v := range e.Versions {
		if v.Number > latest {
			latest = v.Number
		}
	}
	return latest
}
