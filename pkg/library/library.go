// Package library manages a persistent collection of ingested laws as
// immutable, versioned snapshots. Each ingestion of a law writes a new
// snapshot directory; existing snapshots are never modified, so readers
// holding an older Document/Index pair keep a consistent view until they
// move to the new version.
package library

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/portaldeleis/lexbr/pkg/index"
	"github.com/portaldeleis/lexbr/pkg/legaldoc"
)

const (
	manifestFileName = "library.json"
	documentsDir     = "documents"
	recordsFileName  = "records.json"
	manifestVersion  = "1.0.0"
)

// Library manages a persistent collection of ingested laws.
type Library struct {
	mu       sync.RWMutex
	path     string
	manifest *Manifest
}

// Init creates a new library at the given path.
func Init(libraryPath string) (*Library, error) {
	documentsPath := filepath.Join(libraryPath, documentsDir)
	if err := os.MkdirAll(documentsPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}

	lib := &Library{
		path: libraryPath,
		manifest: &Manifest{
			Version:   manifestVersion,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
			Documents: []*DocumentEntry{},
		},
	}

	if err := lib.saveManifest(); err != nil {
		return nil, fmt.Errorf("failed to save manifest: %w", err)
	}
	return lib, nil
}

// Open loads an existing library from disk.
func Open(libraryPath string) (*Library, error) {
	manifestPath := filepath.Join(libraryPath, manifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read library manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse library manifest: %w", err)
	}

	return &Library{path: libraryPath, manifest: &manifest}, nil
}

// AddVersion ingests a new immutable version of the law identified by id.
// The records are validated by building the document before anything is
// written: a structurally invalid version is recorded as a failure and
// publishes nothing. On success the new snapshot is written beside the
// existing ones and the manifest is updated last.
func (lib *Library) AddVersion(id, name string, records []legaldoc.Record) (*VersionInfo, error) {
	lib.mu.Lock()
	defer lib.mu.Unlock()

	if id == "" {
		return nil, fmt.Errorf("document ID is required")
	}

	doc, err := legaldoc.Build(name, records)
	if err != nil {
		entry := lib.findOrCreateEntry(id, name)
		if len(entry.Versions) == 0 {
			entry.Status = StatusFailed
		}
		entry.Error = err.Error()
		entry.UpdatedAt = time.Now().UTC()
		if saveErr := lib.saveManifest(); saveErr != nil {
			return nil, fmt.Errorf("ingestion failed (%v) and failed to save manifest: %w", err, saveErr)
		}
		return nil, err
	}

	entry := lib.findOrCreateEntry(id, name)
	versionNumber := entry.Latest() + 1

	versionDir := lib.versionDir(entry.StorageHash, versionNumber)
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create version directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(filepath.Join(versionDir, recordsFileName), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write records: %w", err)
	}

	info := &VersionInfo{
		Number:     versionNumber,
		IngestedAt: time.Now().UTC(),
		Records:    len(records),
		Stats:      legaldoc.Stats(doc),
	}
	entry.Versions = append(entry.Versions, info)
	entry.Status = StatusReady
	entry.Error = ""
	entry.UpdatedAt = time.Now().UTC()

	if err := lib.saveManifest(); err != nil {
		return nil, fmt.Errorf("failed to save manifest: %w", err)
	}
	return info, nil
}

// Snapshot bundles one immutable document version with the index built
// over it. Snapshots are independent: dropping one generation never
// affects readers of another.
type Snapshot struct {
	Entry    *DocumentEntry
	Version  int
	Document *legaldoc.Document
	Index    *index.Index
}

// LoadSnapshot rebuilds the Document and Index for a specific version of a
// law. Version 0 loads the latest version.
func (lib *Library) LoadSnapshot(id string, version int) (*Snapshot, error) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()

	entry := lib.findEntry(id)
	if entry == nil {
		return nil, fmt.Errorf("document %q is not in the library", id)
	}
	if version == 0 {
		version = entry.Latest()
	}
	if version == 0 {
		return nil, fmt.Errorf("document %q has no ingested versions", id)
	}

	recordsPath := filepath.Join(lib.versionDir(entry.StorageHash, version), recordsFileName)
	data, err := os.ReadFile(recordsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read version %d of %q: %w", version, id, err)
	}

	var records []legaldoc.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse version %d of %q: %w", version, id, err)
	}

	doc, err := legaldoc.Build(entry.Name, records)
	if err != nil {
		return nil, fmt.Errorf("stored version %d of %q no longer builds: %w", version, id, err)
	}

	return &Snapshot{
		Entry:    entry,
		Version:  version,
		Document: doc,
		Index:    index.Build(doc),
	}, nil
}

// List returns the library's document entries sorted by ID.
func (lib *Library) List() []*DocumentEntry {
	lib.mu.RLock()
	defer lib.mu.RUnlock()

	entries := make([]*DocumentEntry, len(lib.manifest.Documents))
	copy(entries, lib.manifest.Documents)
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Remove deletes a law and all of its stored versions from the library.
func (lib *Library) Remove(id string) error {
	lib.mu.Lock()
	defer lib.mu.Unlock()

	entry := lib.findEntry(id)
	if entry == nil {
		return fmt.Errorf("document %q is not in the library", id)
	}

	if err := os.RemoveAll(filepath.Join(lib.path, documentsDir, entry.StorageHash)); err != nil {
		return fmt.Errorf("failed to remove document storage: %w", err)
	}

	kept := lib.manifest.Documents[:0]
	for _, e := range lib.manifest.Documents {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	lib.manifest.Documents = kept
	lib.manifest.UpdatedAt = time.Now().UTC()

	return lib.saveManifest()
}

// findEntry returns the entry for id, or nil. Callers hold lib.mu.
func (lib *Library) findEntry(id string) *DocumentEntry {
	for _, e := range lib.manifest.Documents {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// findOrCreateEntry returns the existing entry for id or registers a new
// one. Callers hold lib.mu.
func (lib *Library) findOrCreateEntry(id, name string) *DocumentEntry {
	if entry := lib.findEntry(id); entry != nil {
		return entry
	}
	entry := &DocumentEntry{
		ID:          id,
		Name:        name,
		StorageHash: hashDocumentID(id),
		UpdatedAt:   time.Now().UTC(),
	}
	lib.manifest.Documents = append(lib.manifest.Documents, entry)
	return entry
}

// versionDir returns the snapshot directory for one version of a law.
func (lib *Library) versionDir(storageHash string, version int) string {
	return filepath.Join(lib.path, documentsDir, storageHash, fmt.Sprintf("v%d", version))
}

// saveManifest writes the manifest to disk. Callers hold lib.mu.
func (lib *Library) saveManifest() error {
	lib.manifest.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(lib.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(lib.path, manifestFileName), data, 0o644)
}

// hashDocumentID derives the storage directory name from a document ID, so
// arbitrary IDs map to safe filenames.
func hashDocumentID(id string) string {
	hash := sha256.Sum256([]byte(id))
	return hex.EncodeToString(hash[:8])
}
