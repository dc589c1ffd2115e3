package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	StatusInitializing = "initializing"
	StatusProcessing   = "processing"
	StatusCompleted    = "completed"

	metadataFilename = "metadata.json"
	timeFormat       = "2006-01-02 15:04:05"
)

// Metadata is the run's resumability marker, rewritten after every topic
// completion so a crash mid-run leaves an accurate picture.
type Metadata struct {
	CompanyName       string `json:"company_name"`
	CreationDate      string `json:"creation_date"`
	DocumentCount     int    `json:"document_count"`
	Status            string `json:"status"`
	SectionsTotal     int    `json:"sections_total"`
	SectionsCompleted int    `json:"sections_completed"`
	LastUpdated       string `json:"last_updated,omitempty"`
	CompletionDate    string `json:"completion_date,omitempty"`
}

// MetadataFile serializes all updates to the run's metadata.json.
type MetadataFile struct {
	mu   sync.Mutex
	path string
	meta Metadata
	now  func() time.Time
}

// NewMetadataFile writes the initial marker for a fresh run.
func NewMetadataFile(dir, company string, documentCount, sectionsTotal int) (*MetadataFile, error) {
	m := &MetadataFile{
		path: filepath.Join(dir, metadataFilename),
		now:  time.Now,
		meta: Metadata{
			CompanyName:   company,
			DocumentCount: documentCount,
			SectionsTotal: sectionsTotal,
			Status:        StatusInitializing,
		},
	}
	m.meta.CreationDate = m.now().Format(timeFormat)
	if err := m.write(); err != nil {
		return nil, err
	}
	return m, nil
}

// OpenMetadataFile loads an existing marker for a resumed run, resetting the
// completion counter for the new pass.
func OpenMetadataFile(dir string, sectionsTotal int) (*MetadataFile, error) {
	m := &MetadataFile{path: filepath.Join(dir, metadataFilename), now: time.Now}
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run metadata: %w", err)
	}
	if err := json.Unmarshal(data, &m.meta); err != nil {
		return nil, fmt.Errorf("failed to parse run metadata: %w", err)
	}
	m.meta.SectionsTotal = sectionsTotal
	m.meta.SectionsCompleted = 0
	m.meta.CompletionDate = ""
	return m, nil
}

// ReadMetadata inspects a run folder without taking ownership of it.
func ReadMetadata(dir string) (Metadata, error) {
	var meta Metadata
	data, err := os.ReadFile(filepath.Join(dir, metadataFilename))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to parse run metadata: %w", err)
	}
	return meta, nil
}

// MarkProcessing flags the run as in progress.
func (m *MetadataFile) MarkProcessing() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta.Status = StatusProcessing
	m.meta.LastUpdated = m.now().Format(timeFormat)
	return m.write()
}

// SectionCompleted bumps the completion counter and persists the marker.
func (m *MetadataFile) SectionCompleted() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta.SectionsCompleted++
	m.meta.LastUpdated = m.now().Format(timeFormat)
	return m.write()
}

// MarkCompleted finalizes the marker at run end.
func (m *MetadataFile) MarkCompleted() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta.Status = StatusCompleted
	now := m.now().Format(timeFormat)
	m.meta.LastUpdated = now
	m.meta.CompletionDate = now
	return m.write()
}

// Snapshot returns a copy of the current marker.
func (m *MetadataFile) Snapshot() Metadata {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta
}

func (m *MetadataFile) write() error {
	data, err := json.MarshalIndent(m.meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run metadata: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to persist run metadata: %w", err)
	}
	return nil
}
