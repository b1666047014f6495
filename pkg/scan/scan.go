// Package scan orchestrates analysis runs and owns the scan lifecycle.
//
// One scan covers one skill document. Persistence lives behind the Store
// interface; the engine itself stays pure and the runner handles status
// transitions, error recording, and retries.
package scan

import (
	"fmt"
	"sync"
	"time"

	"github.com/github/skillscan/pkg/analyzer"
)

// Status is the lifecycle state of a scan.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScanning  Status = "scanning"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Scan is one analysis run over one skill file.
type Scan struct {
	ID           string
	SkillID      string
	Status       Status
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// Store persists scans and their findings. Implementations must enforce
// the confidence range constraint at the storage boundary.
type Store interface {
	CreateScan(skillID string) (*Scan, error)
	UpdateScanStatus(scanID string, status Status, errorMessage string) error
	SaveFindings(scanID string, findings []analyzer.Finding) error
}

// MemoryStore is an in-process Store used by the CLI and tests.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int
	scans    map[string]*Scan
	findings map[string][]analyzer.Finding
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scans:    make(map[string]*Scan),
		findings: make(map[string][]analyzer.Finding),
	}
}

// CreateScan registers a new pending scan for a skill.
func (s *MemoryStore) CreateScan(skillID string) (*Scan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	scan := &Scan{
		ID:        fmt.Sprintf("scan-%d", s.nextID),
		SkillID:   skillID,
		Status:    StatusPending,
		StartedAt: time.Now(),
	}
	s.scans[scan.ID] = scan
	return scan, nil
}

// UpdateScanStatus transitions a scan and records completion time and any
// error message.
func (s *MemoryStore) UpdateScanStatus(scanID string, status Status, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return fmt.Errorf("unknown scan %q", scanID)
	}
	scan.Status = status
	scan.ErrorMessage = errorMessage
	if status == StatusCompleted || status == StatusFailed {
		now := time.Now()
		scan.CompletedAt = &now
	}
	return nil
}

// SaveFindings attaches findings to an existing scan. Findings with a
// confidence outside [0,1] are rejected.
func (s *MemoryStore) SaveFindings(scanID string, findings []analyzer.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scans[scanID]; !ok {
		return fmt.Errorf("unknown scan %q", scanID)
	}
	for _, f := range findings {
		if f.Confidence < 0 || f.Confidence > 1 {
			return fmt.Errorf("finding %q has confidence %v outside [0,1]", f.Title, f.Confidence)
		}
	}
	s.findings[scanID] = append(s.findings[scanID], findings...)
	return nil
}

// Scan returns a copy of the scan record, or nil when unknown.
func (s *MemoryStore) Scan(scanID string) *Scan {
	s.mu.Lock()
	defer s.mu.Unlock()
	scan, ok := s.scans[scanID]
	if !ok {
		return nil
	}
	copied := *scan
	return &copied
}

// Findings returns the findings saved for a scan.
func (s *MemoryStore) Findings(scanID string) []analyzer.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]analyzer.Finding(nil), s.findings[scanID]...)
}
