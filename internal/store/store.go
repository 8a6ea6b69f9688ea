// Package store owns the in-memory collection of resume records. After
// ingestion, only the queue processor mutates records; everything else reads
// snapshots.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/entity"
)

// RecordStore holds session-scoped records in insertion order.
type RecordStore struct {
	mu      sync.RWMutex
	records []entity.ResumeRecord
	index   map[uuid.UUID]int
}

func NewRecordStore() *RecordStore {
	return &RecordStore{index: make(map[uuid.UUID]int)}
}

// Append adds records in the given order. Each ingested file gets exactly
// one record for the lifetime of the session; there is no deduplication.
func (s *RecordStore) Append(records ...entity.ResumeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
}

// UpdateByID replaces the whole record atomically via mutate, so readers
// never observe a partially-updated record. Returns false for unknown IDs.
func (s *RecordStore) UpdateByID(id uuid.UUID, mutate func(*entity.ResumeRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return false
	}
	r := s.records[i]
	mutate(&r)
	s.records[i] = r
	return true
}

// Get returns a copy of the record with the given ID.
func (s *RecordStore) Get(id uuid.UUID) (entity.ResumeRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return entity.ResumeRecord{}, false
	}
	return s.records[i], true
}

// Snapshot returns a copy of all records in insertion order.
func (s *RecordStore) Snapshot() []entity.ResumeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.ResumeRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Clear discards every record. Irreversible within the session.
func (s *RecordStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.index = make(map[uuid.UUID]int)
}

// Len returns the number of records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// CountByStatus returns how many records are in the given status.
func (s *RecordStore) CountByStatus(status constants.RecordStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.records {
		if r.Status == status {
			n++
		}
	}
	return n
}
