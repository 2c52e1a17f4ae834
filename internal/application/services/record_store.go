package services

import (
	"sync"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/domain/models"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/constants"
	appErrors "github.com/Vietnguyen696/LuongPheDuyet/pkg/errors"
)

const resourceRecord = "Record"

// RecordStore is the in-memory owner of all records.
// Records are never deleted; insertion order is preserved and every read returns copies.
type RecordStore struct {
	mu      sync.RWMutex
	records []models.Record
	index   map[string]int
}

// NewRecordStore creates an empty store
func NewRecordStore() *RecordStore {
	return &RecordStore{index: make(map[string]int)}
}

// Create adds a record. The id must be non-empty and unique.
func (s *RecordStore) Create(rec models.Record) error {
	if rec.ID == "" {
		return appErrors.NewValidationError("id", "record id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[rec.ID]; exists {
		return appErrors.NewConflictError(resourceRecord, "id", rec.ID)
	}
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec.Clone())
	return nil
}

// Get returns a copy of the record with the given id
func (s *RecordStore) Get(id string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Record{}, appErrors.NewNotFoundError(resourceRecord, id)
	}
	return s.records[i].Clone(), nil
}

// Replace swaps the stored record having the same id
func (s *RecordStore) Replace(rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[rec.ID]
	if !ok {
		return appErrors.NewNotFoundError(resourceRecord, rec.ID)
	}
	s.records[i] = rec.Clone()
	return nil
}

// Update applies fn to the stored record under the write lock.
// The record is replaced only when fn succeeds, so a failed action leaves it untouched.
func (s *RecordStore) Update(id string, fn func(models.Record) (models.Record, error)) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.Record{}, appErrors.NewNotFoundError(resourceRecord, id)
	}

	current := s.records[i].Clone()
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if next.ID != id {
		return current, appErrors.NewValidationError("id", "record id is immutable")
	}
	s.records[i] = next.Clone()
	return next.Clone(), nil
}

// All returns copies of every record in insertion order
func (s *RecordStore) All() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

// FilterByProcess returns copies of the records of one process type
func (s *RecordStore) FilterByProcess(t constants.ProcessType) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filterByProcess(s.records, t)
}

// Len returns the number of stored records
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func filterByProcess(records []models.Record, t constants.ProcessType) []models.Record {
	out := make([]models.Record, 0)
	for _, rec := range records {
		if rec.Type == t {
			out = append(out, rec.Clone())
		}
	}
	return out
}
