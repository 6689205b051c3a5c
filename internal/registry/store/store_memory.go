package store

import (
	"context"
	"sync"
	"time"

	"workledger/internal/registry/models"
	"workledger/internal/sentinel"
)

// InMemoryStore keeps the ledger in process memory. Allocation and the
// verification compare-and-set happen under one lock, which gives every
// public operation the single-writer transactional boundary the ledger
// requires.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uint64]*models.WorkRecord
	nextID  uint64
}

// New constructs an empty in-memory record store.
func New() *InMemoryStore {
	return &InMemoryStore{records: make(map[uint64]*models.WorkRecord)}
}

func (s *InMemoryStore) Add(_ context.Context, record *models.WorkRecord) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	stored := record.Clone()
	stored.ID = id
	stored.Verified = false
	stored.Verifier = ""
	stored.VerifiedAt = nil
	s.records[id] = stored

	return id, nil
}

func (s *InMemoryStore) Get(_ context.Context, id uint64) (*models.WorkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return record.Clone(), nil
}

func (s *InMemoryStore) Verify(_ context.Context, id uint64, verifier string, at time.Time) (*models.WorkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if record.Verified {
		return nil, sentinel.ErrAlreadyVerified
	}

	record.Verified = true
	record.Verifier = verifier
	verifiedAt := at
	record.VerifiedAt = &verifiedAt

	return record.Clone(), nil
}

func (s *InMemoryStore) Total(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID, nil
}
