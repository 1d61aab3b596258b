package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"tspga/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, record model.RunRecord) error {
	if err := validateRun(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.runs[record.ID] = cloneRun(record)
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.runs[id]
	if !ok {
		return model.RunRecord{}, false, nil
	}
	return cloneRun(record), true, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]model.RunSummary, 0, len(s.runs))
	for _, record := range s.runs {
		summaries = append(summaries, record.Summary())
	}
	sortSummaries(summaries)
	return summaries, nil
}

func (s *MemoryStore) DeleteRun(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return false, nil
	}
	delete(s.runs, id)
	return true, nil
}

func cloneRun(record model.RunRecord) model.RunRecord {
	record.Points = slices.Clone(record.Points)
	record.Tour = slices.Clone(record.Tour)
	record.BestByGeneration = slices.Clone(record.BestByGeneration)
	record.Summaries = slices.Clone(record.Summaries)
	return record
}
