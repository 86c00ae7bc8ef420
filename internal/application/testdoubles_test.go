package application

import (
	"context"
	"errors"
	"sync"

	"atlas-fetcher/internal/domain"
)

var ErrStore = errors.New("store error")

type fakeProvider struct {
	mu     sync.Mutex
	docs   map[domain.OrderID]domain.Document
	errs   map[domain.OrderID]error
	panics map[domain.OrderID]bool
	calls  map[domain.OrderID]int
}

func (f *fakeProvider) Fetch(ctx context.Context, id domain.OrderID) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[domain.OrderID]int{}
	}
	f.calls[id]++
	if f.panics[id] {
		panic("fetch blew up: " + string(id))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	if doc, ok := f.docs[id]; ok {
		return doc, nil
	}
	return domain.Document(`{"order":{"id":"` + string(id) + `"}}`), nil
}

func (f *fakeProvider) fetches(id domain.OrderID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type memStore struct {
	mu        sync.Mutex
	records   map[domain.OrderID]domain.Document
	existsErr error
	writeErr  error
}

func (s *memStore) Exists(_ context.Context, id domain.OrderID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.records[id]
	return ok, nil
}

func (s *memStore) Write(_ context.Context, id domain.OrderID, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if s.records == nil {
		s.records = map[domain.OrderID]domain.Document{}
	}
	if _, ok := s.records[id]; ok {
		return nil
	}
	s.records[id] = doc
	return nil
}

func (s *memStore) preload(ids ...domain.OrderID) *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = map[domain.OrderID]domain.Document{}
	}
	for _, id := range ids {
		s.records[id] = domain.Document(`{"order":null}`)
	}
	return s
}

func (s *memStore) snapshot() map[domain.OrderID]domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.OrderID]domain.Document, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}
