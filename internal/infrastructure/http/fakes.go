package httpserver

import (
	"context"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/domain"
)

var _ application.ArchiveReader = (*fakeArchive)(nil)

type fakeArchive struct {
	docs map[domain.OrderID]domain.Document
	err  error
}

func (f *fakeArchive) Get(_ context.Context, id domain.OrderID) (domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	return doc, nil
}

func (f *fakeArchive) List(_ context.Context) ([]domain.OrderID, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []domain.OrderID
	for id := range f.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

// NewInMemoryArchive returns a Server over canned documents; handy for
// tests and local poking without a populated store.
func NewInMemoryArchive(docs map[domain.OrderID]domain.Document) (*Server, *fakeArchive) {
	fa := &fakeArchive{docs: docs}
	return NewServer(fa), fa
}
