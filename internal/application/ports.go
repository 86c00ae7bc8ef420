package application

import (
	"context"

	"atlas-fetcher/internal/domain"
)

// OrderProvider fetches one order document from the remote API.
// Implementations perform exactly one request per call and never retry;
// classifying a failure is their job, reacting to it is the caller's.
type OrderProvider interface {
	Fetch(ctx context.Context, id domain.OrderID) (domain.Document, error)
}

// RecordStore persists fetched order documents keyed by identifier.
// Write must be safe under concurrent calls for the same identifier;
// a record that exists before a batch starts is never rewritten because
// the orchestrator gates every write behind Exists.
type RecordStore interface {
	Exists(ctx context.Context, id domain.OrderID) (bool, error)
	Write(ctx context.Context, id domain.OrderID, doc domain.Document) error
}

// ArchiveReader exposes archived documents for browsing.
type ArchiveReader interface {
	Get(ctx context.Context, id domain.OrderID) (domain.Document, error)
	List(ctx context.Context) ([]domain.OrderID, error)
}
