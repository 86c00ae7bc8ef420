package pg

import (
	"context"
	"errors"
	"fmt"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/domain"

	"github.com/jackc/pgx/v5"
)

// OrderRepo archives order documents in the orders table. The document
// column is JSONB, so postgres normalizes whitespace; the envelope
// value itself is the same one the other backends store.
type OrderRepo struct{ db *DB }

var _ application.RecordStore = (*OrderRepo)(nil)
var _ application.ArchiveReader = (*OrderRepo)(nil)

func NewOrderRepo(db *DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Exists(ctx context.Context, id domain.OrderID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, q, string(id)).Scan(&ok); err != nil {
		return false, fmt.Errorf("pg: exists %s: %w", id, err)
	}
	return ok, nil
}

func (r *OrderRepo) Write(ctx context.Context, id domain.OrderID, doc domain.Document) error {
	data, err := domain.MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("pg: marshal order %s: %w", id, err)
	}
	const ins = `
        INSERT INTO orders(id, document)
        VALUES ($1, $2)
        ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.Pool.Exec(ctx, ins, string(id), data); err != nil {
		return fmt.Errorf("pg: write %s: %w", id, err)
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id domain.OrderID) (domain.Document, error) {
	const q = `SELECT document FROM orders WHERE id=$1`
	var data []byte
	if err := r.db.Pool.QueryRow(ctx, q, string(id)).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, application.ErrNotFound
		}
		return nil, fmt.Errorf("pg: get %s: %w", id, err)
	}
	return domain.Document(data), nil
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.OrderID, error) {
	const q = `SELECT id FROM orders ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("pg: list: %w", err)
	}
	defer rows.Close()

	var ids []domain.OrderID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pg: list scan: %w", err)
		}
		ids = append(ids, domain.OrderID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg: list rows: %w", err)
	}
	return ids, nil
}
