package redisstore

import (
	"context"
	"errors"
	"fmt"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "orders:"

// Store archives order documents as redis values under orders:<id>.
// Records never expire; writes use SET NX so an archived record is
// kept as first written even if two workers race on the same id.
type Store struct {
	Client *redis.Client
}

var _ application.RecordStore = (*Store)(nil)
var _ application.ArchiveReader = (*Store)(nil)

func New(client *redis.Client) *Store {
	return &Store{Client: client}
}

func key(id domain.OrderID) string {
	return keyPrefix + string(id)
}

func (s *Store) Exists(ctx context.Context, id domain.OrderID) (bool, error) {
	n, err := s.Client.Exists(ctx, key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: exists %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *Store) Write(ctx context.Context, id domain.OrderID, doc domain.Document) error {
	data, err := domain.MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("redisstore: marshal order %s: %w", id, err)
	}
	if _, err := s.Client.SetNX(ctx, key(id), data, 0).Result(); err != nil {
		return fmt.Errorf("redisstore: write %s: %w", id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.OrderID) (domain.Document, error) {
	data, err := s.Client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, application.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %s: %w", id, err)
	}
	return domain.Document(data), nil
}

func (s *Store) List(ctx context.Context) ([]domain.OrderID, error) {
	var ids []domain.OrderID
	iter := s.Client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, domain.OrderID(iter.Val()[len(keyPrefix):]))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redisstore: scan: %w", err)
	}
	return ids, nil
}
