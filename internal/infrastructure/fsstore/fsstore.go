package fsstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/domain"

	"go.uber.org/zap"
)

// Store archives one <id>.json per order under Dir. The file's
// existence is the only index; deleting a file is how an operator
// forces a re-fetch.
type Store struct {
	Dir string
	Log *zap.Logger
}

var _ application.RecordStore = (*Store)(nil)
var _ application.ArchiveReader = (*Store)(nil)

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("fsstore: create dir %s: %w", dir, err)
	}
	return &Store{Dir: dir}, nil
}

// Path returns where id is (or would be) archived.
func (s *Store) Path(id domain.OrderID) string {
	return filepath.Join(s.Dir, string(id)+".json")
}

func (s *Store) Exists(_ context.Context, id domain.OrderID) (bool, error) {
	_, err := os.Stat(s.Path(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("fsstore: stat %s: %w", s.Path(id), err)
}

// Write renders the archive envelope and lands it via temp file plus
// rename, so a crash mid-write never leaves a half-written record that
// a later run would mistake for an archived one.
func (s *Store) Write(_ context.Context, id domain.OrderID, doc domain.Document) error {
	data, err := domain.MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("fsstore: marshal order %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+string(id)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("fsstore: create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("fsstore: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("fsstore: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("fsstore: rename temp: %w", err)
	}

	s.log().Info("order_archived",
		zap.String("order_id", string(id)),
		zap.String("path", s.Path(id)))
	return nil
}

func (s *Store) Get(_ context.Context, id domain.OrderID) (domain.Document, error) {
	data, err := os.ReadFile(s.Path(id))
	if os.IsNotExist(err) {
		return nil, application.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fsstore: read %s: %w", s.Path(id), err)
	}
	return domain.Document(data), nil
}

// List returns archived identifiers in lexical filename order.
func (s *Store) List(_ context.Context) ([]domain.OrderID, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("fsstore: read dir %s: %w", s.Dir, err)
	}
	var ids []domain.OrderID
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, domain.OrderID(strings.TrimSuffix(e.Name(), ".json")))
	}
	return ids, nil
}

func (s *Store) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}
