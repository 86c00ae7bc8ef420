package fsstore_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/domain"
	"atlas-fetcher/internal/infrastructure/fsstore"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *fsstore.Store {
	t.Helper()
	s, err := fsstore.New(filepath.Join(t.TempDir(), "orders"))
	require.NoError(t, err)
	return s
}

func Test_New_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "orders")
	_, err := fsstore.New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func Test_WriteThenExists(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "123")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Write(ctx, "123", domain.Document(`{"order":{"id":123}}`)))

	ok, err = s.Exists(ctx, "123")
	require.NoError(t, err)
	require.True(t, ok)
}

func Test_Write_EnvelopeFormat(t *testing.T) {
	s := newStore(t)
	doc := domain.Document(`{"order":{"id":9,"customer":"Müller & Søn","note":"<rush>"}}`)
	require.NoError(t, s.Write(context.Background(), "9", doc))

	raw, err := os.ReadFile(s.Path("9"))
	require.NoError(t, err)

	// pretty-printed with the payload under a top-level data key
	require.True(t, strings.HasPrefix(string(raw), "{\n  \"data\": {"))

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.JSONEq(t, string(doc), string(envelope.Data))

	// non-ASCII and HTML-ish characters survive unescaped
	require.Contains(t, string(raw), "Müller & Søn")
	require.Contains(t, string(raw), "<rush>")
	require.NotContains(t, string(raw), `\u`)
}

func Test_Write_LeavesNoTempFiles(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, id := range []domain.OrderID{"1", "2", "3"} {
		require.NoError(t, s.Write(ctx, id, domain.Document(`{"ok":true}`)))
	}

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.True(t, strings.HasSuffix(e.Name(), ".json"), "unexpected file %s", e.Name())
	}
}

func Test_Write_RejectsInvalidJSON(t *testing.T) {
	s := newStore(t)
	err := s.Write(context.Background(), "1", domain.Document("not json"))
	require.Error(t, err)

	ok, err := s.Exists(context.Background(), "1")
	require.NoError(t, err)
	require.False(t, ok)
}

func Test_Get(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	doc := domain.Document(`{"order":{"id":5}}`)
	require.NoError(t, s.Write(ctx, "5", doc))

	got, err := s.Get(ctx, "5")
	require.NoError(t, err)

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(got, &envelope))
	require.JSONEq(t, string(doc), string(envelope.Data))

	_, err = s.Get(ctx, "nope")
	require.ErrorIs(t, err, application.ErrNotFound)
}

func Test_List(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, id := range []domain.OrderID{"30", "10", "20"} {
		require.NoError(t, s.Write(ctx, id, domain.Document(`{"ok":true}`)))
	}
	// stray non-archive files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "README.txt"), []byte("x"), 0o644))

	ids, err := s.List(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.OrderID{"10", "20", "30"}, ids)
}
