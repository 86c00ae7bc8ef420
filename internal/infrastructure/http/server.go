package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/domain"

	"github.com/go-chi/chi/v5"
)

// Server is the read-only browse surface over the order archive.
type Server struct {
	archive application.ArchiveReader
	ping    func(ctx context.Context) error
}

func NewServer(archive application.ArchiveReader) *Server { return &Server{archive: archive} }

// SetReadyCheck wires the storage probe /readyz reports on.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type ordersResponse struct {
	Orders []string `json:"orders"`
	Count  int      `json:"count"`
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	ids, err := s.archive.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list orders failed")
		return
	}
	orders := make([]string, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, string(id))
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders, Count: len(orders)})
}

// getOrder serves the archived document exactly as stored; it is
// already a rendered JSON envelope, so no re-encoding happens here.
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id := domain.OrderID(chi.URLParam(r, "id"))
	doc, err := s.archive.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "read order failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}
