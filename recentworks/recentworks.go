// Package recentworks serves the read-only list of recent relief work.
package recentworks

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/record"
	"github.com/user/reliefhub-go/store"
)

// ListResponse is the envelope of the list endpoint.
type ListResponse struct {
	Status bool              `json:"status" example:"true"`
	Data   []record.Document `json:"data"`
}

// Service lists the recent works collection.
type Service struct {
	docs store.DocumentStore
}

// NewService creates a new Service.
func NewService(docs store.DocumentStore) *Service {
	return &Service{docs: docs}
}

// ListAll returns every record.
func (s *Service) ListAll(ctx context.Context) ([]record.Document, error) {
	docs, err := s.docs.FindAll(ctx)
	if err != nil {
		return nil, apperror.NewStoreUnavailableError("failed to list recent works", err)
	}
	if docs == nil {
		docs = []record.Document{}
	}
	return docs, nil
}

// Handler serves GET /our-recent-works.
type Handler struct {
	service *Service
	l       *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, l: l}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
}

// HandleList godoc
// @Summary List recent works
// @Tags RecentWorks
// @Produce json
// @Success 200 {object} recentworks.ListResponse
// @Failure 503 {object} apperror.ErrorResponse "Store unavailable"
// @Router /our-recent-works [get]
func (h *Handler) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := h.service.ListAll(r.Context())
		if err != nil {
			apperror.Respond(h.l, w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, ListResponse{Status: true, Data: docs})
	}
}
