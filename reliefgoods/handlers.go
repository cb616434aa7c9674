package reliefgoods

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/record"
)

// ListResponse is the envelope of the list endpoint.
type ListResponse struct {
	Status bool              `json:"status" example:"true"`
	Data   []record.Document `json:"data"`
}

// Handler serves the /relief-goods routes.
type Handler struct {
	service *Service
	l       *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, l: l}
}

// RegisterRoutes mounts the handlers on r, relative to the collection path.
// The server calls it through r.Route("/relief-goods", ...), so "/" here is
// the collection itself and "/{id}" a single record.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Post("/", h.HandleInsert())
	r.Get("/{id}", h.HandleGet())
	r.Delete("/{id}", h.HandleDelete())
	r.Put("/{id}", h.HandleUpsert())
}

// HandleList godoc
// @Summary List relief goods
// @Tags ReliefGoods
// @Produce json
// @Success 200 {object} reliefgoods.ListResponse
// @Failure 503 {object} apperror.ErrorResponse "Store unavailable"
// @Router /relief-goods [get]
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

// HandleInsert godoc
// @Summary Create a relief goods record
// @Description Stores the request body as a new record. Any JSON object is accepted.
// @Tags ReliefGoods
// @Accept json
// @Produce json
// @Param record body object true "Record fields"
// @Success 200 {object} store.InsertResult
// @Failure 400 {object} apperror.ErrorResponse "Body is not a JSON object"
// @Failure 503 {object} apperror.ErrorResponse "Store unavailable"
// @Router /relief-goods [post]
func (h *Handler) HandleInsert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeFields(w, r)
		if !ok {
			return
		}
		res, err := h.service.Insert(r.Context(), fields)
		if err != nil {
			apperror.Respond(h.l, w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, res)
	}
}

// HandleGet godoc
// @Summary Get a relief goods record
// @Description Returns the record, or null when no record has the id.
// @Tags ReliefGoods
// @Produce json
// @Param id path string true "Record id (24 hex characters)"
// @Success 200 {object} object "The record or null"
// @Failure 400 {object} apperror.ErrorResponse "Malformed id"
// @Router /relief-goods/{id} [get]
func (h *Handler) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			apperror.Respond(h.l, w, r, err)
			return
		}
		// A well-formed id that matches nothing is not an error: clients get
		// 200 with a JSON null, the same as asking MongoDB directly.
		if doc == nil {
			apperror.WriteJSON(w, http.StatusOK, nil)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, doc)
	}
}

// HandleDelete godoc
// @Summary Delete a relief goods record
// @Tags ReliefGoods
// @Produce json
// @Param id path string true "Record id (24 hex characters)"
// @Success 200 {object} store.DeleteResult "deletedCount is 0 when nothing matched"
// @Failure 400 {object} apperror.ErrorResponse "Malformed id"
// @Router /relief-goods/{id} [delete]
func (h *Handler) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// chi.URLParam reads the {id} segment captured by the route pattern.
		// The service validates it, so a malformed id becomes a 400 there.
		res, err := h.service.DeleteByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			apperror.Respond(h.l, w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, res)
	}
}

// HandleUpsert godoc
// @Summary Update or create a relief goods record
// @Description Sets title, category, item, reason, amount, description and priority. Other fields of the stored record are kept.
// @Tags ReliefGoods
// @Accept json
// @Produce json
// @Param id path string true "Record id (24 hex characters)"
// @Param record body object true "Record fields"
// @Success 200 {object} store.UpdateResult
// @Failure 400 {object} apperror.ErrorResponse "Malformed id or body"
// @Failure 500 {object} apperror.ErrorResponse "Error updating relief goods"
// @Router /relief-goods/{id} [put]
func (h *Handler) HandleUpsert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeFields(w, r)
		if !ok {
			return
		}
		res, err := h.service.UpsertByID(r.Context(), chi.URLParam(r, "id"), fields)
		if err != nil {
			apperror.Respond(h.l, w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, res)
	}
}

// decodeFields reads a JSON object body. On failure it has already written
// the 400 response.
func decodeFields(w http.ResponseWriter, r *http.Request) (record.Fields, bool) {
	defer r.Body.Close()
	// record.Fields implements json.Unmarshaler and refuses anything that is
	// not an object, so arrays and scalars fail here with ErrNotObject.
	var fields record.Fields
	err := json.NewDecoder(r.Body).Decode(&fields)
	// An empty body counts as an empty object, so POST stores an empty record
	// and PUT writes every upsert field as null. Anything present must still be
	// a JSON object.
	if errors.Is(err, io.EOF) {
		return record.Fields{}, true
	}
	if err != nil {
		apperror.WriteError(w, apperror.NewBadRequestError("request body must be a JSON object", err))
		return nil, false
	}
	return fields, true
}
