package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"finances/internal/core"
	"finances/internal/log"
	"finances/internal/storage"
)

// resourceService is what a mounted resource needs from the service layer.
// *services.ResourceService[T] and *services.UserService satisfy it.
type resourceService[T any] interface {
	Resource() string
	Decode(body map[string]json.RawMessage) (storage.Values, error)
	List(ctx context.Context, userID int64) ([]T, error)
	Get(ctx context.Context, userID, id int64) (T, error)
	Create(ctx context.Context, userID int64, values storage.Values) (T, error)
	Update(ctx context.Context, userID, id int64, values storage.Values) (T, error)
	Delete(ctx context.Context, userID, id int64) error
}

type resourceHandler[T any] struct {
	svc     resourceService[T]
	metrics *appMetrics
}

// mountResource registers the five CRUD routes of svc on r, which must
// already require authentication.
func mountResource[T any](r *mux.Router, svc resourceService[T], metrics *appMetrics) {
	h := &resourceHandler[T]{svc: svc, metrics: metrics}
	base := "/" + svc.Resource()

	r.HandleFunc(base, h.list).Methods(http.MethodGet)
	r.HandleFunc(base, h.create).Methods(http.MethodPost)
	r.HandleFunc(base+"/", h.missingID).Methods(http.MethodGet, http.MethodPut, http.MethodDelete)
	r.HandleFunc(base+"/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc(base+"/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc(base+"/{id}", h.remove).Methods(http.MethodDelete)
}

func (h *resourceHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	items, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *resourceHandler[T]) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	item, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	values, err := h.decode(w, r)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	item, err := h.svc.Create(r.Context(), userID, values)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	h.metrics.mutation(log.OpCreate)
	writeJSON(w, http.StatusCreated, item)
}

func (h *resourceHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	values, err := h.decode(w, r)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	item, err := h.svc.Update(r.Context(), userID, id, values)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	h.metrics.mutation(log.OpUpdate)
	writeJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T]) remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, log.OpDelete, err)
		return
	}
	h.metrics.mutation(log.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}

func (h *resourceHandler[T]) missingID(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, log.OpRead, errMissingID)
}

func (h *resourceHandler[T]) decode(w http.ResponseWriter, r *http.Request) (storage.Values, error) {
	body, err := parseObject(w, r)
	if err != nil {
		return nil, err
	}
	values, err := h.svc.Decode(body)
	if err != nil {
		return nil, err
	}
	if values == nil {
		return nil, core.NewValidationError("", "request body must be a JSON object")
	}
	return values, nil
}
