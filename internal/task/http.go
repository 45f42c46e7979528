package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskd/internal/model"
)

// Handler exposes the list commands and derived views over JSON. This is
// the surface presentation layers talk to; it holds no state of its own.
type Handler struct {
	list *List
}

func NewHandler(list *List) *Handler {
	return &Handler{list: list}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tasks", h.handleList)
	mux.HandleFunc("POST /api/tasks", h.handleAdd)
	mux.HandleFunc("POST /api/tasks/reorder", h.handleReorder)
	mux.HandleFunc("PATCH /api/tasks/{id}", h.handleEdit)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.handleRemove)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", h.handleToggle)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func writeCommandErr(w http.ResponseWriter, err error) {
	var persist *PersistError
	switch {
	case errors.Is(err, ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmptyTitle), errors.Is(err, ErrIndexOutOfRange):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &persist):
		writeErr(w, http.StatusBadGateway, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ParseFilter(r.URL.Query().Get("filter"))
	query := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, h.list.Derive(filter, query))
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := h.list.Add(r.Context(), body.Title, body.Description)
	if err != nil {
		writeCommandErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	var o model.Overrides
	if err := decodeJSON(r, &o); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := h.list.Edit(r.Context(), r.PathValue("id"), o)
	if err != nil {
		writeCommandErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	t, err := h.list.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCommandErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.list.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeCommandErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.list.Move(r.Context(), body.From, body.To); err != nil {
		writeCommandErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.list.Tasks())
}
