// Package handler exposes read access to certificate templates so the portal
// can populate its template picker.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fismapp/internal/template"
	dErrors "fismapp/pkg/domain-errors"
	"fismapp/pkg/platform/httputil"
)

type Handler struct {
	store template.Store
}

func New(store template.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/templates", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.ListTemplates(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "template store unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"templates": templates,
	})
}
