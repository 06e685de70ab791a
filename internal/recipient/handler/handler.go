// Package handler exposes the recipient directory listing used by the portal
// when picking certificate recipients.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fismapp/internal/recipient"
	dErrors "fismapp/pkg/domain-errors"
	"fismapp/pkg/platform/httputil"
)

type Handler struct {
	store recipient.Store
}

func New(store recipient.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/recipients", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.store.ListRecipients(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "recipient directory unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"recipients": recipients,
	})
}
