package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "roomkeeper/pkg/domain-errors"
	"roomkeeper/pkg/platform/httputil"
)

// Handler exposes the audit trail for operators.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/audit", h.HandleList)
}

// HandleList handles GET /audit, newest events first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
