package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"roomkeeper/internal/platform/middleware"
	"roomkeeper/internal/rooms/models"
	"roomkeeper/internal/rooms/service"
	dErrors "roomkeeper/pkg/domain-errors"
	"roomkeeper/pkg/platform/httputil"
)

// Service defines the room operations the handler needs.
type Service interface {
	Overview(ctx context.Context, expansion service.FloorExpansion) (*service.Overview, error)
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	SaveRoom(ctx context.Context, roomID string, status models.RoomStatus, tasks []models.Task) error
}

// Handler wires room endpoints to the room service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a rooms handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts room endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/rooms", h.HandleList)
	r.Get("/rooms/{roomID}", h.HandleGet)
	r.Put("/rooms/{roomID}", h.HandleSave)
}

// HandleList handles GET /rooms. A store outage degrades to an empty overview
// rather than an error page: the list view stops loading, shows no rooms, and
// the failure is only traced in the log.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.URL.Query().Get("expanded")
	_, present := r.URL.Query()["expanded"]
	expansion := parseExpansion(raw, present)

	overview, err := h.service.Overview(ctx, expansion)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to fetch rooms",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		overview = service.BuildOverview(nil, expansion)
	}
	httputil.WriteJSON(w, http.StatusOK, overview)
}

// HandleGet handles GET /rooms/{roomID}. A 404 tells the client to redirect
// back to the list view; a 503 asks it to show a failure notice.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := chi.URLParam(r, "roomID")

	room, err := h.service.GetRoom(ctx, roomID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to fetch room",
				"request_id", middleware.GetRequestID(ctx),
				"room_id", roomID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, room)
}

// HandleSave handles PUT /rooms/{roomID}: the explicit save that reconciles a
// client draft back to the store. On failure the client keeps its draft and
// may retry; nothing is partially applied.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := chi.URLParam(r, "roomID")

	req, ok := httputil.Decode[SaveRoomRequest](w, r)
	if !ok {
		return
	}
	if req.Tasks == nil {
		req.Tasks = []models.Task{}
	}

	if err := h.service.SaveRoom(ctx, roomID, req.Status, req.Tasks); err != nil {
		h.logger.ErrorContext(ctx, "failed to save room",
			"request_id", middleware.GetRequestID(ctx),
			"room_id", roomID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":     roomID,
		"status": req.Status,
		"tasks":  req.Tasks,
	})
}
