package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"roomkeeper/internal/platform/middleware"
	"roomkeeper/internal/tasklog"
	dErrors "roomkeeper/pkg/domain-errors"
	"roomkeeper/pkg/platform/httputil"
)

// Service defines the task log operations the handler needs.
type Service interface {
	List(ctx context.Context, filter tasklog.Filter) ([]tasklog.Entry, tasklog.Stats, error)
	DeleteTask(ctx context.Context, roomID, taskID string) error
}

// Handler wires task log endpoints to the task log service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a task log handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts task log endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/tasks", h.HandleList)
	r.Delete("/rooms/{roomID}/tasks/{taskID}", h.HandleDelete)
}

// HandleList handles GET /tasks?query=&floor=. A store outage degrades to an
// empty log with zeroed stats; the failure is only traced in the log.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := tasklog.Filter{Query: r.URL.Query().Get("query")}
	if raw := r.URL.Query().Get("floor"); raw != "" && raw != "all" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "floor must be a number or \"all\""))
			return
		}
		filter.Floor = floor
	}

	entries, stats, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to fetch task log",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		entries = []tasklog.Entry{}
	}
	if entries == nil {
		entries = []tasklog.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"tasks": entries,
		"stats": stats,
	})
}

// HandleDelete handles DELETE /rooms/{roomID}/tasks/{taskID}. Deleting an
// already-gone task still answers 204: the outcome the client asked for holds.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := chi.URLParam(r, "roomID")
	taskID := chi.URLParam(r, "taskID")

	if err := h.service.DeleteTask(ctx, roomID, taskID); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete task",
			"request_id", middleware.GetRequestID(ctx),
			"room_id", roomID,
			"task_id", taskID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
