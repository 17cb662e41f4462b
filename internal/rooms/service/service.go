package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roomkeeper/internal/audit"
	roomsmetrics "roomkeeper/internal/rooms/metrics"
	"roomkeeper/internal/rooms/models"
	"roomkeeper/internal/rooms/store"
	dErrors "roomkeeper/pkg/domain-errors"
	"roomkeeper/pkg/platform/sentinel"
)

// RoomService owns the room data-synchronization rules: one-shot fetches into
// view state and blind overwrite saves back to the store. The store handle is
// injected; nothing here holds global connection state.
type RoomService struct {
	store   store.Store
	logger  *slog.Logger
	metrics *roomsmetrics.Metrics
	audit   *audit.Publisher
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *roomsmetrics.Metrics
	audit   *audit.Publisher
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *roomsmetrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithAudit(p *audit.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.audit = p }
}

func New(st store.Store, opts ...Option) *RoomService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &RoomService{
		store:   st,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		audit:   cfg.audit,
	}
}

// ListRooms fetches the whole collection sorted for display.
func (s *RoomService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	start := time.Now()
	rooms, err := s.store.List(ctx)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if s.metrics != nil {
		s.metrics.ObserveList(start)
	}
	models.SortRooms(rooms)
	return rooms, nil
}

// Overview fetches all rooms once and derives the list view state.
func (s *RoomService) Overview(ctx context.Context, expansion FloorExpansion) (*Overview, error) {
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	return BuildOverview(rooms, expansion), nil
}

// GetRoom fetches one room, the seed of a detail view draft.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	if roomID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "room id is required")
	}
	start := time.Now()
	room, err := s.store.Get(ctx, roomID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if s.metrics != nil {
		s.metrics.ObserveGet(start)
	}
	return room, nil
}

// SaveRoom overwrites one room's status and task list. The write is
// last-writer-wins: edits made elsewhere since the caller's fetch are lost.
// A save either fully replaces both fields or does not apply at all, so a
// failed save leaves the caller's draft valid for retry.
func (s *RoomService) SaveRoom(ctx context.Context, roomID string, status models.RoomStatus, tasks []models.Task) error {
	if roomID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "room id is required")
	}
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown room status %q", status))
	}
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return err
		}
	}

	if err := s.store.UpdateState(ctx, roomID, status, tasks); err != nil {
		if s.metrics != nil {
			s.metrics.SaveFailures.Inc()
		}
		return translateStoreErr(err)
	}

	if s.metrics != nil {
		s.metrics.RoomsSaved.Inc()
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Action: audit.ActionRoomSaved,
			RoomID: roomID,
			Detail: fmt.Sprintf("status=%s tasks=%d", status, len(tasks)),
		})
	}
	s.logger.InfoContext(ctx, "room saved",
		"room_id", roomID,
		"status", status,
		"task_count", len(tasks),
	)
	return nil
}

// translateStoreErr converts store sentinel errors into coded domain errors.
func translateStoreErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "room not found")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "room store unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "room store error")
	}
}
