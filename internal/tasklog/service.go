// Package tasklog flattens tasks across every room into one filterable log.
package tasklog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"roomkeeper/internal/audit"
	"roomkeeper/internal/rooms/models"
	"roomkeeper/internal/rooms/store"
	tasklogmetrics "roomkeeper/internal/tasklog/metrics"
	dErrors "roomkeeper/pkg/domain-errors"
	"roomkeeper/pkg/platform/sentinel"
)

// Entry is a task annotated with its owning room's number and floor, the unit
// the task log renders.
type Entry struct {
	models.Task
	RoomNumber string `json:"roomNumber"`
	Floor      int    `json:"floor"`
}

// Filter narrows the log. Query matches room number or description,
// case-insensitive substring. Floor zero means all floors. The displayed list
// is the conjunction of both.
type Filter struct {
	Query string
	Floor int
}

// Stats are derived over the filtered list, not the full one, so they always
// describe exactly what the user is looking at.
type Stats struct {
	Completed int         `json:"completed"`
	Pending   int         `json:"pending"`
	ByFloor   map[int]int `json:"by_floor"`
}

// Service builds the task log from whole-collection fetches and deletes tasks
// by rewriting their owning room's task list.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *tasklogmetrics.Metrics
	audit   *audit.Publisher
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *tasklogmetrics.Metrics
	audit   *audit.Publisher
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *tasklogmetrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithAudit(p *audit.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.audit = p }
}

func New(st store.Store, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		store:   st,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		audit:   cfg.audit,
	}
}

// List fetches every room, flattens the tasks newest-first, and applies the
// filter. Stats describe the filtered result.
func (s *Service) List(ctx context.Context, filter Filter) ([]Entry, Stats, error) {
	start := time.Now()
	rooms, err := s.store.List(ctx)
	if err != nil {
		return nil, Stats{ByFloor: map[int]int{}}, translateStoreErr(err)
	}
	if s.metrics != nil {
		s.metrics.ObserveList(start)
	}

	entries := Flatten(rooms)
	filtered := filter.Apply(entries)
	return filtered, BuildStats(filtered), nil
}

// Flatten turns the room collection into one task list sorted descending by
// start time.
func Flatten(rooms []*models.Room) []Entry {
	var entries []Entry
	for _, room := range rooms {
		for _, task := range room.Tasks {
			entries = append(entries, Entry{
				Task:       task,
				RoomNumber: room.Number,
				Floor:      room.Floor,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.After(entries[j].StartTime)
	})
	return entries
}

// Apply filters entries by the conjunction of query and floor.
func (f Filter) Apply(entries []Entry) []Entry {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if query != "" &&
			!strings.Contains(strings.ToLower(entry.RoomNumber), query) &&
			!strings.Contains(strings.ToLower(entry.Description), query) {
			continue
		}
		if f.Floor != 0 && entry.Floor != f.Floor {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// BuildStats counts completion and per-floor totals over the given entries.
func BuildStats(entries []Entry) Stats {
	stats := Stats{ByFloor: make(map[int]int)}
	for _, entry := range entries {
		if entry.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		stats.ByFloor[entry.Floor]++
	}
	return stats
}

// DeleteTask removes one task from its owning room, addressed by the room's
// stable identifier so duplicate room numbers cannot misdirect the delete.
// The reduced task list is written back with the room's current status. An
// unknown task id is a silent no-op, matching the log view's semantics.
func (s *Service) DeleteTask(ctx context.Context, roomID, taskID string) error {
	if roomID == "" || taskID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "room id and task id are required")
	}

	room, err := s.store.Get(ctx, roomID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.DeleteFailures.Inc()
		}
		return translateStoreErr(err)
	}

	if !room.RemoveTask(taskID) {
		s.logger.InfoContext(ctx, "delete skipped, task not found",
			"room_id", roomID,
			"task_id", taskID,
		)
		return nil
	}

	if err := s.store.UpdateState(ctx, roomID, room.Status, room.Tasks); err != nil {
		if s.metrics != nil {
			s.metrics.DeleteFailures.Inc()
		}
		return translateStoreErr(err)
	}

	if s.metrics != nil {
		s.metrics.TasksDeleted.Inc()
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Action: audit.ActionTaskDeleted,
			RoomID: roomID,
			TaskID: taskID,
			Detail: fmt.Sprintf("room %s now has %d tasks", room.Number, len(room.Tasks)),
		})
	}
	s.logger.InfoContext(ctx, "task deleted",
		"room_id", roomID,
		"task_id", taskID,
	)
	return nil
}

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
