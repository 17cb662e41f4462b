package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomkeeper/internal/rooms/models"
	"roomkeeper/internal/rooms/store"
	dErrors "roomkeeper/pkg/domain-errors"
	"roomkeeper/pkg/platform/sentinel"
)

// brokenStore simulates a store whose backend is unreachable.
type brokenStore struct{}

func (brokenStore) List(context.Context) ([]*models.Room, error) {
	return nil, fmt.Errorf("dial tcp: %w", sentinel.ErrUnavailable)
}

func (brokenStore) Get(context.Context, string) (*models.Room, error) {
	return nil, fmt.Errorf("dial tcp: %w", sentinel.ErrUnavailable)
}

func (brokenStore) UpdateState(context.Context, string, models.RoomStatus, []models.Task) error {
	return fmt.Errorf("dial tcp: %w", sentinel.ErrUnavailable)
}

func newSeededService(t *testing.T) (*RoomService, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.Put(context.Background(), &models.Room{
		ID:       "room-101",
		Number:   "101",
		Floor:    1,
		Status:   models.StatusVacated,
		RoomType: "Standard",
	}))
	return New(mem), mem
}

func TestGetRoom(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	t.Run("existing room", func(t *testing.T) {
		room, err := svc.GetRoom(ctx, "room-101")
		require.NoError(t, err)
		assert.Equal(t, "101", room.Number)
	})

	t.Run("missing room maps to not_found", func(t *testing.T) {
		_, err := svc.GetRoom(ctx, "room-999")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("transport failure maps to unavailable", func(t *testing.T) {
		_, err := New(brokenStore{}).GetRoom(ctx, "room-101")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func TestSaveRoomValidation(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("unknown status is rejected", func(t *testing.T) {
		err := svc.SaveRoom(ctx, "room-101", "sparkling", nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("completed task without end time is rejected", func(t *testing.T) {
		tasks := []models.Task{{ID: "t1", Description: "Vacuum", Completed: true, StartTime: now}}
		err := svc.SaveRoom(ctx, "room-101", models.StatusCleaned, tasks)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("failed save leaves the store unchanged", func(t *testing.T) {
		tasks := []models.Task{{ID: "t1", Description: "Vacuum", Completed: true, StartTime: now}}
		_ = svc.SaveRoom(ctx, "room-101", models.StatusCleaned, tasks)

		room, err := svc.GetRoom(ctx, "room-101")
		require.NoError(t, err)
		assert.Equal(t, models.StatusVacated, room.Status)
		assert.Empty(t, room.Tasks)
	})
}

func TestSaveRoomRoundTrip(t *testing.T) {
	svc, _ := newSeededService(t)
	ctx := context.Background()

	// Room 101 is vacated with no tasks. Add "Vacuum", complete it, save,
	// re-fetch: tasks come back completed with an end time, status untouched.
	room, err := svc.GetRoom(ctx, "room-101")
	require.NoError(t, err)

	created := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	task, added := room.AddTask("Vacuum", created)
	require.True(t, added)
	require.True(t, room.ToggleTask(task.ID, created.Add(20*time.Minute)))

	require.NoError(t, svc.SaveRoom(ctx, room.ID, room.Status, room.Tasks))

	fetched, err := svc.GetRoom(ctx, "room-101")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVacated, fetched.Status, "status unchanged unless explicitly changed")
	require.Len(t, fetched.Tasks, 1)
	assert.Equal(t, "Vacuum", fetched.Tasks[0].Description)
	assert.True(t, fetched.Tasks[0].Completed)
	require.NotNil(t, fetched.Tasks[0].EndTime)
	assert.Equal(t, room.Tasks, fetched.Tasks)
}

func TestSaveRoomOverwrites(t *testing.T) {
	// Last writer wins: a save based on a stale fetch silently replaces
	// whatever another writer stored in between.
	svc, mem := newSeededService(t)
	ctx := context.Background()

	first, err := svc.GetRoom(ctx, "room-101")
	require.NoError(t, err)
	_, added := first.AddTask("Dust shelves", time.Now())
	require.True(t, added)

	interloper := []models.Task{{ID: "other", Description: "Mop", StartTime: time.Now(), RoomID: "room-101"}}
	require.NoError(t, mem.UpdateState(ctx, "room-101", models.StatusOccupied, interloper))

	require.NoError(t, svc.SaveRoom(ctx, "room-101", first.Status, first.Tasks))

	fetched, err := svc.GetRoom(ctx, "room-101")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVacated, fetched.Status)
	require.Len(t, fetched.Tasks, 1)
	assert.Equal(t, "Dust shelves", fetched.Tasks[0].Description)
}

func TestOverviewFetch(t *testing.T) {
	svc, mem := newSeededService(t)
	ctx := context.Background()
	require.NoError(t, mem.Put(ctx, &models.Room{
		ID: "room-201", Number: "201", Floor: 2, Status: models.StatusCleaned,
	}))

	overview, err := svc.Overview(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, overview.Rooms, 2)
	assert.Equal(t, 1, overview.StatusSummary[models.StatusVacated])
	assert.Equal(t, 1, overview.StatusSummary[models.StatusCleaned])

	t.Run("store outage surfaces unavailable", func(t *testing.T) {
		_, err := New(brokenStore{}).Overview(ctx, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}
