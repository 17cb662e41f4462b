package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomkeeper/internal/rooms/models"
	"roomkeeper/internal/rooms/service"
	"roomkeeper/internal/rooms/store"
	"roomkeeper/pkg/platform/sentinel"
)

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

func newTestRouter(t *testing.T, st store.Store) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(service.New(st, service.WithLogger(logger)), logger).Register(r)
	return r
}

func seededRouter(t *testing.T) (chi.Router, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Put(ctx, &models.Room{
		ID: "room-101", Number: "101", Floor: 1, Status: models.StatusVacated, RoomType: "Standard",
	}))
	require.NoError(t, mem.Put(ctx, &models.Room{
		ID: "room-201", Number: "201", Floor: 2, Status: models.StatusCleaned, RoomType: "Deluxe",
	}))
	return newTestRouter(t, mem), mem
}

func TestHandleList(t *testing.T) {
	t.Run("default expansion opens floor 1 only", func(t *testing.T) {
		router, _ := seededRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var overview service.Overview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))

		assert.Len(t, overview.Rooms, 2)
		require.Len(t, overview.Floors, 4)
		assert.True(t, overview.Floors[0].Expanded)
		assert.Len(t, overview.Floors[0].Rooms, 1)
		assert.False(t, overview.Floors[1].Expanded)
		assert.Nil(t, overview.Floors[1].Rooms)
		assert.Equal(t, 1, overview.Floors[1].RoomCount)
	})

	t.Run("expanded parameter overrides the default", func(t *testing.T) {
		router, _ := seededRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms?expanded=2,3", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var overview service.Overview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))

		assert.False(t, overview.Floors[0].Expanded)
		assert.True(t, overview.Floors[1].Expanded)
		assert.True(t, overview.Floors[2].Expanded)
	})

	t.Run("store outage degrades to an empty overview", func(t *testing.T) {
		router := newTestRouter(t, brokenStore{})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var overview service.Overview
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
		assert.Empty(t, overview.Rooms)
		assert.Len(t, overview.Floors, 4)
	})
}

func TestHandleGet(t *testing.T) {
	router, _ := seededRouter(t)

	t.Run("existing room", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/room-101", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var room models.Room
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
		assert.Equal(t, "101", room.Number)
		assert.Equal(t, models.StatusVacated, room.Status)
	})

	t.Run("missing room answers 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/room-999", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "not_found", body["error"])
	})

	t.Run("store outage answers 503", func(t *testing.T) {
		broken := newTestRouter(t, brokenStore{})
		w := httptest.NewRecorder()
		broken.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/room-101", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandleSave(t *testing.T) {
	t.Run("valid save persists and echoes the new state", func(t *testing.T) {
		router, mem := seededRouter(t)
		end := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
		payload := SaveRoomRequest{
			Status: models.StatusCleaned,
			Tasks: []models.Task{{
				ID:          "t1",
				Description: "Vacuum",
				Completed:   true,
				StartTime:   end.Add(-time.Hour),
				EndTime:     &end,
				RoomID:      "room-101",
			}},
		}
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/rooms/room-101", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, w.Code)

		room, err := mem.Get(context.Background(), "room-101")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCleaned, room.Status)
		require.Len(t, room.Tasks, 1)
		assert.Equal(t, "Vacuum", room.Tasks[0].Description)
	})

	t.Run("omitted tasks field saves an empty list", func(t *testing.T) {
		router, mem := seededRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/rooms/room-101",
			bytes.NewReader([]byte(`{"status":"occupied"}`))))
		require.Equal(t, http.StatusOK, w.Code)

		room, err := mem.Get(context.Background(), "room-101")
		require.NoError(t, err)
		assert.Equal(t, models.StatusOccupied, room.Status)
		require.NotNil(t, room.Tasks)
		assert.Len(t, room.Tasks, 0)
	})

	t.Run("malformed body answers 400", func(t *testing.T) {
		router, _ := seededRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/rooms/room-101",
			bytes.NewReader([]byte(`{`))))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown status answers 400", func(t *testing.T) {
		router, mem := seededRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/rooms/room-101",
			bytes.NewReader([]byte(`{"status":"sparkling","tasks":[]}`))))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var errBody map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
		assert.Equal(t, "bad_request", errBody["error"])

		room, err := mem.Get(context.Background(), "room-101")
		require.NoError(t, err)
		assert.Equal(t, models.StatusVacated, room.Status, "rejected save changes nothing")
	})

	t.Run("unknown room answers 404", func(t *testing.T) {
		router, _ := seededRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/rooms/room-999",
			bytes.NewReader([]byte(`{"status":"cleaned","tasks":[]}`))))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestParseExpansion(t *testing.T) {
	t.Run("absent parameter falls back to floor 1", func(t *testing.T) {
		expansion := parseExpansion("", false)
		assert.True(t, expansion.IsExpanded(1))
		assert.False(t, expansion.IsExpanded(2))
	})

	t.Run("present but empty collapses everything", func(t *testing.T) {
		expansion := parseExpansion("", true)
		assert.False(t, expansion.IsExpanded(1))
	})

	t.Run("junk segments are ignored", func(t *testing.T) {
		expansion := parseExpansion("2, x ,3,", true)
		assert.True(t, expansion.IsExpanded(2))
		assert.True(t, expansion.IsExpanded(3))
		assert.False(t, expansion.IsExpanded(1))
	})
}
