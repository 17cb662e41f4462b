package store

import (
	"context"
	"fmt"
	"sync"

	"roomkeeper/internal/rooms/models"
	"roomkeeper/pkg/platform/sentinel"
)

// MemoryStore keeps room documents in memory for tests and standalone runs.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
}

// NewMemory constructs an empty in-memory room store.
func NewMemory() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*models.Room)}
}

// Put inserts or replaces a room document. Rooms are created out-of-band in
// production; Put exists for seeding and tests.
func (s *MemoryStore) Put(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := room.Clone()
	if cp.Tasks == nil {
		cp.Tasks = []models.Task{}
	}
	s.rooms[cp.ID] = cp
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room.Clone())
	}
	return rooms, nil
}

func (s *MemoryStore) Get(_ context.Context, roomID string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, sentinel.ErrNotFound)
	}
	return room.Clone(), nil
}

func (s *MemoryStore) UpdateState(_ context.Context, roomID string, status models.RoomStatus, tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return fmt.Errorf("room %s: %w", roomID, sentinel.ErrNotFound)
	}
	room.Status = status
	room.Tasks = make([]models.Task, len(tasks))
	copy(room.Tasks, tasks)
	return nil
}
