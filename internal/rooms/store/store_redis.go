package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"roomkeeper/internal/rooms/models"
	"roomkeeper/pkg/platform/sentinel"
)

const roomKeyPrefix = "room:"

// RedisStore keeps each room as a JSON document under room:{id}. This is the
// default hosted backend: the collection is small (hotel-scale), so List can
// afford SCAN + MGET on every page load.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed room store. The client lifecycle is
// managed by the caller.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) List(ctx context.Context) ([]*models.Room, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, roomKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan rooms: %v: %w", err, sentinel.ErrUnavailable)
	}
	if len(keys) == 0 {
		return []*models.Room{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch rooms: %v: %w", err, sentinel.ErrUnavailable)
	}

	rooms := make([]*models.Room, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Key deleted between SCAN and MGET.
			continue
		}
		room, err := decodeRoom([]byte(raw))
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *RedisStore) Get(ctx context.Context, roomID string) (*models.Room, error) {
	raw, err := s.client.Get(ctx, roomKeyPrefix+roomID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("room %s: %w", roomID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch room %s: %v: %w", roomID, err, sentinel.ErrUnavailable)
	}
	return decodeRoom(raw)
}

// UpdateState reads the current document, replaces status and tasks, and
// writes it back. Deliberately last-writer-wins: no WATCH, matching the
// partial-update semantics of the hosted document store this replaces.
func (s *RedisStore) UpdateState(ctx context.Context, roomID string, status models.RoomStatus, tasks []models.Task) error {
	room, err := s.Get(ctx, roomID)
	if err != nil {
		return err
	}
	room.Status = status
	room.Tasks = tasks
	if room.Tasks == nil {
		room.Tasks = []models.Task{}
	}

	raw, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", roomID, err)
	}
	if err := s.client.Set(ctx, roomKeyPrefix+roomID, raw, 0).Err(); err != nil {
		return fmt.Errorf("save room %s: %v: %w", roomID, err, sentinel.ErrUnavailable)
	}
	return nil
}

// Put inserts or replaces a room document; used by seeding and tests.
func (s *RedisStore) Put(ctx context.Context, room *models.Room) error {
	cp := room.Clone()
	if cp.Tasks == nil {
		cp.Tasks = []models.Task{}
	}
	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", room.ID, err)
	}
	if err := s.client.Set(ctx, roomKeyPrefix+room.ID, raw, 0).Err(); err != nil {
		return fmt.Errorf("put room %s: %v: %w", room.ID, err, sentinel.ErrUnavailable)
	}
	return nil
}

// Health checks the backing connection.
func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func decodeRoom(raw []byte) (*models.Room, error) {
	var room models.Room
	if err := json.Unmarshal(raw, &room); err != nil {
		return nil, fmt.Errorf("decode room document: %w", err)
	}
	if room.Tasks == nil {
		room.Tasks = []models.Task{}
	}
	return &room, nil
}
