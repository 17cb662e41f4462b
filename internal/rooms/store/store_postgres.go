package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomkeeper/internal/rooms/models"
	"roomkeeper/pkg/platform/sentinel"
)

// PostgresStore persists rooms in a single table with the task list embedded
// as JSONB, mirroring the document shape of the hosted store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed room store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema creates the rooms table. Called by integration tests and migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id        TEXT PRIMARY KEY,
	number    TEXT NOT NULL,
	floor     INT  NOT NULL,
	status    TEXT NOT NULL,
	room_type TEXT NOT NULL,
	tasks     JSONB NOT NULL DEFAULT '[]'
)`

func (s *PostgresStore) List(ctx context.Context) ([]*models.Room, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, number, floor, status, room_type, tasks FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %v: %w", err, sentinel.ErrUnavailable)
	}
	defer rows.Close()

	rooms := make([]*models.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms: %v: %w", err, sentinel.ErrUnavailable)
	}
	return rooms, nil
}

func (s *PostgresStore) Get(ctx context.Context, roomID string) (*models.Room, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, number, floor, status, room_type, tasks FROM rooms WHERE id = $1`, roomID)
	room, err := scanRoom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("room %s: %w", roomID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch room %s: %v: %w", roomID, err, sentinel.ErrUnavailable)
	}
	return room, nil
}

func (s *PostgresStore) UpdateState(ctx context.Context, roomID string, status models.RoomStatus, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks for room %s: %w", roomID, err)
	}

	tag, err := s.pool.Exec(ctx, `UPDATE rooms SET status = $2, tasks = $3 WHERE id = $1`, roomID, string(status), raw)
	if err != nil {
		return fmt.Errorf("save room %s: %v: %w", roomID, err, sentinel.ErrUnavailable)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room %s: %w", roomID, sentinel.ErrNotFound)
	}
	return nil
}

// Put inserts or replaces a room document; used by seeding and tests.
func (s *PostgresStore) Put(ctx context.Context, room *models.Room) error {
	tasks := room.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks for room %s: %w", room.ID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO rooms (id, number, floor, status, room_type, tasks)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET number = $2, floor = $3, status = $4, room_type = $5, tasks = $6`,
		room.ID, room.Number, room.Floor, string(room.Status), room.RoomType, raw)
	if err != nil {
		return fmt.Errorf("put room %s: %v: %w", room.ID, err, sentinel.ErrUnavailable)
	}
	return nil
}

// Health checks the backing connection.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var (
		room   models.Room
		status string
		raw    []byte
	)
	if err := row.Scan(&room.ID, &room.Number, &room.Floor, &status, &room.RoomType, &raw); err != nil {
		return nil, err
	}
	room.Status = models.RoomStatus(status)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &room.Tasks); err != nil {
			return nil, fmt.Errorf("decode tasks for room %s: %w", room.ID, err)
		}
	}
	if room.Tasks == nil {
		room.Tasks = []models.Task{}
	}
	return &room, nil
}
