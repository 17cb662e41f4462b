// Package store adapts the room document collection to the domain model.
//
// Error contract, shared by every implementation:
//   - Get returns sentinel.ErrNotFound (wrapped) when the room id is absent,
//     distinct from transport failures which wrap sentinel.ErrUnavailable.
//   - List wraps transport failures in sentinel.ErrUnavailable.
//   - UpdateState replaces only the status and task list of one document and
//     is a blind overwrite: no version check, last writer wins.
package store

import (
	"context"

	"roomkeeper/internal/rooms/models"
)

// Store is the room repository. View-model code receives an explicit Store
// handle; there is no package-level client.
type Store interface {
	// List reads every room document. Missing task lists default to empty.
	// The result is unordered; callers sort for display.
	List(ctx context.Context) ([]*models.Room, error)

	// Get reads one room document by its store-assigned identifier.
	Get(ctx context.Context, roomID string) (*models.Room, error)

	// UpdateState overwrites the status and task list of one room document,
	// leaving number, floor, and room type untouched.
	UpdateState(ctx context.Context, roomID string, status models.RoomStatus, tasks []models.Task) error
}

// HealthChecker is implemented by stores with a remote backend.
type HealthChecker interface {
	Health(ctx context.Context) error
}
