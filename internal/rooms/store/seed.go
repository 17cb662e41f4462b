package store

import (
	"context"
	"fmt"

	"roomkeeper/internal/rooms/models"
)

// Seeder is any store that accepts whole-document writes. Rooms are normally
// created out-of-band; seeding exists so a standalone instance has data.
type Seeder interface {
	Put(ctx context.Context, room *models.Room) error
}

// SeedRooms loads a four-floor hotel layout: six rooms per floor, alternating
// standard and deluxe, everything starting as needs-cleaning with no tasks.
func SeedRooms(ctx context.Context, s Seeder) error {
	for floor := 1; floor <= 4; floor++ {
		for n := 1; n <= 6; n++ {
			roomType := "Standard"
			if n%2 == 0 {
				roomType = "Deluxe"
			}
			number := fmt.Sprintf("%d%02d", floor, n)
			room := &models.Room{
				ID:       "room-" + number,
				Number:   number,
				Floor:    floor,
				Status:   models.StatusNeedsCleaning,
				RoomType: roomType,
				Tasks:    []models.Task{},
			}
			if err := s.Put(ctx, room); err != nil {
				return fmt.Errorf("seed room %s: %w", number, err)
			}
		}
	}
	return nil
}
