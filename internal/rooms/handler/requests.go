package handler

import (
	"strconv"
	"strings"

	"roomkeeper/internal/rooms/models"
	"roomkeeper/internal/rooms/service"
)

// SaveRoomRequest is the PUT /rooms/{roomID} payload: the full draft the
// client reconciles back to the store. Fields not listed here are never
// touched by a save.
type SaveRoomRequest struct {
	Status models.RoomStatus `json:"status"`
	Tasks  []models.Task     `json:"tasks"`
}

// parseExpansion reads the expanded query parameter ("1,3") into floor view
// state. An absent parameter means the default: floor 1 open.
func parseExpansion(raw string, present bool) service.FloorExpansion {
	if !present {
		return service.DefaultExpansion()
	}
	expansion := service.FloorExpansion{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if floor, err := strconv.Atoi(part); err == nil {
			expansion[floor] = true
		}
	}
	return expansion
}
