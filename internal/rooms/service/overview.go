package service

import (
	"roomkeeper/internal/rooms/models"
)

// Summary widgets cover this fixed floor range. Rooms on other floors stay in
// the sorted list but are invisible to summaries and floor groups.
const (
	MinFloor = 1
	MaxFloor = 4
)

// FloorExpansion is the set of floors currently expanded in the list view.
// Pure view state: never persisted, recomputed per request.
type FloorExpansion map[int]bool

// DefaultExpansion expands floor 1 only, the initial state of the list view.
func DefaultExpansion() FloorExpansion {
	return FloorExpansion{MinFloor: true}
}

// Toggle flips a floor in or out of the expanded set.
func (e FloorExpansion) Toggle(floor int) {
	if e[floor] {
		delete(e, floor)
		return
	}
	e[floor] = true
}

// IsExpanded reports whether a floor's room group is open.
func (e FloorExpansion) IsExpanded(floor int) bool {
	return e[floor]
}

// FloorGroup is one collapsible floor section of the room list.
type FloorGroup struct {
	Floor     int            `json:"floor"`
	Expanded  bool           `json:"expanded"`
	RoomCount int            `json:"room_count"`
	Rooms     []*models.Room `json:"rooms,omitempty"`
}

// Overview is everything the room list view renders in one fetch.
type Overview struct {
	Rooms         []*models.Room            `json:"rooms"`
	StatusSummary map[models.RoomStatus]int `json:"status_summary"`
	FloorSummary  map[int]int               `json:"floor_summary"`
	Floors        []FloorGroup              `json:"floors"`
}

// BuildOverview derives the list view state from an unordered room fetch.
// Counts are recomputed from scratch every time; the collection is
// hotel-scale, so incremental maintenance would be needless machinery.
func BuildOverview(rooms []*models.Room, expansion FloorExpansion) *Overview {
	if expansion == nil {
		expansion = DefaultExpansion()
	}

	sorted := make([]*models.Room, len(rooms))
	copy(sorted, rooms)
	models.SortRooms(sorted)

	statusSummary := make(map[models.RoomStatus]int, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		statusSummary[status] = 0
	}
	floorSummary := make(map[int]int, MaxFloor)
	byFloor := make(map[int][]*models.Room, MaxFloor)

	for _, room := range sorted {
		statusSummary[room.Status]++
		if room.Floor >= MinFloor && room.Floor <= MaxFloor {
			floorSummary[room.Floor]++
			byFloor[room.Floor] = append(byFloor[room.Floor], room)
		}
	}

	floors := make([]FloorGroup, 0, MaxFloor)
	for floor := MinFloor; floor <= MaxFloor; floor++ {
		if _, ok := floorSummary[floor]; !ok {
			floorSummary[floor] = 0
		}
		group := FloorGroup{
			Floor:     floor,
			Expanded:  expansion.IsExpanded(floor),
			RoomCount: len(byFloor[floor]),
		}
		if group.Expanded {
			group.Rooms = byFloor[floor]
			if group.Rooms == nil {
				group.Rooms = []*models.Room{}
			}
		}
		floors = append(floors, group)
	}

	return &Overview{
		Rooms:         sorted,
		StatusSummary: statusSummary,
		FloorSummary:  floorSummary,
		Floors:        floors,
	}
}
