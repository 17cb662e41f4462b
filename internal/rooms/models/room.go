package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "roomkeeper/pkg/domain-errors"
)

// RoomStatus is the housekeeping state of a room.
type RoomStatus string

const (
	StatusNeedsCleaning RoomStatus = "needs-cleaning"
	StatusCleaned       RoomStatus = "cleaned"
	StatusVacated       RoomStatus = "vacated"
	StatusOccupied      RoomStatus = "occupied"
)

// AllStatuses lists every status in display order.
var AllStatuses = []RoomStatus{StatusNeedsCleaning, StatusCleaned, StatusVacated, StatusOccupied}

// IsValid reports whether s is a recognized room status.
func (s RoomStatus) IsValid() bool {
	switch s {
	case StatusNeedsCleaning, StatusCleaned, StatusVacated, StatusOccupied:
		return true
	}
	return false
}

// Task is a single housekeeping action item embedded in its owning room's
// document. Tasks have no independent existence in the store.
//
// Invariant: EndTime is set if and only if Completed is true, enforced at the
// moment of toggling rather than by the store.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	RoomID      string     `json:"roomId"`
}

// Validate checks the completion invariant on a task submitted by a client.
func (t Task) Validate() error {
	if t.ID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "task id is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "task description is required")
	}
	if t.Completed && t.EndTime == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "completed task must have an end time")
	}
	if !t.Completed && t.EndTime != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "pending task must not have an end time")
	}
	return nil
}

// Room is a hotel room tracked for cleaning status and task history. The
// document store owns the record; the application holds a transient copy per
// page load and never creates or deletes rooms.
type Room struct {
	ID       string     `json:"id"`
	Number   string     `json:"number"`
	Floor    int        `json:"floor"`
	Status   RoomStatus `json:"status"`
	RoomType string     `json:"roomType"`
	Tasks    []Task     `json:"tasks"`
}

// AddTask appends a new pending task to the in-memory copy. The description is
// trimmed; an empty result is skipped and reported via the second return.
// Task IDs are random so two editors on the same room cannot collide.
func (r *Room) AddTask(description string, now time.Time) (*Task, bool) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, false
	}
	task := Task{
		ID:          uuid.NewString(),
		Description: description,
		Completed:   false,
		StartTime:   now,
		RoomID:      r.ID,
	}
	r.Tasks = append(r.Tasks, task)
	return &r.Tasks[len(r.Tasks)-1], true
}

// ToggleTask flips completion on the matching task, setting EndTime when the
// task transitions to completed and clearing it otherwise. Unknown task IDs
// are a no-op.
func (r *Room) ToggleTask(taskID string, now time.Time) bool {
	for i := range r.Tasks {
		if r.Tasks[i].ID != taskID {
			continue
		}
		r.Tasks[i].Completed = !r.Tasks[i].Completed
		if r.Tasks[i].Completed {
			end := now
			r.Tasks[i].EndTime = &end
		} else {
			r.Tasks[i].EndTime = nil
		}
		return true
	}
	return false
}

// RemoveTask deletes the matching task from the in-memory copy, preserving
// the order of the remainder. Unknown task IDs are a no-op.
func (r *Room) RemoveTask(taskID string) bool {
	for i := range r.Tasks {
		if r.Tasks[i].ID == taskID {
			r.Tasks = append(r.Tasks[:i], r.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy so stores can hand out rooms without aliasing
// their internal state.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Tasks = make([]Task, len(r.Tasks))
	copy(cp.Tasks, r.Tasks)
	for i := range cp.Tasks {
		if r.Tasks[i].EndTime != nil {
			end := *r.Tasks[i].EndTime
			cp.Tasks[i].EndTime = &end
		}
	}
	return &cp
}

// SortRooms orders rooms for display: floor ascending, then room number
// lexicographic ascending. Recomputed on every fetch, never persisted.
func SortRooms(rooms []*Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Floor != rooms[j].Floor {
			return rooms[i].Floor < rooms[j].Floor
		}
		return rooms[i].Number < rooms[j].Number
	})
}
