package audit

import "time"

// Actions recorded by the housekeeping tracker.
const (
	ActionRoomSaved   = "room.saved"
	ActionTaskDeleted = "task.deleted"
)

// Event is emitted from domain logic to capture mutations of the room
// collection. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	RoomID    string    `json:"room_id"`
	TaskID    string    `json:"task_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
