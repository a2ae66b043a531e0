package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance records a member checking in at a campaign event.
// Maps to: event_attendance table.
type Attendance struct {
	ID          uuid.UUID `db:"id" json:"id"`
	EventID     uuid.UUID `db:"event_id" json:"event_id"`
	MemberID    uuid.UUID `db:"member_id" json:"member_id"`
	CheckedInAt time.Time `db:"checked_in_at" json:"checked_in_at"`
}

// Registration records a member signing up for a campaign event.
// Maps to: event_registration table.
type Registration struct {
	ID           uuid.UUID `db:"id" json:"id"`
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	MemberID     uuid.UUID `db:"member_id" json:"member_id"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}
