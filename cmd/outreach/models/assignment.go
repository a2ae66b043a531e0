package models

import (
	"github.com/google/uuid"
)

// Assignment links a member to the canvasser working them.
// Maps to: member_assignment table. (member_id, canvasser_id) is naturally
// unique; the merge engine dedups against it explicitly.
type Assignment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	MemberID    uuid.UUID `db:"member_id" json:"member_id"`
	CanvasserID uuid.UUID `db:"canvasser_id" json:"canvasser_id"`
}
