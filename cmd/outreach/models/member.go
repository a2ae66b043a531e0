package models

import (
	"time"

	"github.com/google/uuid"
)

// Member contact-status values
const (
	ContactStatusUncontacted = "uncontacted"
	ContactStatusContacted   = "contacted"
	ContactStatusUnreachable = "unreachable"
)

// Member group-membership status values
const (
	GroupStatusNotInvited = "not_invited"
	GroupStatusInvited    = "invited"
	GroupStatusJoined     = "joined"
)

// Member vote-commitment status values
const (
	CommitmentStatusUnknown   = "unknown"
	CommitmentStatusCommitted = "committed"
	CommitmentStatusDeclined  = "declined"
)

// Member represents a person tracked by the outreach campaign.
// Maps to: member table. Entered by hand, self-registration, or import,
// so the alumni link is frequently missing and names are messy.
type Member struct {
	ID uuid.UUID `db:"id" json:"id"`

	FullName string `db:"full_name" json:"full_name"`
	Cohort   int    `db:"cohort" json:"cohort"`

	Phone *string `db:"phone" json:"phone,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`
	City  *string `db:"city" json:"city,omitempty"`

	// Link to the authoritative alumni record; nil means unlinked.
	// Once set by confirmation it is never reassigned by the matcher.
	AlumniID *uuid.UUID `db:"alumni_id" json:"alumni_id,omitempty"`

	// Campaign-tracking fields, irrelevant to matching but carried
	// through the merge
	ContactStatus    string `db:"contact_status" json:"contact_status"`
	GroupStatus      string `db:"group_status" json:"group_status"`
	CommitmentStatus string `db:"commitment_status" json:"commitment_status"`

	// Self-referential pointer to the member who referred this one
	ReferredBy *uuid.UUID `db:"referred_by" json:"referred_by,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
