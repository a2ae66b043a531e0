package models

import (
	"time"

	"github.com/google/uuid"
)

// Alumni represents a row in the historical alumni directory.
// Maps to: alumni table. Immutable from this service's point of view;
// rows are loaded from the registrar's import, never written here.
type Alumni struct {
	ID uuid.UUID `db:"id" json:"id"`

	// Free-text name as imported, often carrying titles and degrees
	FullName string `db:"full_name" json:"full_name"`

	// Year group ("angkatan"); matching never crosses cohorts
	Cohort int `db:"cohort" json:"cohort"`

	// Descriptive fields, irrelevant to matching
	StudyContinuation *string `db:"study_continuation" json:"study_continuation,omitempty"`
	Program           *string `db:"program" json:"program,omitempty"`
	Notes             *string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
