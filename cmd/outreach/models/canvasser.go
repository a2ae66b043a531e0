package models

import (
	"github.com/google/uuid"
)

// Canvasser roles
const (
	RoleAdmin     = "admin"
	RoleCanvasser = "canvasser"
)

// Canvasser represents a campaign operator.
// Maps to: canvasser table.
type Canvasser struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	FullName string    `db:"full_name" json:"full_name"`
	Role     string    `db:"role" json:"role"`
}

// IsAdmin reports whether this operator may administer member/alumni data
func (c *Canvasser) IsAdmin() bool {
	return c.Role == RoleAdmin
}
