package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/common/db"
)

// CanvasserRepository handles database operations for campaign operators
type CanvasserRepository struct {
	db *db.DB
}

// NewCanvasserRepository creates a new canvasser repository
func NewCanvasserRepository(database *db.DB) *CanvasserRepository {
	return &CanvasserRepository{db: database}
}

// GetByUsername retrieves an operator by username. Returns nil without
// error when no such operator exists.
func (r *CanvasserRepository) GetByUsername(ctx context.Context, username string) (*models.Canvasser, error) {
	query := `
		SELECT id, username, full_name, role
		FROM canvasser
		WHERE username = $1
	`

	c := &models.Canvasser{}
	err := r.db.QueryRow(ctx, query, username).Scan(
		&c.ID,
		&c.Username,
		&c.FullName,
		&c.Role,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get canvasser: %w", err)
	}

	return c, nil
}
