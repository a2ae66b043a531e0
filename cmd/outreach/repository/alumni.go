package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/common/db"
	"github.com/rekanalumni/outreach/common/fetch"
)

// AlumniRepository handles database operations for the alumni directory
type AlumniRepository struct {
	db       *db.DB
	pageSize int
}

// NewAlumniRepository creates a new alumni repository
func NewAlumniRepository(database *db.DB, pageSize int) *AlumniRepository {
	return &AlumniRepository{db: database, pageSize: pageSize}
}

// ListByCohorts returns every alumni record in the given cohorts, however
// many pages that takes
func (r *AlumniRepository) ListByCohorts(ctx context.Context, cohorts []int) ([]models.Alumni, error) {
	if len(cohorts) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, full_name, cohort, study_continuation, program, notes, created_at
		FROM alumni
		WHERE cohort = ANY($1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	alumni, err := fetch.All(ctx, r.pageSize, func(ctx context.Context, limit, offset int) ([]models.Alumni, error) {
		rows, err := r.db.Query(ctx, query, cohorts, limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanAlumni(rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list alumni by cohorts: %w", err)
	}

	return alumni, nil
}

// Exists reports whether an alumni row exists
func (r *AlumniRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM alumni WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check alumni existence: %w", err)
	}

	return exists, nil
}

func scanAlumni(rows pgx.Rows) ([]models.Alumni, error) {
	var alumni []models.Alumni
	for rows.Next() {
		var a models.Alumni
		err := rows.Scan(
			&a.ID,
			&a.FullName,
			&a.Cohort,
			&a.StudyContinuation,
			&a.Program,
			&a.Notes,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		alumni = append(alumni, a)
	}
	return alumni, rows.Err()
}
