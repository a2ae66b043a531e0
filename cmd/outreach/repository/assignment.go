package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/common/db"
)

// AssignmentRepository handles database operations for canvasser assignments
type AssignmentRepository struct {
	db *db.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(database *db.DB) *AssignmentRepository {
	return &AssignmentRepository{db: database}
}

func (r *AssignmentRepository) querier(q db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return r.db.Pool
}

// ListByMember returns all canvasser assignments for a member
func (r *AssignmentRepository) ListByMember(ctx context.Context, q db.Querier, memberID uuid.UUID) ([]models.Assignment, error) {
	query := `
		SELECT id, member_id, canvasser_id
		FROM member_assignment
		WHERE member_id = $1
		ORDER BY id
	`

	rows, err := r.querier(q).Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.MemberID, &a.CanvasserID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, nil
}

// Reassign moves one assignment row to a different member
func (r *AssignmentRepository) Reassign(ctx context.Context, q db.Querier, assignmentID, memberID uuid.UUID) error {
	query := `UPDATE member_assignment SET member_id = $2 WHERE id = $1`

	if _, err := r.querier(q).Exec(ctx, query, assignmentID, memberID); err != nil {
		return fmt.Errorf("failed to reassign assignment: %w", err)
	}

	return nil
}

// DeleteByMember removes all assignment rows still referencing a member
func (r *AssignmentRepository) DeleteByMember(ctx context.Context, q db.Querier, memberID uuid.UUID) error {
	query := `DELETE FROM member_assignment WHERE member_id = $1`

	if _, err := r.querier(q).Exec(ctx, query, memberID); err != nil {
		return fmt.Errorf("failed to delete assignments: %w", err)
	}

	return nil
}
