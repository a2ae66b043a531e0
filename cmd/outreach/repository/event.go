package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rekanalumni/outreach/common/db"
)

// AttendanceRepository handles database operations for event attendance
type AttendanceRepository struct {
	db *db.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(database *db.DB) *AttendanceRepository {
	return &AttendanceRepository{db: database}
}

// ReparentMember moves all attendance rows from one member to another.
// Idempotent: re-running moves nothing further.
func (r *AttendanceRepository) ReparentMember(ctx context.Context, q db.Querier, from, to uuid.UUID) error {
	if q == nil {
		q = r.db.Pool
	}

	query := `UPDATE event_attendance SET member_id = $2 WHERE member_id = $1`

	if _, err := q.Exec(ctx, query, from, to); err != nil {
		return fmt.Errorf("failed to reparent attendance: %w", err)
	}

	return nil
}

// RegistrationRepository handles database operations for event registrations
type RegistrationRepository struct {
	db *db.DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(database *db.DB) *RegistrationRepository {
	return &RegistrationRepository{db: database}
}

// ReparentMember moves all registration rows from one member to another.
// Idempotent: re-running moves nothing further.
func (r *RegistrationRepository) ReparentMember(ctx context.Context, q db.Querier, from, to uuid.UUID) error {
	if q == nil {
		q = r.db.Pool
	}

	query := `UPDATE event_registration SET member_id = $2 WHERE member_id = $1`

	if _, err := q.Exec(ctx, query, from, to); err != nil {
		return fmt.Errorf("failed to reparent registrations: %w", err)
	}

	return nil
}
