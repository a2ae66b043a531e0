package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/common/db"
	"github.com/rekanalumni/outreach/common/fetch"
)

// memberColumns is the full projection for member rows
const memberColumns = `id, full_name, cohort, phone, email, city, alumni_id,
	contact_status, group_status, commitment_status, referred_by, created_at, updated_at`

// MemberRepository handles database operations for campaign members
type MemberRepository struct {
	db       *db.DB
	pageSize int
}

// NewMemberRepository creates a new member repository. pageSize bounds the
// page requests the bulk fetch helper makes against the store.
func NewMemberRepository(database *db.DB, pageSize int) *MemberRepository {
	return &MemberRepository{db: database, pageSize: pageSize}
}

// querier resolves the handle to run a statement against: the supplied
// transaction, or the pool when no transaction is in flight
func (r *MemberRepository) querier(q db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return r.db.Pool
}

// ListUnlinked returns every member without an alumni link, however many
// pages that takes
func (r *MemberRepository) ListUnlinked(ctx context.Context) ([]models.Member, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM member
		WHERE alumni_id IS NULL
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, memberColumns)

	members, err := fetch.All(ctx, r.pageSize, func(ctx context.Context, limit, offset int) ([]models.Member, error) {
		rows, err := r.db.Query(ctx, query, limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanMembers(rows)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked members: %w", err)
	}

	return members, nil
}

// ListLinkedAlumniIDs returns the ids of alumni already claimed by some
// member, across the whole member table
func (r *MemberRepository) ListLinkedAlumniIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT alumni_id
		FROM member
		WHERE alumni_id IS NOT NULL
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	ids, err := fetch.All(ctx, r.pageSize, func(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
		rows, err := r.db.Query(ctx, query, limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var page []uuid.UUID
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			page = append(page, id)
		}
		return page, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list linked alumni ids: %w", err)
	}

	return ids, nil
}

// GetByID retrieves a member by id. Returns nil without error when the
// member does not exist.
func (r *MemberRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM member WHERE id = $1`, memberColumns)

	member, err := scanMember(r.querier(q).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// UpdateMergeableFields writes the merge-resolved values back onto a member
func (r *MemberRepository) UpdateMergeableFields(ctx context.Context, q db.Querier, m *models.Member) error {
	query := `
		UPDATE member
		SET full_name = $2, cohort = $3, phone = $4, email = $5, city = $6,
		    contact_status = $7, group_status = $8, commitment_status = $9,
		    alumni_id = $10, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.querier(q).Exec(ctx, query,
		m.ID,
		m.FullName,
		m.Cohort,
		m.Phone,
		m.Email,
		m.City,
		m.ContactStatus,
		m.GroupStatus,
		m.CommitmentStatus,
		m.AlumniID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	return nil
}

// ClaimAlumniLink sets the alumni link on an unlinked member. Returns
// false when the member was already linked (or does not exist).
func (r *MemberRepository) ClaimAlumniLink(ctx context.Context, memberID, alumniID uuid.UUID) (bool, error) {
	query := `
		UPDATE member
		SET alumni_id = $2, updated_at = NOW()
		WHERE id = $1 AND alumni_id IS NULL
	`

	tag, err := r.db.Exec(ctx, query, memberID, alumniID)
	if err != nil {
		return false, fmt.Errorf("failed to claim alumni link: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ClearAlumniLink drops a member's alumni link. Used by the merge to
// free the loser's link before the winner can take it over; the partial
// unique index on alumni_id forbids two live rows holding the same link.
func (r *MemberRepository) ClearAlumniLink(ctx context.Context, q db.Querier, id uuid.UUID) error {
	query := `UPDATE member SET alumni_id = NULL, updated_at = NOW() WHERE id = $1`

	if _, err := r.querier(q).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to clear alumni link: %w", err)
	}

	return nil
}

// IsAlumniClaimed reports whether any member already links to the alumni row
func (r *MemberRepository) IsAlumniClaimed(ctx context.Context, alumniID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM member WHERE alumni_id = $1)`

	var claimed bool
	if err := r.db.QueryRow(ctx, query, alumniID).Scan(&claimed); err != nil {
		return false, fmt.Errorf("failed to check alumni claim: %w", err)
	}

	return claimed, nil
}

// ReparentReferrals re-points every member referred by one member to
// another. Idempotent: re-running moves nothing further.
func (r *MemberRepository) ReparentReferrals(ctx context.Context, q db.Querier, from, to uuid.UUID) error {
	query := `UPDATE member SET referred_by = $2 WHERE referred_by = $1`

	if _, err := r.querier(q).Exec(ctx, query, from, to); err != nil {
		return fmt.Errorf("failed to reparent referrals: %w", err)
	}

	return nil
}

// Delete removes a member row. Returns false when no row existed.
func (r *MemberRepository) Delete(ctx context.Context, q db.Querier, id uuid.UUID) (bool, error) {
	tag, err := r.querier(q).Exec(ctx, `DELETE FROM member WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete member: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func scanMember(row pgx.Row) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(
		&m.ID,
		&m.FullName,
		&m.Cohort,
		&m.Phone,
		&m.Email,
		&m.City,
		&m.AlumniID,
		&m.ContactStatus,
		&m.GroupStatus,
		&m.CommitmentStatus,
		&m.ReferredBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanMembers(rows pgx.Rows) ([]models.Member, error) {
	var members []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
