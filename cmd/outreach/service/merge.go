package service

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/common/db"
	"github.com/rekanalumni/outreach/common/logger"
)

// Field-choice sides
const (
	ChoiceWinner = "winner"
	ChoiceLoser  = "loser"
)

// mergeableFields is the closed set of fields a merge request may choose
// a side for. Anything else in the choice map is rejected.
var mergeableFields = map[string]bool{
	"full_name":         true,
	"cohort":            true,
	"phone":             true,
	"email":             true,
	"city":              true,
	"contact_status":    true,
	"group_status":      true,
	"commitment_status": true,
	"alumni_id":         true,
}

// MemberStore covers the member-side operations of a merge
type MemberStore interface {
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Member, error)
	UpdateMergeableFields(ctx context.Context, q db.Querier, m *models.Member) error
	ClearAlumniLink(ctx context.Context, q db.Querier, id uuid.UUID) error
	ReparentReferrals(ctx context.Context, q db.Querier, from, to uuid.UUID) error
	Delete(ctx context.Context, q db.Querier, id uuid.UUID) (bool, error)
}

// AssignmentStore covers the canvasser-assignment operations of a merge
type AssignmentStore interface {
	ListByMember(ctx context.Context, q db.Querier, memberID uuid.UUID) ([]models.Assignment, error)
	Reassign(ctx context.Context, q db.Querier, assignmentID, memberID uuid.UUID) error
	DeleteByMember(ctx context.Context, q db.Querier, memberID uuid.UUID) error
}

// EventStore re-points dependent event rows from one member to another
type EventStore interface {
	ReparentMember(ctx context.Context, q db.Querier, from, to uuid.UUID) error
}

// TxBeginner starts the transaction a merge runs inside
type TxBeginner interface {
	BeginTx(ctx context.Context) (db.Tx, error)
}

// MergeService collapses two member rows that describe the same person
// into one. The winner row survives with the chosen field values; every
// dependent row is re-pointed at it; the loser row is deleted. The whole
// merge runs in a single transaction, so a mid-merge failure leaves both
// rows untouched.
type MergeService struct {
	tx            TxBeginner
	members       MemberStore
	assignments   AssignmentStore
	attendance    EventStore
	registrations EventStore
	preview       *LinkPreviewService
	log           *logger.Logger
}

// NewMergeService creates a new merge service
func NewMergeService(tx TxBeginner, members MemberStore, assignments AssignmentStore, attendance, registrations EventStore, preview *LinkPreviewService, log *logger.Logger) *MergeService {
	return &MergeService{
		tx:            tx,
		members:       members,
		assignments:   assignments,
		attendance:    attendance,
		registrations: registrations,
		preview:       preview,
		log:           log,
	}
}

// Merge folds the loser member into the winner. fieldChoices maps a
// mergeable field name to the side whose value survives; fields not
// named keep the winner's value. Returns the winner as it stands after
// the merge.
func (s *MergeService) Merge(ctx context.Context, authz Authz, winnerID, loserID uuid.UUID, fieldChoices map[string]string) (*models.Member, error) {
	if err := requireAdmin(authz); err != nil {
		return nil, err
	}

	if winnerID == uuid.Nil {
		return nil, ErrValidation("winner_id is required")
	}
	if loserID == uuid.Nil {
		return nil, ErrValidation("loser_id is required")
	}
	if winnerID == loserID {
		return nil, ErrValidation("winner and loser must be different members")
	}

	loserFields, err := validateFieldChoices(fieldChoices)
	if err != nil {
		return nil, err
	}

	winner, err := s.members.GetByID(ctx, nil, winnerID)
	if err != nil {
		return nil, ErrUpstream("failed to load winner", err)
	}
	if winner == nil {
		return nil, ErrNotFound(fmt.Sprintf("winner member %s not found", winnerID))
	}

	loser, err := s.members.GetByID(ctx, nil, loserID)
	if err != nil {
		return nil, ErrUpstream("failed to load loser", err)
	}
	if loser == nil {
		return nil, ErrNotFound(fmt.Sprintf("loser member %s not found", loserID))
	}

	merged, err := resolveMergedMember(winner, loser, loserFields)
	if err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTx(ctx)
	if err != nil {
		return nil, ErrUpstream("failed to begin merge transaction", err)
	}
	defer tx.Rollback(ctx)

	if len(loserFields) > 0 {
		// The loser's alumni link must be freed before the winner update:
		// the partial unique index on alumni_id rejects the transfer while
		// both rows still hold the link
		if loser.AlumniID != nil {
			if err := s.members.ClearAlumniLink(ctx, tx, loserID); err != nil {
				return nil, ErrUpstream("failed to release loser alumni link", err)
			}
		}
		if err := s.members.UpdateMergeableFields(ctx, tx, merged); err != nil {
			return nil, ErrUpstream("failed to write merged fields", err)
		}
	}

	if err := s.reparentAssignments(ctx, tx, winnerID, loserID); err != nil {
		return nil, err
	}

	if err := s.attendance.ReparentMember(ctx, tx, loserID, winnerID); err != nil {
		return nil, ErrUpstream("failed to reparent attendance", err)
	}
	if err := s.registrations.ReparentMember(ctx, tx, loserID, winnerID); err != nil {
		return nil, ErrUpstream("failed to reparent registrations", err)
	}

	if err := s.members.ReparentReferrals(ctx, tx, loserID, winnerID); err != nil {
		return nil, ErrUpstream("failed to reparent referrals", err)
	}

	// Duplicate assignments left behind by the dedup are cleaned up
	// explicitly rather than relying on cascade
	if err := s.assignments.DeleteByMember(ctx, tx, loserID); err != nil {
		return nil, ErrUpstream("failed to delete duplicate assignments", err)
	}

	ok, err := s.members.Delete(ctx, tx, loserID)
	if err != nil {
		return nil, ErrUpstream("failed to delete loser", err)
	}
	if !ok {
		return nil, ErrUpstream("loser disappeared mid-merge", nil)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, ErrUpstream("failed to commit merge", err)
	}

	s.log.WithOperation("member_merge").WithMemberID(winnerID.String()).Info("members merged",
		"loser_id", loserID,
		"loser_fields", len(loserFields),
		"operator", authz.Operator,
	)

	if s.preview != nil {
		s.preview.InvalidatePreview(ctx)
	}

	result, err := s.members.GetByID(ctx, nil, winnerID)
	if err != nil {
		return nil, ErrUpstream("failed to reload winner", err)
	}
	if result == nil {
		return nil, ErrUpstream("winner disappeared after merge", nil)
	}

	return result, nil
}

// reparentAssignments moves the loser's assignment rows to the winner,
// except where the winner already has the same canvasser; duplicate rows
// stay on the loser for the later cleanup step
func (s *MergeService) reparentAssignments(ctx context.Context, tx db.Tx, winnerID, loserID uuid.UUID) error {
	winnerRows, err := s.assignments.ListByMember(ctx, tx, winnerID)
	if err != nil {
		return ErrUpstream("failed to list winner assignments", err)
	}
	covered := make(map[uuid.UUID]bool, len(winnerRows))
	for _, a := range winnerRows {
		covered[a.CanvasserID] = true
	}

	loserRows, err := s.assignments.ListByMember(ctx, tx, loserID)
	if err != nil {
		return ErrUpstream("failed to list loser assignments", err)
	}
	for _, a := range loserRows {
		if covered[a.CanvasserID] {
			continue
		}
		if err := s.assignments.Reassign(ctx, tx, a.ID, winnerID); err != nil {
			return ErrUpstream("failed to reassign assignment", err)
		}
		covered[a.CanvasserID] = true
	}

	return nil
}

// validateFieldChoices checks the choice map against the mergeable set
// and returns the fields resolved to the loser's side
func validateFieldChoices(fieldChoices map[string]string) ([]string, error) {
	var loserFields []string
	for field, side := range fieldChoices {
		if !mergeableFields[field] {
			return nil, ErrValidation(fmt.Sprintf("field %q is not mergeable", field))
		}
		switch side {
		case ChoiceWinner:
		case ChoiceLoser:
			loserFields = append(loserFields, field)
		default:
			return nil, ErrValidation(fmt.Sprintf("field %q: choice must be %q or %q, got %q", field, ChoiceWinner, ChoiceLoser, side))
		}
	}
	return loserFields, nil
}

// resolveMergedMember applies the loser-side field choices onto the
// winner via a JSON merge patch, so a null loser value clears the field
// rather than keeping the winner's
func resolveMergedMember(winner, loser *models.Member, loserFields []string) (*models.Member, error) {
	if len(loserFields) == 0 {
		return winner, nil
	}

	winnerDoc, err := json.Marshal(winner)
	if err != nil {
		return nil, ErrUpstream("failed to encode winner", err)
	}

	loserDoc, err := json.Marshal(loser)
	if err != nil {
		return nil, ErrUpstream("failed to encode loser", err)
	}

	var loserValues map[string]json.RawMessage
	if err := json.Unmarshal(loserDoc, &loserValues); err != nil {
		return nil, ErrUpstream("failed to decode loser", err)
	}

	// A field absent from the loser document (nil with omitempty) becomes
	// an explicit null so the merge patch removes it from the winner
	patch := make(map[string]json.RawMessage, len(loserFields))
	for _, field := range loserFields {
		if v, ok := loserValues[field]; ok {
			patch[field] = v
		} else {
			patch[field] = json.RawMessage("null")
		}
	}

	patchDoc, err := json.Marshal(patch)
	if err != nil {
		return nil, ErrUpstream("failed to encode field choices", err)
	}

	mergedDoc, err := jsonpatch.MergePatch(winnerDoc, patchDoc)
	if err != nil {
		return nil, ErrUpstream("failed to apply field choices", err)
	}

	merged := &models.Member{}
	if err := json.Unmarshal(mergedDoc, merged); err != nil {
		return nil, ErrUpstream("failed to decode merged member", err)
	}

	return merged, nil
}
