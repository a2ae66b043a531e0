package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/common/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeTxBeginner struct {
	tx *fakeTx
}

func (b *fakeTxBeginner) BeginTx(ctx context.Context) (db.Tx, error) {
	b.tx = &fakeTx{}
	return b.tx, nil
}

type fakeMemberStore struct {
	members map[uuid.UUID]*models.Member

	updated       *models.Member
	updateQuerier db.Querier
	reparented    [][2]uuid.UUID
	deleted       []uuid.UUID
	cleared       []uuid.UUID

	// write-order trace, for ordering assertions
	ops []string

	updateErr error
	deleteErr error
}

func newFakeMemberStore(members ...*models.Member) *fakeMemberStore {
	s := &fakeMemberStore{members: make(map[uuid.UUID]*models.Member)}
	for _, m := range members {
		s.members[m.ID] = m
	}
	return s
}

func (s *fakeMemberStore) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (s *fakeMemberStore) UpdateMergeableFields(ctx context.Context, q db.Querier, m *models.Member) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	copied := *m
	s.updated = &copied
	s.updateQuerier = q
	s.members[m.ID] = &copied
	s.ops = append(s.ops, "update_fields")
	return nil
}

func (s *fakeMemberStore) ClearAlumniLink(ctx context.Context, q db.Querier, id uuid.UUID) error {
	if m, ok := s.members[id]; ok {
		m.AlumniID = nil
	}
	s.cleared = append(s.cleared, id)
	s.ops = append(s.ops, "clear_alumni_link")
	return nil
}

func (s *fakeMemberStore) ReparentReferrals(ctx context.Context, q db.Querier, from, to uuid.UUID) error {
	s.reparented = append(s.reparented, [2]uuid.UUID{from, to})
	return nil
}

func (s *fakeMemberStore) Delete(ctx context.Context, q db.Querier, id uuid.UUID) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	if _, ok := s.members[id]; !ok {
		return false, nil
	}
	delete(s.members, id)
	s.deleted = append(s.deleted, id)
	return true, nil
}

type fakeAssignmentStore struct {
	rows []models.Assignment

	reassigned      map[uuid.UUID]uuid.UUID
	deletedByMember []uuid.UUID
}

func (s *fakeAssignmentStore) ListByMember(ctx context.Context, q db.Querier, memberID uuid.UUID) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range s.rows {
		if a.MemberID == memberID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeAssignmentStore) Reassign(ctx context.Context, q db.Querier, assignmentID, memberID uuid.UUID) error {
	if s.reassigned == nil {
		s.reassigned = make(map[uuid.UUID]uuid.UUID)
	}
	s.reassigned[assignmentID] = memberID
	for i := range s.rows {
		if s.rows[i].ID == assignmentID {
			s.rows[i].MemberID = memberID
		}
	}
	return nil
}

func (s *fakeAssignmentStore) DeleteByMember(ctx context.Context, q db.Querier, memberID uuid.UUID) error {
	s.deletedByMember = append(s.deletedByMember, memberID)
	kept := s.rows[:0]
	for _, a := range s.rows {
		if a.MemberID != memberID {
			kept = append(kept, a)
		}
	}
	s.rows = kept
	return nil
}

type fakeEventStore struct {
	reparented [][2]uuid.UUID
	err        error
}

func (s *fakeEventStore) ReparentMember(ctx context.Context, q db.Querier, from, to uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.reparented = append(s.reparented, [2]uuid.UUID{from, to})
	return nil
}

func strPtr(s string) *string { return &s }

func mergeFixture() (*MergeService, *fakeTxBeginner, *fakeMemberStore, *fakeAssignmentStore, *fakeEventStore, *fakeEventStore, *models.Member, *models.Member) {
	winner := &models.Member{
		ID:               uuid.New(),
		FullName:         "Budi Santoso",
		Cohort:           5,
		Phone:            strPtr("0811111111"),
		City:             strPtr("Bandung"),
		ContactStatus:    models.ContactStatusContacted,
		GroupStatus:      models.GroupStatusJoined,
		CommitmentStatus: models.CommitmentStatusCommitted,
	}
	loser := &models.Member{
		ID:               uuid.New(),
		FullName:         "Budi Santosa",
		Cohort:           5,
		Phone:            strPtr("0822222222"),
		Email:            strPtr("budi@example.com"),
		ContactStatus:    models.ContactStatusUncontacted,
		GroupStatus:      models.GroupStatusNotInvited,
		CommitmentStatus: models.CommitmentStatusUnknown,
	}

	tx := &fakeTxBeginner{}
	members := newFakeMemberStore(winner, loser)
	assignments := &fakeAssignmentStore{}
	attendance := &fakeEventStore{}
	registrations := &fakeEventStore{}

	svc := NewMergeService(tx, members, assignments, attendance, registrations, nil, testLog)
	return svc, tx, members, assignments, attendance, registrations, winner, loser
}

func TestMergeRequiresAdmin(t *testing.T) {
	svc, _, _, _, _, _, winner, loser := mergeFixture()

	_, err := svc.Merge(context.Background(), Authz{Operator: "canvasser"}, winner.ID, loser.ID, nil)
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestMergeValidation(t *testing.T) {
	svc, _, _, _, _, _, winner, loser := mergeFixture()
	ctx := context.Background()

	_, err := svc.Merge(ctx, adminAuthz, uuid.Nil, loser.ID, nil)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Merge(ctx, adminAuthz, winner.ID, uuid.Nil, nil)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Merge(ctx, adminAuthz, winner.ID, winner.ID, nil)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Merge(ctx, adminAuthz, winner.ID, loser.ID, map[string]string{"referred_by": ChoiceLoser})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Merge(ctx, adminAuthz, winner.ID, loser.ID, map[string]string{"phone": "both"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestMergeUnknownMembers(t *testing.T) {
	svc, tx, _, _, _, _, winner, _ := mergeFixture()
	ctx := context.Background()

	_, err := svc.Merge(ctx, adminAuthz, uuid.New(), winner.ID, nil)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.Merge(ctx, adminAuthz, winner.ID, uuid.New(), nil)
	assert.Equal(t, KindNotFound, KindOf(err))

	// Nothing touched the store
	assert.Nil(t, tx.tx)
}

func TestMergeAppliesFieldChoices(t *testing.T) {
	svc, tx, members, _, _, _, winner, loser := mergeFixture()

	result, err := svc.Merge(context.Background(), adminAuthz, winner.ID, loser.ID, map[string]string{
		"full_name": ChoiceWinner,
		"phone":     ChoiceLoser,
		"email":     ChoiceLoser,
		"city":      ChoiceLoser,
	})
	require.NoError(t, err)

	assert.Equal(t, "Budi Santoso", result.FullName)
	require.NotNil(t, result.Phone)
	assert.Equal(t, "0822222222", *result.Phone)
	require.NotNil(t, result.Email)
	assert.Equal(t, "budi@example.com", *result.Email)

	// Loser's city is null, and the loser side was chosen: the winner's
	// value is cleared, not kept
	assert.Nil(t, result.City)

	// Untouched fields keep the winner's values
	assert.Equal(t, models.ContactStatusContacted, result.ContactStatus)

	require.NotNil(t, members.updated)
	assert.Same(t, tx.tx, members.updateQuerier)
	assert.True(t, tx.tx.committed)
	assert.False(t, tx.tx.rolledBack)
}

func TestMergeTransfersAlumniLink(t *testing.T) {
	svc, _, members, _, _, _, winner, loser := mergeFixture()
	linked := uuid.New()
	members.members[loser.ID].AlumniID = &linked

	result, err := svc.Merge(context.Background(), adminAuthz, winner.ID, loser.ID, map[string]string{
		"alumni_id": ChoiceLoser,
	})
	require.NoError(t, err)

	require.NotNil(t, result.AlumniID)
	assert.Equal(t, linked, *result.AlumniID)

	// The loser's link is released before the winner's update, so the
	// one-member-per-alumni index never sees two live holders
	assert.Equal(t, []uuid.UUID{loser.ID}, members.cleared)
	assert.Equal(t, []string{"clear_alumni_link", "update_fields"}, members.ops)
}

func TestMergeWithoutLoserFieldsSkipsUpdate(t *testing.T) {
	svc, tx, members, _, _, _, winner, loser := mergeFixture()

	result, err := svc.Merge(context.Background(), adminAuthz, winner.ID, loser.ID, map[string]string{
		"phone": ChoiceWinner,
	})
	require.NoError(t, err)

	assert.Nil(t, members.updated)
	assert.Equal(t, "Budi Santoso", result.FullName)
	assert.True(t, tx.tx.committed)
}

func TestMergeReparentsDependents(t *testing.T) {
	svc, _, members, assignments, attendance, registrations, winner, loser := mergeFixture()

	shared := uuid.New()
	other := uuid.New()
	dupRow := models.Assignment{ID: uuid.New(), MemberID: loser.ID, CanvasserID: shared}
	moveRow := models.Assignment{ID: uuid.New(), MemberID: loser.ID, CanvasserID: other}
	assignments.rows = []models.Assignment{
		{ID: uuid.New(), MemberID: winner.ID, CanvasserID: shared},
		dupRow,
		moveRow,
	}

	_, err := svc.Merge(context.Background(), adminAuthz, winner.ID, loser.ID, nil)
	require.NoError(t, err)

	// Only the non-duplicate assignment moved; the duplicate was dropped
	assert.Equal(t, map[uuid.UUID]uuid.UUID{moveRow.ID: winner.ID}, assignments.reassigned)
	assert.Equal(t, []uuid.UUID{loser.ID}, assignments.deletedByMember)

	assert.Equal(t, [][2]uuid.UUID{{loser.ID, winner.ID}}, attendance.reparented)
	assert.Equal(t, [][2]uuid.UUID{{loser.ID, winner.ID}}, registrations.reparented)
	assert.Equal(t, [][2]uuid.UUID{{loser.ID, winner.ID}}, members.reparented)

	// The loser row is gone
	assert.Equal(t, []uuid.UUID{loser.ID}, members.deleted)
	gone, err := members.GetByID(context.Background(), nil, loser.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMergeRollsBackOnFailure(t *testing.T) {
	svc, tx, members, _, attendance, _, winner, loser := mergeFixture()
	attendance.err = errors.New("deadlock detected")

	_, err := svc.Merge(context.Background(), adminAuthz, winner.ID, loser.ID, nil)
	require.Error(t, err)
	assert.Equal(t, KindUpstream, KindOf(err))

	assert.True(t, tx.tx.rolledBack)
	assert.False(t, tx.tx.committed)
	assert.Empty(t, members.deleted)
}
