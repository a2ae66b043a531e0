package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rekanalumni/outreach/cmd/outreach/middleware"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/cmd/outreach/service"
	"github.com/rekanalumni/outreach/common/bootstrap"
	"github.com/rekanalumni/outreach/common/db"
	"github.com/rekanalumni/outreach/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyMemberStore misses every lookup; requests that get past input
// validation end in not-found
type emptyMemberStore struct{}

func (emptyMemberStore) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Member, error) {
	return nil, nil
}

func (emptyMemberStore) UpdateMergeableFields(ctx context.Context, q db.Querier, m *models.Member) error {
	return nil
}

func (emptyMemberStore) ClearAlumniLink(ctx context.Context, q db.Querier, id uuid.UUID) error {
	return nil
}

func (emptyMemberStore) ReparentReferrals(ctx context.Context, q db.Querier, from, to uuid.UUID) error {
	return nil
}

func (emptyMemberStore) Delete(ctx context.Context, q db.Querier, id uuid.UUID) (bool, error) {
	return false, nil
}

func postMerge(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	log := logger.New("error", "json")
	components := &bootstrap.Components{Logger: log}
	merge := service.NewMergeService(nil, emptyMemberStore{}, nil, nil, nil, nil, log)
	h := NewMergeHandler(components, merge)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/members/merge", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(string(middleware.AuthzKey), service.Authz{Operator: "dewi", CanManageMembers: true})

	require.NoError(t, h.Merge(c))
	return rec
}

func TestMergeBindsFieldsKey(t *testing.T) {
	winner, loser := uuid.New(), uuid.New()
	body := fmt.Sprintf(`{"winner_id":%q,"loser_id":%q,"fields":{"bogus":"loser"}}`, winner, loser)

	rec := postMerge(t, body)

	// The unknown field name is rejected during choice-map validation,
	// which only sees the map when the "fields" key binds
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not mergeable")
}

func TestMergeValidFieldChoicePassesValidation(t *testing.T) {
	winner, loser := uuid.New(), uuid.New()
	body := fmt.Sprintf(`{"winner_id":%q,"loser_id":%q,"fields":{"phone":"loser"}}`, winner, loser)

	rec := postMerge(t, body)

	// A well-formed choice map clears validation; the empty store then
	// reports the winner as missing
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
