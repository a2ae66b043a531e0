package service

import (
	"testing"

	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSegmentFilterEmpty(t *testing.T) {
	filter, err := CompileSegmentFilter("")
	require.NoError(t, err)
	assert.Nil(t, filter)
}

func TestCompileSegmentFilterInvalid(t *testing.T) {
	_, err := CompileSegmentFilter("member.cohort >=")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSegmentFilterMatch(t *testing.T) {
	filter, err := CompileSegmentFilter(`member.cohort >= 8 && member.contact_status == "uncontacted"`)
	require.NoError(t, err)
	require.NotNil(t, filter)

	in := &models.Member{FullName: "Budi Santoso", Cohort: 9, ContactStatus: models.ContactStatusUncontacted}
	out := &models.Member{FullName: "Siti Rahayu", Cohort: 9, ContactStatus: models.ContactStatusContacted}

	match, err := filter.Match(in)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = filter.Match(out)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestSegmentFilterNonBoolean(t *testing.T) {
	filter, err := CompileSegmentFilter("member.cohort")
	require.NoError(t, err)

	_, err = filter.Match(&models.Member{Cohort: 5})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
