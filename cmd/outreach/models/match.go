package models

import (
	"github.com/google/uuid"
)

// Confidence tiers for a proposed member-alumni link
const (
	ConfidenceCertain   = "certain"
	ConfidenceUncertain = "uncertain"
)

// MatchCandidate is a proposed member-alumni link. Derived, never
// persisted; produced fresh on every preview request.
type MatchCandidate struct {
	MemberID     uuid.UUID `json:"member_id"`
	MemberName   string    `json:"member_name"`
	MemberCohort int       `json:"member_cohort"`
	AlumniID     uuid.UUID `json:"alumni_id"`
	AlumniName   string    `json:"alumni_name"`
	AlumniCohort int       `json:"alumni_cohort"`

	// "certain" or "uncertain"; drives default pre-selection in review
	Confidence string `json:"confidence"`

	// Similarity as an integer percentage, 0-100
	Similarity int `json:"similarity"`
}

// PreviewResult is the full output of a link preview run
type PreviewResult struct {
	Candidates []MatchCandidate `json:"candidates"`

	TotalUnlinked  int `json:"total_unlinked"`
	TotalCertain   int `json:"total_certain"`
	TotalUncertain int `json:"total_uncertain"`
	TotalNoMatch   int `json:"total_no_match"`
}
