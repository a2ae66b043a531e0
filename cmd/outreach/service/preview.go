package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rekanalumni/outreach/cmd/outreach/matching"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/common/cache"
	"github.com/rekanalumni/outreach/common/logger"
)

// previewCacheKey holds the unfiltered preview snapshot. Filtered previews
// are never cached.
const previewCacheKey = "link_preview:all"

// MemberReader loads the member-side inputs of a preview
type MemberReader interface {
	ListUnlinked(ctx context.Context) ([]models.Member, error)
	ListLinkedAlumniIDs(ctx context.Context) ([]uuid.UUID, error)
}

// AlumniReader loads the alumni candidate pool
type AlumniReader interface {
	ListByCohorts(ctx context.Context, cohorts []int) ([]models.Alumni, error)
}

// LinkPreviewService proposes member-alumni links for operator review.
// Read-only: it never writes a link itself.
type LinkPreviewService struct {
	members MemberReader
	alumni  AlumniReader
	cache   cache.Cache
	ttl     time.Duration
	log     *logger.Logger
}

// NewLinkPreviewService creates a new link preview service. cache may be
// nil to disable snapshot caching.
func NewLinkPreviewService(members MemberReader, alumni AlumniReader, c cache.Cache, ttl time.Duration, log *logger.Logger) *LinkPreviewService {
	return &LinkPreviewService{
		members: members,
		alumni:  alumni,
		cache:   c,
		ttl:     ttl,
		log:     log,
	}
}

// poolEntry is one eligible alumni candidate with its normalized name
// precomputed once per preview run
type poolEntry struct {
	alumni models.Alumni
	norm   string
}

// Preview matches every unlinked member against the eligible alumni pool
// and returns the ranked candidate list with summary counts.
//
// filterExpr optionally restricts the run to a member segment (CEL over
// the member row); empty means all unlinked members.
func (s *LinkPreviewService) Preview(ctx context.Context, authz Authz, filterExpr string) (*models.PreviewResult, error) {
	if err := requireAdmin(authz); err != nil {
		return nil, err
	}

	filter, err := CompileSegmentFilter(filterExpr)
	if err != nil {
		return nil, err
	}

	// Only the unfiltered preview is cached
	if filter == nil {
		if cached := s.cachedResult(ctx); cached != nil {
			return cached, nil
		}
	}

	unlinked, err := s.members.ListUnlinked(ctx)
	if err != nil {
		return nil, ErrUpstream("failed to load unlinked members", err)
	}

	if filter != nil {
		filtered := unlinked[:0]
		for i := range unlinked {
			match, err := filter.Match(&unlinked[i])
			if err != nil {
				return nil, err
			}
			if match {
				filtered = append(filtered, unlinked[i])
			}
		}
		unlinked = filtered
	}

	result := &models.PreviewResult{
		Candidates:    []models.MatchCandidate{},
		TotalUnlinked: len(unlinked),
	}

	if len(unlinked) == 0 {
		return result, nil
	}

	pool, err := s.loadCandidatePool(ctx, unlinked)
	if err != nil {
		return nil, err
	}

	for i := range unlinked {
		if candidate, ok := s.matchMember(&unlinked[i], pool); ok {
			result.Candidates = append(result.Candidates, candidate)
		}
	}

	// Certain entries first, then by descending similarity
	sort.SliceStable(result.Candidates, func(i, j int) bool {
		a, b := result.Candidates[i], result.Candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence == models.ConfidenceCertain
		}
		return a.Similarity > b.Similarity
	})

	for _, c := range result.Candidates {
		if c.Confidence == models.ConfidenceCertain {
			result.TotalCertain++
		} else {
			result.TotalUncertain++
		}
	}
	result.TotalNoMatch = result.TotalUnlinked - len(result.Candidates)

	s.log.Info("link preview complete",
		"total_unlinked", result.TotalUnlinked,
		"certain", result.TotalCertain,
		"uncertain", result.TotalUncertain,
		"no_match", result.TotalNoMatch,
	)

	if filter == nil {
		s.storeResult(ctx, result)
	}

	return result, nil
}

// loadCandidatePool loads all eligible alumni for the cohorts present
// among the unlinked members, excluding alumni already claimed by any
// member, grouped by cohort with normalized names precomputed
func (s *LinkPreviewService) loadCandidatePool(ctx context.Context, unlinked []models.Member) (map[int][]poolEntry, error) {
	cohortSet := make(map[int]bool)
	for i := range unlinked {
		cohortSet[unlinked[i].Cohort] = true
	}
	cohorts := make([]int, 0, len(cohortSet))
	for cohort := range cohortSet {
		cohorts = append(cohorts, cohort)
	}

	alumni, err := s.alumni.ListByCohorts(ctx, cohorts)
	if err != nil {
		return nil, ErrUpstream("failed to load alumni candidates", err)
	}

	// An alumni row claimed by another member is never offered as a
	// candidate, even speculatively
	linkedIDs, err := s.members.ListLinkedAlumniIDs(ctx)
	if err != nil {
		return nil, ErrUpstream("failed to load linked alumni ids", err)
	}
	claimed := make(map[uuid.UUID]bool, len(linkedIDs))
	for _, id := range linkedIDs {
		claimed[id] = true
	}

	pool := make(map[int][]poolEntry)
	for i := range alumni {
		if claimed[alumni[i].ID] {
			continue
		}
		pool[alumni[i].Cohort] = append(pool[alumni[i].Cohort], poolEntry{
			alumni: alumni[i],
			norm:   matching.Normalize(alumni[i].FullName),
		})
	}

	return pool, nil
}

// matchMember runs the candidate matcher for one member against its
// cohort's pool
func (s *LinkPreviewService) matchMember(member *models.Member, pool map[int][]poolEntry) (models.MatchCandidate, bool) {
	entries := pool[member.Cohort]
	if len(entries) == 0 {
		return models.MatchCandidate{}, false
	}

	names := make([]string, len(entries))
	for i := range entries {
		names[i] = entries[i].norm
	}

	match, ok := matching.BestMatch(matching.Normalize(member.FullName), names)
	if !ok {
		return models.MatchCandidate{}, false
	}

	best := entries[match.Index].alumni
	confidence := models.ConfidenceUncertain
	if match.Certain() {
		confidence = models.ConfidenceCertain
	}

	return models.MatchCandidate{
		MemberID:     member.ID,
		MemberName:   member.FullName,
		MemberCohort: member.Cohort,
		AlumniID:     best.ID,
		AlumniName:   best.FullName,
		AlumniCohort: best.Cohort,
		Confidence:   confidence,
		Similarity:   match.Similarity(),
	}, true
}

// cachedResult returns the cached unfiltered snapshot, or nil. Cache
// failures only log; the preview falls through to a fresh run.
func (s *LinkPreviewService) cachedResult(ctx context.Context) *models.PreviewResult {
	if s.cache == nil {
		return nil
	}

	data, found, err := s.cache.Get(ctx, previewCacheKey)
	if err != nil {
		s.log.Warn("preview cache read failed", "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var result models.PreviewResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Warn("preview cache entry corrupt", "error", err)
		return nil
	}

	s.log.Debug("preview served from cache")
	return &result
}

func (s *LinkPreviewService) storeResult(ctx context.Context, result *models.PreviewResult) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.log.Warn("preview cache marshal failed", "error", err)
		return
	}

	if err := s.cache.Set(ctx, previewCacheKey, data, s.ttl); err != nil {
		s.log.Warn("preview cache write failed", "error", err)
	}
}

// InvalidatePreview drops the cached snapshot; called after any write
// that changes the link landscape
func (s *LinkPreviewService) InvalidatePreview(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, previewCacheKey); err != nil {
		s.log.Warn("preview cache invalidation failed", "error", err)
	}
}
