package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/common/db"
	"github.com/rekanalumni/outreach/common/logger"
)

// MemberLinker covers the member-side operations of a link confirmation
type MemberLinker interface {
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Member, error)
	IsAlumniClaimed(ctx context.Context, alumniID uuid.UUID) (bool, error)
	ClaimAlumniLink(ctx context.Context, memberID, alumniID uuid.UUID) (bool, error)
}

// AlumniChecker verifies an alumni row exists before a link is written
type AlumniChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// LinkConfirmService writes operator-approved member-alumni links.
// Confirmation is the only path that creates a link; the matcher only
// proposes.
type LinkConfirmService struct {
	members MemberLinker
	alumni  AlumniChecker
	preview *LinkPreviewService
	log     *logger.Logger
}

// NewLinkConfirmService creates a new link confirmation service
func NewLinkConfirmService(members MemberLinker, alumni AlumniChecker, preview *LinkPreviewService, log *logger.Logger) *LinkConfirmService {
	return &LinkConfirmService{
		members: members,
		alumni:  alumni,
		preview: preview,
		log:     log,
	}
}

// Confirm links one member to one alumni record. The member must be
// unlinked and the alumni row unclaimed; both are re-checked at write
// time so a stale preview cannot produce a double link.
func (s *LinkConfirmService) Confirm(ctx context.Context, authz Authz, memberID, alumniID uuid.UUID) (*models.Member, error) {
	if err := requireAdmin(authz); err != nil {
		return nil, err
	}

	if memberID == uuid.Nil {
		return nil, ErrValidation("member_id is required")
	}
	if alumniID == uuid.Nil {
		return nil, ErrValidation("alumni_id is required")
	}

	member, err := s.members.GetByID(ctx, nil, memberID)
	if err != nil {
		return nil, ErrUpstream("failed to load member", err)
	}
	if member == nil {
		return nil, ErrNotFound(fmt.Sprintf("member %s not found", memberID))
	}
	if member.AlumniID != nil {
		return nil, ErrValidation(fmt.Sprintf("member %s is already linked to alumni %s", memberID, *member.AlumniID))
	}

	exists, err := s.alumni.Exists(ctx, alumniID)
	if err != nil {
		return nil, ErrUpstream("failed to check alumni existence", err)
	}
	if !exists {
		return nil, ErrNotFound(fmt.Sprintf("alumni %s not found", alumniID))
	}

	claimed, err := s.members.IsAlumniClaimed(ctx, alumniID)
	if err != nil {
		return nil, ErrUpstream("failed to check alumni claim", err)
	}
	if claimed {
		return nil, ErrValidation(fmt.Sprintf("alumni %s is already linked to another member", alumniID))
	}

	// The conditional update is the real guard; the checks above only
	// produce better error messages
	ok, err := s.members.ClaimAlumniLink(ctx, memberID, alumniID)
	if err != nil {
		return nil, ErrUpstream("failed to write alumni link", err)
	}
	if !ok {
		return nil, ErrValidation(fmt.Sprintf("member %s was linked concurrently", memberID))
	}

	s.log.WithOperation("link_confirm").WithMemberID(memberID.String()).Info("alumni link confirmed",
		"alumni_id", alumniID,
		"operator", authz.Operator,
	)

	if s.preview != nil {
		s.preview.InvalidatePreview(ctx)
	}

	linked, err := s.members.GetByID(ctx, nil, memberID)
	if err != nil {
		return nil, ErrUpstream("failed to reload member", err)
	}
	if linked == nil {
		return nil, ErrUpstream("member disappeared after link", nil)
	}

	return linked, nil
}
