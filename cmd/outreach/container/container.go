package container

import (
	"github.com/rekanalumni/outreach/cmd/outreach/repository"
	"github.com/rekanalumni/outreach/cmd/outreach/service"
	"github.com/rekanalumni/outreach/common/bootstrap"
	"github.com/rekanalumni/outreach/common/ratelimit"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	Components *bootstrap.Components

	// Repositories
	MemberRepo       *repository.MemberRepository
	AlumniRepo       *repository.AlumniRepository
	CanvasserRepo    *repository.CanvasserRepository
	AssignmentRepo   *repository.AssignmentRepository
	AttendanceRepo   *repository.AttendanceRepository
	RegistrationRepo *repository.RegistrationRepository

	// Services
	PreviewService *service.LinkPreviewService
	ConfirmService *service.LinkConfirmService
	MergeService   *service.MergeService

	// Rate limiting (nil when Redis is disabled)
	RateLimiter *ratelimit.RateLimiter
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	pageSize := components.Config.Matching.FetchPageSize

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(components.DB, pageSize)
	alumniRepo := repository.NewAlumniRepository(components.DB, pageSize)
	canvasserRepo := repository.NewCanvasserRepository(components.DB)
	assignmentRepo := repository.NewAssignmentRepository(components.DB)
	attendanceRepo := repository.NewAttendanceRepository(components.DB)
	registrationRepo := repository.NewRegistrationRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	previewService := service.NewLinkPreviewService(
		memberRepo,
		alumniRepo,
		components.Cache,
		components.Config.Cache.PreviewTTL,
		components.Logger,
	)
	confirmService := service.NewLinkConfirmService(
		memberRepo,
		alumniRepo,
		previewService,
		components.Logger,
	)
	mergeService := service.NewMergeService(
		components.DB,
		memberRepo,
		assignmentRepo,
		attendanceRepo,
		registrationRepo,
		previewService,
		components.Logger,
	)

	var rateLimiter *ratelimit.RateLimiter
	if components.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(components.Redis.GetUnderlying(), components.Logger)
	}

	return &Container{
		Components:       components,
		MemberRepo:       memberRepo,
		AlumniRepo:       alumniRepo,
		CanvasserRepo:    canvasserRepo,
		AssignmentRepo:   assignmentRepo,
		AttendanceRepo:   attendanceRepo,
		RegistrationRepo: registrationRepo,
		PreviewService:   previewService,
		ConfirmService:   confirmService,
		MergeService:     mergeService,
		RateLimiter:      rateLimiter,
	}, nil
}
