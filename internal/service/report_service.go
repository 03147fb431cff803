package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"diplomat/internal/models"
	"diplomat/internal/notifications"
	"diplomat/internal/observability"
	"diplomat/internal/repository"

	"gorm.io/gorm"
)

// ReportService owns the moderation report lifecycle: intake guards on
// creation and the admin pending-to-terminal transition.
type ReportService struct {
	reportRepo  repository.ReportRepository
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	outbox      *notifications.Outbox
	resolvers   map[string]entityResolver
}

// entityResolver locates a reportable target and returns the user who owns
// the content. Each entity type registers one; an unknown type is rejected
// before any lookup happens.
type entityResolver func(ctx context.Context, entityID uint) (ownerID uint, err error)

// CreateReportInput carries a new report submission.
type CreateReportInput struct {
	ReportedBy  uint
	EntityType  string
	EntityID    uint
	ReportType  string
	Description string
}

// ResolveReportInput carries an admin decision on a report.
type ResolveReportInput struct {
	ReportID   uint
	AdminID    uint
	Status     string
	AdminNotes string
}

// NewReportService returns a new ReportService.
func NewReportService(
	reportRepo repository.ReportRepository,
	reviewRepo repository.ReviewRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	outbox *notifications.Outbox,
) *ReportService {
	s := &ReportService{
		reportRepo:  reportRepo,
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		outbox:      outbox,
	}
	s.resolvers = map[string]entityResolver{
		models.ReportEntityReview: s.resolveReview,
		models.ReportEntityUser:   s.resolveUser,
		models.ReportEntityCar:    s.resolveListing(models.ListingTypeCar),
		models.ReportEntityHouse:  s.resolveListing(models.ListingTypeHouse),
	}
	return s
}

func (s *ReportService) resolveReview(ctx context.Context, entityID uint) (uint, error) {
	review, err := s.reviewRepo.GetByID(ctx, entityID)
	if err != nil {
		return 0, err
	}
	return review.UserID, nil
}

func (s *ReportService) resolveUser(ctx context.Context, entityID uint) (uint, error) {
	user, err := s.userRepo.GetByID(ctx, entityID)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (s *ReportService) resolveListing(listingType string) entityResolver {
	return func(ctx context.Context, entityID uint) (uint, error) {
		listing, err := s.listingRepo.GetByID(ctx, entityID)
		if err != nil {
			return 0, err
		}
		if listing.ListingType != listingType {
			return 0, gorm.ErrRecordNotFound
		}
		return listing.UserID, nil
	}
}

// CreateReport files a moderation report. Guards run in a fixed order:
// entity type, report type, target existence, self-report, duplicate.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	resolve, ok := s.resolvers[in.EntityType]
	if !ok {
		return nil, models.NewValidationError("entity_type must be review, user, car, or house")
	}
	if !models.ValidReportType(in.ReportType) {
		return nil, models.NewValidationError("Invalid report type")
	}

	ownerID, err := resolve(ctx, in.EntityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(humanizeEntity(in.EntityType), in.EntityID)
		}
		return nil, err
	}
	if ownerID == in.ReportedBy {
		return nil, models.NewValidationError("You cannot report your own content")
	}

	exists, err := s.reportRepo.ExistsByEntityAndReporter(ctx, in.EntityType, in.EntityID, in.ReportedBy)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("You have already reported this content")
	}

	report := &models.Report{
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		ReportedBy:  in.ReportedBy,
		ReportType:  in.ReportType,
		Description: strings.TrimSpace(in.Description),
		Status:      models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewConflictError("You have already reported this content")
		}
		return nil, err
	}

	s.outbox.WriteBestEffort(ctx, &models.Notification{
		UserID:   ownerID,
		Title:    "Your content was reported",
		Message:  fmt.Sprintf("One of your %ss was reported and is awaiting review", humanizeEntity(in.EntityType)),
		Type:     models.NotificationTypeWarning,
		Category: models.NotificationCategorySystem,
	})

	return report, nil
}

func (s *ReportService) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context, filter repository.ReportFilter, limit, offset int) ([]*models.Report, error) {
	if filter.Status != "" && filter.Status != models.ReportStatusPending && !models.ValidReportStatus(filter.Status) {
		return nil, models.NewValidationError("Invalid status filter")
	}
	if filter.EntityType != "" && !models.ValidReportEntityType(filter.EntityType) {
		return nil, models.NewValidationError("entity_type must be review, user, car, or house")
	}
	return s.reportRepo.List(ctx, filter, limit, offset)
}

// ResolveReport applies an admin decision. The route guard has already
// established the caller is an admin; this stamps who decided and when, and
// tells the reporter the outcome.
func (s *ReportService) ResolveReport(ctx context.Context, in ResolveReportInput) (*models.Report, error) {
	if !models.ValidReportStatus(in.Status) {
		return nil, models.NewValidationError("status must be reviewed, resolved, or rejected")
	}

	if err := s.reportRepo.Transition(ctx, in.ReportID, in.Status, strings.TrimSpace(in.AdminNotes), in.AdminID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", in.ReportID)
		}
		return nil, err
	}
	observability.ReportTransitions.WithLabelValues(in.Status).Inc()

	report, err := s.GetReport(ctx, in.ReportID)
	if err != nil {
		return nil, err
	}

	s.outbox.WriteBestEffort(ctx, &models.Notification{
		UserID:   report.ReportedBy,
		Title:    "Your report was " + in.Status,
		Message:  fmt.Sprintf("An administrator marked your report as %s", in.Status),
		Type:     models.NotificationTypeUpdate,
		Category: models.NotificationCategorySystem,
	})

	return report, nil
}

func humanizeEntity(entityType string) string {
	switch entityType {
	case models.ReportEntityReview:
		return "Review"
	case models.ReportEntityUser:
		return "User"
	case models.ReportEntityCar:
		return "Car"
	case models.ReportEntityHouse:
		return "House"
	default:
		return "Entity"
	}
}
