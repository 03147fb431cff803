package repository

import (
	"context"
	"time"

	"diplomat/internal/models"

	"gorm.io/gorm"
)

// ReportFilter narrows report listing queries.
type ReportFilter struct {
	Status     string
	EntityType string
}

// ReportRepository defines the interface for moderation report data operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, filter ReportFilter, limit, offset int) ([]*models.Report, error)
	ExistsByEntityAndReporter(ctx context.Context, entityType string, entityID, reportedBy uint) (bool, error)
	Transition(ctx context.Context, id uint, status, adminNotes string, reviewedBy uint) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(report).Error)
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Preload("Reporter").First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter, limit, offset int) ([]*models.Report, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	var reports []*models.Report
	err := query.
		Preload("Reporter").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) ExistsByEntityAndReporter(ctx context.Context, entityType string, entityID, reportedBy uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("entity_type = ? AND entity_id = ? AND reported_by = ?", entityType, entityID, reportedBy).
		Count(&count).Error
	return count > 0, err
}

// Transition applies the status change as a single set-based update. The
// target fields (entity_type/entity_id/reported_by) are never touched.
func (r *reportRepository) Transition(ctx context.Context, id uint, status, adminNotes string, reviewedBy uint) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": adminNotes,
			"reviewed_by": reviewedBy,
			"reviewed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
