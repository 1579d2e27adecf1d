// file: internals/features/rating/assessments/repository/assessment_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/assessments/model"
	helper "creditrating_backend/internals/helpers"
	"creditrating_backend/internals/helpers/apperror"
)

type ListQuery struct {
	CustomerID    string
	Status        approval.Status
	IncludeHidden bool
	Paging        helper.Paging
}

type AssessmentRepository interface {
	Create(ctx context.Context, m *model.AssessmentModel) error
	FindByID(ctx context.Context, id string) (*model.AssessmentModel, error)
	List(ctx context.Context, q ListQuery) ([]model.AssessmentModel, int64, error)
	// ListByCustomer returns every assessment of a customer, oldest first.
	ListByCustomer(ctx context.Context, customerID string, includeHidden bool) ([]model.AssessmentModel, error)
	SaveRevision(ctx context.Context, m *model.AssessmentModel, expectVersion int) (bool, error)
	SetHidden(ctx context.Context, id string, hidden bool, by string, at time.Time) (bool, error)
}

type gormAssessmentRepository struct {
	db *gorm.DB
}

func NewGormAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &gormAssessmentRepository{db: db}
}

func (r *gormAssessmentRepository) Create(ctx context.Context, m *model.AssessmentModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return helper.MapStoreError(err, "create assessment")
	}
	return nil
}

func (r *gormAssessmentRepository) FindByID(ctx context.Context, id string) (*model.AssessmentModel, error) {
	var m model.AssessmentModel
	err := r.db.WithContext(ctx).Where("assessment_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("assessment %s not found", id)
	}
	if err != nil {
		return nil, helper.MapStoreError(err, "find assessment")
	}
	return &m, nil
}

func (r *gormAssessmentRepository) filtered(ctx context.Context, customerID string, status approval.Status, includeHidden bool) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.AssessmentModel{})
	if customerID != "" {
		tx = tx.Where("assessment_customer_id = ?", customerID)
	}
	if status != "" {
		tx = tx.Where("assessment_approval_status = ?", status)
	}
	if !includeHidden {
		tx = tx.Where("assessment_is_deleted = ?", false)
	}
	return tx
}

func (r *gormAssessmentRepository) List(ctx context.Context, q ListQuery) ([]model.AssessmentModel, int64, error) {
	tx := r.filtered(ctx, q.CustomerID, q.Status, q.IncludeHidden)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, helper.MapStoreError(err, "count assessments")
	}
	var rows []model.AssessmentModel
	err := tx.Order("assessment_created_at DESC").
		Offset(q.Paging.Offset).
		Limit(q.Paging.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, helper.MapStoreError(err, "list assessments")
	}
	return rows, total, nil
}

func (r *gormAssessmentRepository) ListByCustomer(ctx context.Context, customerID string, includeHidden bool) ([]model.AssessmentModel, error) {
	var rows []model.AssessmentModel
	err := r.filtered(ctx, customerID, "", includeHidden).
		Order("assessment_created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, helper.MapStoreError(err, "list customer assessments")
	}
	return rows, nil
}

func (r *gormAssessmentRepository) SaveRevision(ctx context.Context, m *model.AssessmentModel, expectVersion int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.AssessmentModel{}).
		Where("assessment_id = ? AND assessment_version = ?", m.AssessmentID, expectVersion).
		Updates(map[string]any{
			"assessment_answers":           m.Answers,
			"assessment_category_scores":   m.CategoryScores,
			"assessment_total_score":       m.TotalScore,
			"assessment_rating":            m.Rating,
			"assessment_approval_status":   m.ApprovalStatus,
			"assessment_rejection_remarks": m.RejectionRemarks,
			"assessment_approved_by":       m.ApprovedBy,
			"assessment_approved_at":       m.ApprovedAt,
			"assessment_rejected_by":       m.RejectedBy,
			"assessment_rejected_at":       m.RejectedAt,
			"assessment_updated_by":        m.UpdatedBy,
			"assessment_updated_at":        m.UpdatedAt,
			"assessment_version":           expectVersion + 1,
		})
	if res.Error != nil {
		return false, helper.MapStoreError(res.Error, "save assessment")
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	m.Version = expectVersion + 1
	return true, nil
}

func (r *gormAssessmentRepository) SetHidden(ctx context.Context, id string, hidden bool, by string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.AssessmentModel{}).
		Where("assessment_id = ? AND assessment_is_deleted <> ?", id, hidden).
		UpdateColumns(map[string]any{
			"assessment_is_deleted":            hidden,
			"assessment_visibility_changed_by": by,
			"assessment_visibility_changed_at": at,
		})
	if res.Error != nil {
		return false, helper.MapStoreError(res.Error, "set assessment visibility")
	}
	return res.RowsAffected > 0, nil
}
