// file: internals/features/rating/templates/repository/template_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/templates/model"
	helper "creditrating_backend/internals/helpers"
	"creditrating_backend/internals/helpers/apperror"
)

type ListQuery struct {
	ApprovalStatus approval.Status
	IncludeHidden  bool
	Paging         helper.Paging
}

// TemplateRepository persists rating templates. Every mutating method is a
// single conditional write; a false result means the guard did not match.
type TemplateRepository interface {
	Create(ctx context.Context, m *model.TemplateModel) error
	// FindByID returns soft-deleted rows too; NotFound only when absent.
	FindByID(ctx context.Context, id string) (*model.TemplateModel, error)
	List(ctx context.Context, q ListQuery) ([]model.TemplateModel, int64, error)
	NameTaken(ctx context.Context, nameKey, excludeID string) (bool, error)
	// SaveRevision writes content and approval fields when the stored
	// version equals expectVersion, bumping it by one.
	SaveRevision(ctx context.Context, m *model.TemplateModel, expectVersion int) (bool, error)
	SetHidden(ctx context.Context, id string, hidden bool, at time.Time) (bool, error)
	MarkDeleted(ctx context.Context, id, by string, at time.Time) (bool, error)
}

/* =======================
   gorm
======================= */

type gormTemplateRepository struct {
	db *gorm.DB
}

func NewGormTemplateRepository(db *gorm.DB) TemplateRepository {
	return &gormTemplateRepository{db: db}
}

func (r *gormTemplateRepository) Create(ctx context.Context, m *model.TemplateModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return helper.MapStoreError(err, "create template")
	}
	return nil
}

func (r *gormTemplateRepository) FindByID(ctx context.Context, id string) (*model.TemplateModel, error) {
	var m model.TemplateModel
	err := r.db.WithContext(ctx).Where("template_id = ?", id).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("template %s not found", id)
		}
		return nil, helper.MapStoreError(err, "find template")
	}
	return &m, nil
}

func (r *gormTemplateRepository) List(ctx context.Context, q ListQuery) ([]model.TemplateModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.TemplateModel{}).
		Where("template_deleted_at IS NULL")
	if !q.IncludeHidden {
		tx = tx.Where("template_is_deleted = ?", false)
	}
	if q.ApprovalStatus != "" {
		tx = tx.Where("template_approval_status = ?", q.ApprovalStatus)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, helper.MapStoreError(err, "count templates")
	}

	var rows []model.TemplateModel
	err := tx.Order("template_created_at DESC").
		Offset(q.Paging.Offset).
		Limit(q.Paging.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, helper.MapStoreError(err, "list templates")
	}
	return rows, total, nil
}

func (r *gormTemplateRepository) NameTaken(ctx context.Context, nameKey, excludeID string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.TemplateModel{}).
		Where("template_name_key = ? AND template_is_deleted = false AND template_deleted_at IS NULL", nameKey)
	if excludeID != "" {
		tx = tx.Where("template_id <> ?", excludeID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, helper.MapStoreError(err, "check template name")
	}
	return n > 0, nil
}

func (r *gormTemplateRepository) SaveRevision(ctx context.Context, m *model.TemplateModel, expectVersion int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TemplateModel{}).
		Where("template_id = ? AND template_version = ?", m.TemplateID, expectVersion).
		Updates(map[string]any{
			"template_name":              m.TemplateName,
			"template_name_key":          m.TemplateNameKey,
			"template_status":            m.TemplateStatus,
			"template_approval_status":   m.ApprovalStatus,
			"template_categories":        m.Categories,
			"template_approval_comments": m.ApprovalComments,
			"template_approved_by":       m.ApprovedBy,
			"template_approved_at":       m.ApprovedAt,
			"template_updated_by":        m.UpdatedBy,
			"template_updated_at":        m.UpdatedAt,
			"template_version":           expectVersion + 1,
		})
	if res.Error != nil {
		return false, helper.MapStoreError(res.Error, "save template")
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	m.Version = expectVersion + 1
	return true, nil
}

func (r *gormTemplateRepository) SetHidden(ctx context.Context, id string, hidden bool, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TemplateModel{}).
		Where("template_id = ? AND template_is_deleted <> ? AND template_deleted_at IS NULL", id, hidden).
		UpdateColumns(map[string]any{
			"template_is_deleted":            hidden,
			"template_visibility_changed_at": at,
		})
	if res.Error != nil {
		return false, helper.MapStoreError(res.Error, "set template visibility")
	}
	return res.RowsAffected > 0, nil
}

func (r *gormTemplateRepository) MarkDeleted(ctx context.Context, id, by string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TemplateModel{}).
		Where("template_id = ? AND template_deleted_at IS NULL", id).
		UpdateColumns(map[string]any{
			"template_is_deleted": true,
			"template_deleted_by": by,
			"template_deleted_at": at,
		})
	if res.Error != nil {
		return false, helper.MapStoreError(res.Error, "delete template")
	}
	return res.RowsAffected > 0, nil
}
