// file: internals/features/activity_logs/repository/activity_log_repository.go
package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"creditrating_backend/internals/features/activity_logs/model"
	helper "creditrating_backend/internals/helpers"
)

type ListQuery struct {
	EntityType string
	EntityID   string
	Actor      string
	Paging     helper.Paging
}

type ActivityLogRepository interface {
	Create(ctx context.Context, m *model.ActivityLogModel) error
	List(ctx context.Context, q ListQuery) ([]model.ActivityLogModel, int64, error)
	// PurgeBefore hard-deletes logs created before cutoff and returns how many
	// rows were removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

/* =======================
   gorm
======================= */

type gormActivityLogRepository struct {
	db *gorm.DB
}

func NewGormActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &gormActivityLogRepository{db: db}
}

func (r *gormActivityLogRepository) Create(ctx context.Context, m *model.ActivityLogModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return helper.MapStoreError(err, "create activity log")
	}
	return nil
}

func (r *gormActivityLogRepository) List(ctx context.Context, q ListQuery) ([]model.ActivityLogModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.ActivityLogModel{})
	if v := strings.TrimSpace(q.EntityType); v != "" {
		tx = tx.Where("activity_log_entity_type = ?", v)
	}
	if v := strings.TrimSpace(q.EntityID); v != "" {
		tx = tx.Where("activity_log_entity_id = ?", v)
	}
	if v := strings.TrimSpace(q.Actor); v != "" {
		tx = tx.Where("activity_log_actor = ?", v)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, helper.MapStoreError(err, "count activity logs")
	}
	var rows []model.ActivityLogModel
	if err := tx.Order("activity_log_created_at DESC").
		Offset(q.Paging.Offset).Limit(q.Paging.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, helper.MapStoreError(err, "list activity logs")
	}
	return rows, total, nil
}

func (r *gormActivityLogRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("activity_log_created_at < ?", cutoff).
		Delete(&model.ActivityLogModel{})
	if res.Error != nil {
		return 0, helper.MapStoreError(res.Error, "purge activity logs")
	}
	return res.RowsAffected, nil
}

/* =======================
   memory
======================= */

type memoryActivityLogRepository struct {
	mu   sync.RWMutex
	rows []model.ActivityLogModel
}

func NewMemoryActivityLogRepository() ActivityLogRepository {
	return &memoryActivityLogRepository{}
}

func (r *memoryActivityLogRepository) Create(_ context.Context, m *model.ActivityLogModel) error {
	r.mu.Lock()
	r.rows = append(r.rows, *m)
	r.mu.Unlock()
	return nil
}

func (r *memoryActivityLogRepository) List(_ context.Context, q ListQuery) ([]model.ActivityLogModel, int64, error) {
	r.mu.RLock()
	rows := make([]model.ActivityLogModel, 0, len(r.rows))
	for _, row := range r.rows {
		if q.EntityType != "" && row.EntityType != q.EntityType {
			continue
		}
		if q.EntityID != "" && row.EntityID != q.EntityID {
			continue
		}
		if q.Actor != "" && row.Actor != q.Actor {
			continue
		}
		rows = append(rows, row)
	}
	r.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	total := int64(len(rows))
	if q.Paging.Offset >= len(rows) {
		return []model.ActivityLogModel{}, total, nil
	}
	end := len(rows)
	if q.Paging.Limit > 0 && q.Paging.Offset+q.Paging.Limit < end {
		end = q.Paging.Offset + q.Paging.Limit
	}
	return rows[q.Paging.Offset:end], total, nil
}

func (r *memoryActivityLogRepository) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var removed int64
	for _, row := range r.rows {
		if row.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return removed, nil
}
