// file: internals/features/rating/templates/repository/template_memory_repository.go
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"creditrating_backend/internals/features/rating/templates/model"
	"creditrating_backend/internals/helpers/apperror"
)

// memoryTemplateRepository backs STORE_DRIVER=memory and the service tests.
// It applies the same guards as the SQL implementation.
type memoryTemplateRepository struct {
	mu   sync.RWMutex
	rows map[string]model.TemplateModel
}

func NewMemoryTemplateRepository() TemplateRepository {
	return &memoryTemplateRepository{rows: map[string]model.TemplateModel{}}
}

func (r *memoryTemplateRepository) Create(_ context.Context, m *model.TemplateModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[m.TemplateID]; ok {
		return apperror.Conflict("template %s already exists", m.TemplateID)
	}
	for _, row := range r.rows {
		if row.ReservesName() && row.TemplateNameKey == m.TemplateNameKey {
			return apperror.Conflict("template name %q already exists", m.TemplateName)
		}
	}
	if m.Version == 0 {
		m.Version = 1
	}
	r.rows[m.TemplateID] = m.Clone()
	return nil
}

func (r *memoryTemplateRepository) FindByID(_ context.Context, id string) (*model.TemplateModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("template %s not found", id)
	}
	out := row.Clone()
	return &out, nil
}

func (r *memoryTemplateRepository) List(_ context.Context, q ListQuery) ([]model.TemplateModel, int64, error) {
	r.mu.RLock()
	matched := make([]model.TemplateModel, 0, len(r.rows))
	for _, row := range r.rows {
		if row.DeletedAt != nil {
			continue
		}
		if row.IsDeleted && !q.IncludeHidden {
			continue
		}
		if q.ApprovalStatus != "" && row.ApprovalStatus != q.ApprovalStatus {
			continue
		}
		matched = append(matched, row.Clone())
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	return page(matched, q.Paging.Offset, q.Paging.Limit), total, nil
}

func (r *memoryTemplateRepository) NameTaken(_ context.Context, nameKey, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, row := range r.rows {
		if id == excludeID || !row.ReservesName() {
			continue
		}
		if row.TemplateNameKey == nameKey {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryTemplateRepository) SaveRevision(_ context.Context, m *model.TemplateModel, expectVersion int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[m.TemplateID]
	if !ok || row.Version != expectVersion {
		return false, nil
	}
	cp := m.Clone()
	row.TemplateName = cp.TemplateName
	row.TemplateNameKey = cp.TemplateNameKey
	row.TemplateStatus = cp.TemplateStatus
	row.ApprovalStatus = cp.ApprovalStatus
	row.Categories = cp.Categories
	row.ApprovalComments = cp.ApprovalComments
	row.ApprovedBy = cp.ApprovedBy
	row.ApprovedAt = cp.ApprovedAt
	row.UpdatedBy = cp.UpdatedBy
	row.UpdatedAt = cp.UpdatedAt
	row.Version = expectVersion + 1
	r.rows[m.TemplateID] = row
	m.Version = row.Version
	return true, nil
}

func (r *memoryTemplateRepository) SetHidden(_ context.Context, id string, hidden bool, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.DeletedAt != nil || row.IsDeleted == hidden {
		return false, nil
	}
	row.IsDeleted = hidden
	row.VisibilityChangedAt = &at
	r.rows[id] = row
	return true, nil
}

func (r *memoryTemplateRepository) MarkDeleted(_ context.Context, id, by string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.DeletedAt != nil {
		return false, nil
	}
	row.IsDeleted = true
	row.DeletedBy = &by
	row.DeletedAt = &at
	r.rows[id] = row
	return true, nil
}

func page[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
