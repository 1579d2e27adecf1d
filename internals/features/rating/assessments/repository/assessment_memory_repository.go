// file: internals/features/rating/assessments/repository/assessment_memory_repository.go
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"creditrating_backend/internals/features/rating/assessments/model"
	"creditrating_backend/internals/helpers/apperror"
)

type memoryAssessmentRepository struct {
	mu   sync.RWMutex
	rows map[string]model.AssessmentModel
}

func NewMemoryAssessmentRepository() AssessmentRepository {
	return &memoryAssessmentRepository{rows: map[string]model.AssessmentModel{}}
}

func (r *memoryAssessmentRepository) Create(_ context.Context, m *model.AssessmentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[m.AssessmentID]; ok {
		return apperror.Conflict("assessment %s already exists", m.AssessmentID)
	}
	if m.Version == 0 {
		m.Version = 1
	}
	r.rows[m.AssessmentID] = m.Clone()
	return nil
}

func (r *memoryAssessmentRepository) FindByID(_ context.Context, id string) (*model.AssessmentModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("assessment %s not found", id)
	}
	out := row.Clone()
	return &out, nil
}

func (r *memoryAssessmentRepository) match(customerID string, q ListQuery) []model.AssessmentModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.AssessmentModel, 0)
	for _, row := range r.rows {
		if customerID != "" && row.CustomerID != customerID {
			continue
		}
		if q.Status != "" && row.ApprovalStatus != q.Status {
			continue
		}
		if row.IsDeleted && !q.IncludeHidden {
			continue
		}
		out = append(out, row.Clone())
	}
	return out
}

func (r *memoryAssessmentRepository) List(_ context.Context, q ListQuery) ([]model.AssessmentModel, int64, error) {
	rows := r.match(q.CustomerID, q)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	total := int64(len(rows))
	if q.Paging.Offset >= len(rows) {
		return []model.AssessmentModel{}, total, nil
	}
	end := len(rows)
	if q.Paging.Limit > 0 && q.Paging.Offset+q.Paging.Limit < end {
		end = q.Paging.Offset + q.Paging.Limit
	}
	return rows[q.Paging.Offset:end], total, nil
}

func (r *memoryAssessmentRepository) ListByCustomer(_ context.Context, customerID string, includeHidden bool) ([]model.AssessmentModel, error) {
	rows := r.match(customerID, ListQuery{IncludeHidden: includeHidden})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}

func (r *memoryAssessmentRepository) SaveRevision(_ context.Context, m *model.AssessmentModel, expectVersion int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[m.AssessmentID]
	if !ok || row.Version != expectVersion {
		return false, nil
	}
	cp := m.Clone()
	row.Answers = cp.Answers
	row.CategoryScores = cp.CategoryScores
	row.TotalScore = cp.TotalScore
	row.Rating = cp.Rating
	row.ApprovalStatus = cp.ApprovalStatus
	row.RejectionRemarks = cp.RejectionRemarks
	row.ApprovedBy = cp.ApprovedBy
	row.ApprovedAt = cp.ApprovedAt
	row.RejectedBy = cp.RejectedBy
	row.RejectedAt = cp.RejectedAt
	row.UpdatedBy = cp.UpdatedBy
	row.UpdatedAt = cp.UpdatedAt
	row.Version = expectVersion + 1
	r.rows[m.AssessmentID] = row
	m.Version = row.Version
	return true, nil
}

func (r *memoryAssessmentRepository) SetHidden(_ context.Context, id string, hidden bool, by string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.IsDeleted == hidden {
		return false, nil
	}
	row.IsDeleted = hidden
	row.VisibilityChangedBy = &by
	row.VisibilityChangedAt = &at
	r.rows[id] = row
	return true, nil
}
