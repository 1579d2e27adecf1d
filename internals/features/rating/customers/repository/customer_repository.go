// file: internals/features/rating/customers/repository/customer_repository.go
package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"creditrating_backend/internals/features/rating/customers/model"
	helper "creditrating_backend/internals/helpers"
	"creditrating_backend/internals/helpers/apperror"
)

type CustomerRepository interface {
	Create(ctx context.Context, m *model.CustomerModel) error
	FindByCustomerID(ctx context.Context, customerID string) (*model.CustomerModel, error)
	List(ctx context.Context, search string, p helper.Paging) ([]model.CustomerModel, int64, error)
}

/* =======================
   gorm
======================= */

type gormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) CustomerRepository {
	return &gormCustomerRepository{db: db}
}

func (r *gormCustomerRepository) Create(ctx context.Context, m *model.CustomerModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return helper.MapStoreError(err, "create customer")
	}
	return nil
}

func (r *gormCustomerRepository) FindByCustomerID(ctx context.Context, customerID string) (*model.CustomerModel, error) {
	var m model.CustomerModel
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("customer %s not found", customerID)
	}
	if err != nil {
		return nil, helper.MapStoreError(err, "find customer")
	}
	return &m, nil
}

func (r *gormCustomerRepository) List(ctx context.Context, search string, p helper.Paging) ([]model.CustomerModel, int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.CustomerModel{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("customer_name ILIKE ? OR customer_id ILIKE ? OR customer_nic ILIKE ?", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, helper.MapStoreError(err, "count customers")
	}
	var rows []model.CustomerModel
	if err := tx.Order("customer_created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, helper.MapStoreError(err, "list customers")
	}
	return rows, total, nil
}

/* =======================
   memory
======================= */

type memoryCustomerRepository struct {
	mu   sync.RWMutex
	rows map[string]model.CustomerModel
}

func NewMemoryCustomerRepository() CustomerRepository {
	return &memoryCustomerRepository{rows: map[string]model.CustomerModel{}}
}

func (r *memoryCustomerRepository) Create(_ context.Context, m *model.CustomerModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[m.CustomerID]; ok {
		return apperror.Conflict("customer %s already exists", m.CustomerID)
	}
	for _, row := range r.rows {
		if strings.EqualFold(row.NIC, m.NIC) {
			return apperror.Conflict("nic %s is already registered", m.NIC)
		}
	}
	r.rows[m.CustomerID] = *m
	return nil
}

func (r *memoryCustomerRepository) FindByCustomerID(_ context.Context, customerID string) (*model.CustomerModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[customerID]
	if !ok {
		return nil, apperror.NotFound("customer %s not found", customerID)
	}
	return &row, nil
}

func (r *memoryCustomerRepository) List(_ context.Context, search string, p helper.Paging) ([]model.CustomerModel, int64, error) {
	s := strings.ToLower(strings.TrimSpace(search))
	r.mu.RLock()
	rows := make([]model.CustomerModel, 0, len(r.rows))
	for _, row := range r.rows {
		if s != "" &&
			!strings.Contains(strings.ToLower(row.Name), s) &&
			!strings.Contains(strings.ToLower(row.CustomerID), s) &&
			!strings.Contains(strings.ToLower(row.NIC), s) {
			continue
		}
		rows = append(rows, row)
	}
	r.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	total := int64(len(rows))
	if p.Offset >= len(rows) {
		return []model.CustomerModel{}, total, nil
	}
	end := len(rows)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return rows[p.Offset:end], total, nil
}
