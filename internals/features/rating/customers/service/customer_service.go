// file: internals/features/rating/customers/service/customer_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"creditrating_backend/internals/features/rating/customers/model"
	"creditrating_backend/internals/features/rating/customers/repository"
	helper "creditrating_backend/internals/helpers"
	"creditrating_backend/internals/helpers/apperror"
)

type CustomerService struct {
	repo repository.CustomerRepository
	log  *logrus.Logger
	now  func() time.Time
}

func NewCustomerService(repo repository.CustomerRepository, log *logrus.Logger) *CustomerService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CustomerService{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *CustomerService) Create(ctx context.Context, m model.CustomerModel) (*model.CustomerModel, error) {
	m.CustomerID = strings.TrimSpace(m.CustomerID)
	m.Name = strings.TrimSpace(m.Name)
	m.NIC = strings.ToUpper(strings.TrimSpace(m.NIC))
	if m.CustomerID == "" || m.Name == "" {
		return nil, apperror.Validation("customerId and name are required")
	}
	if !helper.ValidNIC(m.NIC) {
		return nil, apperror.Validation("nic must be 9 digits followed by X/V or 12 digits")
	}
	now := s.now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, err
	}
	s.log.WithField("customer_id", m.CustomerID).Info("customer registered")
	return &m, nil
}

func (s *CustomerService) Get(ctx context.Context, customerID string) (*model.CustomerModel, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, apperror.Validation("customerId is required")
	}
	return s.repo.FindByCustomerID(ctx, customerID)
}

func (s *CustomerService) List(ctx context.Context, search string, p helper.Paging) ([]model.CustomerModel, int64, error) {
	if p.Limit <= 0 {
		p = helper.NewPaging(1, helper.DefaultPerPage)
	}
	return s.repo.List(ctx, search, p)
}
