// file: internals/features/activity_logs/service/activity_log_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"creditrating_backend/internals/events"
	"creditrating_backend/internals/features/activity_logs/model"
	"creditrating_backend/internals/features/activity_logs/repository"
	helper "creditrating_backend/internals/helpers"
	"creditrating_backend/internals/helpers/apperror"
)

type ActivityLogService struct {
	repo repository.ActivityLogRepository
	log  *logrus.Logger
	now  func() time.Time
}

func NewActivityLogService(repo repository.ActivityLogRepository, log *logrus.Logger) *ActivityLogService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ActivityLogService{repo: repo, log: log, now: time.Now}
}

// Handle persists one audit event. It is registered on the events bus.
func (s *ActivityLogService) Handle(ctx context.Context, e events.Event) error {
	at := e.OccurredAt
	if at.IsZero() {
		at = s.now()
	}
	row := &model.ActivityLogModel{
		ID:          uuid.New(),
		Action:      string(e.Action),
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Actor:       e.Actor,
		Description: e.Description,
		CreatedAt:   at.UTC(),
	}
	if len(e.Metadata) > 0 {
		row.Metadata = datatypes.JSONMap(e.Metadata)
	}
	return s.repo.Create(ctx, row)
}

func (s *ActivityLogService) List(ctx context.Context, q repository.ListQuery) ([]model.ActivityLogModel, int64, error) {
	if t := strings.TrimSpace(q.EntityType); t != "" && t != events.EntityTemplate && t != events.EntityAssessment {
		return nil, 0, apperror.Validation("entityType must be %s or %s", events.EntityTemplate, events.EntityAssessment)
	}
	if q.Paging.Limit <= 0 {
		q.Paging = helper.NewPaging(1, helper.DefaultPerPage)
	}
	return s.repo.List(ctx, q)
}

// Purge removes logs older than retentionDays. Zero or negative retention
// keeps everything.
func (s *ActivityLogService) Purge(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	n, err := s.repo.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.WithFields(logrus.Fields{
			"removed": n,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("activity logs purged")
	}
	return n, nil
}
