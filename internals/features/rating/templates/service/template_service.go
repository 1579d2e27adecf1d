// file: internals/features/rating/templates/service/template_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"creditrating_backend/internals/events"
	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/templates/model"
	"creditrating_backend/internals/features/rating/templates/repository"
	helper "creditrating_backend/internals/helpers"
	"creditrating_backend/internals/helpers/apperror"
	"creditrating_backend/internals/metrics"
)

// Templates may be re-reviewed at any time and edited in any state; every
// edit sends them back to review.
var templatePolicy = approval.Policy{
	Entity:       "template",
	DecideFrom:   []approval.Status{approval.StatusPending, approval.StatusApproved, approval.StatusRejected},
	RemarksLabel: "comments",
}

type CreateInput struct {
	Name       string
	Categories []model.TemplateCategory
	CreatedBy  string
}

type UpdateInput struct {
	ID              string
	Name            string
	Categories      []model.TemplateCategory
	UpdatedBy       string
	ExpectedVersion *int
}

type DecisionInput struct {
	ID              string
	Action          approval.Action
	ReviewedBy      string
	Comments        string
	ExpectedVersion *int
}

type TemplateService struct {
	repo    repository.TemplateRepository
	events  events.Publisher
	log     *logrus.Logger
	machine approval.Machine[model.TemplateModel]
	now     func() time.Time
}

func NewTemplateService(repo repository.TemplateRepository, pub events.Publisher, log *logrus.Logger) *TemplateService {
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TemplateService{
		repo:    repo,
		events:  pub,
		log:     log,
		machine: approval.New[model.TemplateModel](templatePolicy),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

/* =======================
   Reads
======================= */

// Get returns a live template (hidden ones included).
func (s *TemplateService) Get(ctx context.Context, id string) (*model.TemplateModel, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.Validation("template id is required")
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.IsRemoved() {
		return nil, apperror.NotFound("template %s not found", id)
	}
	return m, nil
}

// Lookup returns a template regardless of soft deletion; used for joins on
// historical assessments.
func (s *TemplateService) Lookup(ctx context.Context, id string) (*model.TemplateModel, error) {
	return s.repo.FindByID(ctx, id)
}

// GetApproved returns the template only when a new assessment may use it.
func (s *TemplateService) GetApproved(ctx context.Context, id string) (*model.TemplateModel, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.Referenceable() {
		return nil, apperror.Validation("template not approved")
	}
	return m, nil
}

func (s *TemplateService) List(ctx context.Context, q repository.ListQuery) ([]model.TemplateModel, int64, error) {
	if q.ApprovalStatus != "" && !q.ApprovalStatus.IsValid() {
		return nil, 0, apperror.Validation("unknown approvalStatus %q", q.ApprovalStatus)
	}
	if q.Paging.Limit == 0 {
		q.Paging = helper.NewPaging(1, 0)
	}
	return s.repo.List(ctx, q)
}

/* =======================
   Writes
======================= */

func (s *TemplateService) Create(ctx context.Context, in CreateInput) (*model.TemplateModel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("template name is required")
	}
	createdBy := strings.TrimSpace(in.CreatedBy)
	if createdBy == "" {
		return nil, apperror.Validation("createdBy is required")
	}
	cats, err := normalizeCategories(in.Categories)
	if err != nil {
		return nil, err
	}

	key := helper.FoldName(name)
	if err := s.ensureNameFree(ctx, name, key, ""); err != nil {
		return nil, err
	}

	m := &model.TemplateModel{
		TemplateID:      uuid.NewString(),
		TemplateName:    name,
		TemplateNameKey: key,
		TemplateStatus:  model.TemplateStatusPendingApproval,
		ApprovalStatus:  approval.StatusPending,
		Categories:      cats,
		CreatedBy:       createdBy,
		CreatedAt:       s.now(),
		Version:         1,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.publish(events.TemplateCreated, m, createdBy, fmt.Sprintf("Created template %s", m.TemplateName), nil)
	return m, nil
}

// Update replaces name and categories and sends the template back to review.
func (s *TemplateService) Update(ctx context.Context, in UpdateInput) (*model.TemplateModel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("template name is required")
	}
	updatedBy := strings.TrimSpace(in.UpdatedBy)
	if updatedBy == "" {
		return nil, apperror.Validation("updatedBy is required")
	}
	cats, err := normalizeCategories(in.Categories)
	if err != nil {
		return nil, err
	}

	m, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(m.Version, in.ExpectedVersion); err != nil {
		return nil, err
	}
	tr, err := s.machine.Edit(*m)
	if err != nil {
		return nil, err
	}

	key := helper.FoldName(name)
	if key != m.TemplateNameKey {
		if err := s.ensureNameFree(ctx, name, key, m.TemplateID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	current := m.Version
	m.TemplateName = name
	m.TemplateNameKey = key
	m.Categories = cats
	m.TemplateStatus = model.TemplateStatusPendingApproval
	m.ApprovalStatus = tr.To
	m.ApprovalComments = nil
	m.UpdatedBy = &updatedBy
	m.UpdatedAt = &now

	if err := s.save(ctx, m, current); err != nil {
		return nil, err
	}

	s.publish(events.TemplateUpdated, m, updatedBy, fmt.Sprintf("Updated template %s", m.TemplateName), map[string]any{
		"previousApprovalStatus": tr.From,
	})
	return m, nil
}

func (s *TemplateService) Approve(ctx context.Context, id, approvedBy, comments string) (*model.TemplateModel, error) {
	return s.Decide(ctx, DecisionInput{ID: id, Action: approval.ActionApprove, ReviewedBy: approvedBy, Comments: comments})
}

func (s *TemplateService) Reject(ctx context.Context, id, rejectedBy, comments string) (*model.TemplateModel, error) {
	return s.Decide(ctx, DecisionInput{ID: id, Action: approval.ActionReject, ReviewedBy: rejectedBy, Comments: comments})
}

// Decide applies an approve/reject. Approval cascades to every question;
// the reviewer is recorded in approvedBy/approvedAt for both outcomes.
func (s *TemplateService) Decide(ctx context.Context, in DecisionInput) (*model.TemplateModel, error) {
	reviewer := strings.TrimSpace(in.ReviewedBy)
	if reviewer == "" {
		return nil, apperror.Validation("approvedBy is required")
	}
	m, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	tr, err := s.machine.Decide(*m, in.Action, in.Comments)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(m.Version, in.ExpectedVersion); err != nil {
		return nil, err
	}

	now := s.now()
	current := m.Version
	m.ApprovalStatus = tr.To
	m.ApprovedBy = &reviewer
	m.ApprovedAt = &now
	m.ApprovalComments = nil
	if tr.Remarks != "" {
		m.ApprovalComments = &tr.Remarks
	}

	action := events.TemplateApproved
	if tr.To == approval.StatusApproved {
		m.TemplateStatus = model.TemplateStatusActive
		for i := range m.Categories {
			for j := range m.Categories[i].Questions {
				m.Categories[i].Questions[j].Status = model.QuestionStatusApproved
			}
		}
	} else {
		action = events.TemplateRejected
		m.TemplateStatus = model.TemplateStatusRejected
	}

	if err := s.save(ctx, m, current); err != nil {
		return nil, err
	}
	metrics.ApprovalTransition(templatePolicy.Entity, string(tr.To))

	s.publish(action, m, reviewer, fmt.Sprintf("Template %s %s", m.TemplateName, tr.To), map[string]any{
		"from":     tr.From,
		"to":       tr.To,
		"comments": tr.Remarks,
	})
	return m, nil
}

// SetVisibility flips only the hide flag. Asking for the current state is a
// state error.
func (s *TemplateService) SetVisibility(ctx context.Context, id string, hidden bool, actor string) (*model.TemplateModel, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.IsDeleted == hidden {
		return nil, apperror.State("template is already %s", visibilityWord(hidden))
	}
	// a hidden template gives up its name, so showing it again must reclaim it
	if !hidden {
		if err := s.ensureNameFree(ctx, m.TemplateName, m.TemplateNameKey, m.TemplateID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	ok, err := s.repo.SetHidden(ctx, m.TemplateID, hidden, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.State("template is already %s", visibilityWord(hidden))
	}
	m.IsDeleted = hidden
	m.VisibilityChangedAt = &now
	metrics.VisibilityChange(templatePolicy.Entity, hidden)

	s.publish(events.TemplateVisibility, m, actor, fmt.Sprintf("Template %s %s", m.TemplateName, visibilityWord(hidden)), map[string]any{
		"isHidden": hidden,
	})
	return m, nil
}

func (s *TemplateService) SoftDelete(ctx context.Context, id, deletedBy string) (*model.TemplateModel, error) {
	id = strings.TrimSpace(id)
	deletedBy = strings.TrimSpace(deletedBy)
	if id == "" {
		return nil, apperror.Validation("template id is required")
	}
	if deletedBy == "" {
		return nil, apperror.Validation("deletedBy is required")
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.IsRemoved() {
		return nil, apperror.State("template is already deleted")
	}

	now := s.now()
	ok, err := s.repo.MarkDeleted(ctx, id, deletedBy, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.State("template is already deleted")
	}
	m.IsDeleted = true
	m.DeletedBy = &deletedBy
	m.DeletedAt = &now

	s.publish(events.TemplateDeleted, m, deletedBy, fmt.Sprintf("Deleted template %s", m.TemplateName), nil)
	return m, nil
}

/* =======================
   Helpers
======================= */

func (s *TemplateService) ensureNameFree(ctx context.Context, name, key, excludeID string) error {
	taken, err := s.repo.NameTaken(ctx, key, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Conflict("template name %q already exists", name)
	}
	return nil
}

func (s *TemplateService) save(ctx context.Context, m *model.TemplateModel, expectVersion int) error {
	ok, err := s.repo.SaveRevision(ctx, m, expectVersion)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Conflict("template %s was modified concurrently, reload and retry", m.TemplateID)
	}
	return nil
}

func (s *TemplateService) publish(action events.Action, m *model.TemplateModel, actor, description string, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	meta["version"] = m.Version
	s.events.Publish(events.Event{
		Action:      action,
		EntityType:  events.EntityTemplate,
		EntityID:    m.TemplateID,
		Actor:       actor,
		Description: description,
		Metadata:    meta,
		OccurredAt:  s.now(),
	})
	s.log.WithFields(logrus.Fields{
		"template_id": m.TemplateID,
		"action":      action,
		"actor":       actor,
	}).Info(description)
}

func checkVersion(current int, expected *int) error {
	if expected != nil && *expected != current {
		return apperror.Conflict("version mismatch: current %d, expected %d", current, *expected)
	}
	return nil
}

func visibilityWord(hidden bool) string {
	if hidden {
		return "hidden"
	}
	return "visible"
}
