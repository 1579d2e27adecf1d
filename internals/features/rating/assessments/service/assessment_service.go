// file: internals/features/rating/assessments/service/assessment_service.go
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
	"creditrating_backend/internals/features/rating/assessments/model"
	"creditrating_backend/internals/features/rating/assessments/repository"
	customerModel "creditrating_backend/internals/features/rating/customers/model"
	"creditrating_backend/internals/features/rating/scoring"
	templateModel "creditrating_backend/internals/features/rating/templates/model"
	helper "creditrating_backend/internals/helpers"
	"creditrating_backend/internals/helpers/apperror"
	"creditrating_backend/internals/metrics"
)

// An assessment is reviewed once: only pending ones take a decision, and only
// rejected ones may be edited and resubmitted.
var assessmentPolicy = approval.Policy{
	Entity:          "assessment",
	DecideFrom:      []approval.Status{approval.StatusPending},
	RejectRedundant: true,
	EditableFrom:    []approval.Status{approval.StatusRejected},
	RemarksLabel:    "remarks",
}

type TemplateSource interface {
	GetApproved(ctx context.Context, id string) (*templateModel.TemplateModel, error)
	Lookup(ctx context.Context, id string) (*templateModel.TemplateModel, error)
}

type CustomerRegistry interface {
	Get(ctx context.Context, customerID string) (*customerModel.CustomerModel, error)
	Create(ctx context.Context, m customerModel.CustomerModel) (*customerModel.CustomerModel, error)
}

type AnswerInput struct {
	QuestionID    string
	AnswerID      string
	CustomerType  string
	Score         *float64
	WeightedScore *float64
}

// ScoreHints are the client's own totals. They never override the computed
// values; disagreements are logged.
type ScoreHints struct {
	TotalScore     *float64
	Rating         string
	CategoryScores []scoring.CategoryScore
}

type CreateInput struct {
	CustomerName string
	CustomerID   string
	NIC          string
	CustomerType string
	TemplateID   string
	Answers      []AnswerInput
	Hints        ScoreHints
	AssessedBy   string
}

type EditInput struct {
	ID              string
	Answers         []AnswerInput
	Hints           ScoreHints
	UpdatedBy       string
	ExpectedVersion *int
}

type AssessmentService struct {
	repo      repository.AssessmentRepository
	templates TemplateSource
	customers CustomerRegistry
	events    events.Publisher
	log       *logrus.Logger
	machine   approval.Machine[model.AssessmentModel]
	now       func() time.Time
}

func NewAssessmentService(repo repository.AssessmentRepository, templates TemplateSource, customers CustomerRegistry, pub events.Publisher, log *logrus.Logger) *AssessmentService {
	if pub == nil {
		pub = events.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AssessmentService{
		repo:      repo,
		templates: templates,
		customers: customers,
		events:    pub,
		log:       log,
		machine:   approval.New[model.AssessmentModel](assessmentPolicy),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

/* =======================
   Reads
======================= */

func (s *AssessmentService) Get(ctx context.Context, id string) (*model.AssessmentModel, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.Validation("assessment id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *AssessmentService) List(ctx context.Context, q repository.ListQuery) ([]model.AssessmentModel, int64, error) {
	if q.Status != "" && !q.Status.IsValid() {
		return nil, 0, apperror.Validation("unknown status %q", q.Status)
	}
	if q.Paging.Limit == 0 {
		q.Paging = helper.NewPaging(1, 0)
	}
	return s.repo.List(ctx, q)
}

func (s *AssessmentService) ListByCustomer(ctx context.Context, customerID string, includeHidden bool) ([]model.AssessmentModel, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, apperror.Validation("customerId is required")
	}
	return s.repo.ListByCustomer(ctx, customerID, includeHidden)
}

/* =======================
   Create
======================= */

func (s *AssessmentService) Create(ctx context.Context, in CreateInput) (*model.AssessmentModel, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.NIC = strings.ToUpper(strings.TrimSpace(in.NIC))
	in.TemplateID = strings.TrimSpace(in.TemplateID)
	in.AssessedBy = strings.TrimSpace(in.AssessedBy)

	switch {
	case in.CustomerName == "":
		return nil, apperror.Validation("customerName is required")
	case in.CustomerID == "":
		return nil, apperror.Validation("customerId is required")
	case in.NIC == "":
		return nil, apperror.Validation("nic is required")
	case in.TemplateID == "":
		return nil, apperror.Validation("templateId is required")
	case in.AssessedBy == "":
		return nil, apperror.Validation("assessedBy is required")
	case len(in.Answers) == 0:
		return nil, apperror.Validation("at least one answer is required")
	}
	if !helper.ValidNIC(in.NIC) {
		return nil, apperror.Validation("nic must be 9 digits followed by X/V or 12 digits")
	}
	customerType, ok := scoring.NormalizeCustomerType(in.CustomerType)
	if !ok {
		return nil, apperror.Validation("customerType must be new or existing")
	}

	tpl, err := s.templates.GetApproved(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}
	answers, res, err := s.score(tpl, customerType, in.Answers)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCustomer(ctx, in.CustomerID, in.CustomerName, in.NIC); err != nil {
		return nil, err
	}

	m := &model.AssessmentModel{
		AssessmentID:   uuid.NewString(),
		CustomerName:   in.CustomerName,
		CustomerID:     in.CustomerID,
		NIC:            in.NIC,
		CustomerType:   customerType,
		TemplateID:     tpl.TemplateID,
		TemplateName:   tpl.TemplateName,
		Answers:        answers,
		CategoryScores: res.CategoryScores,
		TotalScore:     res.TotalScore,
		Rating:         res.Rating,
		ApprovalStatus: approval.StatusPending,
		AssessedBy:     in.AssessedBy,
		CreatedAt:      s.now(),
		Version:        1,
	}
	s.compareHints(m, in.Hints, in.Answers)

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.publish(events.AssessmentCreated, m, in.AssessedBy,
		fmt.Sprintf("Assessed %s with template %s: %s (%.2f)", m.CustomerName, m.TemplateName, m.Rating, m.TotalScore), nil)
	return m, nil
}

/* =======================
   Approval
======================= */

func (s *AssessmentService) Approve(ctx context.Context, id, approvedBy string) (*model.AssessmentModel, error) {
	return s.decide(ctx, id, approval.ActionApprove, approvedBy, "", nil)
}

func (s *AssessmentService) Reject(ctx context.Context, id, rejectedBy, remarks string) (*model.AssessmentModel, error) {
	return s.decide(ctx, id, approval.ActionReject, rejectedBy, remarks, nil)
}

// Decide is the generic entry used by the HTTP layer.
func (s *AssessmentService) Decide(ctx context.Context, id string, action approval.Action, reviewer, remarks string, expectedVersion *int) (*model.AssessmentModel, error) {
	return s.decide(ctx, id, action, reviewer, remarks, expectedVersion)
}

func (s *AssessmentService) decide(ctx context.Context, id string, action approval.Action, reviewer, remarks string, expectedVersion *int) (*model.AssessmentModel, error) {
	reviewer = strings.TrimSpace(reviewer)
	if reviewer == "" {
		if action == approval.ActionReject {
			return nil, apperror.Validation("rejectedBy is required")
		}
		return nil, apperror.Validation("approvedBy is required")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tr, err := s.machine.Decide(*m, action, remarks)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(m.Version, expectedVersion); err != nil {
		return nil, err
	}

	now := s.now()
	current := m.Version
	m.ApprovalStatus = tr.To
	m.UpdatedBy = &reviewer
	m.UpdatedAt = &now

	evt := events.AssessmentApproved
	if tr.To == approval.StatusApproved {
		m.ApprovedBy = &reviewer
		m.ApprovedAt = &now
		m.RejectedBy = nil
		m.RejectedAt = nil
		m.RejectionRemarks = nil
	} else {
		evt = events.AssessmentRejected
		m.RejectedBy = &reviewer
		m.RejectedAt = &now
		m.RejectionRemarks = &tr.Remarks
		m.ApprovedBy = nil
		m.ApprovedAt = nil
	}

	if err := s.save(ctx, m, current); err != nil {
		return nil, err
	}
	metrics.ApprovalTransition(assessmentPolicy.Entity, string(tr.To))

	s.publish(evt, m, reviewer, fmt.Sprintf("Assessment of %s %s", m.CustomerName, tr.To), map[string]any{
		"from":    tr.From,
		"to":      tr.To,
		"remarks": tr.Remarks,
	})
	return m, nil
}

/* =======================
   Edit (resubmission)
======================= */

// Edit replaces the answers of a rejected assessment, rescoring them against
// its template, and sends it back for approval.
func (s *AssessmentService) Edit(ctx context.Context, in EditInput) (*model.AssessmentModel, error) {
	updatedBy := strings.TrimSpace(in.UpdatedBy)
	if updatedBy == "" {
		return nil, apperror.Validation("updatedBy is required")
	}
	if len(in.Answers) == 0 {
		return nil, apperror.Validation("at least one answer is required")
	}
	m, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	tr, err := s.machine.Edit(*m)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(m.Version, in.ExpectedVersion); err != nil {
		return nil, err
	}

	tpl, err := s.templates.Lookup(ctx, m.TemplateID)
	if err != nil {
		return nil, err
	}
	answers, res, err := s.score(tpl, m.CustomerType, in.Answers)
	if err != nil {
		return nil, err
	}

	now := s.now()
	current := m.Version
	m.Answers = answers
	m.CategoryScores = res.CategoryScores
	m.TotalScore = res.TotalScore
	m.Rating = res.Rating
	m.ApprovalStatus = tr.To
	m.RejectionRemarks = nil
	m.UpdatedBy = &updatedBy
	m.UpdatedAt = &now
	s.compareHints(m, in.Hints, in.Answers)

	if err := s.save(ctx, m, current); err != nil {
		return nil, err
	}
	metrics.ApprovalTransition(assessmentPolicy.Entity, string(tr.To))

	s.publish(events.AssessmentResubmitted, m, updatedBy,
		fmt.Sprintf("Resubmitted assessment of %s: %s (%.2f)", m.CustomerName, m.Rating, m.TotalScore), nil)
	return m, nil
}

/* =======================
   Visibility
======================= */

func (s *AssessmentService) SetVisibility(ctx context.Context, id string, hidden bool, actor string) (*model.AssessmentModel, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, apperror.Validation("username is required")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.IsDeleted == hidden {
		return nil, apperror.State("assessment is already in that state")
	}

	now := s.now()
	ok, err := s.repo.SetHidden(ctx, m.AssessmentID, hidden, actor, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.State("assessment is already in that state")
	}
	m.IsDeleted = hidden
	m.VisibilityChangedBy = &actor
	m.VisibilityChangedAt = &now
	metrics.VisibilityChange(assessmentPolicy.Entity, hidden)

	verb := "Restored"
	if hidden {
		verb = "Hid"
	}
	s.publish(events.AssessmentVisibility, m, actor,
		fmt.Sprintf("%s assessment of %s (template %s)", verb, m.CustomerName, m.TemplateName),
		map[string]any{"isDeleted": hidden})
	return m, nil
}

/* =======================
   Helpers
======================= */

// score checks every answer against the template and computes all derived
// values with the scoring engine.
func (s *AssessmentService) score(tpl *templateModel.TemplateModel, customerType scoring.CustomerType, in []AnswerInput) (model.AnswerList, scoring.Result, error) {
	sheet := tpl.Sheet()
	seen := make(map[string]bool, len(in))
	selections := make([]scoring.Selection, 0, len(in))

	for i, a := range in {
		qid := strings.TrimSpace(a.QuestionID)
		aid := strings.TrimSpace(a.AnswerID)
		if qid == "" || aid == "" {
			return nil, scoring.Result{}, apperror.Validation("answers[%d]: questionId and answerId are required", i)
		}
		if seen[qid] {
			return nil, scoring.Result{}, apperror.Validation("question %s answered more than once", qid)
		}
		seen[qid] = true

		_, q, ans := sheet.Locate(qid, aid)
		if q == nil {
			return nil, scoring.Result{}, apperror.Validation("question %s is not part of template %s", qid, tpl.TemplateName)
		}
		if ans == nil {
			return nil, scoring.Result{}, apperror.Validation("answer %s is not an option of question %s", aid, qid)
		}

		ct := string(customerType)
		if raw := strings.TrimSpace(a.CustomerType); raw != "" {
			if norm, ok := scoring.NormalizeCustomerType(raw); ok {
				ct = string(norm)
			} else {
				ct = raw
			}
		}
		selections = append(selections, scoring.Selection{QuestionID: qid, AnswerID: aid, CustomerType: ct})
	}

	res := scoring.Evaluate(sheet, selections, string(customerType))
	out := make(model.AnswerList, len(res.Lines))
	for i, line := range res.Lines {
		score, weighted := line.Score, line.WeightedScore
		out[i] = model.AssessmentAnswer{
			QuestionID:    line.QuestionID,
			AnswerID:      line.AnswerID,
			CustomerType:  line.CustomerType,
			Score:         &score,
			WeightedScore: &weighted,
		}
	}
	return out, res, nil
}

func (s *AssessmentService) compareHints(m *model.AssessmentModel, hints ScoreHints, answers []AnswerInput) {
	entry := s.log.WithFields(logrus.Fields{
		"assessment_id": m.AssessmentID,
		"template_id":   m.TemplateID,
	})
	if hints.TotalScore != nil && *hints.TotalScore != m.TotalScore {
		entry.Warnf("client totalScore %.4f differs from computed %.4f", *hints.TotalScore, m.TotalScore)
	}
	if r := strings.TrimSpace(hints.Rating); r != "" && r != m.Rating {
		entry.Warnf("client rating %s differs from computed %s", r, m.Rating)
	}
	if len(hints.CategoryScores) > 0 {
		computed := make(map[string]float64, len(m.CategoryScores))
		for _, c := range m.CategoryScores {
			computed[c.CategoryName] = c.Score
		}
		for _, c := range hints.CategoryScores {
			if v, ok := computed[c.CategoryName]; !ok || v != c.Score {
				entry.Warnf("client category score for %q (%.4f) differs from computed", c.CategoryName, c.Score)
			}
		}
	}
	for i, a := range answers {
		if i >= len(m.Answers) {
			break
		}
		if a.WeightedScore != nil && m.Answers[i].WeightedScore != nil && *a.WeightedScore != *m.Answers[i].WeightedScore {
			entry.Warnf("client weightedScore for question %s differs from computed", a.QuestionID)
		}
	}
}

func (s *AssessmentService) ensureCustomer(ctx context.Context, customerID, name, nic string) error {
	if s.customers == nil {
		return nil
	}
	c, err := s.customers.Get(ctx, customerID)
	if err == nil {
		if !strings.EqualFold(c.NIC, nic) {
			return apperror.Conflict("customer %s is registered with a different nic", customerID)
		}
		return nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return err
	}
	_, err = s.customers.Create(ctx, customerModel.CustomerModel{CustomerID: customerID, Name: name, NIC: nic})
	return err
}

func (s *AssessmentService) save(ctx context.Context, m *model.AssessmentModel, expectVersion int) error {
	ok, err := s.repo.SaveRevision(ctx, m, expectVersion)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Conflict("assessment %s was modified concurrently, reload and retry", m.AssessmentID)
	}
	return nil
}

func (s *AssessmentService) publish(action events.Action, m *model.AssessmentModel, actor, description string, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	meta["customerId"] = m.CustomerID
	meta["templateId"] = m.TemplateID
	meta["version"] = m.Version
	s.events.Publish(events.Event{
		Action:      action,
		EntityType:  events.EntityAssessment,
		EntityID:    m.AssessmentID,
		Actor:       actor,
		Description: description,
		Metadata:    meta,
		OccurredAt:  s.now(),
	})
	s.log.WithFields(logrus.Fields{
		"assessment_id": m.AssessmentID,
		"action":        action,
		"actor":         actor,
	}).Info(description)
}

func checkVersion(current int, expected *int) error {
	if expected != nil && *expected != current {
		return apperror.Conflict("version mismatch: current %d, expected %d", current, *expected)
	}
	return nil
}
