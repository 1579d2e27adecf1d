// file: internals/features/rating/history/service/history_service.go
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"creditrating_backend/internals/features/rating/approval"
	assessmentModel "creditrating_backend/internals/features/rating/assessments/model"
	customerModel "creditrating_backend/internals/features/rating/customers/model"
	"creditrating_backend/internals/features/rating/history/dto"
	"creditrating_backend/internals/features/rating/scoring"
	templateModel "creditrating_backend/internals/features/rating/templates/model"
	"creditrating_backend/internals/helpers/apperror"
)

type CustomerFinder interface {
	Get(ctx context.Context, customerID string) (*customerModel.CustomerModel, error)
}

type AssessmentLister interface {
	ListByCustomer(ctx context.Context, customerID string, includeHidden bool) ([]assessmentModel.AssessmentModel, error)
}

type TemplateLookup interface {
	Lookup(ctx context.Context, id string) (*templateModel.TemplateModel, error)
}

type HistoryService struct {
	customers   CustomerFinder
	assessments AssessmentLister
	templates   TemplateLookup
	log         *logrus.Logger
}

func NewHistoryService(customers CustomerFinder, assessments AssessmentLister, templates TemplateLookup, log *logrus.Logger) *HistoryService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HistoryService{customers: customers, assessments: assessments, templates: templates, log: log}
}

// CustomerHistory joins a customer's assessments with their templates. The
// template is the source of truth for texts, weights and scores; anything
// that no longer resolves degrades to empty text and zero.
func (s *HistoryService) CustomerHistory(ctx context.Context, customerID string, includeHidden bool) (*dto.CustomerHistory, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.assessments.ListByCustomer(ctx, customer.CustomerID, includeHidden)
	if err != nil {
		return nil, err
	}

	cache := map[string]*templateModel.TemplateModel{}
	out := &dto.CustomerHistory{
		Customer:    *customer,
		Assessments: make([]dto.EnrichedAssessment, 0, len(rows)),
	}
	for i := range rows {
		tpl, err := s.template(ctx, cache, rows[i].TemplateID)
		if err != nil {
			return nil, err
		}
		out.Assessments = append(out.Assessments, enrich(&rows[i], tpl))
	}
	out.Summary = summarize(rows)
	return out, nil
}

// template memoizes lookups for one request; a missing template is cached
// as nil.
func (s *HistoryService) template(ctx context.Context, cache map[string]*templateModel.TemplateModel, id string) (*templateModel.TemplateModel, error) {
	if tpl, ok := cache[id]; ok {
		return tpl, nil
	}
	tpl, err := s.templates.Lookup(ctx, id)
	if err != nil {
		if !apperror.Is(err, apperror.KindNotFound) {
			return nil, err
		}
		s.log.WithField("template_id", id).Warn("history: template missing, answers degrade to empty")
		tpl = nil
	}
	cache[id] = tpl
	return tpl, nil
}

func enrich(a *assessmentModel.AssessmentModel, tpl *templateModel.TemplateModel) dto.EnrichedAssessment {
	var sheet scoring.Sheet
	name := a.TemplateName
	if tpl != nil {
		sheet = tpl.Sheet()
		if name == "" {
			name = tpl.TemplateName
		}
	}
	res := scoring.Evaluate(sheet, a.Selections(), string(a.CustomerType))

	answers := make([]dto.EnrichedAnswer, 0, len(res.Lines))
	for _, line := range res.Lines {
		answers = append(answers, dto.EnrichedAnswer{
			QuestionID:    line.QuestionID,
			AnswerID:      line.AnswerID,
			CustomerType:  line.CustomerType,
			Category:      line.CategoryName,
			QuestionText:  line.QuestionText,
			AnswerText:    line.AnswerText,
			Weight:        line.Weight,
			Score:         line.Score,
			WeightedScore: line.WeightedScore,
		})
	}
	cats := []scoring.CategoryScore(a.CategoryScores)
	if cats == nil {
		cats = []scoring.CategoryScore{}
	}

	return dto.EnrichedAssessment{
		ID:                     a.AssessmentID,
		AssessmentTemplateID:   a.TemplateID,
		AssessmentTemplateName: name,
		TemplateAvailable:      tpl != nil,
		CustomerType:           a.CustomerType,
		Answers:                answers,
		CategoryScores:         cats,
		TotalScore:             a.TotalScore,
		Rating:                 a.Rating,
		ApprovalStatus:         a.ApprovalStatus,
		RejectionRemarks:       a.RejectionRemarks,
		ApprovedBy:             a.ApprovedBy,
		ApprovedAt:             a.ApprovedAt,
		RejectedBy:             a.RejectedBy,
		RejectedAt:             a.RejectedAt,
		IsDeleted:              a.IsDeleted,
		AssessedBy:             a.AssessedBy,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}

func summarize(rows []assessmentModel.AssessmentModel) dto.Summary {
	sum := dto.Summary{TotalAssessments: len(rows)}
	var latest time.Time
	for i := range rows {
		a := &rows[i]
		switch a.ApprovalStatus {
		case approval.StatusApproved:
			sum.ApprovedCount++
			at := a.CreatedAt
			if a.ApprovedAt != nil {
				at = *a.ApprovedAt
			}
			if sum.LatestApprovedRating == nil || at.After(latest) {
				rating := a.Rating
				sum.LatestApprovedRating = &rating
				latest = at
			}
		case approval.StatusPending:
			sum.PendingCount++
		case approval.StatusRejected:
			sum.RejectedCount++
		}
	}
	return sum
}
