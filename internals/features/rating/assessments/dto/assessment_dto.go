// file: internals/features/rating/assessments/dto/assessment_dto.go
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/assessments/model"
	"creditrating_backend/internals/features/rating/assessments/service"
	"creditrating_backend/internals/features/rating/scoring"
)

/* =======================
   Template reference
======================= */

// TemplateRef accepts either a raw id string or an object {"id": "..."}.
type TemplateRef struct {
	ID string
}

func (r *TemplateRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		r.ID = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		r.ID = strings.TrimSpace(s)
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			ID  string `json:"id"`
			OID string `json:"_id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		r.ID = strings.TrimSpace(obj.ID)
		if r.ID == "" {
			r.ID = strings.TrimSpace(obj.OID)
		}
		return nil
	}
	return fmt.Errorf("templateId must be a string or an object with an id")
}

func (r TemplateRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

/* =======================
   Requests
======================= */

type AnswerPayload struct {
	QuestionID    string   `json:"questionId" validate:"required"`
	AnswerID      string   `json:"answerId" validate:"required"`
	CustomerType  string   `json:"customerType"`
	Score         *float64 `json:"score,omitempty"`
	WeightedScore *float64 `json:"weightedScore,omitempty"`
}

type CreateAssessmentRequest struct {
	CustomerName   string                  `json:"customerName" validate:"required"`
	CustomerID     string                  `json:"customerId" validate:"required"`
	NIC            string                  `json:"nic" validate:"required,nic"`
	CustomerType   string                  `json:"customerType" validate:"required,customer_type"`
	TemplateID     TemplateRef             `json:"templateId"`
	Answers        []AnswerPayload         `json:"answers" validate:"required,min=1,dive"`
	TotalScore     *float64                `json:"totalScore,omitempty"`
	Rating         string                  `json:"rating,omitempty"`
	CategoryScores []scoring.CategoryScore `json:"categoryScores,omitempty"`
	AssessedBy     string                  `json:"assessedBy"`
}

func (r CreateAssessmentRequest) ToInput(assessedBy string) service.CreateInput {
	return service.CreateInput{
		CustomerName: r.CustomerName,
		CustomerID:   r.CustomerID,
		NIC:          r.NIC,
		CustomerType: r.CustomerType,
		TemplateID:   r.TemplateID.ID,
		Answers:      toAnswerInputs(r.Answers),
		Hints:        service.ScoreHints{TotalScore: r.TotalScore, Rating: r.Rating, CategoryScores: r.CategoryScores},
		AssessedBy:   assessedBy,
	}
}

type EditAssessmentRequest struct {
	Answers         []AnswerPayload         `json:"answers" validate:"required,min=1,dive"`
	TotalScore      *float64                `json:"totalScore,omitempty"`
	Rating          string                  `json:"rating,omitempty"`
	CategoryScores  []scoring.CategoryScore `json:"categoryScores,omitempty"`
	UpdatedBy       string                  `json:"updatedBy"`
	ExpectedVersion *int                    `json:"expectedVersion,omitempty"`
}

func (r EditAssessmentRequest) ToInput(id, updatedBy string) service.EditInput {
	return service.EditInput{
		ID:              id,
		Answers:         toAnswerInputs(r.Answers),
		Hints:           service.ScoreHints{TotalScore: r.TotalScore, Rating: r.Rating, CategoryScores: r.CategoryScores},
		UpdatedBy:       updatedBy,
		ExpectedVersion: r.ExpectedVersion,
	}
}

// DecisionRequest drives POST /customer-assessments/{id}/approve. Status is
// "approved" or "rejected"; the reviewer arrives as approvedBy or rejectedBy.
type DecisionRequest struct {
	Status          string `json:"status" validate:"required"`
	Remarks         string `json:"remarks"`
	ApprovedBy      string `json:"approvedBy"`
	RejectedBy      string `json:"rejectedBy"`
	ExpectedVersion *int   `json:"expectedVersion,omitempty"`
}

func (r DecisionRequest) Reviewer() string {
	if s := strings.TrimSpace(r.ApprovedBy); s != "" {
		return s
	}
	return strings.TrimSpace(r.RejectedBy)
}

type VisibilityRequest struct {
	ID        string `json:"id" validate:"required"`
	IsDeleted *bool  `json:"isDeleted" validate:"required"`
	Username  string `json:"username"`
}

func toAnswerInputs(in []AnswerPayload) []service.AnswerInput {
	out := make([]service.AnswerInput, 0, len(in))
	for _, a := range in {
		out = append(out, service.AnswerInput{
			QuestionID:    a.QuestionID,
			AnswerID:      a.AnswerID,
			CustomerType:  a.CustomerType,
			Score:         a.Score,
			WeightedScore: a.WeightedScore,
		})
	}
	return out
}

/* =======================
   Responses
======================= */

type AssessmentResponse struct {
	ID                     string                   `json:"id"`
	CustomerName           string                   `json:"customerName"`
	CustomerID             string                   `json:"customerId"`
	NIC                    string                   `json:"nic"`
	CustomerType           scoring.CustomerType     `json:"customerType"`
	AssessmentTemplateID   string                   `json:"assessmentTemplateId"`
	AssessmentTemplateName string                   `json:"assessmentTemplateName"`
	Answers                []model.AssessmentAnswer `json:"answers"`
	CategoryScores         []scoring.CategoryScore  `json:"categoryScores"`
	TotalScore             float64                  `json:"totalScore"`
	Rating                 string                   `json:"rating"`
	ApprovalStatus         approval.Status          `json:"approvalStatus"`
	RejectionRemarks       *string                  `json:"rejectionRemarks,omitempty"`
	ApprovedBy             *string                  `json:"approvedBy,omitempty"`
	ApprovedAt             *time.Time               `json:"approvedAt,omitempty"`
	RejectedBy             *string                  `json:"rejectedBy,omitempty"`
	RejectedAt             *time.Time               `json:"rejectedAt,omitempty"`
	IsDeleted              bool                     `json:"isDeleted"`
	VisibilityChangedBy    *string                  `json:"visibilityChangedBy,omitempty"`
	VisibilityChangedAt    *time.Time               `json:"visibilityChangedAt,omitempty"`
	AssessedBy             string                   `json:"assessedBy"`
	CreatedAt              time.Time                `json:"createdAt"`
	UpdatedBy              *string                  `json:"updatedBy,omitempty"`
	UpdatedAt              *time.Time               `json:"updatedAt,omitempty"`
	Version                int                      `json:"version"`
}

func FromModel(m *model.AssessmentModel) AssessmentResponse {
	answers := []model.AssessmentAnswer(m.Answers)
	if answers == nil {
		answers = []model.AssessmentAnswer{}
	}
	cats := []scoring.CategoryScore(m.CategoryScores)
	if cats == nil {
		cats = []scoring.CategoryScore{}
	}
	return AssessmentResponse{
		ID:                     m.AssessmentID,
		CustomerName:           m.CustomerName,
		CustomerID:             m.CustomerID,
		NIC:                    m.NIC,
		CustomerType:           m.CustomerType,
		AssessmentTemplateID:   m.TemplateID,
		AssessmentTemplateName: m.TemplateName,
		Answers:                answers,
		CategoryScores:         cats,
		TotalScore:             m.TotalScore,
		Rating:                 m.Rating,
		ApprovalStatus:         m.ApprovalStatus,
		RejectionRemarks:       m.RejectionRemarks,
		ApprovedBy:             m.ApprovedBy,
		ApprovedAt:             m.ApprovedAt,
		RejectedBy:             m.RejectedBy,
		RejectedAt:             m.RejectedAt,
		IsDeleted:              m.IsDeleted,
		VisibilityChangedBy:    m.VisibilityChangedBy,
		VisibilityChangedAt:    m.VisibilityChangedAt,
		AssessedBy:             m.AssessedBy,
		CreatedAt:              m.CreatedAt,
		UpdatedBy:              m.UpdatedBy,
		UpdatedAt:              m.UpdatedAt,
		Version:                m.Version,
	}
}

func FromModels(rows []model.AssessmentModel) []AssessmentResponse {
	out := make([]AssessmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
