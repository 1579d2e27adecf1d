// file: internals/features/rating/assessments/model/assessment_model.go
package model

import (
	"time"

	"gorm.io/datatypes"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/scoring"
)

// AssessmentAnswer is one selected answer. Score and WeightedScore are
// computed from the template when the assessment is saved.
type AssessmentAnswer struct {
	QuestionID    string   `json:"questionId"`
	AnswerID      string   `json:"answerId"`
	CustomerType  string   `json:"customerType"`
	Score         *float64 `json:"score,omitempty"`
	WeightedScore *float64 `json:"weightedScore,omitempty"`
}

type AnswerList = datatypes.JSONSlice[AssessmentAnswer]

type AssessmentModel struct {
	AssessmentID string               `json:"id" gorm:"type:uuid;primaryKey;column:assessment_id"`
	CustomerName string               `json:"customerName" gorm:"type:text;not null;column:assessment_customer_name"`
	CustomerID   string               `json:"customerId" gorm:"type:text;not null;index;column:assessment_customer_id"`
	NIC          string               `json:"nic" gorm:"type:varchar(12);not null;column:assessment_nic"`
	CustomerType scoring.CustomerType `json:"customerType" gorm:"type:varchar(16);not null;column:assessment_customer_type"`

	TemplateID   string `json:"assessmentTemplateId" gorm:"type:uuid;not null;index;column:assessment_template_id"`
	TemplateName string `json:"assessmentTemplateName" gorm:"type:text;not null;default:'';column:assessment_template_name"`

	Answers        AnswerList                                 `json:"answers" gorm:"type:jsonb;not null;column:assessment_answers"`
	CategoryScores datatypes.JSONSlice[scoring.CategoryScore] `json:"categoryScores" gorm:"type:jsonb;not null;column:assessment_category_scores"`
	TotalScore     float64                                    `json:"totalScore" gorm:"not null;column:assessment_total_score"`
	Rating         string                                     `json:"rating" gorm:"type:varchar(4);not null;column:assessment_rating"`

	ApprovalStatus   approval.Status `json:"approvalStatus" gorm:"type:varchar(16);not null;index;column:assessment_approval_status"`
	RejectionRemarks *string         `json:"rejectionRemarks,omitempty" gorm:"type:text;column:assessment_rejection_remarks"`
	ApprovedBy       *string         `json:"approvedBy,omitempty" gorm:"type:text;column:assessment_approved_by"`
	ApprovedAt       *time.Time      `json:"approvedAt,omitempty" gorm:"column:assessment_approved_at"`
	RejectedBy       *string         `json:"rejectedBy,omitempty" gorm:"type:text;column:assessment_rejected_by"`
	RejectedAt       *time.Time      `json:"rejectedAt,omitempty" gorm:"column:assessment_rejected_at"`

	IsDeleted           bool       `json:"isDeleted" gorm:"not null;default:false;column:assessment_is_deleted"`
	VisibilityChangedBy *string    `json:"visibilityChangedBy,omitempty" gorm:"type:text;column:assessment_visibility_changed_by"`
	VisibilityChangedAt *time.Time `json:"visibilityChangedAt,omitempty" gorm:"column:assessment_visibility_changed_at"`

	AssessedBy string     `json:"assessedBy" gorm:"type:text;not null;column:assessment_assessed_by"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"not null;column:assessment_created_at"`
	UpdatedBy  *string    `json:"updatedBy,omitempty" gorm:"type:text;column:assessment_updated_by"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty" gorm:"column:assessment_updated_at"`

	Version int `json:"version" gorm:"not null;default:1;column:assessment_version"`
}

func (AssessmentModel) TableName() string { return "customer_assessments" }

func (m AssessmentModel) ApprovalState() approval.Status { return m.ApprovalStatus }

// Selections turns stored answers into scoring input.
func (m AssessmentModel) Selections() []scoring.Selection {
	out := make([]scoring.Selection, 0, len(m.Answers))
	for _, a := range m.Answers {
		ct := a.CustomerType
		if ct == "" {
			ct = string(m.CustomerType)
		}
		out = append(out, scoring.Selection{QuestionID: a.QuestionID, AnswerID: a.AnswerID, CustomerType: ct})
	}
	return out
}

func (m AssessmentModel) Clone() AssessmentModel {
	out := m
	if m.Answers != nil {
		out.Answers = make(AnswerList, len(m.Answers))
		for i, a := range m.Answers {
			out.Answers[i] = a
			out.Answers[i].Score = cloneFloat(a.Score)
			out.Answers[i].WeightedScore = cloneFloat(a.WeightedScore)
		}
	}
	if m.CategoryScores != nil {
		out.CategoryScores = append(datatypes.JSONSlice[scoring.CategoryScore](nil), m.CategoryScores...)
	}
	out.RejectionRemarks = cloneString(m.RejectionRemarks)
	out.ApprovedBy = cloneString(m.ApprovedBy)
	out.ApprovedAt = cloneTime(m.ApprovedAt)
	out.RejectedBy = cloneString(m.RejectedBy)
	out.RejectedAt = cloneTime(m.RejectedAt)
	out.VisibilityChangedBy = cloneString(m.VisibilityChangedBy)
	out.VisibilityChangedAt = cloneTime(m.VisibilityChangedAt)
	out.UpdatedBy = cloneString(m.UpdatedBy)
	out.UpdatedAt = cloneTime(m.UpdatedAt)
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
