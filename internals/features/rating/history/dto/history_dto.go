// file: internals/features/rating/history/dto/history_dto.go
package dto

import (
	"time"

	"creditrating_backend/internals/features/rating/approval"
	customerModel "creditrating_backend/internals/features/rating/customers/model"
	"creditrating_backend/internals/features/rating/scoring"
)

type EnrichedAnswer struct {
	QuestionID    string  `json:"questionId"`
	AnswerID      string  `json:"answerId"`
	CustomerType  string  `json:"customerType"`
	Category      string  `json:"category"`
	QuestionText  string  `json:"questionText"`
	AnswerText    string  `json:"answerText"`
	Weight        float64 `json:"weight"`
	Score         float64 `json:"score"`
	WeightedScore float64 `json:"weightedScore"`
}

type EnrichedAssessment struct {
	ID                     string                  `json:"id"`
	AssessmentTemplateID   string                  `json:"assessmentTemplateId"`
	AssessmentTemplateName string                  `json:"assessmentTemplateName"`
	TemplateAvailable      bool                    `json:"templateAvailable"`
	CustomerType           scoring.CustomerType    `json:"customerType"`
	Answers                []EnrichedAnswer        `json:"answers"`
	CategoryScores         []scoring.CategoryScore `json:"categoryScores"`
	TotalScore             float64                 `json:"totalScore"`
	Rating                 string                  `json:"rating"`
	ApprovalStatus         approval.Status         `json:"approvalStatus"`
	RejectionRemarks       *string                 `json:"rejectionRemarks,omitempty"`
	ApprovedBy             *string                 `json:"approvedBy,omitempty"`
	ApprovedAt             *time.Time              `json:"approvedAt,omitempty"`
	RejectedBy             *string                 `json:"rejectedBy,omitempty"`
	RejectedAt             *time.Time              `json:"rejectedAt,omitempty"`
	IsDeleted              bool                    `json:"isDeleted"`
	AssessedBy             string                  `json:"assessedBy"`
	CreatedAt              time.Time               `json:"createdAt"`
	UpdatedAt              *time.Time              `json:"updatedAt,omitempty"`
}

type Summary struct {
	TotalAssessments     int     `json:"totalAssessments"`
	ApprovedCount        int     `json:"approvedCount"`
	PendingCount         int     `json:"pendingCount"`
	RejectedCount        int     `json:"rejectedCount"`
	LatestApprovedRating *string `json:"latestApprovedRating"`
}

type CustomerHistory struct {
	Customer    customerModel.CustomerModel `json:"customer"`
	Assessments []EnrichedAssessment        `json:"assessments"`
	Summary     Summary                     `json:"summary"`
}
