// file: internals/features/rating/templates/dto/template_dto.go
package dto

import (
	"time"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/templates/model"
)

/* =======================
   Requests
======================= */

type CreateTemplateRequest struct {
	Name       string                   `json:"name" validate:"required"`
	Categories []model.TemplateCategory `json:"categories" validate:"required,min=1"`
	CreatedBy  string                   `json:"createdBy"`
}

// UpdateTemplateRequest is a full replace; id travels in the body.
type UpdateTemplateRequest struct {
	ID              string                   `json:"id" validate:"required"`
	Name            string                   `json:"name" validate:"required"`
	Categories      []model.TemplateCategory `json:"categories" validate:"required,min=1"`
	UpdatedBy       string                   `json:"updatedBy"`
	ExpectedVersion *int                     `json:"expectedVersion,omitempty"`
}

// ApprovalRequest drives POST /templates/approvals. It targets a template or,
// when assessmentId is set, a customer assessment.
type ApprovalRequest struct {
	TemplateID      string `json:"templateId"`
	AssessmentID    string `json:"assessmentId"`
	Action          string `json:"action" validate:"required"`
	ApprovedBy      string `json:"approvedBy"`
	Comments        string `json:"comments"`
	ExpectedVersion *int   `json:"expectedVersion,omitempty"`
}

type VisibilityRequest struct {
	IsHidden *bool  `json:"isHidden" validate:"required"`
	Username string `json:"username"`
}

/* =======================
   Responses
======================= */

type TemplateResponse struct {
	ID                  string                   `json:"id"`
	Name                string                   `json:"name"`
	Status              model.TemplateStatus     `json:"status"`
	ApprovalStatus      approval.Status          `json:"approvalStatus"`
	Categories          []model.TemplateCategory `json:"categories"`
	QuestionCount       int                      `json:"questionCount"`
	ApprovalComments    *string                  `json:"approvalComments,omitempty"`
	ApprovedBy          *string                  `json:"approvedBy,omitempty"`
	ApprovedAt          *time.Time               `json:"approvedAt,omitempty"`
	IsDeleted           bool                     `json:"isDeleted"`
	VisibilityChangedAt *time.Time               `json:"visibilityChangedAt,omitempty"`
	DeletedBy           *string                  `json:"deletedBy,omitempty"`
	DeletedAt           *time.Time               `json:"deletedAt,omitempty"`
	CreatedBy           string                   `json:"createdBy"`
	CreatedAt           time.Time                `json:"createdAt"`
	UpdatedBy           *string                  `json:"updatedBy,omitempty"`
	UpdatedAt           *time.Time               `json:"updatedAt,omitempty"`
	Version             int                      `json:"version"`
}

func FromModel(m *model.TemplateModel) TemplateResponse {
	cats := []model.TemplateCategory(m.Categories)
	if cats == nil {
		cats = []model.TemplateCategory{}
	}
	n := 0
	for _, c := range cats {
		n += len(c.Questions)
	}
	return TemplateResponse{
		ID:                  m.TemplateID,
		Name:                m.TemplateName,
		Status:              m.TemplateStatus,
		ApprovalStatus:      m.ApprovalStatus,
		Categories:          cats,
		QuestionCount:       n,
		ApprovalComments:    m.ApprovalComments,
		ApprovedBy:          m.ApprovedBy,
		ApprovedAt:          m.ApprovedAt,
		IsDeleted:           m.IsDeleted,
		VisibilityChangedAt: m.VisibilityChangedAt,
		DeletedBy:           m.DeletedBy,
		DeletedAt:           m.DeletedAt,
		CreatedBy:           m.CreatedBy,
		CreatedAt:           m.CreatedAt,
		UpdatedBy:           m.UpdatedBy,
		UpdatedAt:           m.UpdatedAt,
		Version:             m.Version,
	}
}

func FromModels(rows []model.TemplateModel) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
