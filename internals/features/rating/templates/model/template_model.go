// file: internals/features/rating/templates/model/template_model.go
package model

import (
	"time"

	"gorm.io/datatypes"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/scoring"
)

type TemplateStatus string

const (
	TemplateStatusPendingApproval TemplateStatus = "pending_approval"
	TemplateStatusActive          TemplateStatus = "active"
	TemplateStatusRejected        TemplateStatus = "rejected"
)

type QuestionStatus string

const (
	QuestionStatusPendingApproval QuestionStatus = "pending_approval"
	QuestionStatusApproved        QuestionStatus = "approved"
)

/* =======================
   JSONB payload
======================= */

type TemplateAnswer struct {
	AnswerID string       `json:"answerId"`
	Text     string       `json:"text"`
	Score    scoring.Pair `json:"score"`
}

type TemplateQuestion struct {
	QuestionID     string           `json:"questionId"`
	Text           string           `json:"text"`
	ProposedWeight scoring.Pair     `json:"proposedWeight"`
	Status         QuestionStatus   `json:"status"`
	Answers        []TemplateAnswer `json:"answers"`
}

type TemplateCategory struct {
	CategoryID   string             `json:"categoryId"`
	CategoryName string             `json:"categoryName"`
	Questions    []TemplateQuestion `json:"questions"`
}

/* =======================
   Table rating_templates
======================= */

type TemplateModel struct {
	TemplateID      string                                `json:"id" gorm:"type:uuid;primaryKey;column:template_id"`
	TemplateName    string                                `json:"name" gorm:"type:text;not null;column:template_name"`
	TemplateNameKey string                                `json:"-" gorm:"type:text;not null;column:template_name_key"`
	TemplateStatus  TemplateStatus                        `json:"status" gorm:"type:varchar(24);not null;column:template_status"`
	ApprovalStatus  approval.Status                       `json:"approvalStatus" gorm:"type:varchar(16);not null;column:template_approval_status;index"`
	Categories      datatypes.JSONSlice[TemplateCategory] `json:"categories" gorm:"type:jsonb;not null;column:template_categories"`

	ApprovalComments *string    `json:"approvalComments,omitempty" gorm:"type:text;column:template_approval_comments"`
	ApprovedBy       *string    `json:"approvedBy,omitempty" gorm:"type:text;column:template_approved_by"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty" gorm:"column:template_approved_at"`

	IsDeleted           bool       `json:"isDeleted" gorm:"not null;default:false;column:template_is_deleted"`
	VisibilityChangedAt *time.Time `json:"visibilityChangedAt,omitempty" gorm:"column:template_visibility_changed_at"`
	DeletedBy           *string    `json:"deletedBy,omitempty" gorm:"type:text;column:template_deleted_by"`
	DeletedAt           *time.Time `json:"deletedAt,omitempty" gorm:"column:template_deleted_at;index"`

	CreatedBy string     `json:"createdBy" gorm:"type:text;not null;column:template_created_by"`
	CreatedAt time.Time  `json:"createdAt" gorm:"not null;column:template_created_at"`
	UpdatedBy *string    `json:"updatedBy,omitempty" gorm:"type:text;column:template_updated_by"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" gorm:"column:template_updated_at"`

	Version int `json:"version" gorm:"not null;default:1;column:template_version"`
}

func (TemplateModel) TableName() string { return "rating_templates" }

func (m TemplateModel) ApprovalState() approval.Status { return m.ApprovalStatus }

// IsRemoved reports a soft-deleted template, as opposed to a hidden one.
func (m TemplateModel) IsRemoved() bool { return m.DeletedAt != nil }

// ReservesName reports whether the template holds its name against others:
// only visible, non-deleted templates do.
func (m TemplateModel) ReservesName() bool { return !m.IsDeleted && !m.IsRemoved() }

// Referenceable reports whether new assessments may use this template.
func (m TemplateModel) Referenceable() bool {
	return m.ApprovalStatus == approval.StatusApproved && !m.IsDeleted && !m.IsRemoved()
}

// Sheet exposes the template to the scoring engine.
func (m TemplateModel) Sheet() scoring.Sheet {
	sheet := scoring.Sheet{Categories: make([]scoring.Category, 0, len(m.Categories))}
	for _, c := range m.Categories {
		cat := scoring.Category{ID: c.CategoryID, Name: c.CategoryName, Questions: make([]scoring.Question, 0, len(c.Questions))}
		for _, q := range c.Questions {
			qq := scoring.Question{ID: q.QuestionID, Text: q.Text, Weight: q.ProposedWeight, Answers: make([]scoring.Answer, 0, len(q.Answers))}
			for _, a := range q.Answers {
				qq.Answers = append(qq.Answers, scoring.Answer{ID: a.AnswerID, Text: a.Text, Score: a.Score})
			}
			cat.Questions = append(cat.Questions, qq)
		}
		sheet.Categories = append(sheet.Categories, cat)
	}
	return sheet
}

// Clone deep-copies the model, including the category tree.
func (m TemplateModel) Clone() TemplateModel {
	out := m
	out.Categories = CloneCategories(m.Categories)
	out.ApprovalComments = cloneString(m.ApprovalComments)
	out.ApprovedBy = cloneString(m.ApprovedBy)
	out.ApprovedAt = cloneTime(m.ApprovedAt)
	out.VisibilityChangedAt = cloneTime(m.VisibilityChangedAt)
	out.DeletedBy = cloneString(m.DeletedBy)
	out.DeletedAt = cloneTime(m.DeletedAt)
	out.UpdatedBy = cloneString(m.UpdatedBy)
	out.UpdatedAt = cloneTime(m.UpdatedAt)
	return out
}

func CloneCategories(in []TemplateCategory) []TemplateCategory {
	if in == nil {
		return nil
	}
	out := make([]TemplateCategory, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Questions = make([]TemplateQuestion, len(c.Questions))
		for j, q := range c.Questions {
			out[i].Questions[j] = q
			out[i].Questions[j].ProposedWeight = q.ProposedWeight.Clone()
			out[i].Questions[j].Answers = make([]TemplateAnswer, len(q.Answers))
			for k, a := range q.Answers {
				out[i].Questions[j].Answers[k] = a
				out[i].Questions[j].Answers[k].Score = a.Score.Clone()
			}
		}
	}
	return out
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
