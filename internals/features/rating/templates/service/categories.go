package service

import (
	"strings"

	"github.com/google/uuid"

	"creditrating_backend/internals/features/rating/templates/model"
	"creditrating_backend/internals/helpers/apperror"
)

// normalizeCategories trims text, assigns ids where the client sent none,
// rejects duplicate ids and resets every question to pending_approval.
func normalizeCategories(in []model.TemplateCategory) ([]model.TemplateCategory, error) {
	if len(in) == 0 {
		return nil, apperror.Validation("at least one category is required")
	}

	out := model.CloneCategories(in)
	seenCat := map[string]bool{}
	seenQ := map[string]bool{}

	for i := range out {
		c := &out[i]
		c.CategoryName = strings.TrimSpace(c.CategoryName)
		if c.CategoryName == "" {
			return nil, apperror.Validation("categories[%d]: categoryName is required", i)
		}
		c.CategoryID = assignID(c.CategoryID)
		if seenCat[c.CategoryID] {
			return nil, apperror.Validation("duplicate categoryId %s", c.CategoryID)
		}
		seenCat[c.CategoryID] = true

		for j := range c.Questions {
			q := &c.Questions[j]
			q.Text = strings.TrimSpace(q.Text)
			if q.Text == "" {
				return nil, apperror.Validation("categories[%d].questions[%d]: text is required", i, j)
			}
			q.QuestionID = assignID(q.QuestionID)
			if seenQ[q.QuestionID] {
				return nil, apperror.Validation("duplicate questionId %s", q.QuestionID)
			}
			seenQ[q.QuestionID] = true
			q.Status = model.QuestionStatusPendingApproval

			if len(q.Answers) == 0 {
				return nil, apperror.Validation("question %q needs at least one answer", q.Text)
			}
			seenA := map[string]bool{}
			for k := range q.Answers {
				a := &q.Answers[k]
				a.Text = strings.TrimSpace(a.Text)
				if a.Text == "" {
					return nil, apperror.Validation("question %q: answers[%d] text is required", q.Text, k)
				}
				a.AnswerID = assignID(a.AnswerID)
				if seenA[a.AnswerID] {
					return nil, apperror.Validation("duplicate answerId %s in question %q", a.AnswerID, q.Text)
				}
				seenA[a.AnswerID] = true
			}
		}
	}
	return out, nil
}

func assignID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.NewString()
	}
	return id
}
