package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrating_backend/internals/events"
	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/scoring"
	"creditrating_backend/internals/features/rating/templates/model"
	"creditrating_backend/internals/features/rating/templates/repository"
	helper "creditrating_backend/internals/helpers"
	"creditrating_backend/internals/helpers/apperror"
)

func newService(t *testing.T) (*TemplateService, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	svc := NewTemplateService(repository.NewMemoryTemplateRepository(), rec, nil)
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, rec
}

func incomeCategories() []model.TemplateCategory {
	return []model.TemplateCategory{{
		CategoryName: "Income",
		Questions: []model.TemplateQuestion{{
			QuestionID:     "Q1",
			Text:           "Monthly income",
			ProposedWeight: scoring.NewPair(100, 100),
			Answers: []model.TemplateAnswer{
				{AnswerID: "A1", Text: "High", Score: scoring.NewPair(80, 80)},
				{AnswerID: "A2", Text: "Low", Score: scoring.NewPair(40, 40)},
			},
		}},
	}}
}

func mustCreate(t *testing.T, svc *TemplateService, name string) *model.TemplateModel {
	t.Helper()
	m, err := svc.Create(context.Background(), CreateInput{Name: name, Categories: incomeCategories(), CreatedBy: "author"})
	require.NoError(t, err)
	return m
}

func TestCreate_StartsPendingWithIDs(t *testing.T) {
	svc, rec := newService(t)
	m := mustCreate(t, svc, "  Retail  ")

	assert.Equal(t, "Retail", m.TemplateName)
	assert.Equal(t, model.TemplateStatusPendingApproval, m.TemplateStatus)
	assert.Equal(t, approval.StatusPending, m.ApprovalStatus)
	assert.Equal(t, 1, m.Version)
	assert.False(t, m.IsDeleted)
	require.Len(t, m.Categories, 1)
	assert.NotEmpty(t, m.Categories[0].CategoryID, "missing category id is generated")
	assert.Equal(t, "Q1", m.Categories[0].Questions[0].QuestionID, "client ids are kept")
	assert.Equal(t, model.QuestionStatusPendingApproval, m.Categories[0].Questions[0].Status)
	assert.Equal(t, []events.Action{events.TemplateCreated}, rec.Actions())
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: " ", Categories: incomeCategories(), CreatedBy: "a"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.Create(ctx, CreateInput{Name: "X", CreatedBy: "a"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	dup := incomeCategories()
	dup[0].Questions = append(dup[0].Questions, dup[0].Questions[0])
	_, err = svc.Create(ctx, CreateInput{Name: "X", Categories: dup, CreatedBy: "a"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCreate_DuplicateNameIsCaseInsensitive(t *testing.T) {
	svc, _ := newService(t)
	mustCreate(t, svc, "Retail Loans")

	_, err := svc.Create(context.Background(), CreateInput{Name: "retail   LOANS", Categories: incomeCategories(), CreatedBy: "a"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestCreate_NameFreedBySoftDelete(t *testing.T) {
	svc, _ := newService(t)
	m := mustCreate(t, svc, "Retail")
	_, err := svc.SoftDelete(context.Background(), m.TemplateID, "admin")
	require.NoError(t, err)

	mustCreate(t, svc, "RETAIL")
}

func TestCreate_NameFreedByHiding(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	hidden := mustCreate(t, svc, "Retail")
	_, err := svc.SetVisibility(ctx, hidden.TemplateID, true, "admin")
	require.NoError(t, err)

	taken := mustCreate(t, svc, "retail")

	_, err = svc.SetVisibility(ctx, hidden.TemplateID, false, "admin")
	assert.True(t, apperror.Is(err, apperror.KindConflict), "unhiding must not reclaim a name in use")
	got, err := svc.Get(ctx, hidden.TemplateID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	_, err = svc.SoftDelete(ctx, taken.TemplateID, "admin")
	require.NoError(t, err)
	got, err = svc.SetVisibility(ctx, hidden.TemplateID, false, "admin")
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestApprove_CascadesQuestionStatus(t *testing.T) {
	svc, rec := newService(t)
	m := mustCreate(t, svc, "Retail")

	got, err := svc.Approve(context.Background(), m.TemplateID, "checker", "")
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, got.ApprovalStatus)
	assert.Equal(t, model.TemplateStatusActive, got.TemplateStatus)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "checker", *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)
	for _, c := range got.Categories {
		for _, q := range c.Questions {
			assert.Equal(t, model.QuestionStatusApproved, q.Status)
		}
	}
	assert.Equal(t, 2, got.Version)

	stored, err := svc.Get(context.Background(), m.TemplateID)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionStatusApproved, stored.Categories[0].Questions[0].Status)
	assert.Equal(t, []events.Action{events.TemplateCreated, events.TemplateApproved}, rec.Actions())
}

func TestReject_RequiresComments(t *testing.T) {
	svc, _ := newService(t)
	m := mustCreate(t, svc, "Retail")

	_, err := svc.Reject(context.Background(), m.TemplateID, "checker", "   ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	got, err := svc.Reject(context.Background(), m.TemplateID, "checker", "weights too high")
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, got.ApprovalStatus)
	assert.Equal(t, model.TemplateStatusRejected, got.TemplateStatus)
	require.NotNil(t, got.ApprovalComments)
	assert.Equal(t, "weights too high", *got.ApprovalComments)
}

func TestDecide_NotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Approve(context.Background(), "missing", "checker", "")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdate_AlwaysResetsToPending(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := mustCreate(t, svc, "Retail")
	_, err := svc.Reject(ctx, m.TemplateID, "checker", "fix it")
	require.NoError(t, err)

	cats := incomeCategories()
	cats[0].Questions[0].Status = model.QuestionStatusApproved
	got, err := svc.Update(ctx, UpdateInput{ID: m.TemplateID, Name: "Retail v2", Categories: cats, UpdatedBy: "author"})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, got.ApprovalStatus)
	assert.Equal(t, model.TemplateStatusPendingApproval, got.TemplateStatus)
	assert.Nil(t, got.ApprovalComments)
	assert.Equal(t, model.QuestionStatusPendingApproval, got.Categories[0].Questions[0].Status)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, "author", *got.UpdatedBy)

	_, err = svc.Approve(ctx, m.TemplateID, "checker", "")
	require.NoError(t, err)
	got, err = svc.Update(ctx, UpdateInput{ID: m.TemplateID, Name: "Retail v2", Categories: incomeCategories(), UpdatedBy: "author"})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, got.ApprovalStatus, "approved templates go back to review on edit")
}

func TestUpdate_VersionMismatch(t *testing.T) {
	svc, _ := newService(t)
	m := mustCreate(t, svc, "Retail")
	stale := 7

	_, err := svc.Update(context.Background(), UpdateInput{
		ID: m.TemplateID, Name: "Retail", Categories: incomeCategories(), UpdatedBy: "author", ExpectedVersion: &stale,
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestUpdate_RenameCollision(t *testing.T) {
	svc, _ := newService(t)
	mustCreate(t, svc, "Retail")
	other := mustCreate(t, svc, "SME")

	_, err := svc.Update(context.Background(), UpdateInput{ID: other.TemplateID, Name: "retail", Categories: incomeCategories(), UpdatedBy: "a"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestSetVisibility_TouchesOnlyVisibility(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	m := mustCreate(t, svc, "Retail")
	approved, err := svc.Approve(ctx, m.TemplateID, "checker", "")
	require.NoError(t, err)

	_, err = svc.SetVisibility(ctx, m.TemplateID, false, "admin")
	assert.True(t, apperror.Is(err, apperror.KindState), "already visible")

	hidden, err := svc.SetVisibility(ctx, m.TemplateID, true, "admin")
	require.NoError(t, err)
	assert.True(t, hidden.IsDeleted)

	stored, err := svc.Get(ctx, m.TemplateID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.NotNil(t, stored.VisibilityChangedAt)
	assert.Equal(t, approved.ApprovalStatus, stored.ApprovalStatus)
	assert.Equal(t, approved.Version, stored.Version)
	assert.Equal(t, approved.UpdatedAt, stored.UpdatedAt)
	assert.Equal(t, approved.ApprovedAt, stored.ApprovedAt)

	_, err = svc.SetVisibility(ctx, m.TemplateID, true, "admin")
	assert.True(t, apperror.Is(err, apperror.KindState))
	assert.Contains(t, rec.Actions(), events.TemplateVisibility)
}

func TestGetApproved(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m := mustCreate(t, svc, "Retail")

	_, err := svc.GetApproved(ctx, m.TemplateID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template not approved")

	_, err = svc.Approve(ctx, m.TemplateID, "checker", "")
	require.NoError(t, err)
	_, err = svc.GetApproved(ctx, m.TemplateID)
	require.NoError(t, err)

	_, err = svc.SetVisibility(ctx, m.TemplateID, true, "admin")
	require.NoError(t, err)
	_, err = svc.GetApproved(ctx, m.TemplateID)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestSoftDelete(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()
	m := mustCreate(t, svc, "Retail")

	got, err := svc.SoftDelete(ctx, m.TemplateID, "admin")
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedBy)
	assert.Equal(t, "admin", *got.DeletedBy)

	_, err = svc.Get(ctx, m.TemplateID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.SoftDelete(ctx, m.TemplateID, "admin")
	assert.True(t, apperror.Is(err, apperror.KindState))

	kept, err := svc.Lookup(ctx, m.TemplateID)
	require.NoError(t, err)
	assert.Equal(t, "Retail", kept.TemplateName)
	assert.Equal(t, events.TemplateDeleted, rec.Actions()[len(rec.Actions())-1])
}

func TestList_FiltersHiddenAndStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B")
	mustCreate(t, svc, "C")

	_, err := svc.Approve(ctx, a.TemplateID, "checker", "")
	require.NoError(t, err)
	_, err = svc.SetVisibility(ctx, b.TemplateID, true, "admin")
	require.NoError(t, err)

	rows, total, err := svc.List(ctx, repository.ListQuery{Paging: helper.NewPaging(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	_, total, err = svc.List(ctx, repository.ListQuery{IncludeHidden: true, Paging: helper.NewPaging(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	rows, _, err = svc.List(ctx, repository.ListQuery{ApprovalStatus: approval.StatusApproved})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].TemplateName)

	_, _, err = svc.List(ctx, repository.ListQuery{ApprovalStatus: "bogus"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
