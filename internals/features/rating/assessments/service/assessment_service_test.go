package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrating_backend/internals/events"
	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/assessments/repository"
	customerRepo "creditrating_backend/internals/features/rating/customers/repository"
	customerService "creditrating_backend/internals/features/rating/customers/service"
	"creditrating_backend/internals/features/rating/scoring"
	templateModel "creditrating_backend/internals/features/rating/templates/model"
	templateRepo "creditrating_backend/internals/features/rating/templates/repository"
	templateService "creditrating_backend/internals/features/rating/templates/service"
	"creditrating_backend/internals/helpers/apperror"
)

type fixture struct {
	svc       *AssessmentService
	templates *templateService.TemplateService
	customers *customerService.CustomerService
	rec       *events.Recorder
	logs      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := &events.Recorder{}
	logs := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(logs)

	tpl := templateService.NewTemplateService(templateRepo.NewMemoryTemplateRepository(), rec, log)
	cust := customerService.NewCustomerService(customerRepo.NewMemoryCustomerRepository(), log)
	svc := NewAssessmentService(repository.NewMemoryAssessmentRepository(), tpl, cust, rec, log)

	clock := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return &fixture{svc: svc, templates: tpl, customers: cust, rec: rec, logs: logs}
}

// Income / Q1 with A1 scoring 80 and A2 scoring 40, weight 100.
func (f *fixture) incomeTemplate(t *testing.T, approve bool) *templateModel.TemplateModel {
	t.Helper()
	ctx := context.Background()
	m, err := f.templates.Create(ctx, templateService.CreateInput{
		Name:      "Retail",
		CreatedBy: "author",
		Categories: []templateModel.TemplateCategory{{
			CategoryID:   "C1",
			CategoryName: "Income",
			Questions: []templateModel.TemplateQuestion{{
				QuestionID:     "Q1",
				Text:           "Monthly income",
				ProposedWeight: scoring.NewPair(100, 100),
				Answers: []templateModel.TemplateAnswer{
					{AnswerID: "A1", Text: "High", Score: scoring.NewPair(80, 80)},
					{AnswerID: "A2", Text: "Low", Score: scoring.NewPair(40, 40)},
				},
			}},
		}},
	})
	require.NoError(t, err)
	if approve {
		m, err = f.templates.Approve(ctx, m.TemplateID, "checker", "")
		require.NoError(t, err)
	}
	return m
}

func validInput(templateID string) CreateInput {
	return CreateInput{
		CustomerName: "Nimal Perera",
		CustomerID:   "CUST-1",
		NIC:          "901234567V",
		CustomerType: "New",
		TemplateID:   templateID,
		Answers:      []AnswerInput{{QuestionID: "Q1", AnswerID: "A1"}},
		AssessedBy:   "officer",
	}
}

func TestEndToEnd_RejectEditResubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.incomeTemplate(t, true)

	a, err := f.svc.Create(ctx, validInput(tpl.TemplateID))
	require.NoError(t, err)
	assert.Equal(t, 80.0, a.TotalScore)
	assert.Equal(t, "A", a.Rating)
	assert.Equal(t, approval.StatusPending, a.ApprovalStatus)
	assert.Equal(t, "Retail", a.TemplateName)
	assert.Equal(t, scoring.CustomerNew, a.CustomerType)
	require.Len(t, a.CategoryScores, 1)
	assert.Equal(t, scoring.CategoryScore{CategoryName: "Income", Score: 80}, a.CategoryScores[0])
	require.NotNil(t, a.Answers[0].WeightedScore)
	assert.Equal(t, 80.0, *a.Answers[0].WeightedScore)

	a, err = f.svc.Reject(ctx, a.AssessmentID, "checker", "redo")
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, a.ApprovalStatus)
	require.NotNil(t, a.RejectionRemarks)
	assert.Equal(t, "redo", *a.RejectionRemarks)
	assert.Nil(t, a.ApprovedBy)

	a, err = f.svc.Edit(ctx, EditInput{
		ID:        a.AssessmentID,
		Answers:   []AnswerInput{{QuestionID: "Q1", AnswerID: "A2"}},
		UpdatedBy: "officer",
	})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, a.ApprovalStatus)
	assert.Nil(t, a.RejectionRemarks)
	assert.Equal(t, 40.0, a.TotalScore)
	assert.Equal(t, "C", a.Rating)

	stored, err := f.svc.Get(ctx, a.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.TotalScore)
	assert.Equal(t, 3, stored.Version)

	assert.Equal(t, []events.Action{
		events.TemplateCreated, events.TemplateApproved,
		events.AssessmentCreated, events.AssessmentRejected, events.AssessmentResubmitted,
	}, f.rec.Actions())
}

func TestCreate_RequiresApprovedTemplate(t *testing.T) {
	f := newFixture(t)
	tpl := f.incomeTemplate(t, false)

	_, err := f.svc.Create(context.Background(), validInput(tpl.TemplateID))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "template not approved")
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	tpl := f.incomeTemplate(t, true)
	ctx := context.Background()

	cases := map[string]func(in *CreateInput){
		"missing name":      func(in *CreateInput) { in.CustomerName = "" },
		"bad nic":           func(in *CreateInput) { in.NIC = "12345" },
		"bad customer type": func(in *CreateInput) { in.CustomerType = "returning" },
		"no answers":        func(in *CreateInput) { in.Answers = nil },
		"unknown question":  func(in *CreateInput) { in.Answers = []AnswerInput{{QuestionID: "Q9", AnswerID: "A1"}} },
		"unknown answer":    func(in *CreateInput) { in.Answers = []AnswerInput{{QuestionID: "Q1", AnswerID: "A9"}} },
		"duplicate question": func(in *CreateInput) {
			in.Answers = []AnswerInput{{QuestionID: "Q1", AnswerID: "A1"}, {QuestionID: "Q1", AnswerID: "A2"}}
		},
		"missing assessor": func(in *CreateInput) { in.AssessedBy = " " },
	}
	for name, mutate := range cases {
		in := validInput(tpl.TemplateID)
		mutate(&in)
		_, err := f.svc.Create(ctx, in)
		assert.Truef(t, apperror.Is(err, apperror.KindValidation), "%s: %v", name, err)
	}

	in := validInput(tpl.TemplateID)
	in.NIC = "200012345678"
	_, err := f.svc.Create(ctx, in)
	assert.NoError(t, err, "12 digit nic is valid")
}

func TestCreate_RegistersCustomerAndGuardsNIC(t *testing.T) {
	f := newFixture(t)
	tpl := f.incomeTemplate(t, true)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, validInput(tpl.TemplateID))
	require.NoError(t, err)
	c, err := f.customers.Get(ctx, "CUST-1")
	require.NoError(t, err)
	assert.Equal(t, "901234567V", c.NIC)

	in := validInput(tpl.TemplateID)
	in.NIC = "911111111V"
	_, err = f.svc.Create(ctx, in)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestCreate_ClientScoresAreHints(t *testing.T) {
	f := newFixture(t)
	tpl := f.incomeTemplate(t, true)

	in := validInput(tpl.TemplateID)
	bogus := 99.0
	in.Hints = ScoreHints{TotalScore: &bogus, Rating: "A+"}
	a, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 80.0, a.TotalScore)
	assert.Equal(t, "A", a.Rating)
	assert.Contains(t, f.logs.String(), "differs from computed")
}

func TestDecide_Rules(t *testing.T) {
	f := newFixture(t)
	tpl := f.incomeTemplate(t, true)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, validInput(tpl.TemplateID))
	require.NoError(t, err)

	_, err = f.svc.Reject(ctx, a.AssessmentID, "checker", "")
	assert.True(t, apperror.Is(err, apperror.KindValidation), "reject needs remarks")

	_, err = f.svc.Edit(ctx, EditInput{ID: a.AssessmentID, Answers: []AnswerInput{{QuestionID: "Q1", AnswerID: "A2"}}, UpdatedBy: "officer"})
	assert.True(t, apperror.Is(err, apperror.KindState), "pending cannot be edited")

	a, err = f.svc.Approve(ctx, a.AssessmentID, "checker")
	require.NoError(t, err)
	require.NotNil(t, a.ApprovedBy)
	assert.Nil(t, a.RejectedBy)
	assert.Nil(t, a.RejectionRemarks)

	_, err = f.svc.Approve(ctx, a.AssessmentID, "checker")
	assert.True(t, apperror.Is(err, apperror.KindState), "already approved")

	_, err = f.svc.Reject(ctx, a.AssessmentID, "checker", "too late")
	assert.True(t, apperror.Is(err, apperror.KindState), "approved is final")

	_, err = f.svc.Edit(ctx, EditInput{ID: a.AssessmentID, Answers: []AnswerInput{{QuestionID: "Q1", AnswerID: "A2"}}, UpdatedBy: "officer"})
	assert.True(t, apperror.Is(err, apperror.KindState), "approved cannot be edited")

	_, err = f.svc.Approve(ctx, "missing", "checker")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDecide_ExpectedVersion(t *testing.T) {
	f := newFixture(t)
	tpl := f.incomeTemplate(t, true)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, validInput(tpl.TemplateID))
	require.NoError(t, err)

	stale := 5
	_, err = f.svc.Decide(ctx, a.AssessmentID, approval.ActionApprove, "checker", "", &stale)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	current := a.Version
	_, err = f.svc.Decide(ctx, a.AssessmentID, approval.ActionApprove, "checker", "", &current)
	assert.NoError(t, err)
}

func TestSetVisibility(t *testing.T) {
	f := newFixture(t)
	tpl := f.incomeTemplate(t, true)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, validInput(tpl.TemplateID))
	require.NoError(t, err)

	_, err = f.svc.SetVisibility(ctx, a.AssessmentID, false, "admin")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindState))
	assert.Contains(t, err.Error(), "already in that state")

	hidden, err := f.svc.SetVisibility(ctx, a.AssessmentID, true, "admin")
	require.NoError(t, err)
	assert.True(t, hidden.IsDeleted)

	stored, err := f.svc.Get(ctx, a.AssessmentID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	require.NotNil(t, stored.VisibilityChangedBy)
	assert.Equal(t, "admin", *stored.VisibilityChangedBy)
	assert.Equal(t, a.Version, stored.Version, "visibility does not bump the content version")
	assert.Equal(t, a.ApprovalStatus, stored.ApprovalStatus)
	assert.Nil(t, stored.UpdatedAt)

	evs := f.rec.Events()
	last := evs[len(evs)-1]
	assert.Equal(t, events.AssessmentVisibility, last.Action)
	assert.Contains(t, last.Description, "Retail")

	rows, err := f.svc.ListByCustomer(ctx, "CUST-1", false)
	require.NoError(t, err)
	assert.Empty(t, rows)
	rows, err = f.svc.ListByCustomer(ctx, "CUST-1", true)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPerAnswerCustomerType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, err := f.templates.Create(ctx, templateService.CreateInput{
		Name:      "Split",
		CreatedBy: "author",
		Categories: []templateModel.TemplateCategory{{
			CategoryName: "Income",
			Questions: []templateModel.TemplateQuestion{{
				QuestionID:     "Q1",
				Text:           "Income",
				ProposedWeight: scoring.NewPair(40, 50),
				Answers:        []templateModel.TemplateAnswer{{AnswerID: "A1", Text: "High", Score: scoring.NewPair(80, 90)}},
			}},
		}},
	})
	require.NoError(t, err)
	_, err = f.templates.Approve(ctx, m.TemplateID, "checker", "")
	require.NoError(t, err)

	in := validInput(m.TemplateID)
	in.Answers = []AnswerInput{{QuestionID: "Q1", AnswerID: "A1", CustomerType: "EXISTING"}}
	a, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 45.0, a.TotalScore)
	assert.Equal(t, "existing", a.Answers[0].CustomerType)

	in.CustomerID = "CUST-2"
	in.NIC = "200012345678"
	in.Answers = []AnswerInput{{QuestionID: "Q1", AnswerID: "A1"}}
	a, err = f.svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 32.0, a.TotalScore)
	assert.Equal(t, "C-", a.Rating)
}
