// file: internals/features/rating/assessments/controller/assessment_controller.go
package controller

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/assessments/dto"
	"creditrating_backend/internals/features/rating/assessments/repository"
	"creditrating_backend/internals/features/rating/assessments/service"
	helper "creditrating_backend/internals/helpers"
)

type AssessmentController struct {
	Service   *service.AssessmentService
	Validator *validator.Validate
}

func NewAssessmentController(svc *service.AssessmentService, v *validator.Validate) *AssessmentController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &AssessmentController{Service: svc, Validator: v}
}

/* ============================ CREATE ============================ */

func (ctl *AssessmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateAssessmentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}

	m, err := ctl.Service.Create(helper.ReqCtx(c), req.ToInput(helper.ActorFrom(c, req.AssessedBy)))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "assessment submitted for approval", dto.FromModel(m))
}

/* ============================ READ ============================ */

// List serves GET /customer-assessments with ?id=, ?customerId=, ?status=
// and ?includeHidden=.
func (ctl *AssessmentController) List(c *fiber.Ctx) error {
	ctx := helper.ReqCtx(c)
	if id := strings.TrimSpace(c.Query("id")); id != "" {
		m, err := ctl.Service.Get(ctx, id)
		if err != nil {
			return helper.JsonAppError(c, err)
		}
		return helper.JsonOK(c, "assessment fetched", dto.FromModel(m))
	}

	paging := helper.ResolvePaging(c)
	rows, total, err := ctl.Service.List(ctx, repository.ListQuery{
		CustomerID:    strings.TrimSpace(c.Query("customerId")),
		Status:        approval.Status(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		IncludeHidden: helper.QueryBool(c, "includeHidden"),
		Paging:        paging,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "assessments fetched", dto.FromModels(rows), helper.BuildPagination(total, paging))
}

/* ============================ EDIT ============================ */

func (ctl *AssessmentController) Edit(c *fiber.Ctx) error {
	var req dto.EditAssessmentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}

	m, err := ctl.Service.Edit(helper.ReqCtx(c), req.ToInput(c.Params("id"), helper.ActorFrom(c, req.UpdatedBy)))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "assessment resubmitted for approval", dto.FromModel(m))
}

/* ============================ DECISION ============================ */

func (ctl *AssessmentController) Decide(c *fiber.Ctx) error {
	var req dto.DecisionRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	action, err := approval.ParseAction(req.Status)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	m, err := ctl.Service.Decide(helper.ReqCtx(c), c.Params("id"), action,
		helper.ActorFrom(c, req.Reviewer()), req.Remarks, req.ExpectedVersion)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "assessment "+string(m.ApprovalStatus), dto.FromModel(m))
}

/* ============================ VISIBILITY ============================ */

func (ctl *AssessmentController) SetVisibility(c *fiber.Ctx) error {
	var req dto.VisibilityRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}

	m, err := ctl.Service.SetVisibility(helper.ReqCtx(c), req.ID, *req.IsDeleted, helper.ActorFrom(c, req.Username))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	msg := "assessment restored"
	if m.IsDeleted {
		msg = "assessment hidden"
	}
	return helper.JsonUpdated(c, msg, dto.FromModel(m))
}

/* ============================ REVIEWER ADAPTER ============================ */

// Reviewer exposes assessment decisions to the shared /templates/approvals
// endpoint.
type Reviewer struct {
	Service *service.AssessmentService
}

func (r Reviewer) Review(ctx context.Context, id string, action approval.Action, reviewer, remarks string, expectedVersion *int) (any, error) {
	m, err := r.Service.Decide(ctx, id, action, reviewer, remarks, expectedVersion)
	if err != nil {
		return nil, err
	}
	return dto.FromModel(m), nil
}
