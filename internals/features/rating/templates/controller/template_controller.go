// file: internals/features/rating/templates/controller/template_controller.go
package controller

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/templates/dto"
	"creditrating_backend/internals/features/rating/templates/model"
	"creditrating_backend/internals/features/rating/templates/repository"
	"creditrating_backend/internals/features/rating/templates/service"
	helper "creditrating_backend/internals/helpers"
)

// AssessmentReviewer lets the shared approvals endpoint decide on customer
// assessments without this package importing them.
type AssessmentReviewer interface {
	Review(ctx context.Context, id string, action approval.Action, reviewer, remarks string, expectedVersion *int) (any, error)
}

type TemplateController struct {
	Service   *service.TemplateService
	Reviewer  AssessmentReviewer
	Validator *validator.Validate
}

func NewTemplateController(svc *service.TemplateService, reviewer AssessmentReviewer, v *validator.Validate) *TemplateController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &TemplateController{Service: svc, Reviewer: reviewer, Validator: v}
}

/* ============================ CREATE ============================ */

func (ctl *TemplateController) Create(c *fiber.Ctx) error {
	var req dto.CreateTemplateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}

	m, err := ctl.Service.Create(helper.ReqCtx(c), service.CreateInput{
		Name:       req.Name,
		Categories: req.Categories,
		CreatedBy:  helper.ActorFrom(c, req.CreatedBy),
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "template created", dto.FromModel(m))
}

/* ============================ READ ============================ */

// List serves GET /templates; ?id= returns a single template.
func (ctl *TemplateController) List(c *fiber.Ctx) error {
	ctx := helper.ReqCtx(c)

	if id := strings.TrimSpace(c.Query("id")); id != "" {
		m, err := ctl.Service.Get(ctx, id)
		if err != nil {
			return helper.JsonAppError(c, err)
		}
		return helper.JsonOK(c, "template fetched", dto.FromModel(m))
	}

	paging := helper.ResolvePaging(c)
	rows, total, err := ctl.Service.List(ctx, repository.ListQuery{
		ApprovalStatus: approval.Status(strings.ToLower(strings.TrimSpace(c.Query("approvalStatus")))),
		IncludeHidden:  helper.QueryBool(c, "includeHidden"),
		Paging:         paging,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "templates fetched", dto.FromModels(rows), helper.BuildPagination(total, paging))
}

/* ============================ UPDATE ============================ */

func (ctl *TemplateController) Update(c *fiber.Ctx) error {
	var req dto.UpdateTemplateRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}

	m, err := ctl.Service.Update(helper.ReqCtx(c), service.UpdateInput{
		ID:              req.ID,
		Name:            req.Name,
		Categories:      req.Categories,
		UpdatedBy:       helper.ActorFrom(c, req.UpdatedBy),
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "template updated and sent for approval", dto.FromModel(m))
}

/* ============================ APPROVALS ============================ */

func (ctl *TemplateController) Approvals(c *fiber.Ctx) error {
	var req dto.ApprovalRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	action, err := approval.ParseAction(req.Action)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	reviewer := helper.ActorFrom(c, req.ApprovedBy)
	ctx := helper.ReqCtx(c)

	templateID := strings.TrimSpace(req.TemplateID)
	assessmentID := strings.TrimSpace(req.AssessmentID)

	switch {
	case templateID != "" && assessmentID != "":
		return helper.JsonError(c, fiber.StatusBadRequest, "send either templateId or assessmentId, not both")
	case assessmentID != "":
		if ctl.Reviewer == nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "assessment approvals are not available")
		}
		out, err := ctl.Reviewer.Review(ctx, assessmentID, action, reviewer, req.Comments, req.ExpectedVersion)
		if err != nil {
			return helper.JsonAppError(c, err)
		}
		return helper.JsonUpdated(c, "assessment "+string(action.Target()), out)
	case templateID == "":
		return helper.JsonError(c, fiber.StatusBadRequest, "templateId or assessmentId is required")
	}

	m, err := ctl.Service.Decide(ctx, service.DecisionInput{
		ID:              templateID,
		Action:          action,
		ReviewedBy:      reviewer,
		Comments:        req.Comments,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "template "+string(m.ApprovalStatus), dto.FromModel(m))
}

/* ============================ VISIBILITY ============================ */

func (ctl *TemplateController) SetVisibility(c *fiber.Ctx) error {
	var req dto.VisibilityRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}

	m, err := ctl.Service.SetVisibility(helper.ReqCtx(c), c.Params("id"), *req.IsHidden, helper.ActorFrom(c, req.Username))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	msg := "template shown"
	if m.IsDeleted {
		msg = "template hidden"
	}
	return helper.JsonUpdated(c, msg, visibilityView(m))
}

func visibilityView(m *model.TemplateModel) fiber.Map {
	return fiber.Map{
		"id":                  m.TemplateID,
		"isDeleted":           m.IsDeleted,
		"visibilityChangedAt": m.VisibilityChangedAt,
	}
}

/* ============================ DELETE ============================ */

func (ctl *TemplateController) Delete(c *fiber.Ctx) error {
	m, err := ctl.Service.SoftDelete(helper.ReqCtx(c), c.Query("id"), helper.ActorFrom(c, c.Query("deletedBy")))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "template deleted", fiber.Map{
		"id":        m.TemplateID,
		"deletedBy": m.DeletedBy,
		"deletedAt": m.DeletedAt,
	})
}
