// file: internals/features/rating/customers/controller/customer_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/rating/customers/dto"
	"creditrating_backend/internals/features/rating/customers/service"
	helper "creditrating_backend/internals/helpers"
)

type CustomerController struct {
	Service   *service.CustomerService
	Validator *validator.Validate
}

func NewCustomerController(svc *service.CustomerService, v *validator.Validate) *CustomerController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &CustomerController{Service: svc, Validator: v}
}

func (ctl *CustomerController) Create(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	if err := helper.ValidateStruct(ctl.Validator, &req); err != nil {
		return helper.JsonAppError(c, err)
	}
	m, err := ctl.Service.Create(helper.ReqCtx(c), req.ToModel())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "customer registered", m)
}

// List serves GET /customers; ?customerId= returns one record, ?q= searches.
func (ctl *CustomerController) List(c *fiber.Ctx) error {
	ctx := helper.ReqCtx(c)
	if id := strings.TrimSpace(c.Query("customerId")); id != "" {
		m, err := ctl.Service.Get(ctx, id)
		if err != nil {
			return helper.JsonAppError(c, err)
		}
		return helper.JsonOK(c, "customer fetched", m)
	}

	paging := helper.ResolvePaging(c)
	rows, total, err := ctl.Service.List(ctx, c.Query("q"), paging)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "customers fetched", rows, helper.BuildPagination(total, paging))
}
