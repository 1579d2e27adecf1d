// file: internals/features/rating/history/controller/history_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/rating/history/service"
	helper "creditrating_backend/internals/helpers"
)

type HistoryController struct {
	Service *service.HistoryService
}

func NewHistoryController(svc *service.HistoryService) *HistoryController {
	return &HistoryController{Service: svc}
}

// GET /customer/:customerId/history[?includeHidden=true]
func (ctl *HistoryController) CustomerHistory(c *fiber.Ctx) error {
	out, err := ctl.Service.CustomerHistory(helper.ReqCtx(c), c.Params("customerId"), helper.QueryBool(c, "includeHidden"))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "customer history fetched", out)
}
