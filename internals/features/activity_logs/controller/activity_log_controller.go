// file: internals/features/activity_logs/controller/activity_log_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/activity_logs/repository"
	"creditrating_backend/internals/features/activity_logs/service"
	helper "creditrating_backend/internals/helpers"
)

type ActivityLogController struct {
	Service *service.ActivityLogService
}

func NewActivityLogController(svc *service.ActivityLogService) *ActivityLogController {
	return &ActivityLogController{Service: svc}
}

// List serves GET /activity-logs?entityType=&entityId=&actor=&page=&per_page=
func (ctl *ActivityLogController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c)
	rows, total, err := ctl.Service.List(helper.ReqCtx(c), repository.ListQuery{
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityId"),
		Actor:      c.Query("actor"),
		Paging:     paging,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "activity logs fetched", rows, helper.BuildPagination(total, paging))
}
