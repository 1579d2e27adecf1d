package details

import (
	"github.com/gofiber/fiber/v2"

	activityController "creditrating_backend/internals/features/activity_logs/controller"
	activityRoute "creditrating_backend/internals/features/activity_logs/route"
	activityService "creditrating_backend/internals/features/activity_logs/service"
)

func ActivityLogRoutes(r fiber.Router, svc *activityService.ActivityLogService) {
	activityRoute.ActivityLogRoutes(r, activityController.NewActivityLogController(svc))
}
