// file: internals/features/activity_logs/route/activity_log_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/activity_logs/controller"
)

func ActivityLogRoutes(r fiber.Router, ctl *controller.ActivityLogController) {
	g := r.Group("/activity-logs")
	g.Get("/", ctl.List)
}
