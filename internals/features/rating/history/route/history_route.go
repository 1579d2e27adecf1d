// file: internals/features/rating/history/route/history_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/rating/history/controller"
)

func HistoryRoutes(r fiber.Router, ctl *controller.HistoryController) {
	r.Get("/customer/:customerId/history", ctl.CustomerHistory)
}
