// file: internals/features/rating/customers/route/customer_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/rating/customers/controller"
)

func CustomerRoutes(r fiber.Router, ctl *controller.CustomerController) {
	g := r.Group("/customers")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
}
