// file: internals/features/rating/templates/route/template_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/rating/templates/controller"
)

// TemplateRoutes mounts /templates on r.
func TemplateRoutes(r fiber.Router, ctl *controller.TemplateController) {
	g := r.Group("/templates")

	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Put("/", ctl.Update)
	g.Delete("/", ctl.Delete)

	g.Post("/approvals", ctl.Approvals)
	g.Patch("/:id/visibility", ctl.SetVisibility)
}
