// file: internals/features/rating/assessments/route/assessment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"creditrating_backend/internals/features/rating/assessments/controller"
)

func AssessmentRoutes(r fiber.Router, ctl *controller.AssessmentController) {
	g := r.Group("/customer-assessments")

	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Patch("/visibility", ctl.SetVisibility)
	g.Put("/:id", ctl.Edit)
	g.Post("/:id/approve", ctl.Decide)
}
