package details

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	assessmentController "creditrating_backend/internals/features/rating/assessments/controller"
	assessmentRoute "creditrating_backend/internals/features/rating/assessments/route"
	assessmentService "creditrating_backend/internals/features/rating/assessments/service"
	customerController "creditrating_backend/internals/features/rating/customers/controller"
	customerRoute "creditrating_backend/internals/features/rating/customers/route"
	customerService "creditrating_backend/internals/features/rating/customers/service"
	historyController "creditrating_backend/internals/features/rating/history/controller"
	historyRoute "creditrating_backend/internals/features/rating/history/route"
	historyService "creditrating_backend/internals/features/rating/history/service"
	templateController "creditrating_backend/internals/features/rating/templates/controller"
	templateRoute "creditrating_backend/internals/features/rating/templates/route"
	templateService "creditrating_backend/internals/features/rating/templates/service"
)

// RatingRoutes mounts templates, customer assessments, customers and the
// customer history view on r. All controllers share one validator.
func RatingRoutes(
	r fiber.Router,
	templates *templateService.TemplateService,
	assessments *assessmentService.AssessmentService,
	customers *customerService.CustomerService,
	history *historyService.HistoryService,
	v *validator.Validate,
) {
	reviewer := assessmentController.Reviewer{Service: assessments}

	templateRoute.TemplateRoutes(r, templateController.NewTemplateController(templates, reviewer, v))
	assessmentRoute.AssessmentRoutes(r, assessmentController.NewAssessmentController(assessments, v))
	customerRoute.CustomerRoutes(r, customerController.NewCustomerController(customers, v))
	historyRoute.HistoryRoutes(r, historyController.NewHistoryController(history))
}
