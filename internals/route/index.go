// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	helper "creditrating_backend/internals/helpers"
	routeDetails "creditrating_backend/internals/route/details"
)

var startTime = time.Now()

type Options struct {
	Environment    string
	MetricsEnabled bool
	Ping           PingFunc
	Log            *logrus.Logger
}

// SetupRoutes mounts the base endpoints and every feature on app.
func SetupRoutes(app *fiber.App, svc Services, opts Options) {
	startTime = time.Now()
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	log.Info("[ROUTES] base")
	BaseRoutes(app, opts)

	v := helper.NewValidator()

	log.Info("[ROUTES] rating: templates, customer-assessments, customers, history")
	routeDetails.RatingRoutes(app, svc.Templates, svc.Assessments, svc.Customers, svc.History, v)

	log.Info("[ROUTES] activity-logs")
	routeDetails.ActivityLogRoutes(app, svc.ActivityLogs)

	app.Use(func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusNotFound, "route not found")
	})
}
