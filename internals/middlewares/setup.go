package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/sirupsen/logrus"

	"creditrating_backend/internals/configs"
	"creditrating_backend/internals/middlewares/auth"
	"creditrating_backend/internals/middlewares/logger"
)

// RequestTimeoutDefault matches the DB statement_timeout headroom.
const RequestTimeoutDefault = 5 * time.Second

// SetupMiddlewares installs the global chain in order: recover, request id,
// access log, cors, rate limit, compression, etag, timeout, actor.
func SetupMiddlewares(app *fiber.App, cfg configs.Config, log *logrus.Logger) {
	app.Use(RecoveryMiddleware(log))
	app.Use(RequestID())
	app.Use(logger.LoggerMiddleware(log))
	app.Use(CorsMiddleware(cfg.CORSAllowOrigins))
	app.Use(GlobalRateLimiter(cfg.RateLimitMax))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(RequestTimeout(RequestTimeoutDefault))
	app.Use(auth.ActorMiddleware(cfg.JWTSecret, log))
}
