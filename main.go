package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"creditrating_backend/internals/configs"
	database "creditrating_backend/internals/databases"
	"creditrating_backend/internals/events"
	"creditrating_backend/internals/features/activity_logs/scheduler"
	helper "creditrating_backend/internals/helpers"
	middlewares "creditrating_backend/internals/middlewares"
	routes "creditrating_backend/internals/route"
)

func main() {
	cfg, err := configs.LoadEnv()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := configs.InitLogger(cfg)
	helper.ExposeStackTraces = !cfg.IsProduction()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.JsonAppError(c, err)
		},
	})
	middlewares.SetupMiddlewares(app, cfg, log)

	// storage
	var (
		stores routes.Stores
		db     *gorm.DB
		ping   routes.PingFunc
	)
	switch cfg.StoreDriver {
	case configs.StoreMemory:
		log.Warn("STORE_DRIVER=memory, data is lost on restart")
		stores = routes.NewMemoryStores()
	default:
		db, err = database.Connect(cfg, log)
		if err != nil {
			log.WithError(err).Fatal("db connect")
		}
		if err := database.Migrate(db, log); err != nil {
			log.WithError(err).Fatal("db migrate")
		}
		stores = routes.NewGormStores(db)
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	// audit events
	bus := events.NewBus(log, cfg.AuditQueueSize)
	svc := routes.NewServices(stores, bus, log)
	bus.Subscribe(svc.ActivityLogs.Handle)
	bus.Start(context.Background())

	reaper, err := scheduler.StartRetentionCron(svc.ActivityLogs, scheduler.RetentionConfig{
		Schedule:      cfg.ActivityLogCleanupCron,
		RetentionDays: cfg.ActivityLogRetentionDays,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("activity log retention cron")
	}

	routes.SetupRoutes(app, svc, routes.Options{
		Environment:    cfg.AppEnv,
		MetricsEnabled: cfg.MetricsEnabled,
		Ping:           ping,
		Log:            log,
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Infof("listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown: http, cron, event queue, then the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	<-reaper.Stop().Done()
	if err := bus.Close(ctx); err != nil {
		log.WithError(err).Warn("audit queue not fully drained")
	}
	if db != nil {
		database.Close(db, log)
	}
}
