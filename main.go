package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/logging"
	"github.com/AziCodder/api-coddy-crm/app/metrics"
	"github.com/AziCodder/api-coddy-crm/app/observability"
	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
	"github.com/AziCodder/api-coddy-crm/app/routes/courses"
	"github.com/AziCodder/api-coddy-crm/app/routes/groups"
	"github.com/AziCodder/api-coddy-crm/app/routes/parents"
	"github.com/AziCodder/api-coddy-crm/app/routes/schedules"
	"github.com/AziCodder/api-coddy-crm/app/routes/students"
	"github.com/AziCodder/api-coddy-crm/app/routes/tasks"
	"github.com/AziCodder/api-coddy-crm/app/routes/teachers"
	"github.com/AziCodder/api-coddy-crm/app/routes/users"
	"github.com/AziCodder/api-coddy-crm/app/services"
)

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code >= 500 {
		logging.L.Error("unhandled request error",
			zap.String("path", c.Path()), zap.Error(err))
		observability.CaptureErr(err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.Init(cfg.LogLevel, cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		log.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	if err := config.InitDB(); err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer config.GetDB().Close()

	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}
	if version, err := database.MigrationVersion(config.GetDB()); err == nil {
		log.Info("schema up to date", zap.Int64("version", version))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services.StartOverdueSweep(ctx, cfg.OverdueSweep)

	app := fiber.New(fiber.Config{
		AppName:      "coddy-crm",
		ErrorHandler: errorHandler,
	})

	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		metrics.HTTPRequests.WithLabelValues(
			c.Method(), strconv.Itoa(c.Response().StatusCode())).Inc()
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		start := time.Now()
		err := config.GetDB().Ping()
		metrics.DBPing.Observe(time.Since(start).Seconds())
		if err != nil {
			return c.Status(503).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	auth.SetupAuthRoutes(app)
	users.SetupUsersRoutes(app)
	students.SetupStudentsRoutes(app)
	teachers.SetupTeachersRoutes(app)
	parents.SetupParentsRoutes(app)
	courses.SetupCoursesRoutes(app)
	groups.SetupGroupsRoutes(app)
	schedules.SetupSchedulesRoutes(app)
	tasks.SetupTasksRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "Not found"})
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
