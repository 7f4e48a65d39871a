package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/config"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/handler"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/repository"
	"github.com/spockey4711/trainingbuilder/internal/service"
	"github.com/spockey4711/trainingbuilder/internal/telemetry"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	AuthClient  service.FirebaseAuthClient
	// Files overrides the S3 report store; nil builds one from Config.S3
	Files domain.FileRepository
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	// Repositories
	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	workoutRepo := repository.NewMongoWorkoutRepository(deps.MongoDB)
	noteRepo := repository.NewMongoNoteRepository(deps.MongoDB)
	cycleRepo := repository.NewMongoCycleRepository(deps.MongoDB)
	planRepo := repository.NewCachedPlanRepository(repository.NewMongoPlanRepository(deps.MongoDB), cacheRepo)
	metricRepo := repository.NewMongoMetricRepository(deps.MongoDB)

	files := deps.Files
	if files == nil {
		s3Repo, err := repository.NewSeaweedS3Repository(context.Background(), cfg.S3)
		if err != nil {
			logrus.WithError(err).Warn("report storage unavailable, exports disabled")
		} else {
			files = s3Repo
		}
	}

	// Services
	tokenService := service.NewTokenService(cfg.JWT)
	authService := service.NewAuthService(userRepo, deps.AuthClient, tokenService)
	workoutService := service.NewWorkoutService(workoutRepo, noteRepo, cacheRepo)
	noteService := service.NewNoteService(noteRepo, workoutRepo)
	cycleService := service.NewCycleService(cycleRepo)
	planService := service.NewPlanService(planRepo, workoutRepo, cycleRepo, cacheRepo)
	metricService := service.NewMetricService(metricRepo, cacheRepo)
	analyticsService := service.NewAnalyticsService(workoutRepo, cycleRepo, cacheRepo, cfg.Server.CacheTTL)
	exportService := service.NewExportService(analyticsService, files)
	dashboardService := service.NewDashboardService(workoutRepo, metricRepo, cycleRepo, cacheRepo, cfg.Server.CacheTTL)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	workoutHandler := handler.NewWorkoutHandler(workoutService)
	noteHandler := handler.NewNoteHandler(noteService)
	cycleHandler := handler.NewCycleHandler(cycleService)
	planHandler := handler.NewPlanHandler(planService)
	metricHandler := handler.NewMetricHandler(metricService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, exportService, dashboardService)

	app := fiber.New(fiber.Config{
		AppName:      "Training Builder API",
		BodyLimit:    int(cfg.Server.BodyLimitMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	if cfg.OTEL.Enabled {
		app.Use(telemetry.TraceRequests(middleware.GetUserID))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "trainingbuilder",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	auth := v1.Group("/auth")
	auth.Post("/login", authHandler.LoginOrRegister)

	// ===========================================
	// ATHLETE API - /v1/me/*
	// ===========================================
	me := v1.Group("/me")
	me.Use(middleware.VerifyToken(cfg.JWT.Secret))
	me.Use(middleware.IdempotencyMiddleware(deps.RedisClient, cfg.Server.IdempotencyTTL))

	me.Get("/", authHandler.Me)
	me.Get("/dashboard", analyticsHandler.GetDashboard)
	me.Get("/calendar/week", workoutHandler.GetWeek)

	meWorkouts := me.Group("/workouts")
	meWorkouts.Post("/", workoutHandler.CreateWorkout)
	meWorkouts.Get("/", workoutHandler.ListWorkouts)
	meWorkouts.Get("/:id", workoutHandler.GetWorkout)
	meWorkouts.Delete("/:id", workoutHandler.DeleteWorkout)

	meNotes := me.Group("/notes")
	meNotes.Get("/", noteHandler.SearchNotes)
	meNotes.Get("/tags", noteHandler.ListTags)

	meCycles := me.Group("/cycles")
	meCycles.Post("/", cycleHandler.CreateCycle)
	meCycles.Get("/", cycleHandler.ListCycles)
	meCycles.Get("/tree", cycleHandler.GetTree)
	meCycles.Get("/active/:type", cycleHandler.GetActive)
	meCycles.Get("/:id", cycleHandler.GetCycle)
	meCycles.Delete("/:id", cycleHandler.DeleteCycle)

	mePlans := me.Group("/plans")
	mePlans.Post("/", planHandler.CreatePlan)
	mePlans.Get("/", planHandler.ListPlans)
	mePlans.Get("/:id", planHandler.GetPlan)
	mePlans.Delete("/:id", planHandler.DeletePlan)
	mePlans.Post("/:id/apply", planHandler.ApplyPlan)

	meMetrics := me.Group("/metrics")
	meMetrics.Put("/", metricHandler.SaveMetric)
	meMetrics.Post("/", metricHandler.SaveMetric)
	meMetrics.Get("/", metricHandler.ListMetrics)
	meMetrics.Get("/today", metricHandler.GetToday)
	meMetrics.Delete("/:id", metricHandler.DeleteMetric)

	meAnalytics := me.Group("/analytics")
	meAnalytics.Get("/volume", analyticsHandler.GetVolume)
	meAnalytics.Get("/cycles/:id/volume", analyticsHandler.GetCycleVolume)
	meAnalytics.Get("/load", analyticsHandler.GetTrainingLoad)
	meAnalytics.Post("/export", analyticsHandler.ExportReport)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
