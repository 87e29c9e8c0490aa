// @title QuizHub API
// @version 1.0
// @description Quiz authoring and taking, with friend lists and a grace-period account deletion lifecycle.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_ID_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quizhub/cmd/api/docs"
	"quizhub/internal/adapter"
	"quizhub/internal/cache"
	"quizhub/internal/config"
	"quizhub/internal/database"
	"quizhub/internal/handler"
	"quizhub/internal/identity"
	"quizhub/internal/logger"
	"quizhub/internal/metrics"
	"quizhub/internal/middleware"
	"quizhub/internal/repository"
	"quizhub/internal/service"
	"quizhub/internal/validation"
	"quizhub/internal/worker"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			appLogger.Error("Sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewSQLXPostgresDB(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.GetDSN()); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	verifier, err := identity.NewJWTVerifier(ctx, cfg.Identity)
	if err != nil {
		appLogger.Fatal("Failed to create identity token verifier", zap.Error(err))
	}
	defer verifier.Close()
	identityAdmin := identity.NewAdminClient(ctx, cfg.Identity)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	txManager := repository.NewTransactionManagerAdapter(db)
	userRepository := repository.NewSQLXUserRepository(db)
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	friendshipRepository := repository.NewSQLXFriendshipRepository(db)
	outbox := repository.NewSQLXIdentityOutbox(db)

	validator := validation.NewValidator()
	relay := service.NewOutboxRelay(outbox, identityAdmin, recorder, cfg.Deletion.OutboxBatchSize)
	deletionService := service.NewDeletionService(txManager, userRepository, quizRepository, friendshipRepository,
		outbox, relay, cacheAdapter, recorder, cfg.Deletion.GracePeriod)
	sweepService := service.NewSweepService(userRepository, deletionService, recorder, cfg.Deletion.SweepConcurrency)
	userService := service.NewUserService(userRepository, quizRepository, cacheAdapter, validator, cfg.Cache.ProfileTTL)
	quizService := service.NewQuizService(txManager, quizRepository, userRepository, validator)
	friendshipService := service.NewFriendshipService(friendshipRepository, userRepository)
	appLogger.Info("Services initialized")

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))

	routes := &handler.Routes{
		Auth:       handler.NewAuthHandler(userService),
		User:       handler.NewUserHandler(userService),
		Deletion:   handler.NewDeletionHandler(deletionService),
		Quiz:       handler.NewQuizHandler(quizService),
		Friend:     handler.NewFriendHandler(friendshipService),
		Health:     handler.NewHealthHandler(db, cacheAdapter),
		Verifier:   verifier,
		Users:      userService,
		Validation: middleware.NewValidationMiddleware(validator),
	}
	routes.Register(app)

	sweeper := worker.NewSweeper(sweepService, relay, cacheAdapter, cfg.Deletion.SweepLockTTL)
	go sweeper.Start(ctx, cfg.Deletion.SweepInterval)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
