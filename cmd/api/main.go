// @title Skillcheck API
// @version 1.0
// @description Skill assessment sessions: generated quizzes, graded answers and progression history.
// @host localhost:8090
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"skillcheck/internal/adapter"
	"skillcheck/internal/adapter/llm"
	"skillcheck/internal/adapter/mongostore"
	"skillcheck/internal/cache"
	"skillcheck/internal/config"
	"skillcheck/internal/database"
	"skillcheck/internal/domain"
	"skillcheck/internal/handler"
	"skillcheck/internal/logger"
	"skillcheck/internal/metrics"
	"skillcheck/internal/middleware"
	"skillcheck/internal/repository"
	"skillcheck/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	metrics.Init()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	ctx := context.Background()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.DB.Driver); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	skillRepository := repository.NewSkillRepository(db)

	historyStore, mongoClient := newHistoryStore(ctx, cfg, db)
	if mongoClient != nil {
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				appLogger.Warn("Failed to disconnect mongo", zap.Error(err))
			}
		}()
	}

	// Redis backs the session store and the history read cache; without it
	// sessions live in process memory and history reads are uncached.
	var sessionCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))

		redisCache := adapter.NewRedisCache(redisClient)
		sessionCache = redisCache
		historyStore = service.NewCachedHistoryStore(historyStore, redisCache, cfg.History.CacheTTL)
	} else {
		appLogger.Warn("Redis is not configured, using in-memory session store")
		sessionCache = adapter.NewMemoryCache()
	}
	sessionStore := service.NewCacheSessionStore(sessionCache, cfg.Assessment.SessionTTL)

	languageModel, err := llm.New(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	appLogger.Info("LLM client initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	quizBuilder := service.NewQuizBuilder(languageModel, cfg.Assessment.MaxRetries)
	aggregator := service.NewAggregator(languageModel, cfg.Assessment.MaxRetries, cfg.Assessment.CorrectThreshold)
	assessmentService := service.NewAssessmentService(skillRepository, historyStore, sessionStore, quizBuilder, aggregator)
	skillService := service.NewSkillService(skillRepository)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.WriteTimeout,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.Tracing())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		if err := sessionCache.Ping(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "session store unavailable")
		}
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handler.RegisterRoutes(app.Group("/api"), authService,
		handler.NewSkillHandler(skillService),
		handler.NewAssessmentHandler(assessmentService))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

// newHistoryStore picks the session record backend. The mongo client is
// returned so main can disconnect it.
func newHistoryStore(ctx context.Context, cfg *config.Config, db *sqlx.DB) (domain.HistoryStore, *mongo.Client) {
	appLogger := logger.Get()

	switch cfg.History.Backend {
	case "mongo":
		client, coll, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		store := mongostore.NewHistoryStore(coll)
		if err := store.EnsureIndexes(ctx); err != nil {
			appLogger.Fatal("Failed to create MongoDB indexes", zap.Error(err))
		}
		appLogger.Info("Using MongoDB history store", zap.String("database", cfg.Mongo.Database))
		return store, client
	case "", "sql":
		appLogger.Info("Using SQL history store", zap.String("driver", cfg.DB.Driver))
		return repository.NewSessionRecordRepository(db), nil
	default:
		appLogger.Fatal("Unsupported history backend", zap.String("backend", cfg.History.Backend))
		return nil, nil
	}
}
