package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/api"
	"github.com/alec12026-hash/rockyfit-sub000/internal/cache"
	"github.com/alec12026-hash/rockyfit-sub000/internal/config"
	"github.com/alec12026-hash/rockyfit-sub000/internal/jobs"
	"github.com/alec12026-hash/rockyfit-sub000/internal/llm"
	"github.com/alec12026-hash/rockyfit-sub000/internal/logging"
	"github.com/alec12026-hash/rockyfit-sub000/internal/metrics"
	"github.com/alec12026-hash/rockyfit-sub000/internal/program"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository/mongo"
	"github.com/alec12026-hash/rockyfit-sub000/internal/service"
	"github.com/alec12026-hash/rockyfit-sub000/internal/storage"
)

// @title RockyFit API
// @version 1.0
// @description Personal strength coaching: daily readiness, workout logging, personal records and adaptive programs.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting RockyFit server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.Logging.FileName,
		LogToStdout:      cfg.Logging.ToStdout,
		LogLevel:         cfg.Logging.Level,
		LogFormatJSON:    cfg.Logging.FormatJSON,
		Environment:      cfg.Server.Environment,
		SentryEnabled:    cfg.Logging.SentryEnabled,
		SentryDSN:        cfg.Logging.SentryDSN,
		SentryServerName: "rockyfit-api",
	})
	defer sentry.Flush(2 * time.Second)

	if cfg.JWT.Secret == "" {
		log.Fatalln("jwt secret not set, use JWT_SECRET env var to set it")
	}

	var defaultUserID primitive.ObjectID
	if cfg.Auth.DefaultUserID != "" {
		defaultUserID, err = primitive.ObjectIDFromHex(cfg.Auth.DefaultUserID)
		if err != nil {
			log.Fatalf("invalid auth.default_user_id %q: %s", cfg.Auth.DefaultUserID, err)
		}
		log.Warnf("requests without a token resolve to user %s", defaultUserID.Hex())
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, promRegistry)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	indexCtx, indexCancel := context.WithTimeout(context.Background(), time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		// The unique indexes back the per-day and per-email invariants.
		indexCancel()
		log.Fatalf("failed to ensure indexes: %s", err)
	}
	indexCancel()

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	healthRepo := mongo.NewMongoHealthRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	recordRepo := mongo.NewMongoPersonalRecordRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB, cfg.Database.Transactions)

	// --- Optional integrations ---
	var generator program.Generator
	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout)
	if llmClient.Configured() {
		generator = llm.NewProgramGenerator(llmClient)
		log.Infof("program generation uses model %s", cfg.LLM.Model)
	} else {
		log.Warnln("llm api key not set, programs come from the fallback builder")
	}

	var objectStorage storage.ObjectStorage
	if cfg.S3.BucketName != "" {
		objectStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %s", err)
		}
	} else {
		log.Warnln("s3 bucket not set, program export is disabled")
	}

	var rateLimiter api.RequestRateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("failed to close redis client: %s", err)
			}
		}()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		}
		pingCancel()
		rateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Warnln("redis addr not set, rate limiting is disabled")
	}

	// --- Services ---
	coachingService := service.NewCoachingService(
		healthRepo, workoutRepo, recordRepo, programRepo,
		cache.NewJSONCache(cfg.Cache.SizeMB), cfg.Cache.CoachingTTL, metricsManager,
	)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	healthService := service.NewHealthService(healthRepo, coachingService, metricsManager)
	workoutService := service.NewWorkoutService(workoutRepo, recordRepo, healthRepo, programRepo, coachingService, metricsManager)
	scheduleService := service.NewScheduleService(healthRepo, workoutRepo)
	programService := service.NewProgramService(
		programRepo, userRepo, generator, objectStorage, cfg.S3.PresignExpiry, coachingService, metricsManager,
	)
	profileService := service.NewProfileService(userRepo, programService)

	// --- Jobs ---
	if cfg.Jobs.AutoDeloadEnabled {
		scheduler, err := jobs.NewScheduler(
			jobs.NewAutoDeload(programRepo, scheduleService, programService),
			cfg.Jobs.AutoDeloadSpec,
		)
		if err != nil {
			log.Fatalf("failed to schedule auto-deload: %s", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// --- HTTP ---
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.SetupRoutes(router, api.RouterParams{
		AuthService:       authService,
		ProfileService:    profileService,
		HealthService:     healthService,
		WorkoutService:    workoutService,
		CoachingService:   coachingService,
		ScheduleService:   scheduleService,
		ProgramService:    programService,
		DefaultUserID:     defaultUserID,
		MetricsManager:    metricsManager,
		MetricsGatherer:   promRegistry,
		RateLimiter:       rateLimiter,
		RegeneratePerHour: cfg.Redis.RegeneratePerHour,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		// Program generation waits on the model.
		WriteTimeout: cfg.LLM.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %s", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Println("Server exiting.")
}
