package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/metrics"
	"github.com/alec12026-hash/rockyfit-sub000/internal/service"
)

const regenerateRouteName = "program-regenerate"

type RouterParams struct {
	AuthService     service.AuthService
	ProfileService  service.ProfileService
	HealthService   service.HealthService
	WorkoutService  service.WorkoutService
	CoachingService service.CoachingService
	ScheduleService service.ScheduleService
	ProgramService  service.ProgramService

	// DefaultUserID is used for requests without an Authorization header. Zero disables it.
	DefaultUserID primitive.ObjectID

	MetricsManager  *metrics.Manager
	MetricsGatherer prometheus.Gatherer

	// RateLimiter is nil when Redis is not configured.
	RateLimiter       RequestRateLimiter
	RegeneratePerHour int
}

func SetupRoutes(router *gin.Engine, params RouterParams) {
	authHandler := NewAuthHandler(params.AuthService)
	profileHandler := NewProfileHandler(params.ProfileService)
	healthHandler := NewHealthHandler(params.HealthService)
	workoutHandler := NewWorkoutHandler(params.WorkoutService)
	coachingHandler := NewCoachingHandler(params.CoachingService, params.ScheduleService)
	programHandler := NewProgramHandler(params.ProgramService)

	router.Use(
		RequestID(),
		RequestMetrics(params.MetricsManager),
		PanicRecovery(params.MetricsManager),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if params.MetricsGatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(params.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(params.AuthService, params.DefaultUserID))
	{
		protected.GET("/me", profileHandler.GetMe)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		healthGroup := protected.Group("/health")
		{
			healthGroup.POST("/checkin", healthHandler.CheckIn)
			healthGroup.GET("/samples", healthHandler.ListSamples)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.FinishWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.PATCH("/:sessionId/sets/:setId", workoutHandler.CorrectSet)
		}
		protected.GET("/records", workoutHandler.ListRecords)

		protected.GET("/coaching", coachingHandler.GetCoaching)
		protected.GET("/schedule", coachingHandler.GetSchedule)

		programGroup := protected.Group("/program")
		{
			programGroup.GET("", programHandler.GetProgram)
			programGroup.POST("/regenerate",
				RateLimitPerUser(params.RateLimiter, regenerateRouteName, params.RegeneratePerHour),
				programHandler.RegenerateProgram,
			)
			programGroup.POST("/adjust", programHandler.AdjustProgram)
			programGroup.GET("/export", programHandler.ExportProgram)
		}
	}
}
