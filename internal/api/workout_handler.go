package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/service"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type SetRequest struct {
	ExerciseName string   `json:"exerciseName" binding:"required"`
	Weight       float64  `json:"weight" binding:"min=0"`
	Reps         int      `json:"reps" binding:"required,min=1"`
	RPE          *float64 `json:"rpe" binding:"omitempty,min=1,max=10"`
}

type FinishWorkoutRequest struct {
	ProgramDayName string       `json:"programDayName"`
	Week           int          `json:"week" binding:"min=0"`
	Day            int          `json:"day" binding:"min=0,max=6"`
	CompletedAt    *time.Time   `json:"completedAt"`
	Rating         *int         `json:"rating" binding:"omitempty,min=1,max=5"`
	Notes          string       `json:"notes" binding:"max=2000"`
	Sets           []SetRequest `json:"sets" binding:"required,min=1,dive"`
}

type CorrectSetRequest struct {
	Weight *float64 `json:"weight" binding:"omitempty,min=0"`
	Reps   *int     `json:"reps" binding:"omitempty,min=1"`
	RPE    *float64 `json:"rpe" binding:"omitempty,min=1,max=10"`
}

// FinishWorkout godoc
// @Summary Save a completed workout
// @Description Stores the session with its sets and records any new personal records.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body FinishWorkoutRequest true "Completed session"
// @Success 201 {object} service.FinishWorkoutResult
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [post]
func (h *WorkoutHandler) FinishWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req FinishWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.FinishWorkoutInput{
		ProgramDayName: req.ProgramDayName,
		Week:           req.Week,
		Day:            req.Day,
		CompletedAt:    req.CompletedAt,
		Rating:         req.Rating,
		Notes:          req.Notes,
		Sets:           make([]service.FinishedSet, 0, len(req.Sets)),
	}
	for _, s := range req.Sets {
		input.Sets = append(input.Sets, service.FinishedSet{
			ExerciseName: s.ExerciseName,
			Weight:       s.Weight,
			Reps:         s.Reps,
			RPE:          s.RPE,
		})
	}

	res, err := h.workoutService.Finish(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to save workout.")
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListWorkouts godoc
// @Summary List recent workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param days query int false "Look-back window in days (default 30)"
// @Success 200 {array} domain.WorkoutSession
// @Failure 400 {object} gin.H "Invalid days parameter"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	days, ok := queryDays(c)
	if !ok {
		return
	}

	sessions, err := h.workoutService.ListRecent(c.Request.Context(), userID, days)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// CorrectSet godoc
// @Summary Correct a logged set
// @Description Only weight, reps and RPE can be changed; the session volume is recomputed.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param setId path string true "Set ID"
// @Param correction body CorrectSetRequest true "Corrected values"
// @Success 200 {object} domain.WorkoutSession
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Session or set not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{sessionId}/sets/{setId} [patch]
func (h *WorkoutHandler) CorrectSet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return
	}
	setID, err := primitive.ObjectIDFromHex(c.Param("setId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid set ID format.")
		return
	}

	var req CorrectSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.Weight == nil && req.Reps == nil && req.RPE == nil {
		abortWithError(c, http.StatusBadRequest, "Nothing to correct: provide weight, reps or rpe.")
		return
	}

	session, err := h.workoutService.CorrectSet(c.Request.Context(), userID, sessionID, setID, service.SetCorrection{
		Weight: req.Weight,
		Reps:   req.Reps,
		RPE:    req.RPE,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSetNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to correct set.")
		}
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListRecords godoc
// @Summary List personal records
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.PersonalRecord
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /records [get]
func (h *WorkoutHandler) ListRecords(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	records, err := h.workoutService.ListRecords(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve personal records.")
		return
	}
	if records == nil {
		records = []domain.PersonalRecord{}
	}
	c.JSON(http.StatusOK, records)
}
