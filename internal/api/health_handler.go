package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/service"
)

type HealthHandler struct {
	healthService service.HealthService
}

func NewHealthHandler(healthService service.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// CheckInRequest carries the measurable signals only; readiness is always derived server side.
type CheckInRequest struct {
	Date            string   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Weight          *float64 `json:"weight" binding:"omitempty,gt=0"`
	SleepHours      *float64 `json:"sleepHours" binding:"omitempty,min=0,max=24"`
	SleepQuality    *int     `json:"sleepQuality" binding:"omitempty,min=1,max=5"`
	RestingHR       *int     `json:"restingHr" binding:"omitempty,min=20,max=250"`
	HRV             *float64 `json:"hrv" binding:"omitempty,min=0"`
	Steps           *int     `json:"steps" binding:"omitempty,min=0"`
	Energy          *int     `json:"energy" binding:"omitempty,min=1,max=5"`
	Soreness        *int     `json:"soreness" binding:"omitempty,min=1,max=5"`
	Stress          *int     `json:"stress" binding:"omitempty,min=1,max=5"`
	Mood            *int     `json:"mood" binding:"omitempty,min=1,max=5"`
	WaterOz         *float64 `json:"waterOz" binding:"omitempty,min=0"`
	NutritionRating *int     `json:"nutritionRating" binding:"omitempty,min=1,max=5"`
	ActiveCalories  *int     `json:"activeCalories" binding:"omitempty,min=0"`
	Notes           string   `json:"notes" binding:"max=2000"`
}

// CheckInResponse is the readiness verdict for the stored sample.
type CheckInResponse struct {
	Score          int                  `json:"score"`
	Zone           domain.Zone          `json:"zone"`
	Recommendation string               `json:"recommendation"`
	Sample         *domain.HealthSample `json:"sample"`
}

func (r CheckInRequest) toSample() domain.HealthSample {
	return domain.HealthSample{
		Date:            r.Date,
		Weight:          r.Weight,
		SleepHours:      r.SleepHours,
		SleepQuality:    r.SleepQuality,
		RestingHR:       r.RestingHR,
		HRV:             r.HRV,
		Steps:           r.Steps,
		Energy:          r.Energy,
		Soreness:        r.Soreness,
		Stress:          r.Stress,
		Mood:            r.Mood,
		WaterOz:         r.WaterOz,
		NutritionRating: r.NutritionRating,
		ActiveCalories:  r.ActiveCalories,
		Notes:           r.Notes,
	}
}

// CheckIn godoc
// @Summary Log the daily health check-in
// @Description Stores the check-in for its date (overwriting an earlier one) and returns readiness.
// @Tags Health
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checkin body CheckInRequest true "Check-in signals"
// @Success 200 {object} CheckInResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /health/checkin [post]
func (h *HealthHandler) CheckIn(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	res, err := h.healthService.CheckIn(c.Request.Context(), userID, req.toSample())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to save check-in.")
		return
	}

	c.JSON(http.StatusOK, CheckInResponse{
		Score:          res.Readiness.Score,
		Zone:           res.Readiness.Zone,
		Recommendation: res.Readiness.Recommendation,
		Sample:         res.Sample,
	})
}

// ListSamples godoc
// @Summary List recent health samples
// @Tags Health
// @Produce json
// @Security BearerAuth
// @Param days query int false "Number of most recent samples (default 7)"
// @Success 200 {array} domain.HealthSample
// @Failure 400 {object} gin.H "Invalid days parameter"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /health/samples [get]
func (h *HealthHandler) ListSamples(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	days, ok := queryDays(c)
	if !ok {
		return
	}

	samples, err := h.healthService.ListRecent(c.Request.Context(), userID, days)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve health samples.")
		return
	}

	c.JSON(http.StatusOK, samples)
}

// DaysQuery is the optional look-back window of list endpoints.
type DaysQuery struct {
	Days *int `form:"days" binding:"omitempty,min=1"`
}

// queryDays binds ?days=. Zero lets the service pick its default.
func queryDays(c *gin.Context) (int, bool) {
	var q DaysQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: days must be a positive integer")
		return 0, false
	}
	if q.Days == nil {
		return 0, true
	}
	return *q.Days, true
}
