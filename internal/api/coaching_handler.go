package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alec12026-hash/rockyfit-sub000/internal/service"
)

// CoachingHandler serves the read-only coaching and schedule views. Neither endpoint fails on
// missing or unavailable data; the services degrade to generic advice.
type CoachingHandler struct {
	coachingService service.CoachingService
	scheduleService service.ScheduleService
}

func NewCoachingHandler(coachingService service.CoachingService, scheduleService service.ScheduleService) *CoachingHandler {
	return &CoachingHandler{
		coachingService: coachingService,
		scheduleService: scheduleService,
	}
}

// GetCoaching godoc
// @Summary Get today's coaching advice
// @Tags Coaching
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CoachingResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /coaching [get]
func (h *CoachingHandler) GetCoaching(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.coachingService.GetCoaching(c.Request.Context(), userID))
}

// GetSchedule godoc
// @Summary Get today's train/reduce/rest recommendation
// @Tags Coaching
// @Produce json
// @Security BearerAuth
// @Success 200 {object} coaching.ScheduleAdvice
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /schedule [get]
func (h *CoachingHandler) GetSchedule(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.scheduleService.GetSchedule(c.Request.Context(), userID))
}
