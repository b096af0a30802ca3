package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
	"github.com/alec12026-hash/rockyfit-sub000/internal/service"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type ProfileRequest struct {
	Experience   domain.ExperienceLevel `json:"experience" binding:"required,oneof=beginner intermediate advanced"`
	Goal         domain.Goal            `json:"goal" binding:"required,oneof=strength hypertrophy general fat_loss"`
	DaysPerWeek  int                    `json:"daysPerWeek" binding:"required,min=1,max=7"`
	Focus        string                 `json:"focus" binding:"max=200"`
	SleepQuality string                 `json:"sleepQuality" binding:"omitempty,oneof=poor fair good"`
	StressLevel  string                 `json:"stressLevel" binding:"omitempty,oneof=low moderate high"`
}

type OnboardingResponse struct {
	User    UserResponse    `json:"user"`
	Program *domain.Program `json:"program"`
}

// GetMe godoc
// @Summary Get the current user
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User not found"
// @Router /me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetMe(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load user.")
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile godoc
// @Summary Submit the onboarding profile
// @Description Saves the profile and activates a freshly generated program.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Onboarding answers"
// @Success 200 {object} OnboardingResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	res, err := h.profileService.Onboard(c.Request.Context(), userID, domain.Profile{
		Experience:   req.Experience,
		Goal:         req.Goal,
		DaysPerWeek:  req.DaysPerWeek,
		Focus:        req.Focus,
		SleepQuality: req.SleepQuality,
		StressLevel:  req.StressLevel,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			abortWithError(c, http.StatusNotFound, "User not found.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to save profile.")
		}
		return
	}

	c.JSON(http.StatusOK, OnboardingResponse{
		User:    MapUserToResponse(res.User),
		Program: res.Program,
	})
}
