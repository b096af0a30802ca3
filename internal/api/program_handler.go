package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
	"github.com/alec12026-hash/rockyfit-sub000/internal/service"
)

type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

type AdjustProgramRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// AdjustProgramResponse carries the message for the user; null when nothing was triggered.
type AdjustProgramResponse struct {
	Message *string `json:"message"`
}

// GetProgram godoc
// @Summary Get the active program
// @Description Returns {"useDefault": true} when the user has no active program yet.
// @Tags Program
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Program
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /program [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	p, err := h.programService.GetActive(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveProgram) {
			c.JSON(http.StatusOK, gin.H{"useDefault": true})
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load program.")
		return
	}
	c.JSON(http.StatusOK, p)
}

// RegenerateProgram godoc
// @Summary Regenerate the program from the stored profile
// @Tags Program
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.Program
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 409 {object} gin.H "Onboarding not completed"
// @Failure 429 {object} gin.H "Too many regenerations"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /program/regenerate [post]
func (h *ProgramHandler) RegenerateProgram(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	p, err := h.programService.Regenerate(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOnboarded):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			abortWithError(c, http.StatusNotFound, "User not found.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to regenerate program.")
		}
		return
	}
	c.JSON(http.StatusCreated, p)
}

// AdjustProgram godoc
// @Summary Adjust the program from free text
// @Description Detects split-change and deload requests. message is null when nothing matched.
// @Tags Program
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AdjustProgramRequest true "What the user said"
// @Success 200 {object} AdjustProgramResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /program/adjust [post]
func (h *ProgramHandler) AdjustProgram(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req AdjustProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	msg, err := h.programService.Adjust(c.Request.Context(), userID, req.Text)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to adjust program.")
		return
	}
	c.JSON(http.StatusOK, AdjustProgramResponse{Message: msg})
}

// ExportProgram godoc
// @Summary Export the active program
// @Description Archives the program JSON in object storage and returns a temporary download URL.
// @Tags Program
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ExportResult
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "No active program"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Failure 503 {object} gin.H "Export not configured"
// @Router /program/export [get]
func (h *ProgramHandler) ExportProgram(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	res, err := h.programService.Export(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveProgram):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExportUnavailable):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to export program.")
		}
		return
	}
	c.JSON(http.StatusOK, res)
}
