package api

import (
	"fmt"
	"net/http"
	"time"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler exposes XP, level and badges.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(ps service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: ps}
}

// RecordEventRequest reports an activity. OccurredAt should carry the
// client's UTC offset so time-of-day badges use local hours.
type RecordEventRequest struct {
	Kind       string     `json:"kind" binding:"required"`
	Calories   int        `json:"calories" binding:"gte=0"`
	OccurredAt *time.Time `json:"occurredAt,omitempty"`
	Day        string     `json:"day,omitempty"`
}

// GetProgress godoc
// @Summary Get my progress
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Progress
// @Router /me/progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.progressService.Get(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to load progress.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// RecordEvent godoc
// @Summary Record a progress event
// @Description Accepted kinds: workout_completed, daily_login, plan_created, weight_logged, nutrition_goal_met, run_completed.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body RecordEventRequest true "Event"
// @Success 201 {object} domain.Progress
// @Failure 400 {object} gin.H "Invalid input"
// @Router /me/progress/events [post]
func (h *ProgressHandler) RecordEvent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	kind := domain.ProgressEventKind(req.Kind)
	if kind.Social() {
		abortWithError(c, http.StatusBadRequest, "Follower events are recorded by following a user.")
		return
	}

	in := service.EventInput{
		Kind:     kind,
		Calories: req.Calories,
		Day:      req.Day,
	}
	if req.OccurredAt != nil {
		in.OccurredAt = *req.OccurredAt
	}

	view, err := h.progressService.Record(c.Request.Context(), userID, in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to record event.")
		return
	}
	c.JSON(http.StatusCreated, view)
}
