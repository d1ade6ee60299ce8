package api

import (
	"fmt"
	"net/http"
	"strconv"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultWeightHistory = 30

// NutritionHandler serves the nutrition plan and weight history.
type NutritionHandler struct {
	nutritionService service.NutritionService
}

func NewNutritionHandler(ns service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: ns}
}

type LogWeightRequest struct {
	WeightKg float64 `json:"weightKg" binding:"required,gt=0,lte=500"`
	Date     string  `json:"date" binding:"required"` // YYYY-MM-DD, user-local
}

type LogWeightResponse struct {
	Entry *domain.WeightEntry   `json:"entry"`
	Plan  *domain.NutritionPlan `json:"nutritionPlan,omitempty"`
}

// GetPlan godoc
// @Summary Get my nutrition plan
// @Description Returns the cached plan, computing it on first use.
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.NutritionPlan
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 409 {object} gin.H "Profile incomplete or no weight logged"
// @Router /me/nutrition-plan [get]
func (h *NutritionHandler) GetPlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	plan, err := h.nutritionService.GetPlan(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to load nutrition plan.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Recalculate godoc
// @Summary Recalculate my nutrition plan
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.NutritionPlan
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 409 {object} gin.H "Profile incomplete or no weight logged"
// @Router /me/nutrition-plan/recalculate [post]
func (h *NutritionHandler) Recalculate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	plan, err := h.nutritionService.Recalculate(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to recalculate nutrition plan.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// LogWeight godoc
// @Summary Log a body-weight measurement
// @Tags Nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weight body LogWeightRequest true "Measurement"
// @Success 201 {object} LogWeightResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me/weights [post]
func (h *NutritionHandler) LogWeight(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req LogWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, plan, err := h.nutritionService.LogWeight(c.Request.Context(), userID, req.WeightKg, req.Date)
	if err != nil {
		abortWithServiceError(c, err, "Failed to log weight.")
		return
	}
	c.JSON(http.StatusCreated, LogWeightResponse{Entry: entry, Plan: plan})
}

// ListWeights godoc
// @Summary List my weight history
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 30)"
// @Success 200 {array} domain.WeightEntry
// @Failure 400 {object} gin.H "Invalid limit"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me/weights [get]
func (h *NutritionHandler) ListWeights(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := defaultWeightHistory
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.nutritionService.ListWeights(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithServiceError(c, err, "Failed to list weights.")
		return
	}
	c.JSON(http.StatusOK, entries)
}
