package api

import (
	"fmt"
	"net/http"

	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SavedMealHandler manages user-defined meals.
type SavedMealHandler struct {
	savedMealService service.SavedMealService
}

func NewSavedMealHandler(ss service.SavedMealService) *SavedMealHandler {
	return &SavedMealHandler{savedMealService: ss}
}

type SavedMealItemRequest struct {
	Name      string              `json:"name" binding:"required"`
	Amount    float64             `json:"amount" binding:"required,gt=0"`
	Unit      string              `json:"unit" binding:"required"`
	Nutrients nutrition.Nutrients `json:"nutrients"`
	Barcode   string              `json:"barcode,omitempty"`
}

type CreateSavedMealRequest struct {
	Name  string                 `json:"name" binding:"required"`
	Items []SavedMealItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateSavedMeal godoc
// @Summary Save a meal for quick logging
// @Tags SavedMeals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body CreateSavedMealRequest true "Meal"
// @Success 201 {object} domain.SavedMeal
// @Failure 400 {object} gin.H "Invalid input"
// @Router /me/saved-meals [post]
func (h *SavedMealHandler) CreateSavedMeal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateSavedMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	items := make([]service.SavedMealItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.SavedMealItem{
			Name:      it.Name,
			Amount:    it.Amount,
			Unit:      it.Unit,
			Nutrients: it.Nutrients,
			Barcode:   it.Barcode,
		})
	}

	meal, err := h.savedMealService.Create(c.Request.Context(), userID, req.Name, items)
	if err != nil {
		abortWithServiceError(c, err, "Failed to save meal.")
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// ListSavedMeals godoc
// @Summary List my saved meals
// @Tags SavedMeals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.SavedMeal
// @Router /me/saved-meals [get]
func (h *SavedMealHandler) ListSavedMeals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	meals, err := h.savedMealService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to list saved meals.")
		return
	}
	c.JSON(http.StatusOK, meals)
}

// DeleteSavedMeal godoc
// @Summary Delete a saved meal
// @Tags SavedMeals
// @Security BearerAuth
// @Param mealId path string true "Saved meal ID"
// @Success 204 "No Content"
// @Failure 404 {object} gin.H "Saved meal not found"
// @Router /me/saved-meals/{mealId} [delete]
func (h *SavedMealHandler) DeleteSavedMeal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.savedMealService.Delete(c.Request.Context(), userID, c.Param("mealId")); err != nil {
		abortWithServiceError(c, err, "Failed to delete saved meal.")
		return
	}
	c.Status(http.StatusNoContent)
}
