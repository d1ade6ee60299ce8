package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/provider/openfoodfacts"
	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

// FoodLogHandler serves the per-day food, water and burned-calorie log.
// Every write lands in the local cache first and is pushed in the background.
type FoodLogHandler struct {
	foodLogService service.FoodLogService
}

func NewFoodLogHandler(fs service.FoodLogService) *FoodLogHandler {
	return &FoodLogHandler{foodLogService: fs}
}

// --- DTOs ---

type ReferenceServingRequest struct {
	Amount    float64             `json:"amount" binding:"required,gt=0"`
	Unit      string              `json:"unit" binding:"required"`
	Nutrients nutrition.Nutrients `json:"nutrients"`
}

type AddFoodRequest struct {
	Name      string                   `json:"name" binding:"required"`
	Meal      string                   `json:"meal" binding:"required"`
	Amount    float64                  `json:"amount" binding:"required,gt=0"`
	Unit      string                   `json:"unit" binding:"required"`
	Nutrients nutrition.Nutrients      `json:"nutrients"`
	Reference *ReferenceServingRequest `json:"reference,omitempty"`
	Barcode   string                   `json:"barcode,omitempty"`
}

type AddBarcodeRequest struct {
	Barcode string  `json:"barcode" binding:"required"`
	Meal    string  `json:"meal" binding:"required"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Unit    string  `json:"unit"` // defaults to g; volume units read per 100 ml
}

type AddSavedMealRequest struct {
	Meal string `json:"meal" binding:"required"`
}

type WaterRequest struct {
	Ml *int `json:"ml" binding:"required"`
}

type BurnedRequest struct {
	Calories *int `json:"calories" binding:"required"`
}

// GetDay godoc
// @Summary Get a day's log
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} service.DayView
// @Failure 400 {object} gin.H "Invalid day"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me/logs/{day} [get]
func (h *FoodLogHandler) GetDay(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.foodLogService.Day(c.Request.Context(), userID, c.Param("day"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to load day.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddFood godoc
// @Summary Log a food manually
// @Description Nutrients describe the logged amount, or the reference serving when one is given.
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param food body AddFoodRequest true "Food entry"
// @Success 201 {object} domain.TrackedFoodEntry
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me/logs/{day}/foods [post]
func (h *FoodLogHandler) AddFood(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	in := service.FoodInput{
		Name:      req.Name,
		Meal:      req.Meal,
		Amount:    req.Amount,
		Unit:      req.Unit,
		Nutrients: req.Nutrients,
		Barcode:   req.Barcode,
	}
	if req.Reference != nil {
		in.Reference = &service.ReferenceServing{
			Amount:    req.Reference.Amount,
			Unit:      req.Reference.Unit,
			Nutrients: req.Reference.Nutrients,
		}
	}

	entry, err := h.foodLogService.AddFood(c.Request.Context(), userID, c.Param("day"), in)
	if err != nil {
		abortWithServiceError(c, err, "Failed to log food.")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// AddFromBarcode godoc
// @Summary Log a packaged food by barcode
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param food body AddBarcodeRequest true "Barcode and amount"
// @Success 201 {object} domain.TrackedFoodEntry
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Product not found"
// @Failure 502 {object} gin.H "Food database unavailable"
// @Router /me/logs/{day}/barcode [post]
func (h *FoodLogHandler) AddFromBarcode(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddBarcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.foodLogService.AddFromBarcode(c.Request.Context(), userID, c.Param("day"), req.Barcode, req.Meal, req.Amount, req.Unit)
	if err != nil {
		if isUpstreamError(err) {
			log.Printf("WARN: barcode %s lookup failed: %v", req.Barcode, err)
			abortWithError(c, http.StatusBadGateway, "Food database unavailable.")
			return
		}
		abortWithServiceError(c, err, "Failed to log food.")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// AddSavedMeal godoc
// @Summary Log every item of a saved meal
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param mealId path string true "Saved meal ID"
// @Param slot body AddSavedMealRequest true "Meal slot"
// @Success 201 {array} domain.TrackedFoodEntry
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Saved meal not found"
// @Router /me/logs/{day}/saved-meals/{mealId} [post]
func (h *FoodLogHandler) AddSavedMeal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddSavedMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entries, err := h.foodLogService.AddSavedMeal(c.Request.Context(), userID, c.Param("day"), c.Param("mealId"), req.Meal)
	if err != nil {
		abortWithServiceError(c, err, "Failed to log saved meal.")
		return
	}
	c.JSON(http.StatusCreated, entries)
}

// DeleteFood godoc
// @Summary Remove a food entry
// @Tags Logs
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param foodId path string true "Food entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} gin.H "Entry not found"
// @Router /me/logs/{day}/foods/{foodId} [delete]
func (h *FoodLogHandler) DeleteFood(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.foodLogService.DeleteFood(c.Request.Context(), userID, c.Param("day"), c.Param("foodId")); err != nil {
		abortWithServiceError(c, err, "Failed to delete food entry.")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetWater godoc
// @Summary Set the day's water intake
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param water body WaterRequest true "Total millilitres"
// @Success 200 {object} service.DayView
// @Failure 400 {object} gin.H "Invalid input"
// @Router /me/logs/{day}/water [put]
func (h *FoodLogHandler) SetWater(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req WaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	view, err := h.foodLogService.SetWater(c.Request.Context(), userID, c.Param("day"), *req.Ml)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update water.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddWater godoc
// @Summary Add to (or subtract from) the day's water intake
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param water body WaterRequest true "Millilitres to add; negative values subtract"
// @Success 200 {object} service.DayView
// @Router /me/logs/{day}/water [post]
func (h *FoodLogHandler) AddWater(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req WaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	view, err := h.foodLogService.AddWater(c.Request.Context(), userID, c.Param("day"), *req.Ml)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update water.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetBurned godoc
// @Summary Set the day's burned calories
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param burned body BurnedRequest true "Burned kcal"
// @Success 200 {object} service.DayView
// @Router /me/logs/{day}/burned [put]
func (h *FoodLogHandler) SetBurned(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req BurnedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	view, err := h.foodLogService.SetBurned(c.Request.Context(), userID, c.Param("day"), *req.Calories)
	if err != nil {
		abortWithServiceError(c, err, "Failed to update burned calories.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Summary godoc
// @Summary Compare a day against the nutrition plan
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} service.DaySummary
// @Router /me/logs/{day}/summary [get]
func (h *FoodLogHandler) Summary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.foodLogService.Summary(c.Request.Context(), userID, c.Param("day"))
	if err != nil {
		abortWithServiceError(c, err, "Failed to build summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// LookupBarcode godoc
// @Summary Look a product up by barcode
// @Description Returns per-100 g nutrients from the public food database.
// @Tags Foods
// @Produce json
// @Security BearerAuth
// @Param code path string true "EAN-8, EAN-13 or UPC-A barcode"
// @Success 200 {object} openfoodfacts.Product
// @Failure 400 {object} gin.H "Invalid barcode"
// @Failure 404 {object} gin.H "Product not found"
// @Failure 502 {object} gin.H "Food database unavailable"
// @Router /foods/barcode/{code} [get]
func (h *FoodLogHandler) LookupBarcode(c *gin.Context) {
	code := c.Param("code")
	product, err := h.foodLogService.LookupBarcode(c.Request.Context(), code)
	if err != nil {
		if isUpstreamError(err) {
			log.Printf("WARN: barcode %s lookup failed: %v", code, err)
			abortWithError(c, http.StatusBadGateway, "Food database unavailable.")
			return
		}
		abortWithServiceError(c, err, "Failed to look up barcode.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// isUpstreamError reports failures of the product database itself, as
// opposed to an unknown or malformed barcode.
func isUpstreamError(err error) bool {
	return errors.Is(err, openfoodfacts.ErrUnavailable)
}
