package api

import (
	"errors"
	"log"
	"net/http"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/provider/openfoodfacts"
	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

// errorStatuses maps service sentinels to HTTP statuses. The sentinel's own
// message is returned to the client.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrInvalidUserID, http.StatusUnauthorized},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrProfileIncomplete, http.StatusConflict},
	{service.ErrNoWeightLogged, http.StatusConflict},
	{service.ErrInvalidSex, http.StatusBadRequest},
	{service.ErrInvalidBodyFat, http.StatusBadRequest},
	{nutrition.ErrInvalidHeight, http.StatusBadRequest},
	{nutrition.ErrInvalidAge, http.StatusBadRequest},
	{nutrition.ErrInvalidWeight, http.StatusBadRequest},
	{nutrition.ErrImplausibleProfile, http.StatusUnprocessableEntity},
	{nutrition.ErrUnsupportedUnit, http.StatusBadRequest},
	{nutrition.ErrIncompatibleUnits, http.StatusBadRequest},
	{nutrition.ErrInvalidReference, http.StatusBadRequest},
	{nutrition.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrInvalidDay, http.StatusBadRequest},
	{service.ErrFoodEntryNotFound, http.StatusNotFound},
	{service.ErrInvalidMealSlot, http.StatusBadRequest},
	{service.ErrInvalidFoodName, http.StatusBadRequest},
	{service.ErrInvalidAmount, http.StatusBadRequest},
	{service.ErrInvalidNutrients, http.StatusBadRequest},
	{service.ErrInvalidWater, http.StatusBadRequest},
	{service.ErrInvalidBurned, http.StatusBadRequest},
	{service.ErrSavedMealNotFound, http.StatusNotFound},
	{service.ErrInvalidSavedMeal, http.StatusBadRequest},
	{service.ErrUnknownEventKind, http.StatusBadRequest},
	{service.ErrInvalidCalories, http.StatusBadRequest},
	{service.ErrUnsupportedImageType, http.StatusBadRequest},
	{service.ErrInvalidObjectKey, http.StatusForbidden},
	{service.ErrUploadNotFound, http.StatusNotFound},
	{service.ErrPictureTooLarge, http.StatusRequestEntityTooLarge},
	{service.ErrNoProfilePicture, http.StatusNotFound},
	{service.ErrCannotFollowSelf, http.StatusBadRequest},
	{service.ErrNotFollowing, http.StatusNotFound},
	{openfoodfacts.ErrInvalidBarcode, http.StatusBadRequest},
	{openfoodfacts.ErrProductNotFound, http.StatusNotFound},
}

// abortWithServiceError answers with the status mapped to err, or a generic
// 500 (logging the cause) when err is unexpected.
func abortWithServiceError(c *gin.Context, err error, fallback string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			abortWithError(c, e.status, e.err.Error())
			return
		}
	}
	log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	abortWithError(c, http.StatusInternalServerError, fallback)
}
