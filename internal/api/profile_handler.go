package api

import (
	"fmt"
	"net/http"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the biometric profile of the authenticated user.
type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(ps service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: ps}
}

// --- DTOs ---

type UpdateProfileRequest struct {
	HeightCm    float64  `json:"heightCm" binding:"required,gt=0,lte=300"`
	Age         int      `json:"age" binding:"required,gt=0,lte=150"`
	Sex         string   `json:"sex" binding:"required"`
	Activity    string   `json:"activityLevel"`
	Experience  string   `json:"experience"`
	BodyFatPct  *float64 `json:"bodyFatPct,omitempty"`
	Sleep       string   `json:"sleepHours"`
	Diet        string   `json:"dietaryStyle"`
	Limitations []string `json:"limitations"`
	Goal        string   `json:"workoutGoal" binding:"required"`
}

type UpdateProfileResponse struct {
	User UserResponse          `json:"user"`
	Plan *domain.NutritionPlan `json:"nutritionPlan,omitempty"`
}

func (r UpdateProfileRequest) toDomain() domain.BiometricProfile {
	limitations := make([]nutrition.Limitation, 0, len(r.Limitations))
	for _, l := range r.Limitations {
		limitations = append(limitations, nutrition.Limitation(l))
	}
	return domain.BiometricProfile{
		HeightCm:    r.HeightCm,
		Age:         r.Age,
		Sex:         nutrition.Sex(r.Sex),
		Activity:    nutrition.ActivityLevel(r.Activity),
		Experience:  nutrition.Experience(r.Experience),
		BodyFatPct:  r.BodyFatPct,
		Sleep:       nutrition.SleepBucket(r.Sleep),
		Diet:        nutrition.DietaryStyle(r.Diet),
		Limitations: limitations,
		Goal:        nutrition.Goal(r.Goal),
	}
}

// GetProfile godoc
// @Summary Get my profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User not found"
// @Router /me/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetMe(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to load profile.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile godoc
// @Summary Update my biometric profile
// @Description Stores the profile and recalculates the nutrition plan when a weight has been logged.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Biometric profile"
// @Success 200 {object} UpdateProfileResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, plan, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		abortWithServiceError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, UpdateProfileResponse{User: MapUserToResponse(user), Plan: plan})
}
