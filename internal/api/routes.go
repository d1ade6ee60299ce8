package api

import (
	"net/http"

	"glowupp/nutrition-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth           service.AuthService
	Profile        service.ProfileService
	Nutrition      service.NutritionService
	FoodLog        service.FoodLogService
	SavedMeals     service.SavedMealService
	Progress       service.ProgressService
	ProfilePicture service.ProfilePictureService
	Follows        service.FollowService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	profileHandler := NewProfileHandler(svc.Profile)
	nutritionHandler := NewNutritionHandler(svc.Nutrition)
	foodLogHandler := NewFoodLogHandler(svc.FoodLog)
	savedMealHandler := NewSavedMealHandler(svc.SavedMeals)
	progressHandler := NewProgressHandler(svc.Progress)
	pictureHandler := NewProfilePictureHandler(svc.ProfilePicture)
	followHandler := NewFollowHandler(svc.Follows)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/foods/barcode/:code", foodLogHandler.LookupBarcode)

		users := protected.Group("/users/:id")
		{
			users.GET("/follow", followHandler.GetFollowStatus)
			users.POST("/follow", followHandler.Follow)
			users.DELETE("/follow", followHandler.Unfollow)
			users.GET("/followers", followHandler.ListFollowers)
			users.GET("/following", followHandler.ListFollowing)
		}

		me := protected.Group("/me")
		{
			me.GET("/profile", profileHandler.GetProfile)
			me.PUT("/profile", profileHandler.UpdateProfile)

			me.GET("/nutrition-plan", nutritionHandler.GetPlan)
			me.POST("/nutrition-plan/recalculate", nutritionHandler.Recalculate)

			me.POST("/weights", nutritionHandler.LogWeight)
			me.GET("/weights", nutritionHandler.ListWeights)

			// --- Daily logs (local cache, pushed in the background) ---
			logs := me.Group("/logs/:day")
			{
				logs.GET("", foodLogHandler.GetDay)
				logs.GET("/summary", foodLogHandler.Summary)
				logs.POST("/foods", foodLogHandler.AddFood)
				logs.DELETE("/foods/:foodId", foodLogHandler.DeleteFood)
				logs.POST("/barcode", foodLogHandler.AddFromBarcode)
				logs.POST("/saved-meals/:mealId", foodLogHandler.AddSavedMeal)
				logs.PUT("/water", foodLogHandler.SetWater)
				logs.POST("/water", foodLogHandler.AddWater)
				logs.PUT("/burned", foodLogHandler.SetBurned)
			}

			me.GET("/saved-meals", savedMealHandler.ListSavedMeals)
			me.POST("/saved-meals", savedMealHandler.CreateSavedMeal)
			me.DELETE("/saved-meals/:mealId", savedMealHandler.DeleteSavedMeal)

			me.GET("/progress", progressHandler.GetProgress)
			me.POST("/progress/events", progressHandler.RecordEvent)

			me.GET("/profile-picture", pictureHandler.GetProfilePicture)
			me.POST("/profile-picture/upload-url", pictureHandler.RequestUploadURL)
			me.POST("/profile-picture/confirm", pictureHandler.ConfirmUpload)
		}
	}
}
