package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowupp/nutrition-api/internal/api"
	"glowupp/nutrition-api/internal/cache"
	"glowupp/nutrition-api/internal/config"
	"glowupp/nutrition-api/internal/daysync"
	"glowupp/nutrition-api/internal/provider/openfoodfacts"
	"glowupp/nutrition-api/internal/repository/mongo"
	"glowupp/nutrition-api/internal/service"
	"glowupp/nutrition-api/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title GlowUpp Nutrition API
// @version 1.0
// @description Nutrition plans, food logging and progress tracking.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting GlowUpp Nutrition Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("FATAL: jwt.secret (JWT_SECRET) must be set")
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI, cfg.Database.ConnectAttempts)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Local day cache ---
	dayCache, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		log.Fatalf("FATAL: Could not open day cache %s: %v", cfg.Cache.Path, err)
	}
	defer func() {
		if err := dayCache.Close(); err != nil {
			log.Printf("ERROR: Failed to close day cache: %v", err)
		}
	}()
	log.Printf("Day cache opened at %s", cfg.Cache.Path)

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoNutritionPlanRepository(appDB)
	weightRepo := mongo.NewMongoWeightRepository(appDB)
	dailyLogRepo := mongo.NewMongoDailyLogRepository(appDB)
	savedMealRepo := mongo.NewMongoSavedMealRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	pictureRepo := mongo.NewMongoProfilePictureRepository(appDB)
	followRepo := mongo.NewMongoFollowRepository(appDB)

	// --- Sync ---
	syncer := daysync.NewSyncer(dayCache, dailyLogRepo, cfg.Sync.BatchSize)
	worker := daysync.NewWorker(syncer, cfg.Sync.Interval, cfg.Sync.MaxBackoff)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(workerCtx)
	}()

	products := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.UserAgent, cfg.OpenFoodFacts.Timeout)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	progressService := service.NewProgressService(progressRepo)
	nutritionService := service.NewNutritionService(userRepo, planRepo, weightRepo, progressService)
	profileService := service.NewProfileService(userRepo, nutritionService)
	savedMealService := service.NewSavedMealService(savedMealRepo)
	foodLogService := service.NewFoodLogService(syncer, dayCache, worker, products, savedMealService, nutritionService, progressService)
	pictureService := service.NewProfilePictureService(userRepo, pictureRepo, fileStorage)
	followService := service.NewFollowService(followRepo, userRepo, progressService)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:           authService,
		Profile:        profileService,
		Nutrition:      nutritionService,
		FoodLog:        foodLogService,
		SavedMeals:     savedMealService,
		Progress:       progressService,
		ProfilePicture: pictureService,
		Follows:        followService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second, // barcode lookups may take up to the upstream timeout
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	// Push whatever is still dirty before the process goes away.
	stopWorker()
	<-workerDone
	if err := worker.Flush(ctxShutdown); err != nil {
		log.Printf("WARN: Final sync flush failed, days stay pending in the cache: %v", err)
	}

	log.Println("Server exiting.")
}
