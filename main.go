package main

import (
	"context"
	"log"
	"net/http"

	"burrito-rater-api/backup"
	"burrito-rater-api/captcha"
	"burrito-rater-api/config"
	"burrito-rater-api/geofence"
	"burrito-rater-api/handlers"
	"burrito-rater-api/middleware"
	"burrito-rater-api/repository"
	"burrito-rater-api/routes"
	"burrito-rater-api/services"
	"burrito-rater-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := config.InitDB(cfg.DBSource)

	objectStore, err := storage.NewS3Store(context.Background(), cfg.AWSRegion)
	if err != nil {
		log.Fatal("Failed to init object storage:", err)
	}

	verifier := captcha.NewVerifier(cfg.TurnstileSecretKey, cfg.IsProduction())
	if cfg.TurnstileVerifyURL != "" {
		verifier.VerifyURL = cfg.TurnstileVerifyURL
	}
	fence := geofence.NewValidator(cfg.GeocodingEnabled, cfg.GeocodingAPIKey)

	repo := repository.NewRatingRepository(db)
	ratingService := services.NewRatingService(repo, verifier, fence)
	backupService := backup.NewService(db, objectStore, cfg.BackupBucket)

	ratingHandler := handlers.NewRatingHandler(ratingService)
	backupHandler := handlers.NewBackupHandler(backupService)
	imageHandler := handlers.NewImageHandler(objectStore, cfg.ImageBucket)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Burrito Rater API",
			"version": "1.0.0",
		})
	})

	routes.SetupRoutes(r, ratingHandler, backupHandler, imageHandler)

	// Scheduled backups: a failed run panics into the Recover chain so the
	// scheduler, not the backup code, owns retry behavior.
	if cfg.BackupSchedule != "" {
		scheduler := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
		_, err := scheduler.AddFunc(cfg.BackupSchedule, func() {
			if err := backupService.RunScheduled(context.Background()); err != nil {
				panic(err)
			}
		})
		if err != nil {
			log.Fatal("Invalid backup schedule:", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("scheduled backups enabled: %s", cfg.BackupSchedule)
	}

	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
