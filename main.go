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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/mesa-backend/config"
	"github.com/yeremiapane/mesa-backend/database"
	"github.com/yeremiapane/mesa-backend/events"
	"github.com/yeremiapane/mesa-backend/middlewares"
	"github.com/yeremiapane/mesa-backend/router"
	"github.com/yeremiapane/mesa-backend/storage"
	"github.com/yeremiapane/mesa-backend/utils"
)

func main() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	cfg := config.Load()
	utils.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.SeedRestaurant(db, cfg.Seed.RestaurantCnpj, cfg.Seed.RestaurantName); err != nil {
		utils.ErrorLogger.Printf("Error seeding restaurant: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var helper *storage.S3Helper
	if cfg.S3.Bucket != "" {
		client, err := config.NewS3Client(ctx, cfg.S3)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to configure S3 client: %v", err)
		}
		helper = storage.NewS3Helper(client, cfg.S3.Bucket, cfg.S3.Endpoint)
	} else {
		utils.InfoLogger.Println("S3_BUCKET not set, file routes disabled")
	}

	hub := events.NewHub()
	publishers := []events.Publisher{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		utils.InfoLogger.Printf("Publishing table events to kafka %v", cfg.Kafka.Brokers)
	}

	r := router.SetupRouter(router.Options{
		DB:            db,
		Storage:       helper,
		Hub:           hub,
		Publisher:     events.NewFanout(publishers...),
		CORSOrigin:    cfg.CORSOrigin,
		MaxUploadSize: cfg.MaxUploadSize,
		RateLimiter:   middlewares.NewRateLimiter(50, 1),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
}
