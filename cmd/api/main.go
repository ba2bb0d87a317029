package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"csvviewer/internal/config"
	"csvviewer/internal/database"
	"csvviewer/internal/domain/upload"
	"csvviewer/internal/middleware"
	"csvviewer/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&upload.Upload{}); err != nil {
		log.Fatal(err)
	}

	store, err := storage.NewLocal(cfg.UploadsDir)
	if err != nil {
		log.Fatal(err)
	}

	uploadRepo := upload.NewRepository(db)
	uploadService := upload.NewService(uploadRepo, store)
	uploadHandler := upload.NewHandler(uploadService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	api := r.Group("/api")
	{
		upload.RegisterRoutes(api, uploadHandler)
	}

	log.Printf("listening on %s, uploads in %s", cfg.Addr, cfg.UploadsDir)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
