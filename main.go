package main

import (
	"fmt"
	"log"
	"os"

	"github.com/robot-chappi/cloud-storage-chappic-back-end/config"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/database"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/handlers"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/logger"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/middleware"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/models"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/repositories"
	"github.com/robot-chappi/cloud-storage-chappic-back-end/services"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("starting cloud storage service")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	logger.SetLevel(cfg.Log.Level)

	if err := database.InitPostgres(&cfg.Database); err != nil {
		log.Fatalf("init postgres failed: %v", err)
	}

	database.DB.AutoMigrate(
		&models.User{},
		&models.File{},
		&models.Document{},
	)
	log.Println("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	if err := os.MkdirAll(cfg.Storage.UploadRoot, 0o755); err != nil {
		log.Fatalf("create upload root failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	paths := services.StoragePaths{Root: cfg.Storage.UploadRoot}
	serviceContainer := services.NewContainer(repoContainer, paths)
	handlers.SetServices(serviceContainer)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())
	setupRoutes(r, cfg.Storage.UploadRoot)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine, uploadRoot string) {
	r.Static("/uploads", uploadRoot)

	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// Share links work without a token.
	api.GET("/files/:filename", handlers.GetSharedFile)
	api.GET("/documents/:securePath", handlers.GetSharedDocument)
	api.GET("/documents/editable/:securePath", handlers.GetEditableDocument)
	api.PUT("/documents/public/:securePath", handlers.UpdatePublicDocument)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth())
	{
		protected.GET("/users/profile", handlers.GetProfile)
		protected.PATCH("/users/avatar", handlers.UpdateAvatar)
		protected.GET("/users/storage/quota", handlers.GetStorageQuota)

		protected.GET("/files", handlers.ListFiles)
		protected.POST("/files", handlers.UploadFile)
		protected.POST("/files/multiple", handlers.UploadFiles)
		protected.GET("/files/file/:fileId", handlers.GetFile)
		protected.GET("/files/download/:id", handlers.DownloadFile)
		protected.PATCH("/files/toggle-shared/:fileId", handlers.ToggleFileShared)
		protected.PATCH("/files/:id", handlers.RestoreFile)
		protected.DELETE("/files", handlers.RemoveFiles)
		protected.DELETE("/files/permanent", handlers.DeleteFilesPermanent)

		protected.GET("/documents", handlers.ListDocuments)
		protected.POST("/documents", handlers.CreateDocument)
		protected.GET("/documents/document/:documentId", handlers.GetDocument)
		protected.GET("/documents/download/:id", handlers.DownloadDocument)
		protected.PATCH("/documents/save/:id", handlers.SaveDocumentAsFile)
		protected.PATCH("/documents/:id", handlers.RestoreDocument)
		protected.PUT("/documents/:id", handlers.UpdateDocument)
		protected.DELETE("/documents", handlers.RemoveDocuments)
		protected.DELETE("/documents/permanent", handlers.DeleteDocumentsPermanent)
	}
}
