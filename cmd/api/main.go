// @title StreetPulse API
// @version 1.0
// @description Citizen street-issue reporting with image classification and priority scoring
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/streetpulse/streetpulse/docs"
	"github.com/streetpulse/streetpulse/internal/classifier"
	"github.com/streetpulse/streetpulse/internal/config"
	"github.com/streetpulse/streetpulse/internal/database"
	"github.com/streetpulse/streetpulse/internal/middleware"
	"github.com/streetpulse/streetpulse/internal/pkg/response"
	"github.com/streetpulse/streetpulse/internal/pkg/storage"
	"github.com/streetpulse/streetpulse/internal/routes"
)

func main() {
	cfg := config.Load()

	docs.SwaggerInfo.Title = "StreetPulse API"
	docs.SwaggerInfo.Description = "Citizen street-issue reporting with image classification and priority scoring"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Disconnect(context.Background())

	// The artifact is loaded once; every request shares the same read-only
	// classifier. Missing or corrupt artifacts put the process in degraded
	// mode instead of failing startup.
	model := classifier.Select(cfg.ModelPath)

	images, err := buildImageStore(cfg)
	if err != nil {
		log.Fatal("Failed to configure image storage:", err)
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	// Locally stored images are served straight from the upload directory
	if cfg.StorageDriver == "disk" {
		router.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	routes.SetupRoutes(router, db.Database, cfg, model, images)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func buildImageStore(cfg *config.Config) (storage.Store, error) {
	if cfg.StorageDriver == "cloudinary" {
		return storage.NewCloudinaryStore(
			cfg.CloudinaryCloudName,
			cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret,
			cfg.CloudinaryFolder,
		)
	}
	return storage.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL), nil
}
