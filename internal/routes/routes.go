package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streetpulse/streetpulse/internal/classifier"
	"github.com/streetpulse/streetpulse/internal/config"
	"github.com/streetpulse/streetpulse/internal/features/auth"
	"github.com/streetpulse/streetpulse/internal/features/reports"
	"github.com/streetpulse/streetpulse/internal/pkg/storage"
)

// SetupRoutes mounts every feature under /api/v1
func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, model classifier.Classifier, images storage.Store) {
	v1 := router.Group("/api/v1")

	auth.RegisterRoutes(v1, db, cfg)
	reports.RegisterRoutes(v1, db, cfg, model, images)
}
