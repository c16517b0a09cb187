package reports

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streetpulse/streetpulse/internal/classifier"
	"github.com/streetpulse/streetpulse/internal/config"
	"github.com/streetpulse/streetpulse/internal/features/auth"
	"github.com/streetpulse/streetpulse/internal/pkg/ratelimit"
	"github.com/streetpulse/streetpulse/internal/pkg/storage"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, model classifier.Classifier, images storage.Store) {
	repo := NewRepository(db)
	service := NewService(repo, model, images)
	handler := NewHandler(service, repo)

	submitLimiter := ratelimit.New(cfg.SubmitRateLimit, time.Duration(cfg.SubmitRateWindow)*time.Second)

	router.POST("/reports",
		ratelimit.Middleware(submitLimiter),
		auth.Optional(cfg),
		handler.Submit)
	router.GET("/reports", handler.List)
	router.GET("/reports/:id", handler.GetByID)
	router.PATCH("/reports/:id/status", auth.Required(cfg), handler.UpdateStatus)

	router.GET("/stats", handler.OverallStats)
	router.GET("/users/me/stats", auth.Required(cfg), handler.UserStats)
}
