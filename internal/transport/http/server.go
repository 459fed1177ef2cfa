package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "filesight/internal/app"
	"filesight/internal/bootstrap"
	"filesight/internal/cache"
	"filesight/internal/platform/rabbitmq"
	"filesight/internal/repository"
	"filesight/internal/transport/http/handler"
	"filesight/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/health", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	uploadRepo := repository.NewUploadRepository(app.MySQL)
	insightRepo := repository.NewInsightRepository(app.MySQL)
	eventRepo := repository.NewEventRepository(app.MySQL)

	insightCache := cache.NewInsightCache(
		app.Redis,
		time.Duration(app.Config.Redis.InsightTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.InsightDirtyTTLSeconds)*time.Second,
	)
	eventPublisher := rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		app.Config.Auth.TokenTTL(),
	)
	uploadService := appsvc.NewUploadService(uploadRepo, insightRepo, app.Objects, eventPublisher)
	insightService := appsvc.NewInsightService(uploadRepo, insightRepo, app.Objects, app.Provider, insightCache, eventPublisher)
	activityService := appsvc.NewActivityService(eventRepo)

	authHandler := handler.NewAuthHandler(authService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	insightHandler := handler.NewInsightHandler(insightService)
	activityHandler := handler.NewActivityHandler(activityService)

	authMW := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authMW, authHandler.Me)

	api.POST("/upload", authMW, uploadHandler.Upload)

	uploadsGroup := api.Group("/uploads")
	uploadsGroup.Use(authMW)
	uploadsGroup.GET("", uploadHandler.List)
	uploadsGroup.GET("/:id", uploadHandler.Get)
	uploadsGroup.DELETE("/:id", uploadHandler.Delete)

	insightsGroup := api.Group("/insights")
	insightsGroup.Use(authMW)
	insightsGroup.POST("/analyze", insightHandler.Analyze)
	insightsGroup.GET("/status", insightHandler.Status)
	insightsGroup.GET("/:uploadId", insightHandler.ListByUpload)

	api.GET("/activity", authMW, activityHandler.List)

	return router
}
