package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fasting/backend/internal/handler"
	"fasting/backend/internal/metrics"
	"fasting/backend/internal/middleware"
	"fasting/backend/internal/service"
)

func New(
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	fastingHandler *handler.FastingHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	fasting := api.Group("/fasting")
	fasting.Use(middleware.Auth(authService))
	fasting.GET("/settings", fastingHandler.GetSettings)
	fasting.PUT("/settings", fastingHandler.SaveSettings)
	fasting.GET("/phase", fastingHandler.GetPhase)
	fasting.GET("/phase/stream", fastingHandler.StreamPhase)
	fasting.GET("/session", fastingHandler.GetCurrentSession)
	fasting.POST("/session/start", fastingHandler.StartSession)
	fasting.POST("/session/end", fastingHandler.EndSession)
	fasting.GET("/history", fastingHandler.GetHistory)
	fasting.GET("/stats", fastingHandler.GetStats)
	fasting.GET("/calendar", fastingHandler.GetCalendar)

	return engine
}
