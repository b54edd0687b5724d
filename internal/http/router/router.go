package router

import (
	"brightdesk.app/chat/internal/http/handler"
	"brightdesk.app/chat/internal/http/middleware"
	"brightdesk.app/chat/internal/service"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	WidgetOrigin string
	AdminAPIKey  string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.CORS(cfg.WidgetOrigin))

	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AdminAuth(cfg.AdminAPIKey))
	{
		chatHandler := handler.NewChatHandler(services.Chat())
		ChatRouter(v1, chatHandler)

		leadHandler := handler.NewLeadHandler(services.Leads())
		LeadRouter(v1.Group("/leads"), admin.Group("/leads"), leadHandler)

		intentHandler := handler.NewIntentHandler(services.Intent())
		IntentRouter(v1.Group("/intent"), intentHandler)

		ingestHandler := handler.NewIngestHandler(services.Ingest())
		IngestRouter(admin.Group("/ingest"), ingestHandler)
	}
}
