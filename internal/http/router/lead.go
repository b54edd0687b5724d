package router

import (
	"brightdesk.app/chat/internal/http/handler"
	"github.com/gin-gonic/gin"
)

// LeadRouter sets up lead routes
// - POST /leads and GET /leads/:session_id are widget-facing
// - the admin route lists all captured leads
func LeadRouter(rg *gin.RouterGroup, adminRg *gin.RouterGroup, h *handler.LeadHandler) {
	rg.POST("", h.Submit)
	rg.GET("/:session_id", h.Get)

	adminRg.GET("", h.List)
}
