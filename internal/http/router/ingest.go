package router

import (
	"brightdesk.app/chat/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func IngestRouter(rg *gin.RouterGroup, h *handler.IngestHandler) {
	rg.POST("", h.Enqueue)
}
