package router

import (
	"brightdesk.app/chat/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func ChatRouter(rg *gin.RouterGroup, h *handler.ChatHandler) {
	rg.POST("/chat", h.Converse)
	rg.GET("/chats/:session_id", h.History)
}
