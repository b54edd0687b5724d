package router

import (
	"brightdesk.app/chat/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func IntentRouter(rg *gin.RouterGroup, h *handler.IntentHandler) {
	rg.GET("/:session_id", h.Predict)
}
