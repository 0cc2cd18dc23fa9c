package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the chat API on r.
func RegisterRoutes(r gin.IRouter, chat *ChatHandler, history *HistoryHandler) {
	r.GET("/health", Health)
	r.POST("/chat", chat.Chat)
	r.POST("/save-chat", history.Save)
	r.GET("/load-chat/:userId", history.Load)
	r.DELETE("/clear-chat/:userId", history.Clear)
}
