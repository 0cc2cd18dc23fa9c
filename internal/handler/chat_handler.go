// Package handler contains the HTTP controllers.
package handler

import (
	"errors"
	"net/http"

	"elderease/internal/model"
	"elderease/internal/service"
	"elderease/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves POST /chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat proxies one message to the generative-language API and returns {response}.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("invalid chat request: %v", err)
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body."})
		return
	}

	reply, err := h.chatService.Reply(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Message is required in the request body."})
			return
		case errors.Is(err, service.ErrMissingUserID):
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "User ID is required for chat history."})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:   "Failed to get response from AI. Please try again.",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{Response: reply})
}
