package handler

import (
	"errors"
	"net/http"
	"strings"

	"elderease/internal/model"
	"elderease/internal/service"
	"elderease/pkg/log"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the save, load and clear endpoints.
type HistoryHandler struct {
	historyService service.HistoryService
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// saveChatBody distinguishes a missing history (rejected) from an empty one (stored).
type saveChatBody struct {
	UserID  string         `json:"userId"`
	History *model.History `json:"history"`
}

// Save handles POST /save-chat.
func (h *HistoryHandler) Save(c *gin.Context) {
	var body saveChatBody
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warnf("invalid save-chat request: %v", err)
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body."})
		return
	}
	if strings.TrimSpace(body.UserID) == "" || body.History == nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "User ID and history are required."})
		return
	}

	if err := h.historyService.Save(c.Request.Context(), body.UserID, *body.History); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to save chat history."})
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Chat history saved successfully."})
}

// Load handles GET /load-chat/:userId. An unknown user gets an empty history.
func (h *HistoryHandler) Load(c *gin.Context) {
	history, err := h.historyService.Load(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, service.ErrMissingUserID) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "User ID is required."})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to load chat history."})
		return
	}
	c.JSON(http.StatusOK, model.LoadChatResponse{History: history})
}

// Clear handles DELETE /clear-chat/:userId.
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.historyService.Clear(c.Request.Context(), c.Param("userId")); err != nil {
		if errors.Is(err, service.ErrMissingUserID) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "User ID is required."})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to clear chat history."})
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Chat history cleared successfully."})
}
