package api

import (
	"net/http"

	"supportgenie/backend/internal/models"
	"supportgenie/backend/internal/service"
	"supportgenie/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ChatController handles chat-related API endpoints
type ChatController struct {
	chatService *service.ChatService
}

// NewChatController creates a new chat controller
func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// RegisterRoutesV1 registers the chat routes under the given group
func (c *ChatController) RegisterRoutesV1(group *gin.RouterGroup) {
	group.POST("/chat", c.Chat)
	group.GET("/chat/:sessionId", c.GetHistory)
}

// Chat runs one conversation turn
func (c *ChatController) Chat(ctx *gin.Context) {
	var req models.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(errors.NewBadRequestError("INVALID_INPUT", "Invalid request body"))
		return
	}
	if req.BrandTone == "" {
		req.BrandTone = models.ToneFriendly
	}

	response, err := c.chatService.HandleTurn(ctx.Request.Context(), req)
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetHistory retrieves the messages of a session in ascending time order
func (c *ChatController) GetHistory(ctx *gin.Context) {
	sessionID := ctx.Param("sessionId")

	messages, err := c.chatService.History(ctx.Request.Context(), sessionID)
	if err != nil {
		ctx.Error(err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"messages":   messages,
		"count":      len(messages),
	})
}
