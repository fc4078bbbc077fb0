package handler

import (
	"net/http"

	"github.com/ChansereyGit/chat-rocket/service"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	msgSvc *service.MessageService
}

func NewMessageHandler(msgSvc *service.MessageService) *MessageHandler {
	return &MessageHandler{msgSvc: msgSvc}
}

// SendMessage 发送私信
// POST /api/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "receiverId and content are required")
		return
	}

	message, err := h.msgSvc.SendMessage(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// GetConversations 会话列表
// GET /api/messages/conversations
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	conversations, err := h.msgSvc.GetConversations(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// GetConversationMessages 与某人的消息历史
// GET /api/messages/conversation/:friendId
func (h *MessageHandler) GetConversationMessages(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}

	messages, err := h.msgSvc.GetConversationMessages(c.Request.Context(), userID, friendID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkAsRead PUT /api/messages/:id/read
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.msgSvc.MarkAsRead(c.Request.Context(), userID, messageID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "message marked as read", nil)
}

// MarkConversationAsRead PUT /api/messages/conversation/:friendId/read
func (h *MessageHandler) MarkConversationAsRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}

	if err := h.msgSvc.MarkConversationAsRead(c.Request.Context(), userID, friendID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "conversation marked as read", nil)
}
