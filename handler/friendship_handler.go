package handler

import (
	"net/http"

	"github.com/ChansereyGit/chat-rocket/service"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/gin-gonic/gin"
)

type FriendshipHandler struct {
	friendSvc *service.FriendshipService
}

func NewFriendshipHandler(friendSvc *service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendSvc: friendSvc}
}

// SendRequest 发送好友请求
// POST /api/friendships/request
func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req struct {
		FriendID uint `json:"friendId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "friendId is required")
		return
	}

	friendship, err := h.friendSvc.SendRequest(c.Request.Context(), userID, req.FriendID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}

// Accept 接受好友请求
// PUT /api/friendships/:id/accept
func (h *FriendshipHandler) Accept(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	friendshipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	friendship, err := h.friendSvc.Accept(c.Request.Context(), userID, friendshipID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, friendship)
}

// Reject 拒绝好友请求
// DELETE /api/friendships/:id/reject
func (h *FriendshipHandler) Reject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	friendshipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.friendSvc.Reject(c.Request.Context(), userID, friendshipID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "friend request rejected", nil)
}

// Remove 删除好友
// DELETE /api/friendships/:id
func (h *FriendshipHandler) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	friendshipID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.friendSvc.RemoveFriend(c.Request.Context(), userID, friendshipID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "friend removed", nil)
}

// ListFriends GET /api/friendships/friends
func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	friends, err := h.friendSvc.ListFriends(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// ListPending GET /api/friendships/pending
func (h *FriendshipHandler) ListPending(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	pending, err := h.friendSvc.ListPending(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// Search GET /api/friendships/search?query=
func (h *FriendshipHandler) Search(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	users, err := h.friendSvc.SearchUsers(c.Request.Context(), userID, c.Query("query"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
