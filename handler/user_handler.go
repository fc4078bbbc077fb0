package handler

import (
	"net/http"

	"github.com/ChansereyGit/chat-rocket/service"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc *service.UserService
}

func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// SetOnline POST /api/users/status/online
func (h *UserHandler) SetOnline(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.userSvc.SetOnline(c.Request.Context(), userID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "online", nil)
}

// SetOffline POST /api/users/status/offline
func (h *UserHandler) SetOffline(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.userSvc.SetOffline(c.Request.Context(), userID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "offline", nil)
}

// Heartbeat POST /api/users/heartbeat
func (h *UserHandler) Heartbeat(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.userSvc.Heartbeat(c.Request.Context(), userID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "ok", nil)
}

// GetPresence GET /api/users/:id/presence
func (h *UserHandler) GetPresence(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	presence, err := h.userSvc.GetPresence(c.Request.Context(), targetID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, presence)
}

// GetProfile GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request body")
		return
	}

	profile, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
