package handler

import (
	"strconv"

	"github.com/ChansereyGit/chat-rocket/middleware"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/gin-gonic/gin"
)

// requireUser 取调用者 ID，未认证时直接返回 401
func requireUser(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return 0, false
	}
	return userID, true
}

// pathID 解析路径中的数字 ID
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
