package handler

import (
	"github.com/ChansereyGit/chat-rocket/middleware"
	"github.com/ChansereyGit/chat-rocket/service"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/gin-gonic/gin"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	AuthSvc       *service.AuthService
	UserSvc       *service.UserService
	FriendshipSvc *service.FriendshipService
	MessageSvc    *service.MessageService
	JWT           *middleware.JWTManager
	Hub           *PresenceHub // 为 nil 时不注册 /ws/presence
	CORSOrigins   []string
}

// NewRouter 注册全部路由
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.CORS(deps.CORSOrigins))
	r.Use(middleware.IdentityMiddleware(deps.JWT))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{"status": "ok"})
	})

	if deps.Hub != nil {
		r.GET("/ws/presence", HandlePresenceSocket(deps.Hub, deps.JWT))
	}

	authHandler := NewAuthHandler(deps.AuthSvc)
	userHandler := NewUserHandler(deps.UserSvc)
	friendHandler := NewFriendshipHandler(deps.FriendshipSvc)
	msgHandler := NewMessageHandler(deps.MessageSvc)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/health", authHandler.Health)
	}

	users := api.Group("/users")
	{
		users.POST("/status/online", userHandler.SetOnline)
		users.POST("/status/offline", userHandler.SetOffline)
		users.POST("/heartbeat", userHandler.Heartbeat)
		users.GET("/profile", userHandler.GetProfile)
		users.PUT("/profile", userHandler.UpdateProfile)
		users.GET("/:id/presence", userHandler.GetPresence)
	}

	friendships := api.Group("/friendships")
	{
		friendships.POST("/request", friendHandler.SendRequest)
		friendships.PUT("/:id/accept", friendHandler.Accept)
		friendships.DELETE("/:id/reject", friendHandler.Reject)
		friendships.DELETE("/:id", friendHandler.Remove)
		friendships.GET("/friends", friendHandler.ListFriends)
		friendships.GET("/pending", friendHandler.ListPending)
		friendships.GET("/search", friendHandler.Search)
	}

	messages := api.Group("/messages")
	{
		messages.POST("", msgHandler.SendMessage)
		messages.GET("/conversations", msgHandler.GetConversations)
		messages.GET("/conversation/:friendId", msgHandler.GetConversationMessages)
		messages.PUT("/conversation/:friendId/read", msgHandler.MarkConversationAsRead)
		messages.PUT("/:id/read", msgHandler.MarkAsRead)
	}

	return r
}
