package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChansereyGit/chat-rocket/config"
	"github.com/ChansereyGit/chat-rocket/handler"
	"github.com/ChansereyGit/chat-rocket/middleware"
	"github.com/ChansereyGit/chat-rocket/repository"
	"github.com/ChansereyGit/chat-rocket/repository/memory"
	"github.com/ChansereyGit/chat-rocket/service"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	// 服务端统一使用 UTC
	time.Local = time.UTC
}

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if cfg.JWTSecret == "" {
		if cfg.GinMode == gin.ReleaseMode {
			log.Fatal("JWT_SECRET is required in release mode")
		}
		log.Println("[WARN] JWT_SECRET not set, using an insecure development secret")
		cfg.JWTSecret = "chatflow-dev-secret"
	}

	var (
		users       service.UserStore
		friendships service.FriendshipStore
		messages    service.MessageStore
		settings    service.SettingsStore
	)

	if cfg.DatabaseURL != "" {
		db, err := utils.OpenDB(utils.DBOptions{
			URL:          cfg.DatabaseURL,
			MaxOpenConns: 50,
			MaxIdleConns: 10,
		})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer utils.CloseDB(db)

		if cfg.AutoMigrate {
			if err := repository.AutoMigrate(db); err != nil {
				log.Fatalf("Failed to migrate database: %v", err)
			}
		}

		users = repository.NewUserRepository(db)
		friendships = repository.NewFriendshipRepository(db)
		messages = repository.NewMessageRepository(db)
		settings = repository.NewSettingsRepository(db)
	} else {
		log.Println("[WARN] DATABASE_URL not set, using in-memory store (data is lost on restart)")
		users = memory.NewUserStore()
		friendships = memory.NewFriendshipStore()
		messages = memory.NewMessageStore()
		settings = memory.NewSettingsStore()
	}

	sysSvc := service.NewSystemSettingsService(settings)
	if err := sysSvc.LoadSettings(context.Background()); err != nil {
		log.Printf("[WARN] Failed to load system settings: %v", err)
	}

	userSvc := service.NewUserService(users)
	if cfg.RedisURL != "" {
		rdb, err := utils.OpenRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		userSvc = service.NewUserServiceWithRedis(users, utils.NewRedisAdapter(rdb), sysSvc, cfg.PresenceTTL)
	}

	jwtManager := middleware.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	router := handler.NewRouter(handler.RouterDeps{
		AuthSvc:       service.NewAuthService(users, jwtManager),
		UserSvc:       userSvc,
		FriendshipSvc: service.NewFriendshipService(friendships, users),
		MessageSvc:    service.NewMessageService(messages, users),
		JWT:           jwtManager,
		Hub:           handler.NewPresenceHub(userSvc, cfg.CORSOrigins),
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 chatflow service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server shutdown: %v", err)
	}
	log.Println("Server stopped")
}
