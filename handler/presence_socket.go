package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ChansereyGit/chat-rocket/middleware"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	// 单个用户最多同时保持的连接数
	defaultMaxConnectionsPerUser = 10
)

// PresenceUpdater 在线状态写入
type PresenceUpdater interface {
	SetOnline(ctx context.Context, userID uint) error
	SetOffline(ctx context.Context, userID uint) error
	Heartbeat(ctx context.Context, userID uint) error
}

// Client 在线状态 WebSocket 连接
type Client struct {
	ID     uuid.UUID
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *PresenceHub
}

// PresenceHub 按用户统计连接数：第一个连接上线，最后一个断开下线
// 不向其他用户推送任何状态变化
type PresenceHub struct {
	clients map[uint]map[uuid.UUID]*Client
	mu      sync.Mutex

	MaxConnectionsPerUser int

	presence PresenceUpdater
	upgrader websocket.Upgrader
}

func NewPresenceHub(presence PresenceUpdater, allowedOrigins []string) *PresenceHub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &PresenceHub{
		clients:               make(map[uint]map[uuid.UUID]*Client),
		MaxConnectionsPerUser: defaultMaxConnectionsPerUser,
		presence:              presence,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin] || allowed["*"]
			},
		},
	}
}

// Register 登记连接，超过连接数上限时返回 false
func (h *PresenceHub) Register(ctx context.Context, client *Client) bool {
	h.mu.Lock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	if len(h.clients[client.UserID]) >= h.MaxConnectionsPerUser {
		h.mu.Unlock()
		return false
	}
	h.clients[client.UserID][client.ID] = client
	isFirstDevice := len(h.clients[client.UserID]) == 1
	h.mu.Unlock()

	if isFirstDevice {
		if err := h.presence.SetOnline(ctx, client.UserID); err != nil {
			log.Printf("[ERROR] Failed to set user %d online: %v", client.UserID, err)
		}
	}
	return true
}

// Unregister 注销连接，最后一个连接断开时标记下线
func (h *PresenceHub) Unregister(ctx context.Context, client *Client) {
	h.mu.Lock()
	userClients, exists := h.clients[client.UserID]
	if !exists {
		h.mu.Unlock()
		return
	}
	if _, found := userClients[client.ID]; !found {
		h.mu.Unlock()
		return
	}
	delete(userClients, client.ID)
	lastDevice := len(userClients) == 0
	if lastDevice {
		delete(h.clients, client.UserID)
	}
	h.mu.Unlock()

	if lastDevice {
		if err := h.presence.SetOffline(ctx, client.UserID); err != nil {
			log.Printf("[ERROR] Failed to set user %d offline: %v", client.UserID, err)
		}
	}
}

// ConnectionCount 用户当前连接数
func (h *PresenceHub) ConnectionCount(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// presenceFrame 客户端消息格式
type presenceFrame struct {
	Type string `json:"type"` // 'heartbeat'
}

// handleFrame 处理一帧客户端消息，返回需要回写的内容
func (h *PresenceHub) handleFrame(ctx context.Context, userID uint, raw []byte) []byte {
	var frame presenceFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return encodeFrame("error", gin.H{"message": "Invalid JSON format"})
	}

	switch frame.Type {
	case "heartbeat":
		if err := h.presence.Heartbeat(ctx, userID); err != nil {
			log.Printf("[ERROR] Heartbeat failed for user %d: %v", userID, err)
			return encodeFrame("error", gin.H{"message": "heartbeat failed"})
		}
		return encodeFrame("heartbeat_ack", gin.H{"at": time.Now().UTC()})
	default:
		return encodeFrame("error", gin.H{"message": fmt.Sprintf("unsupported type %q", frame.Type)})
	}
}

func encodeFrame(msgType string, data interface{}) []byte {
	payload, _ := json.Marshal(gin.H{"type": msgType, "data": data})
	return payload
}

// HandlePresenceSocket GET /ws/presence?token=
// 浏览器 WebSocket 无法带 Authorization 头，token 走 query 参数
func HandlePresenceSocket(hub *PresenceHub, jwtManager *middleware.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			utils.Unauthorized(c, "missing token")
			return
		}
		userID, _, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			utils.Unauthorized(c, "invalid token")
			return
		}

		conn, err := hub.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ERROR] WebSocket upgrade failed for user %d: %v", userID, err)
			return
		}

		client := &Client{
			ID:     uuid.New(),
			UserID: userID,
			Conn:   conn,
			Send:   make(chan []byte, 16),
			Hub:    hub,
		}

		if !hub.Register(context.Background(), client) {
			log.Printf("[ERROR] User %d exceeds max connections (%d), rejecting", userID, hub.MaxConnectionsPerUser)
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation,
					fmt.Sprintf("Maximum %d devices allowed", hub.MaxConnectionsPerUser)))
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// readPump 读取客户端消息，连接断开时注销
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(context.Background(), c)
		close(c.Send)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(1024)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				log.Printf("[ERROR] User %d WebSocket unexpected close error: %v", c.UserID, err)
			}
			return
		}

		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		if reply := c.Hub.handleFrame(context.Background(), c.UserID, message); reply != nil {
			select {
			case c.Send <- reply:
			default:
				// 写缓冲已满，丢弃回执
			}
		}
	}
}

// writePump 回写消息并定期 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
