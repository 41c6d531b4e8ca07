package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"brightonhub/backend/internal/auth/jwt"
	"brightonhub/backend/internal/domain"
)

// MessageType 定义WebSocket消息类型
type MessageType string

const (
	MessageTypeNewMessage MessageType = "message.new"
	MessageTypePing       MessageType = "ping"
	MessageTypePong       MessageType = "pong"
	MessageTypeError      MessageType = "error"
)

// Message 定义WebSocket消息结构
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessageData 新消息推送的数据体
type NewMessageData struct {
	MessageID   string `json:"messageId"`
	ThreadID    string `json:"threadId"`
	SenderName  string `json:"senderName"`
	Subject     string `json:"subject"`
	Preview     string `json:"preview,omitempty"`
	MessageType string `json:"messageType"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"createdAt"`
}

// Client 代表一个WebSocket客户端连接
type Client struct {
	ID     string
	UserID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	log    *zap.Logger
}

// Hub 管理所有WebSocket连接，按用户路由新消息事件。
type Hub struct {
	clients        map[string]*Client            // clientID -> Client
	users          map[string]map[string]*Client // userID -> clientID -> Client
	register       chan *Client
	unregister     chan *Client
	events         chan *userEvent
	mu             sync.RWMutex
	log            *zap.Logger
	allowedOrigins []string
	jwtManager     *jwt.Manager
}

type userEvent struct {
	userID  string
	message *Message
}

// NewHub 创建WebSocket Hub。
func NewHub(allowedOrigins []string, jwtManager *jwt.Manager, log *zap.Logger) *Hub {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Hub{
		clients:        make(map[string]*Client),
		users:          make(map[string]map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		events:         make(chan *userEvent, 256),
		log:            log,
		allowedOrigins: allowedOrigins,
		jwtManager:     jwtManager,
	}
}

// Run 启动Hub，直到上下文取消。
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("websocket hub stopped")
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if h.users[client.UserID] == nil {
				h.users[client.UserID] = make(map[string]*Client)
			}
			h.users[client.UserID][client.ID] = client
			h.mu.Unlock()
			h.log.Info("client registered",
				zap.String("client_id", client.ID),
				zap.String("user_id", client.UserID),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				if clients, exists := h.users[client.UserID]; exists {
					delete(clients, client.ID)
					if len(clients) == 0 {
						delete(h.users, client.UserID)
					}
				}
				delete(h.clients, client.ID)
				close(client.send)
				h.log.Info("client unregistered", zap.String("client_id", client.ID))
			}
			h.mu.Unlock()

		case ev := <-h.events:
			h.deliverToUser(ev.userID, ev.message)

		case <-ticker.C:
			h.pingAllClients()
		}
	}
}

// PublishNewMessage 向接收方的在线连接推送新消息事件。
func (h *Hub) PublishNewMessage(recipientID string, msg *domain.ContactMessage) {
	preview := msg.Message
	if len(preview) > 100 {
		preview = preview[:100]
	}

	data, err := json.Marshal(NewMessageData{
		MessageID:   msg.ID,
		ThreadID:    msg.ThreadID,
		SenderName:  msg.SenderName,
		Subject:     msg.Subject,
		Preview:     preview,
		MessageType: string(msg.MessageType),
		Priority:    string(msg.Priority),
		CreatedAt:   msg.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		h.log.Error("failed to marshal new message data", zap.Error(err))
		return
	}

	ev := &userEvent{
		userID: recipientID,
		message: &Message{
			Type:      MessageTypeNewMessage,
			Data:      data,
			Timestamp: time.Now(),
		},
	}

	select {
	case h.events <- ev:
	default:
		h.log.Warn("event queue full, dropping", zap.String("user_id", recipientID))
	}
}

// deliverToUser 向用户的全部连接投递消息。
func (h *Hub) deliverToUser(userID string, msg *Message) {
	h.mu.RLock()
	clients := h.users[userID]
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("failed to marshal message", zap.Error(err))
		return
	}

	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			// 客户端阻塞，跳过
			h.log.Warn("client channel blocked, skipping", zap.String("client_id", client.ID))
		}
	}
}

// pingAllClients 向所有客户端发送ping
func (h *Hub) pingAllClients() {
	msg := &Message{
		Type:      MessageTypePing,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
		}
	}
}

// closeAllClients 关闭所有客户端连接
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[string]*Client)
	h.users = make(map[string]map[string]*Client)
}

// authenticateClient 认证客户端，仅支持 JWT。
func (h *Hub) authenticateClient(c *gin.Context) (*Client, error) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
	}

	if token == "" {
		return nil, errors.New("missing authentication token")
	}

	claims, err := h.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return &Client{
		ID:     uuid.NewString(),
		UserID: claims.UserID,
		log:    h.log,
	}, nil
}

// upgraderFactory 创建带有 Origin 验证的 WebSocket 升级器
func upgraderFactory(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			for _, origin := range allowedOrigins {
				if origin == "*" {
					return true
				}
			}

			requestOrigin := r.Header.Get("Origin")
			if requestOrigin == "" {
				return true
			}

			for _, origin := range allowedOrigins {
				if requestOrigin == origin {
					return true
				}
			}
			return false
		},
	}
}

// HandleWebSocket 处理WebSocket连接
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	upgrader := upgraderFactory(hub.allowedOrigins)

	return func(c *gin.Context) {
		client, err := hub.authenticateClient(c)
		if err != nil {
			hub.log.Warn("websocket authentication failed",
				zap.Error(err),
				zap.String("remote_addr", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Error("failed to upgrade connection",
				zap.Error(err),
				zap.String("remote_addr", c.ClientIP()),
			)
			return
		}

		client.conn = conn
		client.hub = hub
		client.send = make(chan []byte, 256)

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump 处理客户端消息
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error("websocket error", zap.Error(err))
			}
			break
		}

		if msg.Type == MessageTypePong {
			c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		}
	}
}

// writePump 发送消息给客户端
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
