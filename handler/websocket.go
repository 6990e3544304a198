package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"dinq_social/middleware"
	"dinq_social/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 生产环境需要检查 Origin
		return true
	},
}

const onlineStatusTTL = 60 * time.Second

// Client WebSocket 客户端
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
	mu     sync.Mutex
	closed bool // Send channel 是否已关闭
}

// Hub 事件推送中心
// 好友请求、评论、点赞等事件通过这里推给在线用户，推送是尽力而为的：
// 用户不在线或通道拥塞都不会影响产生事件的那次操作
type Hub struct {
	// 在线用户 map[userID]map[clientID]*Client（支持多设备）
	clients map[uuid.UUID]map[uuid.UUID]*Client
	mu      sync.RWMutex

	rdb *redis.Client // 可为 nil（不记录在线状态）
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[uuid.UUID]*Client),
		rdb:     rdb,
	}
}

// Event 推送事件格式
type Event struct {
	Type string      `json:"type"` // 'friend_request' | 'request_accepted' | 'new_comment' | 'new_like'
	Data interface{} `json:"data"`
}

// Register 注册客户端
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.clients[client.UserID][client.ID] = client
	deviceCount := len(h.clients[client.UserID])
	h.mu.Unlock()

	if h.rdb != nil {
		ctx := context.Background()
		h.rdb.Set(ctx, "online:"+client.UserID.String(), "1", onlineStatusTTL)
	}

	log.Printf("User %s connected (client: %s), devices: %d", client.UserID, client.ID, deviceCount)
}

// Unregister 注销客户端
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if userClients, exists := h.clients[client.UserID]; exists {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
			if h.rdb != nil {
				ctx := context.Background()
				h.rdb.Del(ctx, "online:"+client.UserID.String())
			}
		}
	}
	h.mu.Unlock()

	client.mu.Lock()
	if !client.closed {
		close(client.Send)
		client.closed = true
	}
	client.mu.Unlock()
}

// PushEvent 推送事件给用户的所有在线设备（service.EventNotifier 实现）
func (h *Hub) PushEvent(userID uuid.UUID, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		log.Printf("[ERROR] Failed to marshal event %s: %v", eventType, err)
		return
	}

	h.mu.RLock()
	userClients := h.clients[userID]
	clientsCopy := make([]*Client, 0, len(userClients))
	for _, client := range userClients {
		clientsCopy = append(clientsCopy, client)
	}
	h.mu.RUnlock()

	for _, client := range clientsCopy {
		select {
		case client.Send <- payload:
		default:
			// 发送通道满了，关闭该设备连接
			log.Printf("[ERROR] Send channel full: user=%s, client=%s, closing connection", userID, client.ID)
			go h.Unregister(client)
		}
	}
}

// IsOnline 检查用户是否在线（至少有一个设备）
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// HandleWebSocket 处理 WebSocket 连接
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从 query 参数获取 token
		tokenString := c.Query("token")
		if tokenString == "" {
			utils.Unauthorized(c, "missing token")
			return
		}

		userID, err := middleware.ValidateToken(tokenString)
		if err != nil {
			utils.Unauthorized(c, "invalid token")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ERROR] WebSocket upgrade failed for user %s: %v", userID, err)
			return
		}

		client := &Client{
			ID:     uuid.New(),
			UserID: userID,
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Hub:    hub,
		}

		hub.Register(client)

		go client.readPump()
		go client.writePump()
	}
}

// readPump 读取客户端消息（只处理心跳，连接保活）
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure) {
				log.Printf("[ERROR] User %s WebSocket unexpected close error: %v", c.UserID, err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		if event.Type == "heartbeat" {
			c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if c.Hub.rdb != nil {
				ctx := context.Background()
				c.Hub.rdb.Set(ctx, "online:"+c.UserID.String(), "1", onlineStatusTTL)
			}
		}
	}
}

// writePump 向客户端写消息，定期 ping 保活
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
