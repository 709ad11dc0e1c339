package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mindfulai/backend/internal/core/errx"
	"github.com/mindfulai/backend/pkg/utils"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
)

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	ID        string      `json:"id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// wsConn 串行化同一连接上的写操作。
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
	log  zerolog.Logger
}

func (c *wsConn) send(msg outgoingMessage) {
	msg.Timestamp = time.Now().Unix()

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.log.Warn().Err(err).Str("type", msg.Type).Msg("websocket write failed")
	}
}

func (c *wsConn) sendError(message string) {
	c.send(outgoingMessage{Type: "error", Data: map[string]string{"message": message}})
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// handleWebSocket 处理WebSocket连接，每个 chat 帧对应一个 reply 帧。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.log.With().Str("conn_id", connID).Logger()
	logger.Info().Msg("websocket connected")
	defer logger.Info().Msg("websocket closed")

	c := &wsConn{conn: conn, log: logger}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(h.readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.readWait))
	})

	go pingLoop(ctx, c)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message")
		} else {
			h.handleMessage(ctx, c, &msg)
		}

		// 生成回复期间不会读取 pong，处理完成后再续期。
		_ = conn.SetReadDeadline(time.Now().Add(h.readWait))
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *wsConn, msg *inboundMessage) {
	switch msg.Type {
	case "ping":
		c.send(outgoingMessage{Type: "pong"})
	case "chat":
		var req chatRequest
		if len(msg.Data) == 0 {
			c.sendError("No message provided")
			return
		}
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("invalid chat payload")
			return
		}
		if err := utils.Validate(&req); err != nil {
			c.sendError(errx.MessageOf(err))
			return
		}
		c.send(outgoingMessage{
			Type: "reply",
			ID:   uuid.NewString(),
			Data: h.reply(ctx, req),
		})
	default:
		c.sendError("unsupported message type: " + msg.Type)
	}
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
