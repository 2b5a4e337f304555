package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatHandler "github.com/zhouzirui/poker-advisor/backend/internal/handler/chat"
	chatModel "github.com/zhouzirui/poker-advisor/backend/internal/model/chat"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/advisor"
)

const (
	defaultReadTimeout = 60 * time.Second
	pingInterval       = 30 * time.Second
	writeTimeout       = 10 * time.Second
)

// Handler WebSocket聊天处理器：每条 chat 帧对应一条 reply 或 error 帧。
type Handler struct {
	advisorSvc *advisor.Service
	logger     *zap.Logger
	readLimit   int64
	readTimeout time.Duration
	upgrader    websocket.Upgrader
}

// New 创建WebSocket处理器。readLimit 限制单帧大小。
func New(advisorSvc *advisor.Service, readLimit int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		advisorSvc: advisorSvc,
		logger:     logger.Named("websocket"),
		readLimit:   readLimit,
		readTimeout: defaultReadTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/chat", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type         string      `json:"type"`
	ConnectionID string      `json:"connectionId"`
	Data         interface{} `json:"data,omitempty"`
	Timestamp    int64       `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	log := h.logger.With(zap.String("connection_id", connID))
	log.Info("connection opened")
	defer log.Info("connection closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}
	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, connID, "connected", map[string]any{"provider": h.advisorSvc.Provider()})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("read error", zap.Error(err))
			}
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.send(conn, connID, "error", chatModel.ErrorResponse{Error: chatHandler.MsgInvalidRequest, Details: err.Error()})
			conn.SetReadDeadline(time.Now().Add(h.readTimeout))
			continue
		}

		h.handleMessage(ctx, conn, connID, &msg)
		// pong 只在读取时处理，Ask 阻塞期间截止时间不会续期
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, connID string, msg *inboundMessage) {
	switch msg.Type {
	case "chat":
		var req chatModel.Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.send(conn, connID, "error", chatModel.ErrorResponse{Error: chatHandler.MsgInvalidRequest, Details: "invalid chat payload"})
			return
		}

		text, err := h.advisorSvc.Ask(ctx, advisor.Input{Message: req.Message, Image: req.Image, PDF: req.PDF})
		if err != nil {
			_, body := chatHandler.MapError(err)
			h.send(conn, connID, "error", body)
			return
		}
		h.send(conn, connID, "reply", chatModel.Response{Text: text})
	case "ping":
		h.send(conn, connID, "pong", nil)
	default:
		h.send(conn, connID, "error", chatModel.ErrorResponse{Error: chatHandler.MsgInvalidRequest, Details: "unsupported message type: " + msg.Type})
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, connID, msgType string, data interface{}) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(outgoingMessage{
		Type:         msgType,
		ConnectionID: connID,
		Data:         data,
		Timestamp:    time.Now().UnixMilli(),
	}); err != nil {
		h.logger.Debug("write failed", zap.String("connection_id", connID), zap.Error(err))
	}
}
