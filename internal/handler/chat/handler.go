package chat

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mindfulai/backend/internal/core/errx"
	"github.com/mindfulai/backend/internal/model/chat"
	chatService "github.com/mindfulai/backend/internal/service/chat"
	logx "github.com/mindfulai/backend/pkg/logger"
	"github.com/mindfulai/backend/pkg/utils"
)

// Responder 生成对话回复。
type Responder interface {
	Reply(ctx context.Context, req chatService.Request) (chatService.Reply, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	responder Responder
	upgrader  websocket.Upgrader
	readWait  time.Duration
	log       zerolog.Logger
}

// New 创建聊天处理器
func New(responder Responder) *Handler {
	return &Handler{
		responder: responder,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		readWait: pongWait,
		log:      logx.Component("chat"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/ws/chat", h.handleWebSocket)
}

type chatRequest struct {
	Message  string       `json:"message" validate:"required"`
	History  chat.History `json:"history" validate:"dive"`
	UserName string       `json:"userName"`
}

// handleChat 生成回复。远端失败或内部错误时仍返回 200 和模板回复。
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.RespondJSON(w, errx.StatusOf(err), map[string]any{
			"error":   errx.MessageOf(err),
			"success": false,
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.reply(r.Context(), req))
}

// reply 调用 responder，并把 error 与 panic 都转换成兜底回复。
func (h *Handler) reply(ctx context.Context, req chatRequest) (reply chatService.Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%v", rec)
			h.log.Error().Err(err).Msg("chat reply panicked, use template")
			reply = chatService.Recover(req.Message, req.UserName, err)
		}
	}()

	var err error
	reply, err = h.responder.Reply(ctx, chatService.Request{
		Message:  req.Message,
		History:  req.History,
		UserName: req.UserName,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("chat reply failed, use template")
		return chatService.Recover(req.Message, req.UserName, err)
	}
	return reply
}
