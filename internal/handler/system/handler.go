package system

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindfulai/backend/internal/model/persona"
	"github.com/mindfulai/backend/pkg/utils"
)

// Info 描述当前使用的模型后端。
type Info struct {
	Provider         string
	Model            string
	APIKeyConfigured bool
	WebSocketChat    bool
}

// Handler 健康检查与能力查询的HTTP处理器
type Handler struct {
	persona persona.Persona
	info    Info
}

// New 创建系统处理器
func New(p persona.Persona, info Info) *Handler {
	return &Handler{persona: p, info: info}
}

// RegisterRoutes 注册系统路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/models", h.handleModels)
}

type healthResponse struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	Version          string `json:"version"`
	AIProvider       string `json:"ai_provider"`
	Model            string `json:"model"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		Service:          h.persona.Service,
		Version:          h.persona.Version,
		AIProvider:       h.info.Provider,
		Model:            h.info.Model,
		APIKeyConfigured: h.info.APIKeyConfigured,
	})
}

type modelsResponse struct {
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Features map[string]bool `json:"features"`
}

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, modelsResponse{
		Provider: h.info.Provider,
		Model:    h.info.Model,
		Features: map[string]bool{
			"emotion_detection":  true,
			"conversation":       true,
			"sentiment_analysis": true,
			"emotion_breakdown":  true,
			"fallback_mode":      true,
			"context_aware":      true,
			"websocket_chat":     h.info.WebSocketChat,
		},
	})
}
