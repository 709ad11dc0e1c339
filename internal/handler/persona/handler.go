package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindfulai/backend/internal/model/persona"
	"github.com/mindfulai/backend/pkg/utils"
)

// Handler persona服务的HTTP处理器
type Handler struct {
	persona persona.Persona
}

// New 创建persona处理器
func New(p persona.Persona) *Handler {
	return &Handler{
		persona: p,
	}
}

// RegisterRoutes 注册persona相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persona", h.handleGetPersona)
}

// handleGetPersona 返回陪伴角色信息
func (h *Handler) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.persona)
}
