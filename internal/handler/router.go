package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mindfulai/backend/internal/handler/chat"
	"github.com/mindfulai/backend/internal/handler/emotion"
	personaHandler "github.com/mindfulai/backend/internal/handler/persona"
	"github.com/mindfulai/backend/internal/handler/system"
	middlewarePkg "github.com/mindfulai/backend/internal/middleware"
	"github.com/mindfulai/backend/internal/model/persona"
)

// Dependencies 汇总路由需要的服务。
type Dependencies struct {
	Emotion        emotion.Service
	Chat           chat.Responder
	Persona        persona.Persona
	System         system.Info
	AllowedOrigins []string
}

// NewRouter 创建路由并挂载各处理器。
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	info := deps.System
	info.WebSocketChat = true

	r.Route("/api", func(api chi.Router) {
		emotion.New(deps.Emotion).RegisterRoutes(api)
		chat.New(deps.Chat).RegisterRoutes(api)
		personaHandler.New(deps.Persona).RegisterRoutes(api)
		system.New(deps.Persona, info).RegisterRoutes(api)
	})

	return r
}
