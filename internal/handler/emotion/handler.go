package emotion

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	analysis "github.com/mindfulai/backend/internal/analysis/emotion"
	"github.com/mindfulai/backend/internal/core/errx"
	"github.com/mindfulai/backend/internal/middleware"
	"github.com/mindfulai/backend/internal/model/classification"
	logx "github.com/mindfulai/backend/pkg/logger"
	"github.com/mindfulai/backend/pkg/utils"
)

// Service 是情绪识别服务需要提供的能力。
type Service interface {
	Classify(ctx context.Context, text string) classification.Result
	Sentiment(ctx context.Context, text string) classification.Sentiment
	Breakdown(ctx context.Context, text string) (classification.Breakdown, error)
}

// Handler 情绪相关接口的HTTP处理器
type Handler struct {
	svc Service
	log zerolog.Logger
}

// New 创建情绪处理器
func New(svc Service) *Handler {
	return &Handler{svc: svc, log: logx.Component("emotion")}
}

// RegisterRoutes 注册情绪相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/detect-emotion", h.handleDetectEmotion)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JSONRecoverer)
		r.Post("/sentiment-analysis", h.handleSentimentAnalysis)
		r.Post("/emotion-breakdown", h.handleEmotionBreakdown)
	})
}

type textRequest struct {
	Text string `json:"text" validate:"required"`
}

type recoveredResult struct {
	classification.Result
	Error string `json:"error"`
}

// handleDetectEmotion 识别主情绪；内部错误时退回关键词匹配并返回 200。
func (h *Handler) handleDetectEmotion(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.RespondAppError(w, err)
		return
	}

	result, err := h.classify(r.Context(), req.Text)
	if err != nil {
		h.log.Error().Err(err).Msg("detect emotion failed, use keyword fallback")
		utils.RespondJSON(w, http.StatusOK, recoveredResult{
			Result: classification.FromMatch(analysis.Analyze(req.Text), classification.MethodFallback),
			Error:  err.Error(),
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) classify(ctx context.Context, text string) (result classification.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	return h.svc.Classify(ctx, text), nil
}

// handleSentimentAnalysis 返回情感极性
func (h *Handler) handleSentimentAnalysis(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.RespondAppError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.svc.Sentiment(r.Context(), req.Text))
}

// handleEmotionBreakdown 返回多情绪打分
func (h *Handler) handleEmotionBreakdown(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.RespondAppError(w, err)
		return
	}

	breakdown, err := h.svc.Breakdown(r.Context(), req.Text)
	if err != nil {
		utils.RespondAppError(w, errx.Internal(err))
		return
	}

	utils.RespondJSON(w, http.StatusOK, breakdown)
}
