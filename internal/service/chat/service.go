// Package chat 生成陪伴式回复：先识别情绪，再带着最近的对话历史请求远端模型，失败时使用模板回复。
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	analysis "github.com/mindfulai/backend/internal/analysis/emotion"
	"github.com/mindfulai/backend/internal/model/chat"
	"github.com/mindfulai/backend/internal/model/classification"
	"github.com/mindfulai/backend/internal/model/persona"
	"github.com/mindfulai/backend/internal/service/completion"
	logx "github.com/mindfulai/backend/pkg/logger"
)

const (
	// DefaultUserName 在请求没有提供用户名时使用。
	DefaultUserName = "User"

	// RecoveredConfidence 是内部错误后模板回复携带的置信度。
	RecoveredConfidence = 0.5

	replyMaxTokens   = 250
	replyTemperature = 0.9
)

// Completer 是远端补全客户端的最小接口。
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (*completion.Response, error)
}

// Classifier 给出单条文本的主情绪。
type Classifier interface {
	Classify(ctx context.Context, text string) classification.Result
}

// Request 是一次对话请求。
type Request struct {
	Message  string
	History  chat.History
	UserName string
}

// Reply 是对话结果，字段与 HTTP 响应一致。
type Reply struct {
	Response     string         `json:"response"`
	Emotion      analysis.Label `json:"emotion"`
	Confidence   float64        `json:"confidence"`
	Fallback     bool           `json:"fallback"`
	Success      bool           `json:"success"`
	ErrorDetails string         `json:"error_details,omitempty"`
}

// Service 是对话回复服务。
type Service struct {
	completer  Completer
	classifier Classifier
	persona    persona.Persona
	template   prompt.ChatTemplate
	log        zerolog.Logger
}

// NewService 创建对话服务。completer 为 nil 时总是返回模板回复。
func NewService(completer Completer, classifier Classifier, p persona.Persona) *Service {
	return &Service{
		completer:  completer,
		classifier: classifier,
		persona:    p,
		template: prompt.FromMessages(
			schema.FString,
			schema.SystemMessage(systemPrompt),
			schema.MessagesPlaceholder("history", true),
			schema.UserMessage("{query}"),
		),
		log: logx.Component("chat"),
	}
}

// Reply 识别情绪并生成回复。远端失败会被吸收为模板回复；返回 error 只代表内部错误。
func (s *Service) Reply(ctx context.Context, req Request) (Reply, error) {
	name := userName(req.UserName)
	detected := s.classifier.Classify(ctx, req.Message)

	reply := Reply{
		Emotion:    detected.Emotion,
		Confidence: detected.Confidence,
		Success:    true,
	}

	if s.completer == nil {
		reply.Response = FallbackResponse(detected.Emotion, name)
		reply.Fallback = true
		return reply, nil
	}

	messages, err := s.template.Format(ctx, map[string]any{
		"persona_name":  s.persona.Name,
		"persona_title": s.persona.Title,
		"user_name":     name,
		"emotion":       string(detected.Emotion),
		"history":       req.History.Recent(chat.HistoryLimit).Messages(),
		"query":         req.Message,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to render chat prompt: %w", err)
	}

	resp, err := s.completer.Complete(ctx, completion.Request{
		Messages:    messages,
		MaxTokens:   replyMaxTokens,
		Temperature: replyTemperature,
	})
	if err != nil {
		s.log.Warn().
			Str("kind", completion.Kind(err)).
			Str("emotion", string(detected.Emotion)).
			Msg("reply generation failed, use template")
		reply.Response = FallbackResponse(detected.Emotion, name)
		reply.Fallback = true
		return reply, nil
	}

	reply.Response = resp.Content
	return reply, nil
}

// Recover 构造内部错误后的兜底回复：关键词情绪加模板文本。
func Recover(message, name string, cause error) Reply {
	match := analysis.Analyze(message)
	reply := Reply{
		Response:   FallbackResponse(match.Emotion, userName(name)),
		Emotion:    match.Emotion,
		Confidence: RecoveredConfidence,
		Fallback:   true,
		Success:    true,
	}
	if cause != nil {
		reply.ErrorDetails = cause.Error()
	}
	return reply
}

func userName(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return DefaultUserName
}

const systemPrompt = `You are {persona_name}, {persona_title} chatting with {user_name}.
1. Recognize the user's current emotion: {emotion}
2. Respond to their SPECIFIC situation, not just their emotion
3. If they ask for advice or help with a problem, provide actionable suggestions
4. If they share a situation, acknowledge it and offer relevant support
5. Keep responses warm, personal, and helpful (2-4 sentences)
6. Use their name occasionally: {user_name}
- Be warm and human`
