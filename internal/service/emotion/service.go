// Package emotion 负责情绪识别：优先调用远端模型，失败时回退到本地关键词匹配。
package emotion

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	analysis "github.com/mindfulai/backend/internal/analysis/emotion"
	"github.com/mindfulai/backend/internal/model/classification"
	"github.com/mindfulai/backend/internal/service/completion"
	logx "github.com/mindfulai/backend/pkg/logger"
)

const (
	// ModelConfidence 是远端模型给出合法标签时使用的固定置信度。
	ModelConfidence = 0.9

	classifierMaxTokens   = 10
	classifierTemperature = 0.3
	breakdownMaxTokens    = 150
	breakdownTemperature  = 0.3
)

// Completer 是远端补全客户端的最小接口。
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (*completion.Response, error)
}

// Config 控制情绪识别服务的行为。
type Config struct {
	// Enabled 为 false 时直接使用关键词匹配。
	Enabled bool
}

// Service 实现单标签分类、情感极性与多情绪分解。
type Service struct {
	completer        Completer
	enabled          bool
	classifierPrompt prompt.ChatTemplate
	breakdownPrompt  prompt.ChatTemplate
	breakdownSchema  *completion.ResponseSchema
	fallback         func(text string) analysis.Match
	log              zerolog.Logger
}

// NewService 创建情绪识别服务。completer 为 nil 时所有调用走本地回退。
func NewService(completer Completer, cfg Config) (*Service, error) {
	breakdownSchema, err := completion.NewResponseSchema[breakdownPayload](
		"emotion_breakdown",
		"Every emotion present in the text with an intensity between 0 and 1",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build breakdown schema: %w", err)
	}

	return &Service{
		completer: completer,
		enabled:   cfg.Enabled && completer != nil,
		classifierPrompt: prompt.FromMessages(
			schema.FString,
			schema.SystemMessage(classifierSystemPrompt),
			schema.UserMessage(classifierUserPrompt),
		),
		breakdownPrompt: prompt.FromMessages(
			schema.GoTemplate,
			schema.SystemMessage(breakdownSystemPrompt),
			schema.UserMessage(breakdownUserPrompt),
		),
		breakdownSchema: breakdownSchema,
		fallback:        analysis.Analyze,
		log:             logx.Component("emotion"),
	}, nil
}

// Enabled 返回是否会调用远端模型。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// Classify 返回文本的主情绪。结果标签总是属于固定词表。
func (s *Service) Classify(ctx context.Context, text string) classification.Result {
	if !s.Enabled() {
		return s.keyword(text)
	}

	messages, err := s.classifierPrompt.Format(ctx, map[string]any{
		"labels": analysis.JoinLabels(),
		"text":   text,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("render classifier prompt failed, use keyword fallback")
		return s.keyword(text)
	}

	resp, err := s.completer.Complete(ctx, completion.Request{
		Messages:    messages,
		MaxTokens:   classifierMaxTokens,
		Temperature: classifierTemperature,
	})
	if err != nil {
		s.log.Warn().Str("kind", completion.Kind(err)).Msg("classifier call failed, use keyword fallback")
		return s.keyword(text)
	}

	label, ok := analysis.ParseLabel(resp.Content)
	if !ok {
		s.log.Debug().Str("reply", resp.Content).Msg("classifier reply outside vocabulary, use keyword fallback")
		return s.keyword(text)
	}

	return classification.Result{
		Emotion:    label,
		Confidence: ModelConfidence,
		Method:     classification.MethodGPT,
	}
}

// Sentiment 把主情绪映射为 positive / negative / neutral。
func (s *Service) Sentiment(ctx context.Context, text string) classification.Sentiment {
	result := s.Classify(ctx, text)
	return classification.Sentiment{
		Sentiment:  analysis.PolarityOf(result.Emotion),
		Emotion:    result.Emotion,
		Confidence: result.Confidence,
	}
}

// Breakdown 请求多情绪打分；远端失败或结果无法解析时返回单条目的分类结果。
// 只有提示词渲染这类内部错误才会返回 error。
func (s *Service) Breakdown(ctx context.Context, text string) (classification.Breakdown, error) {
	if s.Enabled() {
		messages, err := s.breakdownPrompt.Format(ctx, map[string]any{"text": text})
		if err != nil {
			return classification.Breakdown{}, fmt.Errorf("failed to render breakdown prompt: %w", err)
		}

		resp, err := s.completer.Complete(ctx, completion.Request{
			Messages:    messages,
			MaxTokens:   breakdownMaxTokens,
			Temperature: breakdownTemperature,
			Schema:      s.breakdownSchema,
		})
		switch {
		case err != nil:
			s.log.Warn().Str("kind", completion.Kind(err)).Msg("breakdown call failed, use single emotion")
		default:
			breakdown, perr := ParseBreakdown(resp.Content)
			if perr == nil {
				return breakdown, nil
			}
			s.log.Debug().Err(perr).Msg("breakdown reply unusable, use single emotion")
		}
	}

	result := s.Classify(ctx, text)
	return classification.Breakdown{
		Emotions:   []classification.Score{{Emotion: result.Emotion, Score: result.Confidence}},
		TopEmotion: result.Emotion,
		Fallback:   true,
	}, nil
}

func (s *Service) keyword(text string) classification.Result {
	return classification.FromMatch(s.fallback(text), classification.MethodKeyword)
}

// ErrUnparseable 表示多情绪结果不是可用的 JSON。
var ErrUnparseable = errors.New("emotion breakdown could not be parsed")

type breakdownEntry struct {
	Emotion string  `json:"emotion" jsonschema:"description=Emotion label in lower case"`
	Score   float64 `json:"score" jsonschema:"description=Intensity between 0 and 1"`
}

type breakdownPayload struct {
	Emotions []breakdownEntry `json:"emotions"`
}

const classifierSystemPrompt = `You are an emotion detection expert. Analyze the user's message and respond with ONLY the emotion name from this list:
{labels}.

Respond with just the emotion name, nothing else.`

const classifierUserPrompt = "Detect the primary emotion in this message: '{text}'"

const breakdownSystemPrompt = "You are an emotion analysis expert. Analyze the text and identify ALL emotions present with their intensity (0-1 scale). Respond in JSON format only."

const breakdownUserPrompt = `Analyze emotions in: '{{.text}}'

Respond with JSON: {"emotions": [{"emotion": "joy", "score": 0.9}, ...]}`
