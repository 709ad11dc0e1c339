// Package classification 情绪分析的结果类型，每次请求重新生成。
package classification

import (
	analysis "github.com/mindfulai/backend/internal/analysis/emotion"
)

// Method 记录结果来自哪一层。
type Method string

const (
	MethodGPT      Method = "gpt"
	MethodKeyword  Method = "keyword"
	MethodFallback Method = "fallback"
)

// Result 单标签分类结果
type Result struct {
	Emotion    analysis.Label `json:"emotion"`
	Confidence float64        `json:"confidence"`
	Method     Method         `json:"method"`
}

// FromMatch 由关键词匹配结果构造
func FromMatch(match analysis.Match, method Method) Result {
	return Result{Emotion: match.Emotion, Confidence: match.Confidence, Method: method}
}

// Sentiment 情感倾向结果
type Sentiment struct {
	Sentiment  analysis.Polarity `json:"sentiment"`
	Emotion    analysis.Label    `json:"emotion"`
	Confidence float64           `json:"confidence"`
}

// Score 多情绪分解中的一项
type Score struct {
	Emotion analysis.Label `json:"emotion"`
	Score   float64        `json:"score"`
}

// Breakdown 检测到的全部情绪及强度。
type Breakdown struct {
	Emotions   []Score        `json:"emotions"`
	TopEmotion analysis.Label `json:"top_emotion,omitempty"`
	Fallback   bool           `json:"-"`
}
