package emotion

import (
	"encoding/json"
	"fmt"
	"strings"

	analysis "github.com/mindfulai/backend/internal/analysis/emotion"
	"github.com/mindfulai/backend/internal/model/classification"
)

// ParseBreakdown 解析模型返回的多情绪 JSON。
// 允许前后有多余文本（例如代码块标记），词表外的标签会被丢弃，分数截断到 [0,1]。
func ParseBreakdown(content string) (classification.Breakdown, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return classification.Breakdown{}, fmt.Errorf("%w: missing json object", ErrUnparseable)
	}

	var payload breakdownPayload
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return classification.Breakdown{}, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}

	scores := make([]classification.Score, 0, len(payload.Emotions))
	for _, entry := range payload.Emotions {
		label, ok := analysis.ParseLabel(entry.Emotion)
		if !ok {
			continue
		}
		scores = append(scores, classification.Score{Emotion: label, Score: clampScore(entry.Score)})
	}
	if len(scores) == 0 {
		return classification.Breakdown{}, fmt.Errorf("%w: no known emotions", ErrUnparseable)
	}

	top := scores[0]
	for _, score := range scores[1:] {
		if score.Score > top.Score {
			top = score
		}
	}

	return classification.Breakdown{Emotions: scores, TopEmotion: top.Emotion}, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
