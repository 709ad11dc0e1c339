package chat

import (
	"strings"

	analysis "github.com/mindfulai/backend/internal/analysis/emotion"
)

const namePlaceholder = "{name}"

// fallbackTemplates 在远端模型不可用时使用，{name} 会被替换为用户名。
var fallbackTemplates = map[analysis.Label]string{
	analysis.Joy:            "{name}, I can feel your happiness! What's bringing you this joy?",
	analysis.Sadness:        "{name}, I'm here for you. Tell me what's on your mind.",
	analysis.Anger:          "{name}, I understand you're frustrated. Let's talk about it.",
	analysis.Fear:           "{name}, it's okay to feel scared. I'm here with you.",
	analysis.Nervousness:    "{name}, anxiety can be overwhelming. Let's work through this together.",
	analysis.Excitement:     "{name}, your excitement is contagious! Tell me more!",
	analysis.Gratitude:      "{name}, your gratitude is beautiful. What are you thankful for?",
	analysis.Love:           "{name}, that's so heartwarming! Share more with me.",
	analysis.Disappointment: "{name}, I hear that you're disappointed. Want to talk about it?",
	analysis.Surprise:       "{name}, wow! That sounds surprising! Tell me more.",
	analysis.Pride:          "{name}, you should be proud! Share your accomplishment with me.",
	analysis.Confusion:      "{name}, let's work through this confusion together.",
	analysis.Curiosity:      "{name}, I love your curiosity! What are you wondering about?",
	analysis.Grief:          "{name}, I'm so sorry you're going through this. I'm here to listen.",
	analysis.Admiration:     "{name}, it's wonderful that you appreciate that! Tell me more.",
	analysis.Relief:         "{name}, I'm glad you're feeling better! What changed?",
	analysis.Neutral:        "{name}, I'm here to listen. Tell me more about what's on your mind.",
}

// FallbackResponse 返回 label 对应的模板回复，没有模板的标签使用 neutral。
func FallbackResponse(label analysis.Label, name string) string {
	template, ok := fallbackTemplates[label]
	if !ok {
		template = fallbackTemplates[analysis.Neutral]
	}
	return strings.ReplaceAll(template, namePlaceholder, name)
}
