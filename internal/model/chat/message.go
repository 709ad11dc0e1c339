package chat

import (
	"github.com/cloudwego/eino/schema"
)

// 会话角色。
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryLimit 是发送给模型的历史轮次上限。
const HistoryLimit = 8

// Turn 是调用方提供的一条历史消息。内容允许为空，原样转发给模型。
type Turn struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// History 按时间顺序排列，最早的在前。
type History []Turn

// Recent 返回最后 limit 条记录，保持原有顺序。
func (h History) Recent(limit int) History {
	if limit <= 0 || len(h) == 0 {
		return nil
	}
	start := len(h) - limit
	if start < 0 {
		start = 0
	}
	return append(History(nil), h[start:]...)
}

// Messages 把历史转换为模型消息。
func (h History) Messages() []*schema.Message {
	if len(h) == 0 {
		return nil
	}
	messages := make([]*schema.Message, 0, len(h))
	for _, turn := range h {
		messages = append(messages, turn.Message())
	}
	return messages
}

// Message 按角色转换为模型消息，未知角色按 user 处理。
func (t Turn) Message() *schema.Message {
	switch t.Role {
	case RoleSystem:
		return schema.SystemMessage(t.Content)
	case RoleAssistant:
		return schema.AssistantMessage(t.Content, nil)
	default:
		return schema.UserMessage(t.Content)
	}
}
