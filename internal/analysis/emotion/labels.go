package emotion

import "strings"

// Label 表示对外可见的情绪标签，取值限定在 Vocabulary 中。
type Label string

const (
	Joy            Label = "joy"
	Sadness        Label = "sadness"
	Anger          Label = "anger"
	Fear           Label = "fear"
	Nervousness    Label = "nervousness"
	Excitement     Label = "excitement"
	Gratitude      Label = "gratitude"
	Love           Label = "love"
	Disappointment Label = "disappointment"
	Surprise       Label = "surprise"
	Pride          Label = "pride"
	Confusion      Label = "confusion"
	Curiosity      Label = "curiosity"
	Disgust        Label = "disgust"
	Embarrassment  Label = "embarrassment"
	Grief          Label = "grief"
	Remorse        Label = "remorse"
	Relief         Label = "relief"
	Admiration     Label = "admiration"
	Amusement      Label = "amusement"
	Approval       Label = "approval"
	Caring         Label = "caring"
	Desire         Label = "desire"
	Disapproval    Label = "disapproval"
	Optimism       Label = "optimism"
	Realization    Label = "realization"
	Annoyance      Label = "annoyance"
	Neutral        Label = "neutral"
)

// vocabulary 的顺序即提示词中列出标签的顺序。
var vocabulary = []Label{
	Joy, Sadness, Anger, Fear, Nervousness, Excitement, Gratitude, Love, Disappointment,
	Surprise, Pride, Confusion, Curiosity, Disgust, Embarrassment, Grief, Remorse, Relief,
	Admiration, Amusement, Approval, Caring, Desire, Disapproval, Optimism, Realization,
	Annoyance, Neutral,
}

var vocabularySet = func() map[Label]struct{} {
	set := make(map[Label]struct{}, len(vocabulary))
	for _, label := range vocabulary {
		set[label] = struct{}{}
	}
	return set
}()

// Vocabulary 返回标签集合的副本
func Vocabulary() []Label {
	return append([]Label(nil), vocabulary...)
}

// Valid 判断标签是否合法
func Valid(label Label) bool {
	_, ok := vocabularySet[label]
	return ok
}

// ParseLabel 规范化模型输出并校验是否为合法标签。
func ParseLabel(raw string) (Label, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Trim(normalized, "\"'`.!,;: \n\t")
	label := Label(normalized)
	if !Valid(label) {
		return "", false
	}
	return label, true
}

// JoinLabels 以逗号拼接全部标签
func JoinLabels() string {
	parts := make([]string, len(vocabulary))
	for i, label := range vocabulary {
		parts[i] = string(label)
	}
	return strings.Join(parts, ", ")
}
