package emotion

// Polarity 情绪标签对应的情感倾向。
type Polarity string

const (
	Positive        Polarity = "positive"
	Negative        Polarity = "negative"
	NeutralPolarity Polarity = "neutral"
)

var positiveLabels = map[Label]struct{}{
	Joy: {}, Excitement: {}, Gratitude: {}, Love: {}, Pride: {}, Admiration: {},
	Amusement: {}, Approval: {}, Caring: {}, Desire: {}, Optimism: {}, Relief: {},
}

var negativeLabels = map[Label]struct{}{
	Sadness: {}, Anger: {}, Fear: {}, Nervousness: {}, Disappointment: {}, Disgust: {},
	Embarrassment: {}, Grief: {}, Remorse: {}, Disapproval: {}, Annoyance: {},
}

// PolarityOf 映射情感倾向，不属于正负集合的标签（包括 neutral）都归为 neutral。
func PolarityOf(label Label) Polarity {
	if _, ok := positiveLabels[label]; ok {
		return Positive
	}
	if _, ok := negativeLabels[label]; ok {
		return Negative
	}
	return NeutralPolarity
}
