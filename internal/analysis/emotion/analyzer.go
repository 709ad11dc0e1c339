package emotion

import (
	"strings"
)

// NeutralConfidence 是没有任何关键词命中时返回的置信度。
const NeutralConfidence = 0.5

// Match 给出关键词匹配结果。
type Match struct {
	Emotion    Label
	Confidence float64
	Score      int
}

type keywordBucket struct {
	label    Label
	keywords []string
}

// keywordBuckets 的顺序即平局时的优先级：先定义的标签胜出。
var keywordBuckets = []keywordBucket{
	{Joy, []string{"happy", "joy", "great", "wonderful", "amazing", "fantastic", "delighted", "pleased", "cheerful"}},
	{Sadness, []string{"sad", "down", "depressed", "miserable", "unhappy", "gloomy", "heartbroken", "upset"}},
	{Anger, []string{"angry", "mad", "furious", "rage", "hate", "irritated", "frustrated"}},
	{Fear, []string{"scared", "afraid", "terrified", "frightened", "fearful"}},
	{Nervousness, []string{"anxious", "worried", "nervous", "stressed", "concerned", "uneasy"}},
	{Excitement, []string{"excited", "thrilled", "pumped", "energized", "enthusiastic"}},
	{Gratitude, []string{"thank", "grateful", "appreciate", "thanks", "thankful"}},
	{Love, []string{"love", "adore", "cherish", "affection"}},
	{Disappointment, []string{"disappointed", "let down"}},
	{Surprise, []string{"surprised", "shocked", "amazed", "astonished"}},
	{Pride, []string{"proud", "accomplished", "achieved"}},
	{Confusion, []string{"confused", "puzzled", "unclear", "bewildered"}},
	{Curiosity, []string{"curious", "wonder", "interested", "intrigued"}},
	{Disgust, []string{"disgusted", "gross", "revolting"}},
	{Embarrassment, []string{"embarrassed", "ashamed", "humiliated"}},
	{Grief, []string{"grief", "mourning", "loss"}},
	{Remorse, []string{"sorry", "regret", "guilty"}},
	{Relief, []string{"relief", "relieved", "calm"}},
	{Admiration, []string{"admire", "respect", "impressed"}},
	{Amusement, []string{"funny", "hilarious", "amusing", "laugh"}},
	{Approval, []string{"approve", "agree", "correct"}},
	{Caring, []string{"care", "concern", "compassion"}},
	{Desire, []string{"want", "wish", "desire", "crave"}},
	{Disapproval, []string{"disapprove", "disagree", "wrong"}},
	{Optimism, []string{"hope", "optimistic", "positive"}},
	{Realization, []string{"realize", "understand", "aha"}},
}

// Keywords 返回标签关键词的副本
func Keywords(label Label) []string {
	for _, bucket := range keywordBuckets {
		if bucket.label == label {
			return append([]string(nil), bucket.keywords...)
		}
	}
	return nil
}

// Analyze 统计每个标签命中的关键词个数，选出得分最高的标签。
// 置信度为命中数 / 该标签关键词总数（不超过 1）；无命中时返回 neutral 与 0.5。
func Analyze(text string) Match {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return Match{Emotion: Neutral, Confidence: NeutralConfidence}
	}

	best := -1
	bestScore := 0
	for i, bucket := range keywordBuckets {
		score := 0
		for _, word := range bucket.keywords {
			if strings.Contains(normalized, word) {
				score++
			}
		}
		// 严格大于：平局保留先出现的标签。
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return Match{Emotion: Neutral, Confidence: NeutralConfidence}
	}

	bucket := keywordBuckets[best]
	confidence := float64(bestScore) / float64(len(bucket.keywords))
	if confidence > 1 {
		confidence = 1
	}

	return Match{Emotion: bucket.label, Confidence: confidence, Score: bestScore}
}
