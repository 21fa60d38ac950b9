package domain

// RelevanceStatus is the verdict on how well an emoji fits the text.
type RelevanceStatus string

const (
	RelevanceNone     RelevanceStatus = "not relevant"
	RelevanceBarely   RelevanceStatus = "barely relevant"
	RelevanceSomewhat RelevanceStatus = "somewhat relevant"
	RelevanceRelevant RelevanceStatus = "relevant"
	RelevanceVery     RelevanceStatus = "very relevant"
	RelevanceHighly   RelevanceStatus = "highly relevant"

	// RelevanceNeutral is the pair verdict for an emoji in the neutral bucket.
	RelevanceNeutral RelevanceStatus = "neutral"
	// RelevanceNoEmojis is the aggregate verdict when the text carries no emoji.
	RelevanceNoEmojis RelevanceStatus = "no emojis"
	// RelevanceUnknown marks emoji that were extracted but not reconciled.
	RelevanceUnknown RelevanceStatus = "unknown"
)

var relevanceRank = map[RelevanceStatus]int{
	RelevanceNone:     0,
	RelevanceBarely:   1,
	RelevanceSomewhat: 2,
	RelevanceRelevant: 3,
	RelevanceVery:     4,
	RelevanceHighly:   5,
}

// AtLeast reports whether s ranks at or above other on the ordered ladder.
// Statuses outside the ladder never compare as at least anything.
func (s RelevanceStatus) AtLeast(other RelevanceStatus) bool {
	a, ok := relevanceRank[s]
	if !ok {
		return false
	}
	b, ok := relevanceRank[other]
	if !ok {
		return false
	}
	return a >= b
}

// EmojiRelevanceDetail is the reconciliation record for one emoji.
type EmojiRelevanceDetail struct {
	Emoji          string          `json:"emoji"`
	EmojiSentiment Emotion         `json:"emoji_sentiment"`
	EmojiCategory  Bucket          `json:"emoji_category"`
	TextCategory   Bucket          `json:"text_category"`
	TextTopEmotion Emotion         `json:"text_top_emotion"`
	Relevance      RelevanceStatus `json:"relevance"`
	RelevanceScore float64         `json:"relevance_score"`
}

// EmojiRelevance is the aggregate reconciliation for a piece of text.
type EmojiRelevance struct {
	EmojiResults        []EmojiRelevanceDetail `json:"emoji_results"`
	TextCategory        Bucket                 `json:"text_category"`
	TextTopEmotion      Emotion                `json:"text_top_emotion"`
	OverallStatus       RelevanceStatus        `json:"overall_status"`
	OverallScore        float64                `json:"overall_score"`
	TotalEmojisAnalyzed int                    `json:"total_emojis_analyzed"`
}

// Lookup returns the detail recorded for the given emoji, if any.
func (r *EmojiRelevance) Lookup(emoji string) (EmojiRelevanceDetail, bool) {
	if r == nil {
		return EmojiRelevanceDetail{}, false
	}
	for _, d := range r.EmojiResults {
		if d.Emoji == emoji {
			return d, true
		}
	}
	return EmojiRelevanceDetail{}, false
}
