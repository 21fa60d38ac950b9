package domain

import "context"

// TopEmotion is the dominant label of a score map and its score.
type TopEmotion struct {
	Label      Emotion `json:"label"`
	Confidence float64 `json:"confidence"`
}

// EmojiAnalysis is the isolated re-scoring of one emoji's textual description,
// joined with the relevance verdict recorded for that glyph.
type EmojiAnalysis struct {
	Emoji          string          `json:"emoji"`
	Emotion        Emotion         `json:"emotion"`
	Confidence     float64         `json:"confidence"`
	Relevance      RelevanceStatus `json:"relevance"`
	RelevanceScore float64         `json:"relevance_score"`
}

// ChartSlice is one wedge of the emotion distribution chart.
type ChartSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// AnalysisResult is the full outcome of analysing one text.
type AnalysisResult struct {
	Text            string          `json:"text"`
	CleanText       string          `json:"clean_text"`
	TopEmotion      TopEmotion      `json:"top_emotion"`
	EmotionScores   Scores          `json:"emotion_scores"`
	EmojisFound     []string        `json:"emojis_found"`
	EmojiAnalysis   []EmojiAnalysis `json:"emoji_analysis"`
	EmojiRelevance  *EmojiRelevance `json:"emoji_relevance"`
	SuggestedEmojis []string        `json:"suggested_emojis"`
	Chart           []ChartSlice    `json:"chart"`
	HistoryID       *string         `json:"history_id"`
}

// RelevanceStatus returns the aggregate verdict, or "no emojis" when the text
// carried none.
func (r *AnalysisResult) RelevanceStatus() RelevanceStatus {
	if r.EmojiRelevance == nil {
		return RelevanceNoEmojis
	}
	return r.EmojiRelevance.OverallStatus
}

// Classifier produces raw per-label scores in [0,1] for a text. Scores need
// not sum to one.
type Classifier interface {
	Name() string
	Score(ctx context.Context, text string) (Scores, error)
}
