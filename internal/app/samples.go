package app

import (
	"context"
	"unicode/utf8"

	"github.com/pscheid92/moodmatch/internal/domain"
)

// Sample is a built-in text with a note on the expected outcome.
type Sample struct {
	Text        string
	Description string
}

// RelevanceSamples exercise each branch of emoji relevance reconciliation.
var RelevanceSamples = []Sample{
	{Text: "I'm so happy today! 😊", Description: "Positive text with positive emoji - should be relevant"},
	{Text: "I'm really tired of cleaning up everyone else's mess 😊", Description: "Negative text with positive emoji - should be not relevant"},
	{Text: "This is so frustrating! I hate when this happens 😡", Description: "Negative text with negative emoji - should be relevant"},
	{Text: "I can't believe you did that 😲", Description: "Surprised text with surprise emoji - should be relevant"},
	{Text: "My dog died today 😊", Description: "Very negative text with positive emoji - should be not relevant"},
	{Text: "I love you so much! ❤️", Description: "Loving text with love emoji - should be very relevant"},
}

// ModelSamples cover every label once plus a long mixed-signal text.
var ModelSamples = []string{
	"I am so happy and excited today! 😄",
	"I feel very sad and depressed 😢",
	"This makes me angry! 😡",
	"I'm scared and anxious 😰",
	"Wow! I'm so surprised! 😲",
	"I love you so much! ❤️",
	"This is just normal, nothing special.",
	"Having a really tough day today... 😔💔 Miss my family so much and everything feels overwhelming. The rain outside just makes it worse. ☔️ Just want to crawl into bed and sleep forever.",
}

const samplePreviewRunes = 50

// RelevanceSampleResult is the outcome of one relevance sample. Error is set
// instead of the other outcome fields when the sample failed.
type RelevanceSampleResult struct {
	Text             string                        `json:"text"`
	Description      string                        `json:"description"`
	TopEmotion       *domain.Emotion               `json:"top_emotion,omitempty"`
	EmojisFound      []string                      `json:"emojis_found,omitempty"`
	RelevanceStatus  domain.RelevanceStatus        `json:"relevance_status,omitempty"`
	RelevanceDetails []domain.EmojiRelevanceDetail `json:"relevance_details,omitempty"`
	Error            string                        `json:"error,omitempty"`
}

// ModelSampleResult is the outcome of one model sample.
type ModelSampleResult struct {
	Text            string                        `json:"text"`
	Scores          *domain.Scores                `json:"scores,omitempty"`
	TopEmotion      *domain.TopEmotion            `json:"top_emotion,omitempty"`
	Emojis          []string                      `json:"emojis,omitempty"`
	EmojiRelevance  domain.RelevanceStatus        `json:"emoji_relevance,omitempty"`
	RelevanceDetail []domain.EmojiRelevanceDetail `json:"relevance_details,omitempty"`
	Error           string                        `json:"error,omitempty"`
}

// RunRelevanceSamples evaluates RelevanceSamples. Failures are reported per
// sample and never abort the battery.
func (s *Service) RunRelevanceSamples(ctx context.Context) []RelevanceSampleResult {
	results := make([]RelevanceSampleResult, 0, len(RelevanceSamples))
	for _, sample := range RelevanceSamples {
		r := RelevanceSampleResult{Text: sample.Text, Description: sample.Description}
		res, err := s.Evaluate(ctx, sample.Text)
		if err != nil {
			r.Error = err.Error()
			results = append(results, r)
			continue
		}
		top := res.TopEmotion.Label
		r.TopEmotion = &top
		r.EmojisFound = res.EmojisFound
		r.RelevanceStatus = res.RelevanceStatus()
		if res.EmojiRelevance != nil {
			r.RelevanceDetails = res.EmojiRelevance.EmojiResults
		}
		results = append(results, r)
	}
	return results
}

// RunModelSamples evaluates ModelSamples.
func (s *Service) RunModelSamples(ctx context.Context) []ModelSampleResult {
	results := make([]ModelSampleResult, 0, len(ModelSamples))
	for _, text := range ModelSamples {
		r := ModelSampleResult{Text: samplePreview(text)}
		res, err := s.Evaluate(ctx, text)
		if err != nil {
			r.Error = err.Error()
			results = append(results, r)
			continue
		}
		r.Scores = &res.EmotionScores
		r.TopEmotion = &res.TopEmotion
		r.Emojis = res.EmojisFound
		r.EmojiRelevance = res.RelevanceStatus()
		if res.EmojiRelevance != nil {
			r.RelevanceDetail = res.EmojiRelevance.EmojiResults
		}
		results = append(results, r)
	}
	return results
}

func samplePreview(text string) string {
	if utf8.RuneCountInString(text) <= samplePreviewRunes {
		return text
	}
	return string([]rune(text)[:samplePreviewRunes]) + "..."
}
