package emotion

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
)

const (
	negatedJoyScore = 0.1

	sadnessPhraseBonus = 0.3
	weatherBonus       = 0.2

	exclamationThreshold = 2
	exclamationStep      = 0.1
	exclamationCap       = 0.3

	uncertaintyBonus = 0.2

	questionStep = 0.1
	questionCap  = 0.3

	shortTextRunes    = 10
	shortTextNeutral  = 0.8
	neutralWordWeight = 0.05

	emojiDamping = 0.8
)

// Heuristic scores text from keyword, punctuation and emoji cues. It never
// fails and needs no external resources.
type Heuristic struct {
	lex *lexicon.Lexicon
}

func NewHeuristic(lex *lexicon.Lexicon) *Heuristic {
	return &Heuristic{lex: lex}
}

func (h *Heuristic) Name() string { return "heuristic" }

// Score implements domain.Classifier.
func (h *Heuristic) Score(_ context.Context, text string) (domain.Scores, error) {
	return h.Raw(text), nil
}

// Raw returns the unnormalized per-label scores for text.
func (h *Heuristic) Raw(text string) domain.Scores {
	lower := strings.ToLower(text)

	var s domain.Scores
	s[domain.Joy] = h.joy(lower)
	s[domain.Sadness] = h.sadness(lower)
	s[domain.Anger] = h.anger(lower)
	s[domain.Fear] = h.fear(lower)
	s[domain.Surprise] = h.surprise(lower)
	s[domain.Love] = h.capped(domain.Love, h.keywordSum(domain.Love, lower))
	s[domain.Neutral] = h.neutral(text, lower)

	return h.boostEmoji(s, text)
}

func (h *Heuristic) joy(lower string) float64 {
	if containsAny(lower, h.lex.JoyNegations) {
		return negatedJoyScore
	}
	return h.capped(domain.Joy, h.keywordSum(domain.Joy, lower))
}

func (h *Heuristic) sadness(lower string) float64 {
	sum := h.keywordSum(domain.Sadness, lower)
	sum += sadnessPhraseBonus * float64(countContained(lower, h.lex.SadnessPhrases))
	if containsAny(lower, h.lex.WeatherWords) {
		sum += weatherBonus
	}
	return h.capped(domain.Sadness, sum)
}

func (h *Heuristic) anger(lower string) float64 {
	var bonus float64
	if n := strings.Count(lower, "!"); n > exclamationThreshold {
		bonus = math.Min(exclamationStep*float64(n), exclamationCap)
	}
	return h.cappedWithBonus(domain.Anger, h.keywordSum(domain.Anger, lower), bonus)
}

func (h *Heuristic) fear(lower string) float64 {
	var bonus float64
	if containsAny(lower, h.lex.UncertaintyPhrases) {
		bonus = uncertaintyBonus
	}
	return h.cappedWithBonus(domain.Fear, h.keywordSum(domain.Fear, lower), bonus)
}

func (h *Heuristic) surprise(lower string) float64 {
	bonus := math.Min(questionStep*float64(strings.Count(lower, "?")), questionCap)
	return h.cappedWithBonus(domain.Surprise, h.keywordSum(domain.Surprise, lower), bonus)
}

func (h *Heuristic) neutral(text, lower string) float64 {
	if utf8.RuneCountInString(text) < shortTextRunes {
		return shortTextNeutral
	}
	var hits int
	for _, word := range strings.Fields(lower) {
		for _, indicator := range h.lex.NeutralIndicators {
			if word == indicator {
				hits++
				break
			}
		}
	}
	return math.Min(neutralWordWeight*float64(hits), h.lex.Emotions[domain.Neutral].Ceiling)
}

// boostEmoji applies each known glyph once, in lexicon order: its label gains
// the boost and every other label is damped.
func (h *Heuristic) boostEmoji(s domain.Scores, text string) domain.Scores {
	normalized := lexicon.Normalize(text)
	for _, b := range h.lex.EmojiBoosts {
		if !strings.Contains(normalized, b.Emoji) {
			continue
		}
		s[b.Emotion] += b.Boost
		for _, e := range domain.AllEmotions {
			if e != b.Emotion {
				s[e] *= emojiDamping
			}
		}
	}
	return s
}

func (h *Heuristic) keywordSum(e domain.Emotion, lower string) float64 {
	var sum float64
	for _, kw := range h.lex.Emotions[e].Keywords {
		if strings.Contains(lower, kw.Text) {
			sum += kw.Weight
		}
	}
	return sum
}

// capped scales a keyword sum by the label multiplier and clamps it to the
// label ceiling.
func (h *Heuristic) capped(e domain.Emotion, sum float64) float64 {
	t := h.lex.Emotions[e]
	return math.Min(sum*t.Multiplier, t.Ceiling)
}

// cappedWithBonus adds a bonus after the multiplier, then clamps.
func (h *Heuristic) cappedWithBonus(e domain.Emotion, sum, bonus float64) float64 {
	t := h.lex.Emotions[e]
	return math.Min(sum*t.Multiplier+bonus, t.Ceiling)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func countContained(s string, subs []string) int {
	var n int
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			n++
		}
	}
	return n
}
