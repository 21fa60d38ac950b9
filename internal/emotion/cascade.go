package emotion

import (
	"math"
	"strings"

	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
)

const (
	negationFactor = 0.3

	dominanceWordWeight   = 3
	dominancePhraseWeight = 2
	dominanceEmojiWeight  = 2
	dominanceThreshold    = 3
	dominanceJoyFactor    = 0.3
	dominanceSadFactor    = 1.5
	dominanceSadFloor     = 0.4
)

// Rule is one step of the adjustment cascade. Apply must not retain or
// mutate anything outside the returned scores.
type Rule struct {
	Name  string
	Apply func(scores domain.Scores, text string) domain.Scores
}

// Cascade applies context-sensitive corrections to raw classifier scores in a
// fixed order, then normalizes.
type Cascade struct {
	rules []Rule
}

func NewCascade(lex *lexicon.Lexicon) *Cascade {
	return &Cascade{rules: []Rule{
		{Name: "contradiction", Apply: contradiction},
		{Name: "contrastive", Apply: contrastive(lex.ContrastiveMarkers)},
		{Name: "sadness_dominance", Apply: sadnessDominance(lex.SadnessDominance)},
		{Name: "special_phrases", Apply: specialPhrases},
	}}
}

// Rules returns the cascade steps in application order.
func (c *Cascade) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Adjust runs every rule over raw without normalizing.
func (c *Cascade) Adjust(raw domain.Scores, text string) domain.Scores {
	s := raw
	for _, r := range c.rules {
		s = r.Apply(s, text)
	}
	return s
}

// Apply runs the rules and normalizes the result.
func (c *Cascade) Apply(raw domain.Scores, text string) domain.Scores {
	return Normalize(c.Adjust(raw, text))
}

func contradiction(s domain.Scores, text string) domain.Scores {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "not sad") || strings.Contains(lower, "not unhappy") {
		s[domain.Sadness] *= negationFactor
	}
	if strings.Contains(lower, "not happy") || strings.Contains(lower, "not excited") {
		s[domain.Joy] *= negationFactor
	}
	return s
}

// contrastive damps every label by the reduction of the first marker found in
// priority order. At most one marker applies.
func contrastive(markers []lexicon.ContrastiveMarker) func(domain.Scores, string) domain.Scores {
	return func(s domain.Scores, text string) domain.Scores {
		lower := strings.ToLower(text)
		for _, m := range markers {
			if !strings.Contains(lower, m.Marker) {
				continue
			}
			for i := range s {
				s[i] *= 1 - m.Reduction
			}
			break
		}
		return s
	}
}

func sadnessDominance(vocab lexicon.SadnessDominance) func(domain.Scores, string) domain.Scores {
	return func(s domain.Scores, text string) domain.Scores {
		lower := strings.ToLower(text)
		if dominanceScore(vocab, lower, lexicon.Normalize(text)) < dominanceThreshold {
			return s
		}
		if s[domain.Joy] > s[domain.Sadness] {
			s[domain.Joy] *= dominanceJoyFactor
			s[domain.Sadness] *= dominanceSadFactor
		}
		if containsAny(lower, vocab.Indicators) {
			s[domain.Sadness] = math.Max(s[domain.Sadness], dominanceSadFloor)
		}
		return s
	}
}

// IsSadnessDominant reports whether text carries enough strong sadness cues to
// override a joyful reading.
func IsSadnessDominant(lex *lexicon.Lexicon, text string) bool {
	return dominanceScore(lex.SadnessDominance, strings.ToLower(text), lexicon.Normalize(text)) >= dominanceThreshold
}

func dominanceScore(vocab lexicon.SadnessDominance, lower, normalized string) int {
	return dominanceWordWeight*countContained(lower, vocab.StrongWords) +
		dominancePhraseWeight*countContained(lower, vocab.Phrases) +
		dominanceEmojiWeight*countContained(normalized, vocab.Emoji)
}

// specialPhrases applies fixed overrides for a handful of phrases. Every
// override raises or lowers through max/min so it never flips direction.
func specialPhrases(s domain.Scores, text string) domain.Scores {
	lower := strings.ToLower(text)
	has := func(phrases ...string) bool { return containsAny(lower, phrases) }

	if has("miss my family", "missing my family") {
		s[domain.Sadness] = math.Max(s[domain.Sadness], 0.7)
		s[domain.Joy] = math.Max(s[domain.Joy]*0.3, 0.05)
	}
	if has("overwhelming", "too much") {
		s[domain.Sadness] = math.Min(s[domain.Sadness]+0.2, 0.9)
		s[domain.Fear] = math.Min(s[domain.Fear]+0.1, 0.8)
	}
	if has("tough day", "hard day") {
		s[domain.Sadness] = math.Min(s[domain.Sadness]+0.3, 0.9)
	}
	if has("sleep forever", "crawl into bed") {
		s[domain.Sadness] = math.Min(s[domain.Sadness]+0.4, 0.95)
		s[domain.Joy] = math.Max(s[domain.Joy]*0.2, 0.05)
	}
	if has("tough day") && has("miss my family") {
		s[domain.Sadness] = math.Max(s[domain.Sadness], 0.7)
		s[domain.Joy] = math.Max(s[domain.Joy]*0.2, 0.05)
	}
	return s
}
