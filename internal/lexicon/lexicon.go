// Package lexicon loads the word, phrase and emoji tables behind the heuristic
// classifier, the rule cascade and the relevance reconciler.
//
// A Lexicon is built once at startup and shared read-only afterwards; nothing
// in this module mutates it after Parse returns.
package lexicon

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pscheid92/moodmatch/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultDocument []byte

// Term is a keyword or phrase with its weight.
type Term struct {
	Text   string
	Weight float64
}

// Terms keeps keyword weights in document order so sums are reproducible.
type Terms []Term

// UnmarshalYAML decodes a mapping of term to weight without losing key order.
func (t *Terms) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: keywords must be a mapping", node.Line)
	}
	out := make(Terms, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var weight float64
		if err := node.Content[i+1].Decode(&weight); err != nil {
			return fmt.Errorf("line %d: weight for %q: %w", node.Content[i+1].Line, node.Content[i].Value, err)
		}
		out = append(out, Term{Text: strings.ToLower(node.Content[i].Value), Weight: weight})
	}
	*t = out
	return nil
}

// EmotionTable is the keyword table for one label.
type EmotionTable struct {
	Multiplier float64
	Ceiling    float64
	Keywords   Terms
}

// EmojiBoost raises one label when its glyph appears in the text.
type EmojiBoost struct {
	Emoji   string
	Emotion domain.Emotion
	Boost   float64
}

// ContrastiveMarker damps every label when the marker appears in the text.
type ContrastiveMarker struct {
	Marker    string
	Reduction float64
}

// SadnessDominance holds the vocabulary of the sadness-dominance test.
type SadnessDominance struct {
	StrongWords []string
	Phrases     []string
	Emoji       []string
	Indicators  []string
}

// Lexicon is the full set of immutable tables.
type Lexicon struct {
	Emotions           [domain.NumEmotions]EmotionTable
	JoyNegations       []string
	SadnessPhrases     []string
	WeatherWords       []string
	UncertaintyPhrases []string
	NeutralIndicators  []string
	EmojiBoosts        []EmojiBoost
	ContrastiveMarkers []ContrastiveMarker
	SadnessDominance   SadnessDominance

	sentiment   map[string]domain.Emotion
	suggestions [domain.NumEmotions][]string
	colors      [domain.NumEmotions]string
}

type document struct {
	Emotions []struct {
		Label      string  `yaml:"label"`
		Multiplier float64 `yaml:"multiplier"`
		Ceiling    float64 `yaml:"ceiling"`
		Keywords   Terms   `yaml:"keywords"`
	} `yaml:"emotions"`
	JoyNegations       []string `yaml:"joy_negations"`
	SadnessPhrases     []string `yaml:"sadness_phrases"`
	WeatherWords       []string `yaml:"weather_words"`
	UncertaintyPhrases []string `yaml:"uncertainty_phrases"`
	NeutralIndicators  []string `yaml:"neutral_indicators"`
	EmojiBoosts        []struct {
		Emoji   string  `yaml:"emoji"`
		Emotion string  `yaml:"emotion"`
		Boost   float64 `yaml:"boost"`
	} `yaml:"emoji_boosts"`
	EmojiSentiment     map[string][]string `yaml:"emoji_sentiment"`
	Suggestions        map[string][]string `yaml:"suggestions"`
	Colors             map[string]string   `yaml:"colors"`
	ContrastiveMarkers []struct {
		Marker    string  `yaml:"marker"`
		Reduction float64 `yaml:"reduction"`
	} `yaml:"contrastive_markers"`
	SadnessDominance struct {
		StrongWords []string `yaml:"strong_words"`
		Phrases     []string `yaml:"phrases"`
		Emoji       []string `yaml:"emoji"`
		Indicators  []string `yaml:"indicators"`
	} `yaml:"sadness_dominance"`
}

// Default parses the embedded lexicon document.
func Default() (*Lexicon, error) {
	return Parse(defaultDocument)
}

// MustDefault is Default for program initialization and tests.
func MustDefault() *Lexicon {
	lex, err := Default()
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded document is invalid: %v", err))
	}
	return lex
}

// Parse builds a Lexicon from a YAML document and validates it.
func Parse(data []byte) (*Lexicon, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode lexicon: %w", err)
	}

	lex := &Lexicon{
		JoyNegations:       lowerAll(doc.JoyNegations),
		SadnessPhrases:     lowerAll(doc.SadnessPhrases),
		WeatherWords:       lowerAll(doc.WeatherWords),
		UncertaintyPhrases: lowerAll(doc.UncertaintyPhrases),
		NeutralIndicators:  lowerAll(doc.NeutralIndicators),
		SadnessDominance: SadnessDominance{
			StrongWords: lowerAll(doc.SadnessDominance.StrongWords),
			Phrases:     lowerAll(doc.SadnessDominance.Phrases),
			Emoji:       normalizeAll(doc.SadnessDominance.Emoji),
			Indicators:  lowerAll(doc.SadnessDominance.Indicators),
		},
		sentiment: make(map[string]domain.Emotion),
	}

	var seen [domain.NumEmotions]bool
	for _, e := range doc.Emotions {
		label, err := domain.ParseEmotion(e.Label)
		if err != nil {
			return nil, fmt.Errorf("emotions: %w", err)
		}
		if seen[label] {
			return nil, fmt.Errorf("emotions: duplicate table for %s", label)
		}
		if e.Ceiling <= 0 || e.Ceiling > 1 {
			return nil, fmt.Errorf("emotions: ceiling for %s must be in (0,1], got %v", label, e.Ceiling)
		}
		if e.Multiplier <= 0 {
			return nil, fmt.Errorf("emotions: multiplier for %s must be positive, got %v", label, e.Multiplier)
		}
		for _, kw := range e.Keywords {
			if kw.Weight < 0 {
				return nil, fmt.Errorf("emotions: negative weight for %s keyword %q", label, kw.Text)
			}
		}
		seen[label] = true
		lex.Emotions[label] = EmotionTable{Multiplier: e.Multiplier, Ceiling: e.Ceiling, Keywords: e.Keywords}
	}
	for _, e := range domain.AllEmotions {
		if !seen[e] {
			return nil, fmt.Errorf("emotions: missing table for %s", e)
		}
	}

	for _, b := range doc.EmojiBoosts {
		label, err := domain.ParseEmotion(b.Emotion)
		if err != nil {
			return nil, fmt.Errorf("emoji_boosts %q: %w", b.Emoji, err)
		}
		if b.Emoji == "" {
			return nil, fmt.Errorf("emoji_boosts: empty glyph for %s", label)
		}
		lex.EmojiBoosts = append(lex.EmojiBoosts, EmojiBoost{Emoji: Normalize(b.Emoji), Emotion: label, Boost: b.Boost})
	}

	for name, glyphs := range doc.EmojiSentiment {
		label, err := domain.ParseEmotion(name)
		if err != nil {
			return nil, fmt.Errorf("emoji_sentiment: %w", err)
		}
		for _, g := range glyphs {
			key := Normalize(g)
			if prev, dup := lex.sentiment[key]; dup && prev != label {
				return nil, fmt.Errorf("emoji_sentiment: %q listed under %s and %s", g, prev, label)
			}
			lex.sentiment[key] = label
		}
	}

	for name, glyphs := range doc.Suggestions {
		label, err := domain.ParseEmotion(name)
		if err != nil {
			return nil, fmt.Errorf("suggestions: %w", err)
		}
		lex.suggestions[label] = glyphs
	}
	if len(lex.suggestions[domain.Neutral]) == 0 {
		return nil, fmt.Errorf("suggestions: neutral set is required")
	}

	for name, color := range doc.Colors {
		label, err := domain.ParseEmotion(name)
		if err != nil {
			return nil, fmt.Errorf("colors: %w", err)
		}
		lex.colors[label] = color
	}
	for _, e := range domain.AllEmotions {
		if lex.colors[e] == "" {
			return nil, fmt.Errorf("colors: missing color for %s", e)
		}
	}

	for _, m := range doc.ContrastiveMarkers {
		if m.Reduction < 0 || m.Reduction > 1 {
			return nil, fmt.Errorf("contrastive_markers: reduction for %q must be in [0,1], got %v", m.Marker, m.Reduction)
		}
		lex.ContrastiveMarkers = append(lex.ContrastiveMarkers, ContrastiveMarker{Marker: strings.ToLower(m.Marker), Reduction: m.Reduction})
	}

	return lex, nil
}

// Sentiment returns the sentiment label of a glyph, defaulting to neutral.
func (l *Lexicon) Sentiment(glyph string) domain.Emotion {
	if e, ok := l.sentiment[Normalize(glyph)]; ok {
		return e
	}
	return domain.Neutral
}

// Knows reports whether the glyph appears in the sentiment or boost tables.
func (l *Lexicon) Knows(glyph string) bool {
	key := Normalize(glyph)
	if key == "" {
		return false
	}
	if _, ok := l.sentiment[key]; ok {
		return true
	}
	for _, b := range l.EmojiBoosts {
		if b.Emoji == key {
			return true
		}
	}
	return false
}

// Suggestions returns the suggested glyphs for a dominant emotion, falling back
// to the neutral set. The returned slice is a copy.
func (l *Lexicon) Suggestions(e domain.Emotion) []string {
	set := l.suggestions[domain.Neutral]
	if e.Valid() && len(l.suggestions[e]) > 0 {
		set = l.suggestions[e]
	}
	return append([]string(nil), set...)
}

// Color returns the chart color of a label.
func (l *Lexicon) Color(e domain.Emotion) string {
	if !e.Valid() {
		return l.colors[domain.Neutral]
	}
	return l.colors[e]
}

// Normalize strips U+FE0F variation selectors so presentation variants of a
// glyph compare equal.
func Normalize(glyph string) string {
	return strings.ReplaceAll(glyph, "\uFE0F", "")
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Normalize(s)
	}
	return out
}
