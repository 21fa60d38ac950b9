package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Emotion is one of the fixed emotion labels. The numeric order is the
// declaration order and decides ties wherever a dominant label is picked.
type Emotion int

const (
	Joy Emotion = iota
	Sadness
	Anger
	Fear
	Surprise
	Love
	Neutral
)

// NumEmotions is the size of the closed label set.
const NumEmotions = 7

// AllEmotions lists every label in declaration order.
var AllEmotions = [NumEmotions]Emotion{Joy, Sadness, Anger, Fear, Surprise, Love, Neutral}

var emotionNames = [NumEmotions]string{"joy", "sadness", "anger", "fear", "surprise", "love", "neutral"}

func (e Emotion) String() string {
	if !e.Valid() {
		return "unknown"
	}
	return emotionNames[e]
}

// Valid reports whether e is one of the seven labels.
func (e Emotion) Valid() bool {
	return e >= 0 && int(e) < NumEmotions
}

// ParseEmotion converts a label name (case-insensitive) to an Emotion.
func ParseEmotion(s string) (Emotion, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range emotionNames {
		if n == name {
			return Emotion(i), nil
		}
	}
	return Neutral, fmt.Errorf("unknown emotion label %q", s)
}

func (e Emotion) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid emotion %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *Emotion) UnmarshalText(text []byte) error {
	parsed, err := ParseEmotion(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Scores holds one value per emotion label, indexed by Emotion. Being a fixed
// array, a Scores value always carries exactly the seven labels.
type Scores [NumEmotions]float64

// UniformScores returns 1/7 for every label.
func UniformScores() Scores {
	var s Scores
	for i := range s {
		s[i] = 1.0 / NumEmotions
	}
	return s
}

// Get returns the score for e.
func (s Scores) Get(e Emotion) float64 {
	return s[e]
}

// Sum returns the total over all labels.
func (s Scores) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// Top returns the dominant label and its score. Ties go to the label declared
// first (stable left-to-right scan, first max wins).
func (s Scores) Top() (Emotion, float64) {
	top := Joy
	best := s[Joy]
	for _, e := range AllEmotions[1:] {
		if s[e] > best {
			top, best = e, s[e]
		}
	}
	return top, best
}

// Validate checks that every value is a finite, non-negative number.
func (s Scores) Validate() error {
	for _, e := range AllEmotions {
		v := s[e]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("score for %s is not finite", e)
		}
		if v < 0 {
			return fmt.Errorf("score for %s is negative: %v", e, v)
		}
	}
	return nil
}

// Rounded returns a copy with every value rounded to the given number of
// decimal places. Intended for presentation only.
func (s Scores) Rounded(places int) Scores {
	var out Scores
	for i, v := range s {
		out[i] = Round(v, places)
	}
	return out
}

// Map returns the scores keyed by label name.
func (s Scores) Map() map[string]float64 {
	m := make(map[string]float64, NumEmotions)
	for _, e := range AllEmotions {
		m[e.String()] = s[e]
	}
	return m
}

// MarshalJSON encodes the scores as an object whose keys follow declaration order.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range AllEmotions {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, err := json.Marshal(s[e])
		if err != nil {
			return nil, fmt.Errorf("encode %s score: %w", e, err)
		}
		fmt.Fprintf(&buf, "%q:%s", e.String(), v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of label scores. Missing labels become zero;
// unknown labels are rejected.
func (s *Scores) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Scores
	for name, v := range raw {
		e, err := ParseEmotion(name)
		if err != nil {
			return err
		}
		out[e] = v
	}
	*s = out
	return nil
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
