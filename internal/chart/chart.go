// Package chart prepares the emotion distribution for pie-chart rendering.
package chart

import (
	"strings"

	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
)

// MinSliceScore is the smallest score that still gets its own wedge.
const MinSliceScore = 0.01

// Slices returns one wedge per label scoring above MinSliceScore, in label
// order. When nothing survives, or the survivors are negligible, a single
// full Neutral wedge is returned.
func Slices(lex *lexicon.Lexicon, scores domain.Scores) []domain.ChartSlice {
	var (
		slices []domain.ChartSlice
		total  float64
	)
	for _, e := range domain.AllEmotions {
		v := scores[e]
		if v <= MinSliceScore {
			continue
		}
		total += v
		slices = append(slices, domain.ChartSlice{Label: title(e.String()), Value: v, Color: lex.Color(e)})
	}
	if len(slices) == 0 || total < MinSliceScore {
		return []domain.ChartSlice{{Label: title(domain.Neutral.String()), Value: 1, Color: lex.Color(domain.Neutral)}}
	}
	return slices
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
