package chart

import (
	"testing"

	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
	"github.com/stretchr/testify/assert"
)

func TestSlices_FiltersNegligibleScores(t *testing.T) {
	lex := lexicon.MustDefault()

	got := Slices(lex, domain.Scores{0.6, 0.01, 0, 0.011, 0, 0, 0.379})
	assert.Equal(t, []domain.ChartSlice{
		{Label: "Joy", Value: 0.6, Color: "#FFD700"},
		{Label: "Fear", Value: 0.011, Color: "#8A2BE2"},
		{Label: "Neutral", Value: 0.379, Color: "#808080"},
	}, got)
}

func TestSlices_FallsBackToNeutralWedge(t *testing.T) {
	lex := lexicon.MustDefault()
	want := []domain.ChartSlice{{Label: "Neutral", Value: 1, Color: "#808080"}}

	assert.Equal(t, want, Slices(lex, domain.Scores{}))
	assert.Equal(t, want, Slices(lex, domain.Scores{0.005, 0.005}))
}
