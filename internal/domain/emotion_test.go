package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		in      string
		want    Emotion
		wantErr bool
	}{
		{"joy", Joy, false},
		{" Sadness ", Sadness, false},
		{"NEUTRAL", Neutral, false},
		{"boredom", Neutral, true},
		{"", Neutral, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEmotion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScores_TopBreaksTiesByDeclarationOrder(t *testing.T) {
	var s Scores
	s[Anger] = 0.4
	s[Love] = 0.4
	s[Fear] = 0.1

	top, score := s.Top()
	assert.Equal(t, Anger, top)
	assert.Equal(t, 0.4, score)

	top, _ = Scores{}.Top()
	assert.Equal(t, Joy, top)
}

func TestScores_Validate(t *testing.T) {
	assert.NoError(t, UniformScores().Validate())

	var negative Scores
	negative[Fear] = -0.1
	assert.Error(t, negative.Validate())

	var nan Scores
	nan[Joy] = math.NaN()
	assert.Error(t, nan.Validate())

	var inf Scores
	inf[Love] = math.Inf(1)
	assert.Error(t, inf.Validate())
}

func TestScores_MarshalJSONKeepsLabelOrder(t *testing.T) {
	s := Scores{0.5, 0.25, 0, 0, 0, 0, 0.25}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"joy":0.5,"sadness":0.25,"anger":0,"fear":0,"surprise":0,"love":0,"neutral":0.25}`, string(data))

	var decoded Scores
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)
}

func TestScores_UnmarshalJSON(t *testing.T) {
	var s Scores
	require.NoError(t, json.Unmarshal([]byte(`{"sadness":0.9}`), &s))
	assert.Equal(t, 0.9, s[Sadness])
	assert.Zero(t, s[Joy])

	assert.Error(t, json.Unmarshal([]byte(`{"boredom":0.9}`), &s))
}

func TestScores_Rounded(t *testing.T) {
	s := Scores{0.12345, 0.6666666}
	r := s.Rounded(3)
	assert.Equal(t, 0.123, r[Joy])
	assert.Equal(t, 0.667, r[Sadness])
	assert.Equal(t, 0.12345, s[Joy])
}

func TestBucketOf(t *testing.T) {
	assert.Equal(t, BucketPositive, BucketOf(Joy))
	assert.Equal(t, BucketPositive, BucketOf(Love))
	assert.Equal(t, BucketNegative, BucketOf(Sadness))
	assert.Equal(t, BucketNegative, BucketOf(Anger))
	assert.Equal(t, BucketNegative, BucketOf(Fear))
	assert.Equal(t, BucketNeutral, BucketOf(Surprise))
	assert.Equal(t, BucketNeutral, BucketOf(Neutral))

	assert.True(t, BucketPositive.Opposes(BucketNegative))
	assert.False(t, BucketNeutral.Opposes(BucketNegative))
}

func TestRelevanceStatus_AtLeast(t *testing.T) {
	assert.True(t, RelevanceHighly.AtLeast(RelevanceRelevant))
	assert.True(t, RelevanceRelevant.AtLeast(RelevanceRelevant))
	assert.False(t, RelevanceBarely.AtLeast(RelevanceSomewhat))
	assert.False(t, RelevanceNoEmojis.AtLeast(RelevanceNone))
}

func TestHistoryPage_Pagination(t *testing.T) {
	p := HistoryPage{Page: 1, PageSize: 10, Total: 21}
	assert.Equal(t, 3, p.Pages())
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrev())

	empty := HistoryPage{Page: 1, PageSize: 10}
	assert.Equal(t, 0, empty.Pages())
	assert.False(t, empty.HasNext())
}
