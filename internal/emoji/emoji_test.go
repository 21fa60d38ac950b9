package emoji

import (
	"sort"
	"strings"
	"testing"

	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	return NewExtractor(lexicon.MustDefault())
}

func TestExtract(t *testing.T) {
	x := newTestExtractor()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain text, nothing else!", nil},
		{"single", "My dog died today 😊", []string{"😊"}},
		{"adjacent", "tough day... 😔💔 really", []string{"😔", "💔"}},
		{"duplicates kept", "yay 🎉 and 🎉", []string{"🎉", "🎉"}},
		{"variation selector stays attached", "I love you ❤️", []string{"❤️"}},
		{"digits are not emoji", "call 911 now", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Extract(tt.text))
		})
	}
}

func TestStrip(t *testing.T) {
	x := newTestExtractor()

	assert.Equal(t, "My dog died today", x.Strip("My dog died today 😊"))
	assert.Equal(t, "a  b", x.Strip(" a 😔 b 💔"))
	assert.Equal(t, "", x.Strip("😊😊"))
	assert.Equal(t, "no emoji here", x.Strip("  no emoji here "))
}

func TestSplit_PartitionsClusters(t *testing.T) {
	x := newTestExtractor()

	for _, text := range []string{
		"Having a really tough day today... 😔💔 Miss my family so much.",
		"❤️ love ❤ you 👍🏽 café",
		"",
		"🎉",
	} {
		t.Run(text, func(t *testing.T) {
			found, rest := x.Split(text)

			var got []string
			got = append(got, found...)
			got = append(got, clusters(rest)...)
			want := clusters(text)
			sort.Strings(got)
			sort.Strings(want)
			assert.Equal(t, want, got)
			assert.Equal(t, len(text), len(rest)+len(strings.Join(found, "")))
		})
	}
}

func TestIsEmoji(t *testing.T) {
	x := newTestExtractor()

	assert.True(t, x.IsEmoji("😊"))
	assert.True(t, x.IsEmoji("☔"))
	assert.True(t, x.IsEmoji("🦄"))
	assert.False(t, x.IsEmoji("a"))
	assert.False(t, x.IsEmoji("#"))
	assert.False(t, x.IsEmoji("é"))
	assert.False(t, x.IsEmoji(""))
}

func TestDescribe(t *testing.T) {
	x := newTestExtractor()

	desc, err := x.Describe("😊")
	require.NoError(t, err)
	assert.Contains(t, desc, "smiling")
	assert.NotContains(t, desc, "-")

	_, err = x.Describe("x")
	assert.ErrorIs(t, err, domain.ErrNotEmoji)
}

func clusters(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}
