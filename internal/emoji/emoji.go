// Package emoji finds emoji in text at grapheme-cluster granularity, so
// multi-code-point glyphs such as ❤️ or 👍🏽 are kept whole.
package emoji

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
	"github.com/rivo/uniseg"
)

// Extractor classifies grapheme clusters as emoji using the lexicon first and
// the Unicode emoji dataset second.
type Extractor struct {
	lex *lexicon.Lexicon
}

func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	return &Extractor{lex: lex}
}

// Extract returns the emoji in text, left to right, duplicates kept.
func (x *Extractor) Extract(text string) []string {
	found, _ := x.Split(text)
	return found
}

// Strip returns text without its emoji, trimmed. The result may be empty.
func (x *Extractor) Strip(text string) string {
	_, rest := x.Split(text)
	return strings.TrimSpace(rest)
}

// Split partitions text into its emoji clusters and the concatenation of
// every other cluster, untrimmed.
func (x *Extractor) Split(text string) ([]string, string) {
	var (
		found []string
		rest  strings.Builder
	)
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		if x.IsEmoji(cluster) {
			found = append(found, cluster)
			continue
		}
		rest.WriteString(cluster)
	}
	return found, rest.String()
}

// IsEmoji reports whether a single grapheme cluster is an emoji.
func (x *Extractor) IsEmoji(cluster string) bool {
	if cluster == "" {
		return false
	}
	if r, size := utf8.DecodeRuneInString(cluster); size == len(cluster) && r < utf8.RuneSelf {
		return false
	}
	if x.lex.Knows(cluster) {
		return true
	}
	_, err := lookup(cluster)
	return err == nil
}

// Describe returns a short textual name for a glyph, suitable for keyword
// scoring. Glyphs the dataset lacks but the lexicon knows describe as
// themselves.
func (x *Extractor) Describe(glyph string) (string, error) {
	info, err := lookup(glyph)
	if err == nil {
		name := info.Slug
		if name == "" {
			name = info.UnicodeName
		}
		return strings.ToLower(strings.ReplaceAll(name, "-", " ")), nil
	}
	if x.lex.Knows(glyph) {
		return glyph, nil
	}
	return "", fmt.Errorf("describe %q: %w", glyph, domain.ErrNotEmoji)
}

func lookup(cluster string) (gomoji.Emoji, error) {
	info, err := gomoji.GetInfo(cluster)
	if err == nil {
		return info, nil
	}
	if normalized := lexicon.Normalize(cluster); normalized != cluster && normalized != "" {
		return gomoji.GetInfo(normalized)
	}
	return gomoji.Emoji{}, err
}
