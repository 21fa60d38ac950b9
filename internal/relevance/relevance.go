// Package relevance judges whether the emoji chosen for a text fit its
// dominant emotion, per emoji and in aggregate.
package relevance

import (
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/lexicon"
)

// MaxEmojis is how many leading emoji are reconciled; later ones are ignored.
const MaxEmojis = 5

// Reconciler maps emoji to sentiment labels through the lexicon.
type Reconciler struct {
	lex *lexicon.Lexicon
}

func NewReconciler(lex *lexicon.Lexicon) *Reconciler {
	return &Reconciler{lex: lex}
}

// Reconcile compares the dominant emotion of scores with each of the first
// MaxEmojis glyphs. It returns nil when there are no emoji.
func (r *Reconciler) Reconcile(scores domain.Scores, emojis []string) *domain.EmojiRelevance {
	if len(emojis) == 0 {
		return nil
	}
	if len(emojis) > MaxEmojis {
		emojis = emojis[:MaxEmojis]
	}

	top, _ := scores.Top()
	textBucket := domain.BucketOf(top)

	details := make([]domain.EmojiRelevanceDetail, 0, len(emojis))
	var total float64
	for _, glyph := range emojis {
		sentiment := r.lex.Sentiment(glyph)
		emojiBucket := domain.BucketOf(sentiment)
		status, score := Pair(textBucket, emojiBucket)
		if sentiment == top {
			status, score = domain.RelevanceVery, 1.0
		}
		total += score
		details = append(details, domain.EmojiRelevanceDetail{
			Emoji:          glyph,
			EmojiSentiment: sentiment,
			EmojiCategory:  emojiBucket,
			TextCategory:   textBucket,
			TextTopEmotion: top,
			Relevance:      status,
			RelevanceScore: domain.Round(score, 2),
		})
	}

	average := total / float64(len(details))
	return &domain.EmojiRelevance{
		EmojiResults:        details,
		TextCategory:        textBucket,
		TextTopEmotion:      top,
		OverallStatus:       Overall(average),
		OverallScore:        domain.Round(average, 2),
		TotalEmojisAnalyzed: len(details),
	}
}

// Pair is the bucket-level verdict for one text/emoji pairing, before the
// exact-label override.
func Pair(text, emoji domain.Bucket) (domain.RelevanceStatus, float64) {
	switch {
	case text == emoji:
		return domain.RelevanceRelevant, 1.0
	case text.Opposes(emoji):
		return domain.RelevanceNone, 0.1
	case emoji == domain.BucketNeutral:
		return domain.RelevanceNeutral, 0.5
	default:
		return domain.RelevanceSomewhat, 0.4
	}
}

// Overall maps an average pair score onto the status ladder.
func Overall(average float64) domain.RelevanceStatus {
	switch {
	case average >= 0.8:
		return domain.RelevanceHighly
	case average >= 0.6:
		return domain.RelevanceRelevant
	case average >= 0.4:
		return domain.RelevanceSomewhat
	case average >= 0.2:
		return domain.RelevanceBarely
	default:
		return domain.RelevanceNone
	}
}

// Summary returns the status and score persisted with an analysis. A nil
// result yields "no emojis" and 0.
func Summary(r *domain.EmojiRelevance) (domain.RelevanceStatus, float64) {
	if r == nil {
		return domain.RelevanceNoEmojis, 0
	}
	return r.OverallStatus, r.OverallScore
}
