package domain

// Bucket is the coarse sentiment grouping used by relevance reconciliation.
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNegative Bucket = "negative"
	BucketNeutral  Bucket = "neutral"
)

// BucketOf maps an emotion to its sentiment bucket. The mapping is fixed:
// joy and love are positive; sadness, anger and fear are negative;
// surprise and neutral are neutral.
func BucketOf(e Emotion) Bucket {
	switch e {
	case Joy, Love:
		return BucketPositive
	case Sadness, Anger, Fear:
		return BucketNegative
	default:
		return BucketNeutral
	}
}

// Opposes reports whether one bucket is positive and the other negative.
func (b Bucket) Opposes(other Bucket) bool {
	return (b == BucketPositive && other == BucketNegative) ||
		(b == BucketNegative && other == BucketPositive)
}
