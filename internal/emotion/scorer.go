package emotion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/domain"
)

// Scorer produces the final normalized score map for a text. It asks the
// primary classifier for raw scores, answers any primary failure with the
// heuristic for that call only, and runs the cascade over whichever raw
// scores it got.
type Scorer struct {
	primary   domain.Classifier
	heuristic *Heuristic
	cascade   *Cascade
	metrics   *metrics.AnalysisMetrics
}

// NewScorer builds a Scorer. A nil primary scores every text with the heuristic.
// A nil metrics disables instrumentation.
func NewScorer(primary domain.Classifier, heuristic *Heuristic, cascade *Cascade, m *metrics.AnalysisMetrics) *Scorer {
	return &Scorer{primary: primary, heuristic: heuristic, cascade: cascade, metrics: m}
}

// ModelLoaded reports whether a primary classifier other than the heuristic is wired.
func (s *Scorer) ModelLoaded() bool {
	return s.primary != nil
}

// ClassifierName is the name of the classifier tried first.
func (s *Scorer) ClassifierName() string {
	if s.primary == nil {
		return s.heuristic.Name()
	}
	return s.primary.Name()
}

// Score returns a complete, normalized score map or an error wrapping
// domain.ErrAnalysisFailed. Text that is empty after trimming gets the uniform
// distribution.
func (s *Scorer) Score(ctx context.Context, text string) (domain.Scores, error) {
	if strings.TrimSpace(text) == "" {
		return domain.UniformScores(), nil
	}
	if err := ctx.Err(); err != nil {
		return domain.Scores{}, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}

	start := time.Now()
	raw, source, err := s.raw(ctx, text)
	if err != nil {
		return domain.Scores{}, err
	}

	scores := s.cascade.Apply(raw, text)
	if err := scores.Validate(); err != nil {
		return domain.Scores{}, fmt.Errorf("%w: cascade produced invalid scores: %w", domain.ErrAnalysisFailed, err)
	}

	if s.metrics != nil {
		s.metrics.Analyses.WithLabelValues(source).Inc()
		s.metrics.Duration.Observe(time.Since(start).Seconds())
	}
	return scores, nil
}

func (s *Scorer) raw(ctx context.Context, text string) (domain.Scores, string, error) {
	if s.primary == nil {
		return s.heuristic.Raw(text), s.heuristic.Name(), nil
	}

	scores, err := s.primary.Score(ctx, text)
	reason := "error"
	if err == nil {
		if verr := scores.Validate(); verr != nil {
			err = verr
			reason = "invalid_output"
		}
	}
	if err == nil {
		return scores, s.primary.Name(), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Scores{}, "", fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, ctxErr)
	}

	slog.Warn("Primary classifier failed, falling back to heuristic",
		"classifier", s.primary.Name(), "reason", reason, "error", err)
	if s.metrics != nil {
		s.metrics.Fallbacks.WithLabelValues(reason).Inc()
	}
	return s.heuristic.Raw(text), s.heuristic.Name(), nil
}
