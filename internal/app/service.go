package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/chart"
	"github.com/pscheid92/moodmatch/internal/domain"
	"github.com/pscheid92/moodmatch/internal/emoji"
	"github.com/pscheid92/moodmatch/internal/emotion"
	"github.com/pscheid92/moodmatch/internal/lexicon"
	"github.com/pscheid92/moodmatch/internal/relevance"
)

const (
	// MaxEmojiAnalyses is how many leading emoji are re-scored on their own.
	MaxEmojiAnalyses = 10
	// ScorePrecision is the number of decimals kept in responses and history.
	ScorePrecision = 3
	// HistoryPreviewRunes is the length history texts are truncated to.
	HistoryPreviewRunes = 100
)

// Deps are the collaborators of a Service. History, Cache and the metrics are
// optional.
type Deps struct {
	Lexicon *lexicon.Lexicon
	Scorer  *emotion.Scorer
	History domain.HistoryRepository
	Cache   domain.ResultCache
	Clock   clockwork.Clock

	AnalysisMetrics *metrics.AnalysisMetrics
	HistoryMetrics  *metrics.HistoryMetrics
	CacheMetrics    *metrics.CacheMetrics
}

// Service is the application layer. It runs the analysis pipeline and owns
// history reads and writes.
type Service struct {
	lex         *lexicon.Lexicon
	scorer      *emotion.Scorer
	emojiScorer *emotion.Scorer
	extractor   *emoji.Extractor
	reconciler  *relevance.Reconciler
	history     domain.HistoryRepository
	cache       domain.ResultCache
	group       singleflight.Group
	clock       clockwork.Clock

	analysisMetrics *metrics.AnalysisMetrics
	historyMetrics  *metrics.HistoryMetrics
	cacheMetrics    *metrics.CacheMetrics
}

// NewService wires the pipeline. Emoji descriptions are always scored by the
// heuristic alone.
func NewService(d Deps) *Service {
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		lex:             d.Lexicon,
		scorer:          d.Scorer,
		emojiScorer:     emotion.NewScorer(nil, emotion.NewHeuristic(d.Lexicon), emotion.NewCascade(d.Lexicon), nil),
		extractor:       emoji.NewExtractor(d.Lexicon),
		reconciler:      relevance.NewReconciler(d.Lexicon),
		history:         d.History,
		cache:           d.Cache,
		clock:           clock,
		analysisMetrics: d.AnalysisMetrics,
		historyMetrics:  d.HistoryMetrics,
		cacheMetrics:    d.CacheMetrics,
	}
}

// ModelStatus reports whether a remote model is wired and which classifier
// scores first.
func (s *Service) ModelStatus() (loaded bool, classifier string) {
	return s.scorer.ModelLoaded(), s.scorer.ClassifierName()
}

// HistoryEnabled reports whether analyses are persisted.
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// Analyze runs the full pipeline on text and records the outcome in history.
// A failed history write is logged and leaves HistoryID nil.
func (s *Service) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	result, err := s.cachedAnalysis(ctx, text)
	if err != nil {
		return nil, err
	}

	if s.analysisMetrics != nil {
		s.analysisMetrics.RelevanceVerdicts.WithLabelValues(string(result.RelevanceStatus())).Inc()
	}

	if id, ok := s.record(ctx, result); ok {
		result.HistoryID = &id
	}
	return result, nil
}

// Evaluate runs the pipeline without cache or history.
func (s *Service) Evaluate(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}
	return s.analyze(ctx, text)
}

// History returns one page of past analyses, newest first.
func (s *Service) History(ctx context.Context, page, pageSize int) (domain.HistoryPage, error) {
	if s.history == nil {
		return domain.HistoryPage{}, domain.ErrHistoryUnavailable
	}
	if page < 1 {
		page = 1
	}
	p, err := s.history.List(ctx, page, pageSize)
	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("%w: %w", domain.ErrHistoryUnavailable, err)
	}
	return p, nil
}

// CacheKey is the result cache key for a trimmed text.
func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Preview truncates text for history listings.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= HistoryPreviewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:HistoryPreviewRunes]) + "..."
}

func (s *Service) cachedAnalysis(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	if s.cache == nil {
		return s.analyze(ctx, text)
	}

	key := CacheKey(text)
	v, err, shared := s.group.Do(key, func() (any, error) {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "Result cache read failed", "error", err)
		}
		if ok {
			return cached, nil
		}

		result, err := s.analyze(ctx, text)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, result); err != nil {
			slog.WarnContext(ctx, "Result cache write failed", "error", err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	if shared && s.cacheMetrics != nil {
		s.cacheMetrics.Shared.Inc()
	}

	// Callers sharing a flight must not share the result value.
	out := *v.(*domain.AnalysisResult)
	out.HistoryID = nil
	return &out, nil
}

func (s *Service) analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	emojis, rest := s.extractor.Split(text)
	if emojis == nil {
		emojis = []string{}
	}
	clean := strings.TrimSpace(rest)
	if clean == "" {
		clean = text
	}

	scores, err := s.scorer.Score(ctx, text)
	if err != nil {
		return nil, err
	}

	rel := s.reconciler.Reconcile(scores, emojis)
	top, confidence := scores.Top()

	return &domain.AnalysisResult{
		Text:      text,
		CleanText: clean,
		TopEmotion: domain.TopEmotion{
			Label:      top,
			Confidence: domain.Round(confidence, ScorePrecision),
		},
		EmotionScores:   scores.Rounded(ScorePrecision),
		EmojisFound:     emojis,
		EmojiAnalysis:   s.analyzeEmojis(ctx, emojis, rel),
		EmojiRelevance:  rel,
		SuggestedEmojis: s.lex.Suggestions(top),
		Chart:           chart.Slices(s.lex, scores),
	}, nil
}

// analyzeEmojis scores the description of each leading emoji in isolation.
// Emoji that cannot be described or scored are left out.
func (s *Service) analyzeEmojis(ctx context.Context, emojis []string, rel *domain.EmojiRelevance) []domain.EmojiAnalysis {
	out := make([]domain.EmojiAnalysis, 0, min(len(emojis), MaxEmojiAnalyses))
	for _, glyph := range emojis[:min(len(emojis), MaxEmojiAnalyses)] {
		desc, err := s.extractor.Describe(glyph)
		if err != nil {
			s.skipEmoji(ctx, glyph, err)
			continue
		}
		scores, err := s.emojiScorer.Score(ctx, desc)
		if err != nil {
			s.skipEmoji(ctx, glyph, err)
			continue
		}

		label, confidence := scores.Top()
		analysis := domain.EmojiAnalysis{
			Emoji:      glyph,
			Emotion:    label,
			Confidence: domain.Round(confidence, ScorePrecision),
			Relevance:  domain.RelevanceUnknown,
		}
		if d, ok := rel.Lookup(glyph); ok {
			analysis.Relevance = d.Relevance
			analysis.RelevanceScore = d.RelevanceScore
		}
		out = append(out, analysis)
	}
	return out
}

func (s *Service) skipEmoji(ctx context.Context, glyph string, err error) {
	slog.DebugContext(ctx, "Skipping emoji analysis", "emoji", glyph, "error", err)
	if s.analysisMetrics != nil {
		s.analysisMetrics.EmojiRescoreSkipped.Inc()
	}
}

func (s *Service) record(ctx context.Context, result *domain.AnalysisResult) (string, bool) {
	if s.history == nil {
		return "", false
	}

	status, score := relevance.Summary(result.EmojiRelevance)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	entry := domain.HistoryEntry{
		ID:             id,
		Text:           result.Text,
		Scores:         result.EmotionScores,
		EmojiRelevance: status,
		RelevanceScore: score,
		CreatedAt:      s.clock.Now().UTC(),
	}

	if err := s.history.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "Failed to save analysis history", "error", err)
		s.countWrite("error")
		return "", false
	}
	s.countWrite("ok")
	return id.String(), true
}

func (s *Service) countWrite(result string) {
	if s.historyMetrics != nil {
		s.historyMetrics.Writes.WithLabelValues(result).Inc()
	}
}
