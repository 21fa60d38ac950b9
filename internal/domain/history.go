package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one persisted analysis.
type HistoryEntry struct {
	ID             uuid.UUID
	Text           string
	Scores         Scores
	EmojiRelevance RelevanceStatus
	RelevanceScore float64
	CreatedAt      time.Time
}

// HistoryPage is one page of history, newest first.
type HistoryPage struct {
	Entries  []HistoryEntry
	Page     int
	PageSize int
	Total    int
}

// Pages returns the number of pages needed to show Total entries.
func (p HistoryPage) Pages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p HistoryPage) HasNext() bool { return p.Page < p.Pages() }
func (p HistoryPage) HasPrev() bool { return p.Page > 1 }

type HistoryRepository interface {
	Save(ctx context.Context, entry HistoryEntry) error
	List(ctx context.Context, page, pageSize int) (HistoryPage, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
}

// ResultCache stores finished analyses keyed by a digest of the text.
type ResultCache interface {
	Get(ctx context.Context, key string) (*AnalysisResult, bool, error)
	Set(ctx context.Context, key string, result *AnalysisResult) error
}
