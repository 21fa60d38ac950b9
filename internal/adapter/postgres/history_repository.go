package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pscheid92/moodmatch/internal/domain"
)

const (
	insertHistorySQL = `
		INSERT INTO analysis_history
			(id, text, joy, sadness, anger, fear, surprise, love, neutral, emoji_relevance, relevance_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	countHistorySQL = `SELECT count(*) FROM analysis_history`

	listHistorySQL = `
		SELECT id, text, joy, sadness, anger, fear, surprise, love, neutral, emoji_relevance, relevance_score, created_at
		FROM analysis_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	pruneHistorySQL = `DELETE FROM analysis_history WHERE created_at < $1`
)

// HistoryRepo implements domain.HistoryRepository on PostgreSQL.
type HistoryRepo struct {
	pool *pgxpool.Pool
}

var _ domain.HistoryRepository = (*HistoryRepo)(nil)

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

func (r *HistoryRepo) Save(ctx context.Context, e domain.HistoryEntry) error {
	s := e.Scores
	_, err := r.pool.Exec(ctx, insertHistorySQL,
		e.ID, e.Text,
		s[domain.Joy], s[domain.Sadness], s[domain.Anger], s[domain.Fear], s[domain.Surprise], s[domain.Love], s[domain.Neutral],
		string(e.EmojiRelevance), e.RelevanceScore, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepo) List(ctx context.Context, page, pageSize int) (domain.HistoryPage, error) {
	if page < 1 || pageSize < 1 {
		return domain.HistoryPage{}, fmt.Errorf("invalid page %d of size %d", page, pageSize)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countHistorySQL).Scan(&total); err != nil {
		return domain.HistoryPage{}, fmt.Errorf("failed to count history: %w", err)
	}

	rows, err := r.pool.Query(ctx, listHistorySQL, pageSize, (page-1)*pageSize)
	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("failed to list history: %w", err)
	}
	entries, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("failed to scan history: %w", err)
	}

	return domain.HistoryPage{Entries: entries, Page: page, PageSize: pageSize, Total: total}, nil
}

func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, pruneHistorySQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *HistoryRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanEntry(row pgx.CollectableRow) (domain.HistoryEntry, error) {
	var (
		e      domain.HistoryEntry
		status string
	)
	s := &e.Scores
	err := row.Scan(&e.ID, &e.Text,
		&s[domain.Joy], &s[domain.Sadness], &s[domain.Anger], &s[domain.Fear], &s[domain.Surprise], &s[domain.Love], &s[domain.Neutral],
		&status, &e.RelevanceScore, &e.CreatedAt)
	e.EmojiRelevance = domain.RelevanceStatus(status)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, err
}
