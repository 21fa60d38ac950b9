// Package sqlite persists analysis history in a local SQLite file, for
// single-instance deployments without PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/google/uuid"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/domain"
)

const backend = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS analysis_history (
	id              TEXT PRIMARY KEY,
	text            TEXT NOT NULL,
	joy             REAL NOT NULL DEFAULT 0,
	sadness         REAL NOT NULL DEFAULT 0,
	anger           REAL NOT NULL DEFAULT 0,
	fear            REAL NOT NULL DEFAULT 0,
	surprise        REAL NOT NULL DEFAULT 0,
	love            REAL NOT NULL DEFAULT 0,
	neutral         REAL NOT NULL DEFAULT 0,
	emoji_relevance TEXT NOT NULL,
	relevance_score REAL NOT NULL DEFAULT 0,
	created_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_history_created_at ON analysis_history(created_at DESC, id DESC);
`

// Store implements domain.HistoryRepository on SQLite. Timestamps are stored
// as Unix nanoseconds so ordering and range deletes compare integers.
type Store struct {
	db      *sql.DB
	metrics *metrics.StoreMetrics
}

var _ domain.HistoryRepository = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the schema.
// m may be nil.
func Open(ctx context.Context, path string, m *metrics.StoreMetrics) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writes are serialized by SQLite anyway.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, metrics: m}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, e domain.HistoryEntry) (err error) {
	defer s.track("insert", time.Now(), &err)
	sc := e.Scores
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_history
			(id, text, joy, sadness, anger, fear, surprise, love, neutral, emoji_relevance, relevance_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Text,
		sc[domain.Joy], sc[domain.Sadness], sc[domain.Anger], sc[domain.Fear], sc[domain.Surprise], sc[domain.Love], sc[domain.Neutral],
		string(e.EmojiRelevance), e.RelevanceScore, e.CreatedAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, page, pageSize int) (_ domain.HistoryPage, err error) {
	if page < 1 || pageSize < 1 {
		return domain.HistoryPage{}, fmt.Errorf("invalid page %d of size %d", page, pageSize)
	}
	defer s.track("select", time.Now(), &err)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM analysis_history`).Scan(&total); err != nil {
		return domain.HistoryPage{}, fmt.Errorf("failed to count history: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, joy, sadness, anger, fear, surprise, love, neutral, emoji_relevance, relevance_score, created_at
		FROM analysis_history
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, pageSize, (page-1)*pageSize)
	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0, pageSize)
	for rows.Next() {
		var (
			e       domain.HistoryEntry
			id      string
			status  string
			created int64
		)
		sc := &e.Scores
		if err := rows.Scan(&id, &e.Text,
			&sc[domain.Joy], &sc[domain.Sadness], &sc[domain.Anger], &sc[domain.Fear], &sc[domain.Surprise], &sc[domain.Love], &sc[domain.Neutral],
			&status, &e.RelevanceScore, &created); err != nil {
			return domain.HistoryPage{}, fmt.Errorf("failed to scan history: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return domain.HistoryPage{}, fmt.Errorf("corrupt history id %q: %w", id, err)
		}
		e.EmojiRelevance = domain.RelevanceStatus(status)
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return domain.HistoryPage{}, fmt.Errorf("failed to iterate history: %w", err)
	}

	return domain.HistoryPage{Entries: entries, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (_ int64, err error) {
	defer s.track("delete", time.Now(), &err)
	res, err := s.db.ExecContext(ctx, `DELETE FROM analysis_history WHERE created_at < ?`, cutoff.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) track(query string, start time.Time, errp *error) {
	s.metrics.Observe(backend, query, time.Since(start).Seconds(), *errp)
}
