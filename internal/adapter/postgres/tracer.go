package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
)

const backend = "postgres"

// queryTracer records query duration and failures per statement kind.
type queryTracer struct {
	metrics *metrics.StoreMetrics
}

var _ pgx.QueryTracer = (*queryTracer)(nil)

type traceKey struct{}

type traceStart struct {
	at    time.Time
	query string
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{at: time.Now(), query: statementKind(data.SQL)})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	t.metrics.Observe(backend, start.query, time.Since(start.at).Seconds(), data.Err)
}

// statementKind reduces SQL to its leading keyword to bound label cardinality.
func statementKind(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	kind := strings.ToLower(fields[0])
	switch kind {
	case "select", "insert", "update", "delete", "with":
		return kind
	default:
		return "other"
	}
}
