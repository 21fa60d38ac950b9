package redis

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
)

// Instrument attaches the breaker and metrics hooks to rdb. m may be nil.
func Instrument(rdb *goredis.Client, m *metrics.RedisMetrics) {
	rdb.AddHook(NewBreakerHook(BreakerSettings{}, m))
	if m != nil {
		rdb.AddHook(NewMetricsHook(m))
	}
}

// MetricsHook records the outcome and latency of every Redis command.
type MetricsHook struct {
	metrics *metrics.RedisMetrics
}

var _ goredis.Hook = (*MetricsHook)(nil)

func NewMetricsHook(m *metrics.RedisMetrics) *MetricsHook {
	return &MetricsHook{metrics: m}
}

func (h *MetricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.metrics.ConnectionErrors.Inc()
		}
		return conn, err
	}
}

func (h *MetricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.observe(cmd.Name(), time.Since(start), err)
		return err
	}
}

func (h *MetricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.observe("pipeline", time.Since(start), err)
		return err
	}
}

func (h *MetricsHook) observe(operation string, d time.Duration, err error) {
	status := "success"
	if err != nil && !errors.Is(err, goredis.Nil) {
		status = "error"
	}
	h.metrics.OpsTotal.WithLabelValues(operation, status).Inc()
	h.metrics.OpDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// BreakerSettings tunes the Redis circuit breaker. Zero values take the
// defaults.
type BreakerSettings struct {
	// Failures is the number of consecutive failures that opens the breaker. Default 5.
	Failures uint32
	// Cooldown is how long the breaker stays open before probing. Default 30s.
	Cooldown time.Duration
}

// BreakerHook fails commands with gobreaker.ErrOpenState while Redis is
// unhealthy. A cache miss (redis.Nil) counts as success.
type BreakerHook struct {
	cb *gobreaker.CircuitBreaker
}

var _ goredis.Hook = (*BreakerHook)(nil)

func NewBreakerHook(s BreakerSettings, m *metrics.RedisMetrics) *BreakerHook {
	failures := s.Failures
	if failures == 0 {
		failures = 5
	}
	cooldown := s.Cooldown
	if cooldown == 0 {
		cooldown = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, goredis.Nil) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "component", name, "from", from.String(), "to", to.String())
			if m != nil {
				m.BreakerState.Set(float64(to))
			}
		},
	})
	return &BreakerHook{cb: cb}
}

// State reports the breaker state.
func (h *BreakerHook) State() gobreaker.State {
	return h.cb.State()
}

func (h *BreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return next
}

func (h *BreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		_, err := h.cb.Execute(func() (any, error) {
			return nil, next(ctx, cmd)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			cmd.SetErr(err)
		}
		return err
	}
}

func (h *BreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		_, err := h.cb.Execute(func() (any, error) {
			return nil, next(ctx, cmds)
		})
		return err
	}
}
