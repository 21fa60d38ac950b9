package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
)

func processReturning(err error, calls *int) goredis.ProcessHook {
	return func(_ context.Context, cmd goredis.Cmder) error {
		*calls++
		if err != nil {
			cmd.SetErr(err)
		}
		return err
	}
}

func TestMetricsHook_CountsByStatus(t *testing.T) {
	m := metrics.NewRedisMetrics(prometheus.NewRegistry())
	hook := NewMetricsHook(m)
	ctx := context.Background()

	var calls int
	_ = hook.ProcessHook(processReturning(nil, &calls))(ctx, goredis.NewStringCmd(ctx, "get", "k"))
	_ = hook.ProcessHook(processReturning(goredis.Nil, &calls))(ctx, goredis.NewStringCmd(ctx, "get", "k"))
	_ = hook.ProcessHook(processReturning(errors.New("i/o timeout"), &calls))(ctx, goredis.NewStringCmd(ctx, "get", "k"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.OpsTotal.WithLabelValues("get", "success")), "a miss is not an error")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OpsTotal.WithLabelValues("get", "error")))
	assert.Equal(t, 3, calls)
}

func TestBreakerHook_OpensAfterConsecutiveFailures(t *testing.T) {
	m := metrics.NewRedisMetrics(prometheus.NewRegistry())
	hook := NewBreakerHook(BreakerSettings{Failures: 2, Cooldown: time.Minute}, m)
	ctx := context.Background()

	var calls int
	process := hook.ProcessHook(processReturning(errors.New("connection refused"), &calls))

	for range 2 {
		require.Error(t, process(ctx, goredis.NewStringCmd(ctx, "get", "k")))
	}
	assert.Equal(t, gobreaker.StateOpen, hook.State())
	assert.Equal(t, float64(gobreaker.StateOpen), testutil.ToFloat64(m.BreakerState))

	cmd := goredis.NewStringCmd(ctx, "get", "k")
	err := process(ctx, cmd)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.ErrorIs(t, cmd.Err(), gobreaker.ErrOpenState, "the command carries the breaker error")
	assert.Equal(t, 2, calls, "open breaker does not reach redis")
}

func TestBreakerHook_MissesDoNotTrip(t *testing.T) {
	hook := NewBreakerHook(BreakerSettings{Failures: 1}, nil)
	ctx := context.Background()

	var calls int
	process := hook.ProcessHook(processReturning(goredis.Nil, &calls))
	for range 3 {
		err := process(ctx, goredis.NewStringCmd(ctx, "get", "k"))
		assert.ErrorIs(t, err, goredis.Nil)
	}
	assert.Equal(t, gobreaker.StateClosed, hook.State())
	assert.Equal(t, 3, calls)
}
