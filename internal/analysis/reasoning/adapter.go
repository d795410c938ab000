package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"resume-match-engine/internal/analysis/feature"
	"resume-match-engine/internal/common/config"
	"resume-match-engine/internal/common/logger"
	"resume-match-engine/internal/common/metrics"
)

// Evaluator is the capability the scoring pipeline depends on. The contract
// is total: implementations always return a usable Verdict, degraded or not.
type Evaluator interface {
	Evaluate(ctx context.Context, fs *feature.Set) *Verdict
}

// Adapter implements Evaluator over the HTTP client with a verdict cache and
// a circuit breaker. It is the error boundary of the reasoning signal: no
// transport failure escapes it.
type Adapter struct {
	client  *Client
	cache   *redis.Client
	breaker *gobreaker.CircuitBreaker[*Verdict]
	timeout time.Duration
	ttl     time.Duration
	logger  logger.Logger
}

// NewAdapter builds the adapter. The cache client may be nil, which disables
// caching without changing behavior.
func NewAdapter(cfg config.ReasoningConfig, cache *redis.Client, log logger.Logger) *Adapter {
	breaker := gobreaker.NewCircuitBreaker[*Verdict](gobreaker.Settings{
		Name:        "reasoning-service",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Adapter{
		client:  NewClient(cfg),
		cache:   cache,
		breaker: breaker,
		timeout: cfg.Timeout,
		ttl:     cfg.CacheTTL,
		logger:  log.WithFields(map[string]interface{}{"component": "reasoning-adapter"}),
	}
}

// Evaluate returns the reasoning verdict for a feature set. Timeouts map to
// status TIMEOUT, every other failure to UNAVAILABLE; the caller never sees
// an error.
func (a *Adapter) Evaluate(ctx context.Context, fs *feature.Set) *Verdict {
	key := "reasoning:verdict:" + fs.Digest()

	if v := a.cacheGet(ctx, key); v != nil {
		metrics.ReasoningCacheHits.WithLabelValues("hit").Inc()
		return v
	}
	metrics.ReasoningCacheHits.WithLabelValues("miss").Inc()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	verdict, err := a.breaker.Execute(func() (*Verdict, error) {
		return a.client.Evaluate(callCtx, fs)
	})
	if err != nil {
		verdict = a.degraded(err)
		metrics.ReasoningCallDuration.WithLabelValues(string(verdict.Status)).Observe(time.Since(start).Seconds())
		a.logger.Warn("reasoning verdict unavailable", map[string]interface{}{
			"status": string(verdict.Status),
			"error":  err.Error(),
		})
		return verdict
	}
	metrics.ReasoningCallDuration.WithLabelValues(string(StatusOK)).Observe(time.Since(start).Seconds())

	a.cacheSet(ctx, key, verdict)
	return verdict
}

func (a *Adapter) degraded(err error) *Verdict {
	switch {
	case errors.Is(err, context.Canceled):
		return Unavailable("request cancelled")
	case errors.Is(err, ErrReasoningTimeout), errors.Is(err, context.DeadlineExceeded):
		return TimedOut()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return Unavailable("reasoning service circuit open")
	default:
		return Unavailable("reasoning service call failed")
	}
}

func (a *Adapter) cacheGet(ctx context.Context, key string) *Verdict {
	if a.cache == nil {
		return nil
	}
	data, err := a.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			a.logger.Warn("verdict cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	var v Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return &v
}

func (a *Adapter) cacheSet(ctx context.Context, key string, v *Verdict) {
	if a.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, a.ttl).Err(); err != nil {
		a.logger.Warn("verdict cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
