package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Backoff interface {
	Next(attempt int) time.Duration
}

// ExpoJitter doubles Base per attempt up to Max, then scales the result by a
// random factor in [1-Jitter, 1+Jitter].
type ExpoJitter struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64
}

func (b ExpoJitter) Next(attempt int) time.Duration {
	attempt = max(attempt, 0)
	d := float64(b.Base) * math.Pow(2, float64(attempt))
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}
	if b.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*b.Jitter
	}
	return time.Duration(d)
}

type Policy struct {
	Name      string
	Attempts  int
	Backoff   Backoff
	Retryable func(error) bool
	OnAttempt func(attempt int, err error)
	OnExhaust func(lastErr error)
}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying. Do returns the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

var (
	retryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retry_attempts_total",
		Help: "Calls made inside retry.Do, including the last one.",
	}, []string{"name"})
	retryExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retry_exhausted_total",
		Help: "Operations that gave up, by name and reason.",
	}, []string{"name", "reason"})
	retryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "retry_duration_seconds",
		Help:    "Wall time spent inside retry.Do.",
		Buckets: prometheus.DefBuckets,
	}, []string{"name"})
)

// Do calls fn until it succeeds, the policy runs out of attempts, the error
// is not retryable, or ctx is done.
func Do(ctx context.Context, fn func() error, p Policy) (err error) {
	name := p.Name
	if name == "" {
		name = "default"
	}
	start := time.Now()
	defer func() { retryLatency.WithLabelValues(name).Observe(time.Since(start).Seconds()) }()

	attempts := max(p.Attempts, 1)
	retryable := p.Retryable
	if retryable == nil {
		retryable = func(err error) bool { return !IsPermanent(err) }
	}
	var bo Backoff = ExpoJitter{Base: 100 * time.Millisecond, Max: 5 * time.Second}
	if p.Backoff != nil {
		bo = p.Backoff
	}
	span := trace.SpanFromContext(ctx)

	for i := 0; i < attempts; i++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		err = fn()
		retryAttempts.WithLabelValues(name).Inc()
		if err == nil {
			return nil
		}
		if p.OnAttempt != nil {
			p.OnAttempt(i, err)
		}
		span.AddEvent("retry.attempt", trace.WithAttributes(
			attribute.String("retry.name", name),
			attribute.Int("retry.attempt", i+1),
			attribute.String("error", err.Error()),
		))

		reason := ""
		switch {
		case !retryable(err):
			reason = "not_retryable"
		case i == attempts-1:
			reason = "attempts"
		}
		if reason != "" {
			retryExhausted.WithLabelValues(name, reason).Inc()
			if p.OnExhaust != nil {
				p.OnExhaust(err)
			}
			return err
		}

		t := time.NewTimer(bo.Next(i))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}
