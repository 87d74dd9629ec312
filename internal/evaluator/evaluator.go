package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/engine"
	goerrors "github.com/go-errors/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const DefaultRegion = "us-east-1"

var _ engine.Evaluator = (*Evaluator)(nil)

var (
	providerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evaluator_provider_call_seconds",
		Help:    "Duration of provider calls per service.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})
	handlerPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evaluator_handler_panics_total",
		Help: "Handlers that panicked and were turned into FAIL results.",
	}, []string{"service"})
)

type Config struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	DefaultRegion string        `mapstructure:"default_region"`
}

// Evaluator dispatches a check to its registered handler and never lets a
// failure escape: every error or panic becomes a FAIL result.
type Evaluator struct {
	reg *Registry
	cfg Config
	log *zap.Logger
}

func New(reg *Registry, cfg Config, log *zap.Logger) *Evaluator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.DefaultRegion == "" {
		cfg.DefaultRegion = DefaultRegion
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{reg: reg, cfg: cfg, log: log.With(zap.String("component", "evaluator"))}
}

func (e *Evaluator) Evaluate(ctx context.Context, c *check.Check, params map[string]any, creds account.Credentials) (res check.Result) {
	h, err := e.reg.Lookup(c.Service, c.Type)
	if err != nil {
		return configFailure(c, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		providerLatency.WithLabelValues(c.Service).Observe(time.Since(start).Seconds())
		if p := recover(); p != nil {
			handlerPanics.WithLabelValues(c.Service).Inc()
			perr := goerrors.Wrap(p, 2)
			e.log.Error("check handler panicked",
				zap.String("check_id", c.ID.String()),
				zap.String("key", Key{c.Service, c.Type}.String()),
				zap.String("stack", perr.ErrorStack()),
			)
			res = apiFailure(c, fmt.Errorf("handler panic: %v", perr.Err))
		}
	}()

	res, err = h.Evaluate(ctx, Request{
		Check:  c,
		Params: params,
		Creds:  creds,
		Region: e.region(c, creds),
	})
	if err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			return configFailure(c, cerr)
		}
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			err = fmt.Errorf("provider call timed out after %s: %w", e.cfg.Timeout, err)
		}
		return apiFailure(c, err)
	}
	if res.Status != check.StatusPass {
		res.Status = check.StatusFail
	}
	res.CheckID, res.Alias, res.Service, res.Type = c.ID, c.Alias, c.Service, c.Type
	return res
}

// region prefers the check's own region, then the account default.
func (e *Evaluator) region(c *check.Check, creds account.Credentials) string {
	switch {
	case c.Region != "":
		return c.Region
	case creds.Region != "":
		return creds.Region
	default:
		return e.cfg.DefaultRegion
	}
}

func apiFailure(c *check.Check, err error) check.Result {
	return check.Result{
		CheckID:  c.ID,
		Alias:    c.Alias,
		Service:  c.Service,
		Type:     c.Type,
		Status:   check.StatusFail,
		Expected: "Successful API call",
		Observed: "API error",
		Reason:   err.Error(),
	}
}

func configFailure(c *check.Check, err error) check.Result {
	return check.Result{
		CheckID:  c.ID,
		Alias:    c.Alias,
		Service:  c.Service,
		Type:     c.Type,
		Status:   check.StatusFail,
		Expected: "Valid check configuration",
		Observed: "Configuration error",
		Reason:   err.Error(),
	}
}

// pass and fail keep handler code short.
func pass(expected, observed, reason string, data map[string]any) check.Result {
	return check.Result{Status: check.StatusPass, Expected: expected, Observed: observed, Reason: reason, Data: data}
}

func fail(expected, observed, reason string, data map[string]any) check.Result {
	return check.Result{Status: check.StatusFail, Expected: expected, Observed: observed, Reason: reason, Data: data}
}

func verdict(ok bool, expected, observed, okReason, failReason string, data map[string]any) check.Result {
	if ok {
		return pass(expected, observed, okReason, data)
	}
	return fail(expected, observed, failReason, data)
}
