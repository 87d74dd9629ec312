package engine

import (
	"context"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Evaluator runs one check with already resolved parameters. It must turn
// every failure into a FAIL result.
type Evaluator interface {
	Evaluate(ctx context.Context, c *check.Check, params map[string]any, creds account.Credentials) check.Result
}

type Accumulator struct {
	eval Evaluator
	log  *zap.Logger
}

func NewAccumulator(eval Evaluator, log *zap.Logger) *Accumulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Accumulator{eval: eval, log: log.With(zap.String("component", "engine.accumulator"))}
}

// Run evaluates checks strictly in the given order, feeding each aliased
// result's data to the checks after it. The only error is ctx cancellation.
func (a *Accumulator) Run(ctx context.Context, checks []*check.Check, creds account.Credentials) ([]check.Result, error) {
	tr := otel.Tracer("engine.accumulator")
	scope := Context{}
	results := make([]check.Result, 0, len(checks))

	for i, c := range checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cctx, span := tr.Start(ctx, "engine.check")
		span.SetAttributes(
			attribute.String("check.id", c.ID.String()),
			attribute.String("check.service", c.Service),
			attribute.String("check.type", c.Type),
			attribute.Int("check.position", i),
		)

		params, tokens := Resolve(c.Parameters, scope)
		res := a.eval.Evaluate(cctx, c, params, creds)
		res.CheckID, res.Alias, res.Service, res.Type = c.ID, c.Alias, c.Service, c.Type
		res.Expected = annotate(res.Expected, tokens)

		span.SetAttributes(attribute.String("check.status", string(res.Status)))
		if !res.Passed() {
			span.SetStatus(codes.Error, res.Reason)
		}
		span.End()

		obs.WithTrace(cctx, a.log).Debug("check evaluated",
			zap.String("check_id", c.ID.String()),
			zap.String("alias", c.Alias),
			zap.String("service", c.Service),
			zap.String("type", c.Type),
			zap.String("status", string(res.Status)),
			zap.Strings("resolved", tokens),
		)

		results = append(results, res)
		if c.Alias != "" {
			scope.Set(c.Alias, res.Data)
		}
	}
	return results, nil
}
