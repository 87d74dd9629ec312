package evaluation_worker

import (
	"context"
	"errors"

	"github.com/NordCoder/CloudCorrect/internal/engine"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evaluation_worker_messages_consumed_total", Help: "Evaluation requests consumed",
	})
	mSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evaluation_worker_requests_skipped_total", Help: "Requests dropped without a run",
	}, []string{"reason"})
)

type GroupEvaluator interface {
	EvaluateGroup(ctx context.Context, groupID uuid.UUID) (*engine.Outcome, error)
}

type Handler struct {
	Log    *zap.Logger
	Engine GroupEvaluator
}

// HandleRequest evaluates one group. Only a canceled context is reported
// back to the consumer; every other failure is final for this request and
// the scheduler will ask again on the next interval.
func (h *Handler) HandleRequest(ctx context.Context, groupID uuid.UUID) error {
	mConsumed.Inc()
	log := h.Log.With(zap.String("group_id", groupID.String()))

	if groupID == uuid.Nil {
		mSkipped.WithLabelValues("invalid").Inc()
		log.Warn("evaluation request without group id")
		return nil
	}

	out, err := h.Engine.EvaluateGroup(ctx, groupID)
	switch {
	case err == nil:
		log.Info("group evaluated",
			zap.String("run_id", out.RunID.String()),
			zap.String("status", string(out.Status)),
			zap.Bool("changed", out.Changed),
			zap.Int("checks", len(out.Results)),
		)
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, engine.ErrEvaluationInProgress):
		mSkipped.WithLabelValues("in_progress").Inc()
		log.Info("evaluation already running, request dropped")
		return nil
	case engine.IsNotFound(err):
		mSkipped.WithLabelValues("not_found").Inc()
		log.Warn("evaluation target missing", zap.Error(err))
		return nil
	default:
		mSkipped.WithLabelValues("error").Inc()
		log.Error("evaluation failed", zap.Error(err))
		return nil
	}
}
