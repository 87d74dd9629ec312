package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/domain/alert"
	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/NordCoder/CloudCorrect/internal/domain/run"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	"github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const alertDispatchTimeout = 5 * time.Second

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Outcome is what a caller of EvaluateGroup gets back.
type Outcome struct {
	GroupID     uuid.UUID      `json:"groupId" yaml:"groupId"`
	RunID       uuid.UUID      `json:"runId" yaml:"runId"`
	Status      check.Status   `json:"status" yaml:"status"`
	OldStatus   check.Status   `json:"oldStatus" yaml:"oldStatus"`
	Results     []check.Result `json:"results" yaml:"results"`
	Changed     bool           `json:"changed" yaml:"changed"`
	EvaluatedAt time.Time      `json:"evaluatedAt" yaml:"evaluatedAt"`
}

var (
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_evaluations_total", Help: "Completed group evaluations by verdict.",
	}, []string{"status"})
	evaluationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_evaluation_errors_total", Help: "Group evaluations aborted before persistence.",
	}, []string{"reason"})
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_checks_total", Help: "Evaluated checks by service and status.",
	}, []string{"service", "status"})
	statusChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_status_changes_total", Help: "Group verdict transitions.",
	})
	evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_evaluation_duration_seconds",
		Help:    "Wall time of one group evaluation.",
		Buckets: prometheus.DefBuckets,
	})
)

type Aggregator struct {
	Groups     group.Repo
	Checks     check.Repo
	Accounts   account.Repo
	Runs       run.Repo
	Creds      account.CredentialsResolver
	Transactor postgres.Transactor
	Locker     Locker
	Alerts     alert.Dispatcher
	Acc        *Accumulator
	Clock      Clock
	Log        *zap.Logger
}

// EvaluateGroup runs every live check of the group in creation order,
// persists one run with its result logs together with the new group status,
// and hands a failing verdict to the alert dispatcher.
func (a *Aggregator) EvaluateGroup(ctx context.Context, groupID uuid.UUID) (*Outcome, error) {
	tr := otel.Tracer("engine.aggregator")
	ctx, span := tr.Start(ctx, "engine.evaluate_group")
	defer span.End()
	span.SetAttributes(attribute.String("group.id", groupID.String()))

	log := obs.WithTrace(ctx, a.logger()).With(zap.String("group_id", groupID.String()))
	start := time.Now()

	out, err := a.evaluate(ctx, groupID, log)
	if err != nil {
		span.RecordError(err)
		evaluationErrors.WithLabelValues(errorReason(err)).Inc()
		log.Warn("evaluation aborted", zap.Error(err))
		return nil, err
	}

	evaluationDuration.Observe(time.Since(start).Seconds())
	evaluationsTotal.WithLabelValues(string(out.Status)).Inc()
	if out.Changed {
		statusChanges.Inc()
	}
	span.SetAttributes(
		attribute.String("group.status", string(out.Status)),
		attribute.Bool("group.changed", out.Changed),
		attribute.Int("group.checks", len(out.Results)),
	)
	log.Info("group evaluated",
		zap.String("run_id", out.RunID.String()),
		zap.String("status", string(out.Status)),
		zap.String("old_status", string(out.OldStatus)),
		zap.Bool("changed", out.Changed),
		zap.Int("checks", len(out.Results)),
	)
	return out, nil
}

func (a *Aggregator) evaluate(ctx context.Context, groupID uuid.UUID, log *zap.Logger) (*Outcome, error) {
	unlock, ok, err := a.Locker.TryLock(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("lock group: %w", err)
	}
	if !ok {
		return nil, ErrEvaluationInProgress
	}
	defer unlock()

	g, err := a.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}

	acc, err := a.Accounts.GetByID(ctx, g.AccountID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	checks, err := a.Checks.ListActiveByGroup(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}

	creds, err := a.Creds.Resolve(ctx, acc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCredentials, err)
	}

	results, err := a.Acc.Run(ctx, checks, creds)
	if err != nil {
		return nil, fmt.Errorf("accumulate: %w", err)
	}
	for _, r := range results {
		checksTotal.WithLabelValues(r.Service, string(r.Status)).Inc()
	}

	oldStatus := g.LastStatus
	if !oldStatus.Valid() {
		oldStatus = check.StatusPending
	}
	out := &Outcome{
		GroupID:     g.ID,
		RunID:       uuid.New(),
		Status:      Verdict(results),
		OldStatus:   oldStatus,
		Results:     results,
		EvaluatedAt: a.now(),
	}
	out.Changed = Changed(out.OldStatus, out.Status)

	if err := a.persist(ctx, out); err != nil {
		return nil, err
	}
	g.LastStatus = out.Status
	g.LastEvaluatedAt = &out.EvaluatedAt

	if out.Status == check.StatusFail && g.HasNotificationTarget() && a.Alerts != nil {
		a.dispatch(ctx, log, g, out.RunID, Failed(results))
	}
	return out, nil
}

// dispatch hands the alert over once the run is committed. The caller may
// already be gone, so the handover only keeps the caller's values.
func (a *Aggregator) dispatch(ctx context.Context, log *zap.Logger, g *group.Group, runID uuid.UUID, failed []check.Result) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertDispatchTimeout)
	defer cancel()
	if err := a.Alerts.DispatchAlert(ctx, g, runID, failed); err != nil {
		log.Error("alert dispatch failed", zap.String("run_id", runID.String()), zap.Error(err))
	}
}

// persist writes group status, the run and its logs as one transaction.
func (a *Aggregator) persist(ctx context.Context, out *Outcome) error {
	return a.Transactor.WithTx(ctx, func(txCtx context.Context) error {
		if err := a.Groups.UpdateStatus(txCtx, out.GroupID, out.Status, out.EvaluatedAt); err != nil {
			return fmt.Errorf("update group status: %w", err)
		}
		if err := a.Runs.Insert(txCtx, &run.Run{
			ID:          out.RunID,
			GroupID:     out.GroupID,
			Status:      out.Status,
			EvaluatedAt: out.EvaluatedAt,
		}); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		logs := make([]*run.ResultLog, 0, len(out.Results))
		for i, r := range out.Results {
			logs = append(logs, &run.ResultLog{
				ID:       uuid.New(),
				RunID:    out.RunID,
				CheckID:  r.CheckID,
				Status:   r.Status,
				Expected: r.Expected,
				Observed: r.Observed,
				Reason:   r.Reason,
				Position: i,
			})
		}
		if err := a.Runs.InsertLogs(txCtx, logs); err != nil {
			return fmt.Errorf("insert result logs: %w", err)
		}
		return nil
	})
}

func (a *Aggregator) now() time.Time {
	if a.Clock == nil {
		return time.Now().UTC()
	}
	return a.Clock.Now().UTC()
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log.With(zap.String("component", "engine.aggregator"))
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, ErrEvaluationInProgress):
		return "in_progress"
	case errors.Is(err, ErrCredentials):
		return "credentials"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
