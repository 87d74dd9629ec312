package scheduler

import (
	"context"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/services/scheduler/repo"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DueSource interface {
	FetchDue(ctx context.Context, limit int) ([]repo.DueGroup, error)
}

type Publisher interface {
	PublishEvaluationRequested(ctx context.Context, groupID uuid.UUID) error
}

type Usecase struct {
	Repo   DueSource
	Events Publisher
}

func NewUC(repo DueSource, events Publisher) *Usecase {
	return &Usecase{Repo: repo, Events: events}
}

// TickResult counts one batch. Failed publishes are not retried here:
// FetchDue already moved next_run forward, so the group comes back on its
// next interval.
type TickResult struct {
	Fetched int
	Sent    int
	Failed  int
}

// Tick claims up to limit due groups and publishes one evaluation request per
// group.
func (u *Usecase) Tick(ctx context.Context, limit int) (TickResult, error) {
	if limit <= 0 {
		limit = 100
	}
	var res TickResult

	tr := otel.Tracer("scheduler.uc")
	ctx, span := tr.Start(ctx, "scheduler.tick", trace.WithAttributes(attribute.Int("batch.limit", limit)))
	defer span.End()

	due, err := u.Repo.FetchDue(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return res, fmt.Errorf("fetch due: %w", err)
	}
	res.Fetched = len(due)

	for _, g := range due {
		if err := u.publish(ctx, tr, g); err != nil {
			res.Failed++
			continue
		}
		res.Sent++
	}

	span.SetAttributes(
		attribute.Int("batch.fetched", res.Fetched),
		attribute.Int("batch.sent", res.Sent),
		attribute.Int("batch.failed", res.Failed),
	)
	return res, nil
}

func (u *Usecase) publish(ctx context.Context, tr trace.Tracer, g repo.DueGroup) error {
	ctx, span := tr.Start(ctx, "scheduler.publish", trace.WithAttributes(
		attribute.String("group.id", g.ID.String()),
		attribute.String("group.name", g.Name),
	))
	defer span.End()

	err := u.Events.PublishEvaluationRequested(ctx, g.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
	}
	return err
}
