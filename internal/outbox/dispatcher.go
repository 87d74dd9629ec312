package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/alert"
	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/NordCoder/CloudCorrect/internal/domain/outbox"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ alert.Dispatcher = (*AlertDispatcher)(nil)

// AlertDispatcher turns a failed run into an outbox message; the runner relays
// it to the alerts topic.
type AlertDispatcher struct {
	repo outbox.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewAlertDispatcher(repo outbox.Repository, log *zap.Logger) *AlertDispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &AlertDispatcher{repo: repo, now: time.Now, log: log.With(zap.String("component", "outbox.alerts"))}
}

func AlertKey(runID uuid.UUID) string { return "alert:" + runID.String() }

func (d *AlertDispatcher) DispatchAlert(ctx context.Context, g *group.Group, runID uuid.UUID, failed []check.Result) error {
	a := alert.New(g, runID, failed, d.now())
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	if err := d.repo.Enqueue(ctx, AlertKey(runID), outbox.KindGroupFailed, data); err != nil {
		return fmt.Errorf("enqueue alert: %w", err)
	}
	d.log.Info("alert enqueued",
		zap.String("group_id", g.ID.String()),
		zap.String("run_id", runID.String()),
		zap.Int("failed_checks", len(a.FailedChecks)),
		zap.Int("recipients", len(a.Recipients)),
	)
	return nil
}
