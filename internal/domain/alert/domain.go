package alert

import (
	"context"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/google/uuid"
)

type FailedCheck struct {
	CheckID  uuid.UUID `json:"checkId"`
	Alias    string    `json:"alias,omitempty"`
	Service  string    `json:"service"`
	Type     string    `json:"type"`
	Expected string    `json:"expected"`
	Observed string    `json:"observed"`
	Reason   string    `json:"reason"`
}

// Alert is the payload emitted for a failing group.
type Alert struct {
	GroupID      uuid.UUID     `json:"groupId"`
	RunID        uuid.UUID     `json:"runId"`
	Group        string        `json:"group"`
	Status       check.Status  `json:"status"`
	Recipients   []string      `json:"recipients"`
	FailedChecks []FailedCheck `json:"failedChecks"`
	Timestamp    time.Time     `json:"timestamp"`
}

func New(g *group.Group, runID uuid.UUID, failed []check.Result, at time.Time) Alert {
	a := Alert{
		GroupID:      g.ID,
		RunID:        runID,
		Group:        g.Name,
		Status:       check.StatusFail,
		Recipients:   g.Recipients(),
		FailedChecks: make([]FailedCheck, 0, len(failed)),
		Timestamp:    at.UTC(),
	}
	for _, r := range failed {
		a.FailedChecks = append(a.FailedChecks, FailedCheck{
			CheckID:  r.CheckID,
			Alias:    r.Alias,
			Service:  r.Service,
			Type:     r.Type,
			Expected: r.Expected,
			Observed: r.Observed,
			Reason:   r.Reason,
		})
	}
	return a
}

// Dispatcher is fire-and-forget from the caller's side: an error is only
// ever logged.
type Dispatcher interface {
	DispatchAlert(ctx context.Context, g *group.Group, runID uuid.UUID, failed []check.Result) error
}
