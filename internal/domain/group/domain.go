package group

import (
	"strings"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/google/uuid"
)

type Group struct {
	ID                 uuid.UUID    `json:"id"`
	TenantID           uuid.UUID    `json:"tenant_id"`
	AccountID          uuid.UUID    `json:"account_id"`
	Name               string       `json:"name"`
	Description        string       `json:"description,omitempty"`
	IntervalMinutes    int          `json:"interval_minutes"`
	Enabled            bool         `json:"enabled"`
	NotificationEmails string       `json:"notification_emails,omitempty"`
	LastStatus         check.Status `json:"last_status"`
	LastEvaluatedAt    *time.Time   `json:"last_evaluated_at,omitempty"`
	NextRun            time.Time    `json:"next_run"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Recipients splits the comma separated notification list, dropping blanks.
func (g *Group) Recipients() []string {
	if g == nil || g.NotificationEmails == "" {
		return nil
	}
	parts := strings.Split(g.NotificationEmails, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (g *Group) HasNotificationTarget() bool { return len(g.Recipients()) > 0 }
