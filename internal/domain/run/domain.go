package run

import (
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/google/uuid"
)

type Run struct {
	ID          uuid.UUID    `json:"id"`
	GroupID     uuid.UUID    `json:"group_id"`
	Status      check.Status `json:"status"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
}

type ResultLog struct {
	ID        uuid.UUID    `json:"id"`
	RunID     uuid.UUID    `json:"run_id"`
	CheckID   uuid.UUID    `json:"check_id"`
	Status    check.Status `json:"status"`
	Expected  string       `json:"expected"`
	Observed  string       `json:"observed"`
	Reason    string       `json:"reason"`
	Position  int          `json:"position"`
	CreatedAt time.Time    `json:"created_at"`
}

// LogEntry is a result log joined with its check, which may be soft-deleted.
type LogEntry struct {
	ResultLog
	Alias   string `json:"alias,omitempty"`
	Service string `json:"service"`
	Type    string `json:"type"`
	Deleted bool   `json:"deleted"`
}

type History struct {
	Run
	Results []LogEntry `json:"results"`
}

type Page struct {
	Items      []History `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}
