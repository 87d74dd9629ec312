package check

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPass, StatusFail:
		return true
	}
	return false
}

// Check is a single declarative assertion inside an invariant group.
// Parameters may carry {{alias.property}} placeholders.
type Check struct {
	ID         uuid.UUID      `json:"id"`
	GroupID    uuid.UUID      `json:"group_id"`
	Service    string         `json:"service"`
	Type       string         `json:"type"`
	Region     string         `json:"region,omitempty"`
	Alias      string         `json:"alias,omitempty"`
	Parameters map[string]any `json:"parameters"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  *time.Time     `json:"deleted_at,omitempty"`
}

func (c *Check) Deleted() bool { return c.DeletedAt != nil }

// Result is produced once per check per evaluation and never stored as is;
// the persisted form is run.ResultLog.
type Result struct {
	CheckID  uuid.UUID      `json:"checkId" yaml:"checkId"`
	Alias    string         `json:"alias,omitempty" yaml:"alias,omitempty"`
	Service  string         `json:"service" yaml:"service"`
	Type     string         `json:"type" yaml:"type"`
	Status   Status         `json:"status" yaml:"status"`
	Expected string         `json:"expected" yaml:"expected"`
	Observed string         `json:"observed" yaml:"observed"`
	Reason   string         `json:"reason" yaml:"reason"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

func (r Result) Passed() bool { return r.Status == StatusPass }
