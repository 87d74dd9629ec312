package alert

import (
	"testing"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := &group.Group{ID: uuid.New(), Name: "prod", NotificationEmails: "ops@x.io"}
	runID := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))

	a := New(g, runID, []check.Result{{
		CheckID: uuid.New(), Alias: "web", Service: "EC2", Type: "INSTANCE_RUNNING",
		Status: check.StatusFail, Expected: "running", Observed: "stopped", Reason: "stopped",
		Data: map[string]any{"state": "stopped"},
	}}, at)

	assert.Equal(t, g.ID, a.GroupID)
	assert.Equal(t, runID, a.RunID)
	assert.Equal(t, "prod", a.Group)
	assert.Equal(t, check.StatusFail, a.Status)
	assert.Equal(t, []string{"ops@x.io"}, a.Recipients)
	assert.Equal(t, time.UTC, a.Timestamp.Location())
	require.Len(t, a.FailedChecks, 1)
	assert.Equal(t, "web", a.FailedChecks[0].Alias)
	assert.Equal(t, "stopped", a.FailedChecks[0].Observed)

	empty := New(g, runID, nil, at)
	assert.NotNil(t, empty.FailedChecks)
	assert.Empty(t, empty.FailedChecks)
}
