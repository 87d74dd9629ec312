package engine

import (
	"testing"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/stretchr/testify/assert"
)

func TestVerdict(t *testing.T) {
	pass := check.Result{Status: check.StatusPass}
	fail := check.Result{Status: check.StatusFail}

	assert.Equal(t, check.StatusPass, Verdict(nil))
	assert.Equal(t, check.StatusPass, Verdict([]check.Result{pass, pass}))
	assert.Equal(t, check.StatusFail, Verdict([]check.Result{pass, fail, pass}))
}

func TestChanged(t *testing.T) {
	assert.False(t, Changed(check.StatusPending, check.StatusFail))
	assert.False(t, Changed(check.StatusPending, check.StatusPass))
	assert.False(t, Changed(check.StatusPass, check.StatusPass))
	assert.True(t, Changed(check.StatusPass, check.StatusFail))
	assert.True(t, Changed(check.StatusFail, check.StatusPass))
}

func TestFailed(t *testing.T) {
	rs := []check.Result{
		{Type: "a", Status: check.StatusPass},
		{Type: "b", Status: check.StatusFail},
		{Type: "c", Status: check.StatusFail},
	}
	got := Failed(rs)
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Type)
	assert.Equal(t, "c", got[1].Type)
	assert.Nil(t, Failed(rs[:1]))
}
