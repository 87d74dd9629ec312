package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/NordCoder/CloudCorrect/internal/domain/run"
	"github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"github.com/google/uuid"
)

// scriptedEvaluator answers per check type and records the params it saw.
type scriptedEvaluator struct {
	mu     sync.Mutex
	byType map[string]check.Result
	seen   []map[string]any
	creds  []account.Credentials
}

func (e *scriptedEvaluator) Evaluate(_ context.Context, c *check.Check, params map[string]any, creds account.Credentials) check.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen = append(e.seen, params)
	e.creds = append(e.creds, creds)
	if r, ok := e.byType[c.Type]; ok {
		return r
	}
	return check.Result{Status: check.StatusPass, Expected: "ok", Observed: "ok"}
}

type fakeGroups struct {
	groups   map[uuid.UUID]*group.Group
	err      error
	updated  []check.Status
	updateAt []time.Time
}

func (f *fakeGroups) Create(_ context.Context, g *group.Group) error {
	f.groups[g.ID] = g
	return nil
}

func (f *fakeGroups) GetByID(_ context.Context, id uuid.UUID) (*group.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	g, ok := f.groups[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGroups) UpdateStatus(_ context.Context, id uuid.UUID, status check.Status, at time.Time) error {
	f.updated = append(f.updated, status)
	f.updateAt = append(f.updateAt, at)
	if g, ok := f.groups[id]; ok {
		g.LastStatus = status
	}
	return nil
}

func (f *fakeGroups) FetchDue(context.Context, int) ([]*group.Group, error) { return nil, nil }

type fakeChecks struct {
	byGroup map[uuid.UUID][]*check.Check
}

func (f *fakeChecks) Create(context.Context, *check.Check) error { return nil }
func (f *fakeChecks) GetByID(context.Context, uuid.UUID) (*check.Check, error) {
	return nil, postgres.ErrNotFound
}
func (f *fakeChecks) ListActiveByGroup(_ context.Context, id uuid.UUID) ([]*check.Check, error) {
	return f.byGroup[id], nil
}
func (f *fakeChecks) SoftDelete(context.Context, uuid.UUID) error { return nil }

type fakeAccounts struct {
	accounts map[uuid.UUID]*account.Account
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return a, nil
}

type fakeCreds struct {
	err error
}

func (f fakeCreds) Resolve(_ context.Context, a *account.Account) (account.Credentials, error) {
	if f.err != nil {
		return account.Credentials{}, f.err
	}
	return account.Credentials{AccessKeyID: a.AccessKeyID, SecretAccessKey: a.SecretAccessKey, Region: a.Region}, nil
}

type fakeRuns struct {
	runs    []*run.Run
	logs    []*run.ResultLog
	failLog error
}

func (f *fakeRuns) Insert(_ context.Context, r *run.Run) error {
	f.runs = append(f.runs, r)
	return nil
}

func (f *fakeRuns) InsertLogs(_ context.Context, logs []*run.ResultLog) error {
	if f.failLog != nil {
		return f.failLog
	}
	f.logs = append(f.logs, logs...)
	return nil
}

func (f *fakeRuns) ListByGroup(context.Context, uuid.UUID, int, int) (*run.Page, error) {
	return &run.Page{}, nil
}

// fakeTx runs the function directly and reports whether it committed.
type fakeTx struct {
	calls     int
	committed int
	onCommit  func()
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	f.committed++
	if f.onCommit != nil {
		f.onCommit()
	}
	return nil
}

type dispatchCall struct {
	group    *group.Group
	runID    uuid.UUID
	failed   []check.Result
	ctxErr   error
	deadline bool
}

type fakeDispatcher struct {
	calls []dispatchCall
	err   error
}

func (f *fakeDispatcher) DispatchAlert(ctx context.Context, g *group.Group, runID uuid.UUID, failed []check.Result) error {
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, dispatchCall{
		group: g, runID: runID, failed: failed,
		ctxErr: ctx.Err(), deadline: hasDeadline,
	})
	return f.err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type busyLocker struct{ err error }

func (b busyLocker) TryLock(context.Context, uuid.UUID) (func(), bool, error) {
	return nil, false, b.err
}

var errBoom = errors.New("boom")
