package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/NordCoder/CloudCorrect/internal/domain/run"
	"github.com/NordCoder/CloudCorrect/internal/engine"
	"github.com/NordCoder/CloudCorrect/internal/obs"
	"github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubEvaluator struct {
	out *engine.Outcome
	err error
}

func (s stubEvaluator) EvaluateGroup(_ context.Context, id uuid.UUID) (*engine.Outcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.out
	out.GroupID = id
	return &out, nil
}

type stubGroups struct {
	known map[uuid.UUID]bool
	err   error
}

func (s stubGroups) Create(context.Context, *group.Group) error { return nil }
func (s stubGroups) GetByID(_ context.Context, id uuid.UUID) (*group.Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.known[id] {
		return nil, postgres.ErrNotFound
	}
	return &group.Group{ID: id}, nil
}
func (s stubGroups) UpdateStatus(context.Context, uuid.UUID, check.Status, time.Time) error {
	return nil
}
func (s stubGroups) FetchDue(context.Context, int) ([]*group.Group, error) { return nil, nil }

type stubRuns struct {
	page, limit int
}

func (s *stubRuns) Insert(context.Context, *run.Run) error             { return nil }
func (s *stubRuns) InsertLogs(context.Context, []*run.ResultLog) error { return nil }
func (s *stubRuns) ListByGroup(_ context.Context, id uuid.UUID, page, limit int) (*run.Page, error) {
	s.page, s.limit = page, limit
	return &run.Page{
		Items: []run.History{{
			Run: run.Run{ID: uuid.New(), GroupID: id, Status: check.StatusFail},
			Results: []run.LogEntry{{
				ResultLog: run.ResultLog{Status: check.StatusFail, Reason: "gone"},
				Alias:     "old",
				Deleted:   true,
			}},
		}},
		Total: 1, Page: page, Limit: limit, TotalPages: 1,
	}, nil
}

func newTestEcho(ev stubEvaluator, groups stubGroups, runs *stubRuns, health error) *echo.Echo {
	uc := NewUsecase(ev, groups, runs)
	return NewEcho(zap.NewNop(), NewController(zap.NewNop(), uc), obs.HealthChecks{
		"db": func(context.Context) error { return health },
	})
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestEvaluateGroup_OK(t *testing.T) {
	id := uuid.New()
	ev := stubEvaluator{out: &engine.Outcome{
		RunID: uuid.New(), Status: check.StatusFail, OldStatus: check.StatusPass, Changed: true,
		Results: []check.Result{{Type: "PING", Status: check.StatusFail, Reason: "timeout"}},
	}}
	e := newTestEcho(ev, stubGroups{}, &stubRuns{}, nil)

	rec := do(e, http.MethodPost, "/v1/groups/"+id.String()+"/evaluate")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id.String(), body["groupId"])
	assert.Equal(t, "FAIL", body["status"])
	assert.Equal(t, "PASS", body["oldStatus"])
	assert.Equal(t, true, body["changed"])
	assert.Len(t, body["results"], 1)
}

func TestEvaluateGroup_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", engine.ErrGroupNotFound, http.StatusNotFound, engine.ErrGroupNotFound.Error()},
		{"busy", engine.ErrEvaluationInProgress, http.StatusConflict, engine.ErrEvaluationInProgress.Error()},
		{"internal", errors.New("pg: connection reset"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(stubEvaluator{err: tc.err}, stubGroups{}, &stubRuns{}, nil)
			rec := do(e, http.MethodPost, "/v1/groups/"+uuid.NewString()+"/evaluate")
			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, `{"error":"`+tc.body+`"}`, rec.Body.String())
		})
	}
}

func TestEvaluateGroup_BadID(t *testing.T) {
	e := newTestEcho(stubEvaluator{}, stubGroups{}, &stubRuns{}, nil)
	rec := do(e, http.MethodPost, "/v1/groups/nope/evaluate")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid group id"}`, rec.Body.String())
}

func TestGroupHistory(t *testing.T) {
	id := uuid.New()
	runs := &stubRuns{}
	e := newTestEcho(stubEvaluator{}, stubGroups{known: map[uuid.UUID]bool{id: true}}, runs, nil)

	rec := do(e, http.MethodGet, "/v1/groups/"+id.String()+"/history?page=2&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, runs.page)
	assert.Equal(t, 5, runs.limit)

	var page run.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Results[0].Deleted)
	assert.Equal(t, "old", page.Items[0].Results[0].Alias)
}

func TestGroupHistory_PagingClamped(t *testing.T) {
	id := uuid.New()
	runs := &stubRuns{}
	e := newTestEcho(stubEvaluator{}, stubGroups{known: map[uuid.UUID]bool{id: true}}, runs, nil)

	do(e, http.MethodGet, "/v1/groups/"+id.String()+"/history?page=0&limit=1000")
	assert.Equal(t, 1, runs.page)
	assert.Equal(t, 100, runs.limit)

	do(e, http.MethodGet, "/v1/groups/"+id.String()+"/history?page=x&limit=-3")
	assert.Equal(t, 1, runs.page)
	assert.Equal(t, 10, runs.limit)

	rec := do(e, http.MethodGet, "/v1/groups/"+id.String()+"/history?page=9223372036854775807&limit=100")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxPage, runs.page)
}

func TestGroupHistory_UnknownGroup(t *testing.T) {
	e := newTestEcho(stubEvaluator{}, stubGroups{}, &stubRuns{}, nil)
	rec := do(e, http.MethodGet, "/v1/groups/"+uuid.NewString()+"/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	e = newTestEcho(stubEvaluator{}, stubGroups{err: errors.New("timeout")}, &stubRuns{}, nil)
	rec = do(e, http.MethodGet, "/v1/groups/"+uuid.NewString()+"/history")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz(t *testing.T) {
	e := newTestEcho(stubEvaluator{}, stubGroups{}, &stubRuns{}, nil)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz").Code)

	e = newTestEcho(stubEvaluator{}, stubGroups{}, &stubRuns{}, errors.New("db down"))
	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/healthz").Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(engine.ErrAccountNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(engine.ErrCredentials))
}
