package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/domain/run"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ run.Repo = (*RunRepoImpl)(nil)

type RunRepoImpl struct{ db *DB }

func NewRunRepo(db *DB) *RunRepoImpl { return &RunRepoImpl{db: db} }

const (
	qRunInsert = `
INSERT INTO evaluation_runs (id, group_id, status, evaluated_at)
VALUES ($1, $2, $3, $4);
`

	qResultLogInsert = `
INSERT INTO check_result_logs (id, run_id, check_id, status, expected, observed, reason, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at;
`

	qRunCountByGroup = `SELECT COUNT(*) FROM evaluation_runs WHERE group_id = $1;`

	qRunsByGroup = `
SELECT id, group_id, status, evaluated_at
FROM evaluation_runs
WHERE group_id = $1
ORDER BY evaluated_at DESC, id
LIMIT $2 OFFSET $3;
`

	// soft-deleted checks are included
	qLogsByRuns = `
SELECT l.id, l.run_id, l.check_id, l.status, l.expected, l.observed, l.reason, l.position, l.created_at,
       COALESCE(c.alias, ''), c.service, c.type, c.deleted_at IS NOT NULL
FROM check_result_logs l
JOIN checks c ON c.id = l.check_id
WHERE l.run_id = ANY($1)
ORDER BY l.run_id, l.position;
`
)

func (r *RunRepoImpl) Insert(ctx context.Context, rr *run.Run) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if rr.ID == uuid.Nil {
		rr.ID = uuid.New()
	}
	_, err := r.db.execQueryer(ctx).Exec(ctx, qRunInsert, rr.ID, rr.GroupID, string(rr.Status), rr.EvaluatedAt)
	return mapErr("insert run", err)
}

func (r *RunRepoImpl) InsertLogs(ctx context.Context, logs []*run.ResultLog) error {
	if len(logs) == 0 {
		return nil
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	b := &pgx.Batch{}
	for _, l := range logs {
		l := l // per-iteration copy: the QueryRow callback runs later, at br.Close
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		b.Queue(qResultLogInsert,
			l.ID, l.RunID, l.CheckID, string(l.Status), l.Expected, l.Observed, l.Reason, l.Position,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&l.CreatedAt)
		})
	}

	br := r.db.execQueryer(ctx).SendBatch(ctx, b)
	if err := br.Close(); err != nil {
		return mapErr("insert result logs", err)
	}
	return nil
}

func (r *RunRepoImpl) ListByGroup(ctx context.Context, groupID uuid.UUID, page, limit int) (*run.Page, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)

	var total int
	if err := eq.QueryRow(ctx, qRunCountByGroup, groupID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	out := &run.Page{
		Items:      []run.History{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
	if total == 0 || page > out.TotalPages {
		return out, nil
	}

	rows, err := eq.Query(ctx, qRunsByGroup, groupID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var ids []uuid.UUID
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			h      run.History
			status string
		)
		if err := rows.Scan(&h.ID, &h.GroupID, &status, &h.EvaluatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		h.Status = check.Status(status)
		h.Results = []run.LogEntry{}
		index[h.ID] = len(out.Items)
		ids = append(ids, h.ID)
		out.Items = append(out.Items, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	lrows, err := eq.Query(ctx, qLogsByRuns, ids)
	if err != nil {
		return nil, fmt.Errorf("query result logs: %w", err)
	}
	defer lrows.Close()
	for lrows.Next() {
		var (
			e      run.LogEntry
			status string
		)
		if err := lrows.Scan(
			&e.ID, &e.RunID, &e.CheckID, &status, &e.Expected, &e.Observed, &e.Reason, &e.Position, &e.CreatedAt,
			&e.Alias, &e.Service, &e.Type, &e.Deleted,
		); err != nil {
			return nil, fmt.Errorf("scan result log: %w", err)
		}
		e.Status = check.Status(status)
		if i, ok := index[e.RunID]; ok {
			out.Items[i].Results = append(out.Items[i].Results, e)
		}
	}
	if err := lrows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
