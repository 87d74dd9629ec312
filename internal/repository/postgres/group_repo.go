package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ group.Repo = (*GroupRepoImpl)(nil)

type GroupRepoImpl struct {
	db *DB
}

func NewGroupRepo(db *DB) *GroupRepoImpl { return &GroupRepoImpl{db: db} }

const groupColumns = `id, tenant_id, aws_account_id, name, description, interval_minutes, enabled,
       notification_emails, last_status, last_evaluated_at, next_run, created_at, updated_at`

const (
	qGroupInsert = `
INSERT INTO invariant_groups (id, tenant_id, aws_account_id, name, description,
                              interval_minutes, enabled, notification_emails, next_run)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
RETURNING ` + groupColumns + `;
`

	qGroupGet = `
SELECT ` + groupColumns + `
FROM invariant_groups
WHERE id = $1;
`

	qGroupUpdateStatus = `
UPDATE invariant_groups
SET last_status = $2, last_evaluated_at = $3, updated_at = NOW()
WHERE id = $1;
`

	qGroupFetchDue = `
SELECT ` + groupColumns + `
FROM invariant_groups
WHERE enabled = TRUE AND next_run <= NOW()
ORDER BY next_run
FOR UPDATE SKIP LOCKED
LIMIT $1;
`

	qGroupBumpNextRun = `
UPDATE invariant_groups
SET next_run = NOW() + (interval_minutes * INTERVAL '1 minute'),
    updated_at = NOW()
WHERE id = ANY($1);
`
)

func scanGroup(row pgx.Row, g *group.Group) error {
	var status string
	if err := row.Scan(
		&g.ID,
		&g.TenantID,
		&g.AccountID,
		&g.Name,
		&g.Description,
		&g.IntervalMinutes,
		&g.Enabled,
		&g.NotificationEmails,
		&status,
		&g.LastEvaluatedAt,
		&g.NextRun,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return mapErr("scan group", err)
	}
	g.LastStatus = check.Status(status)
	return nil
}

func (r *GroupRepoImpl) Create(ctx context.Context, g *group.Group) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.IntervalMinutes <= 0 {
		g.IntervalMinutes = 60
	}
	row := r.db.execQueryer(ctx).QueryRow(ctx, qGroupInsert,
		g.ID, g.TenantID, g.AccountID, g.Name, g.Description,
		g.IntervalMinutes, g.Enabled, g.NotificationEmails,
	)
	return scanGroup(row, g)
}

func (r *GroupRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var g group.Group
	if err := scanGroup(r.db.execQueryer(ctx).QueryRow(ctx, qGroupGet, id), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepoImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status check.Status, evaluatedAt time.Time) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.execQueryer(ctx).Exec(ctx, qGroupUpdateStatus, id, string(status), evaluatedAt)
	if err != nil {
		return mapErr("update group status", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GroupRepoImpl) FetchDue(ctx context.Context, limit int) ([]*group.Group, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, qGroupFetchDue, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch due: %w", err)
	}

	var (
		out []*group.Group
		ids []uuid.UUID
	)
	for rows.Next() {
		var g group.Group
		if err := scanGroup(rows, &g); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, &g)
		ids = append(ids, g.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(ctx, qGroupBumpNextRun, ids); err != nil {
		return nil, fmt.Errorf("bump next_run: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}
