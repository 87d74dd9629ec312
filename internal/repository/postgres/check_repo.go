package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ check.Repo = (*CheckRepoImpl)(nil)

type CheckRepoImpl struct {
	db *DB
}

func NewCheckRepo(db *DB) *CheckRepoImpl { return &CheckRepoImpl{db: db} }

const checkColumns = `id, group_id, service, type, COALESCE(region, ''), COALESCE(alias, ''),
       parameters, created_at, updated_at, deleted_at`

const (
	qCheckInsert = `
INSERT INTO checks (id, group_id, service, type, region, alias, parameters)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + checkColumns + `;
`

	qCheckGet = `
SELECT ` + checkColumns + `
FROM checks
WHERE id = $1;
`

	qCheckListActive = `
SELECT ` + checkColumns + `
FROM checks
WHERE group_id = $1 AND deleted_at IS NULL
ORDER BY created_at, id;
`

	// alias is cleared so it can be reused by a new check in the group
	qCheckSoftDelete = `
UPDATE checks
SET alias = NULL, deleted_at = NOW(), updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL;
`
)

func scanCheck(row pgx.Row, c *check.Check) error {
	var params []byte
	if err := row.Scan(
		&c.ID,
		&c.GroupID,
		&c.Service,
		&c.Type,
		&c.Region,
		&c.Alias,
		&params,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	); err != nil {
		return mapErr("scan check", err)
	}
	p, err := unmarshalJSON(params)
	if err != nil {
		return fmt.Errorf("decode check parameters: %w", err)
	}
	c.Parameters = p
	return nil
}

func (r *CheckRepoImpl) Create(ctx context.Context, c *check.Check) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	params, err := marshalJSON(c.Parameters)
	if err != nil {
		return fmt.Errorf("encode check parameters: %w", err)
	}
	row := r.db.execQueryer(ctx).QueryRow(ctx, qCheckInsert,
		c.ID, c.GroupID, c.Service, c.Type, nullString(c.Region), nullString(c.Alias), params,
	)
	return scanCheck(row, c)
}

func (r *CheckRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*check.Check, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var c check.Check
	if err := scanCheck(r.db.execQueryer(ctx).QueryRow(ctx, qCheckGet, id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CheckRepoImpl) ListActiveByGroup(ctx context.Context, groupID uuid.UUID) ([]*check.Check, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, qCheckListActive, groupID)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	var out []*check.Check
	for rows.Next() {
		var c check.Check
		if err := scanCheck(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *CheckRepoImpl) SoftDelete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.execQueryer(ctx).Exec(ctx, qCheckSoftDelete, id)
	if err != nil {
		return mapErr("soft delete check", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
