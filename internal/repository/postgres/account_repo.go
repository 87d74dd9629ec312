package postgres

import (
	"context"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/google/uuid"
)

var _ account.Repo = (*AccountRepoImpl)(nil)

type AccountRepoImpl struct{ db *DB }

func NewAccountRepo(db *DB) *AccountRepoImpl { return &AccountRepoImpl{db: db} }

const (
	qAccountInsert = `
INSERT INTO aws_accounts (id, tenant_id, aws_account_id, name, auth_method,
                          access_key_id, secret_access_key, role_arn, external_id, region)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at;
`
	qAccountGet = `
SELECT id, tenant_id, aws_account_id, name, auth_method,
       COALESCE(access_key_id, ''), COALESCE(secret_access_key, ''),
       COALESCE(role_arn, ''), COALESCE(external_id, ''), region, created_at
FROM aws_accounts
WHERE id = $1;
`
)

func (r *AccountRepoImpl) Create(ctx context.Context, a *account.Account) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := r.db.execQueryer(ctx).QueryRow(ctx, qAccountInsert,
		a.ID, a.TenantID, a.AWSAccountID, a.Name, string(a.AuthMethod),
		nullString(a.AccessKeyID), nullString(a.SecretAccessKey),
		nullString(a.RoleARN), nullString(a.ExternalID), a.Region,
	).Scan(&a.CreatedAt)
	return mapErr("insert account", err)
}

func (r *AccountRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var (
		a      account.Account
		method string
	)
	err := r.db.execQueryer(ctx).QueryRow(ctx, qAccountGet, id).Scan(
		&a.ID, &a.TenantID, &a.AWSAccountID, &a.Name, &method,
		&a.AccessKeyID, &a.SecretAccessKey, &a.RoleARN, &a.ExternalID, &a.Region, &a.CreatedAt,
	)
	if err != nil {
		return nil, mapErr("get account", err)
	}
	a.AuthMethod = account.AuthMethod(method)
	return &a, nil
}
