package account

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
}

// CredentialsResolver turns a stored account into usable credentials,
// assuming a role when needed.
type CredentialsResolver interface {
	Resolve(ctx context.Context, a *Account) (Credentials, error)
}
