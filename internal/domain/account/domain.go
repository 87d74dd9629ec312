package account

import (
	"time"

	"github.com/google/uuid"
)

type AuthMethod string

const (
	AuthKeys AuthMethod = "KEYS"
	AuthRole AuthMethod = "ROLE"
)

type Account struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	AWSAccountID    string     `json:"aws_account_id"`
	Name            string     `json:"name"`
	AuthMethod      AuthMethod `json:"auth_method"`
	AccessKeyID     string     `json:"-"`
	SecretAccessKey string     `json:"-"`
	RoleARN         string     `json:"role_arn,omitempty"`
	ExternalID      string     `json:"-"`
	Region          string     `json:"region,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Credentials are already resolved provider credentials for one account.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
}
