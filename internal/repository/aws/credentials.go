package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"
)

var _ account.CredentialsResolver = (*CredentialsResolver)(nil)

const DefaultSessionName = "CloudCorrectSession"

type STSAPI interface {
	AssumeRole(ctx context.Context, in *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

type CredentialsConfig struct {
	STSRegion       string        `mapstructure:"sts_region"`
	RoleSessionName string        `mapstructure:"role_session_name"`
	SessionDuration time.Duration `mapstructure:"session_duration"`
}

type CredentialsResolver struct {
	sts STSAPI
	cfg CredentialsConfig
	log *zap.Logger
}

// NewCredentialsResolver assumes roles using the platform's own identity
// from the default credential chain.
func NewCredentialsResolver(ctx context.Context, cfg CredentialsConfig, log *zap.Logger) (*CredentialsResolver, error) {
	if cfg.STSRegion == "" {
		cfg.STSRegion = "us-east-1"
	}
	base, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.STSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewCredentialsResolverWithSTS(sts.NewFromConfig(base), cfg, log), nil
}

func NewCredentialsResolverWithSTS(api STSAPI, cfg CredentialsConfig, log *zap.Logger) *CredentialsResolver {
	if cfg.RoleSessionName == "" {
		cfg.RoleSessionName = DefaultSessionName
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CredentialsResolver{sts: api, cfg: cfg, log: log.With(zap.String("component", "aws.credentials"))}
}

func (r *CredentialsResolver) Resolve(ctx context.Context, a *account.Account) (account.Credentials, error) {
	switch a.AuthMethod {
	case account.AuthKeys:
		if a.AccessKeyID == "" || a.SecretAccessKey == "" {
			return account.Credentials{}, errors.New("access key or secret key missing for account")
		}
		return account.Credentials{
			AccessKeyID:     a.AccessKeyID,
			SecretAccessKey: a.SecretAccessKey,
			Region:          a.Region,
		}, nil

	case account.AuthRole:
		if a.RoleARN == "" || a.ExternalID == "" {
			return account.Credentials{}, errors.New("role arn or external id missing for account")
		}
		in := &sts.AssumeRoleInput{
			RoleArn:         aws.String(a.RoleARN),
			ExternalId:      aws.String(a.ExternalID),
			RoleSessionName: aws.String(r.cfg.RoleSessionName),
		}
		if r.cfg.SessionDuration > 0 {
			in.DurationSeconds = aws.Int32(int32(r.cfg.SessionDuration / time.Second))
		}
		out, err := r.sts.AssumeRole(ctx, in)
		if err != nil {
			return account.Credentials{}, fmt.Errorf("assume role %s: %w", a.RoleARN, err)
		}
		if out.Credentials == nil {
			return account.Credentials{}, errors.New("failed to assume role")
		}
		r.log.Debug("role assumed",
			zap.String("account_id", a.ID.String()),
			zap.String("role_arn", a.RoleARN),
		)
		return account.Credentials{
			AccessKeyID:     aws.ToString(out.Credentials.AccessKeyId),
			SecretAccessKey: aws.ToString(out.Credentials.SecretAccessKey),
			SessionToken:    aws.ToString(out.Credentials.SessionToken),
			Region:          a.Region,
		}, nil

	default:
		return account.Credentials{}, fmt.Errorf("unsupported auth method: %s", a.AuthMethod)
	}
}
