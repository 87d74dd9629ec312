package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSTS struct {
	in  *sts.AssumeRoleInput
	out *sts.AssumeRoleOutput
	err error
}

func (f *fakeSTS) AssumeRole(_ context.Context, in *sts.AssumeRoleInput, _ ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	f.in = in
	return f.out, f.err
}

func TestResolve_Keys(t *testing.T) {
	r := NewCredentialsResolverWithSTS(&fakeSTS{}, CredentialsConfig{}, nil)

	creds, err := r.Resolve(context.Background(), &account.Account{
		AuthMethod: account.AuthKeys, AccessKeyID: "AK", SecretAccessKey: "SK", Region: "eu-west-1",
	})
	require.NoError(t, err)
	assert.Equal(t, account.Credentials{AccessKeyID: "AK", SecretAccessKey: "SK", Region: "eu-west-1"}, creds)

	_, err = r.Resolve(context.Background(), &account.Account{AuthMethod: account.AuthKeys, AccessKeyID: "AK"})
	assert.EqualError(t, err, "access key or secret key missing for account")
}

func TestResolve_Role(t *testing.T) {
	api := &fakeSTS{out: &sts.AssumeRoleOutput{Credentials: &ststypes.Credentials{
		AccessKeyId:     aws.String("ASIA"),
		SecretAccessKey: aws.String("secret"),
		SessionToken:    aws.String("token"),
	}}}
	r := NewCredentialsResolverWithSTS(api, CredentialsConfig{SessionDuration: 15 * time.Minute}, nil)

	creds, err := r.Resolve(context.Background(), &account.Account{
		ID: uuid.New(), AuthMethod: account.AuthRole,
		RoleARN: "arn:aws:iam::1:role/audit", ExternalID: "ext", Region: "us-west-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "ASIA", creds.AccessKeyID)
	assert.Equal(t, "token", creds.SessionToken)
	assert.Equal(t, "us-west-2", creds.Region)

	require.NotNil(t, api.in)
	assert.Equal(t, "arn:aws:iam::1:role/audit", aws.ToString(api.in.RoleArn))
	assert.Equal(t, "ext", aws.ToString(api.in.ExternalId))
	assert.Equal(t, DefaultSessionName, aws.ToString(api.in.RoleSessionName))
	assert.Equal(t, int32(900), aws.ToInt32(api.in.DurationSeconds))
}

func TestResolve_RoleFailures(t *testing.T) {
	ctx := context.Background()
	acc := &account.Account{AuthMethod: account.AuthRole, RoleARN: "arn:r", ExternalID: "e"}

	r := NewCredentialsResolverWithSTS(&fakeSTS{err: errors.New("AccessDenied")}, CredentialsConfig{}, nil)
	_, err := r.Resolve(ctx, acc)
	assert.ErrorContains(t, err, "AccessDenied")

	r = NewCredentialsResolverWithSTS(&fakeSTS{out: &sts.AssumeRoleOutput{}}, CredentialsConfig{}, nil)
	_, err = r.Resolve(ctx, acc)
	assert.EqualError(t, err, "failed to assume role")

	_, err = r.Resolve(ctx, &account.Account{AuthMethod: account.AuthRole, RoleARN: "arn:r"})
	assert.EqualError(t, err, "role arn or external id missing for account")

	_, err = r.Resolve(ctx, &account.Account{AuthMethod: "OIDC"})
	assert.EqualError(t, err, "unsupported auth method: OIDC")
}

func TestClients_Regions(t *testing.T) {
	c := NewClients("")
	assert.Equal(t, "us-east-1", c.globalRegion)

	creds := account.Credentials{AccessKeyID: "AK", SecretAccessKey: "SK"}
	cfg := c.config(creds, "eu-north-1")
	assert.Equal(t, "eu-north-1", cfg.Region)

	got, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AK", got.AccessKeyID)
}
