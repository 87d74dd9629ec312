package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheck(service, typ string) *check.Check {
	return &check.Check{ID: uuid.New(), Service: service, Type: typ, Alias: "x"}
}

func TestEvaluate_UnsupportedService(t *testing.T) {
	e := New(NewRegistry(), Config{}, nil)
	res := e.Evaluate(context.Background(), newCheck("LAMBDA", "FN"), nil, account.Credentials{})

	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "Valid check configuration", res.Expected)
	assert.Equal(t, "Configuration error", res.Observed)
	assert.Equal(t, "unsupported service: LAMBDA", res.Reason)
}

func TestEvaluate_UnsupportedType(t *testing.T) {
	reg := NewRegistry()
	RegisterNetwork(reg, fakeICMP{}, &fakeHTTP{})
	res := New(reg, Config{}, nil).Evaluate(context.Background(), newCheck(ServiceNetwork, "TCP"), nil, account.Credentials{})

	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "unsupported NETWORK check type: TCP", res.Reason)
}

func TestEvaluate_MissingParameter(t *testing.T) {
	fc := &fakeClients{ec2: &fakeEC2{}}
	reg := NewRegistry()
	RegisterAWS(reg, fc)

	c := newCheck(ServiceEC2, TypeInstanceRunning)
	res := New(reg, Config{}, nil).Evaluate(context.Background(), c, map[string]any{}, account.Credentials{})

	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "Valid check configuration", res.Expected)
	assert.Equal(t, "missing required parameter: instanceId", res.Reason)
	assert.Nil(t, fc.ec2.in, "provider must not be called")
}

func TestEvaluate_APIError(t *testing.T) {
	fc := &fakeClients{ec2: &fakeEC2{err: errAPI}}
	reg := NewRegistry()
	RegisterAWS(reg, fc)

	c := newCheck(ServiceEC2, TypeInstanceRunning)
	res := New(reg, Config{}, nil).Evaluate(context.Background(), c, map[string]any{"instanceId": "i-1"}, account.Credentials{})

	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "Successful API call", res.Expected)
	assert.Equal(t, "API error", res.Observed)
	assert.Equal(t, errAPI.Error(), res.Reason)
	assert.Equal(t, c.ID, res.CheckID)
	assert.Equal(t, "x", res.Alias)
}

func TestEvaluate_PanicBecomesFail(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFunc(Key{"X", "Y"}, func(context.Context, Request) (check.Result, error) {
		panic("kaboom")
	})
	res := New(reg, Config{}, nil).Evaluate(context.Background(), newCheck("X", "Y"), nil, account.Credentials{})

	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "API error", res.Observed)
	assert.Contains(t, res.Reason, "kaboom")
}

func TestEvaluate_Timeout(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFunc(Key{"X", "SLOW"}, func(ctx context.Context, _ Request) (check.Result, error) {
		<-ctx.Done()
		return check.Result{}, ctx.Err()
	})
	res := New(reg, Config{Timeout: 20 * time.Millisecond}, nil).
		Evaluate(context.Background(), newCheck("X", "SLOW"), nil, account.Credentials{})

	assert.Equal(t, check.StatusFail, res.Status)
	assert.Contains(t, res.Reason, "timed out")
}

func TestEvaluate_UnknownStatusIsFail(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFunc(Key{"X", "Y"}, func(context.Context, Request) (check.Result, error) {
		return check.Result{Status: "MAYBE"}, nil
	})
	res := New(reg, Config{}, nil).Evaluate(context.Background(), newCheck("X", "Y"), nil, account.Credentials{})
	assert.Equal(t, check.StatusFail, res.Status)
}

func TestEvaluate_RegionPrecedence(t *testing.T) {
	running := &ec2.DescribeInstancesOutput{Reservations: []ec2types.Reservation{{
		Instances: []ec2types.Instance{{State: &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning}}},
	}}}
	fc := &fakeClients{ec2: &fakeEC2{out: running}}
	reg := NewRegistry()
	RegisterAWS(reg, fc)
	e := New(reg, Config{DefaultRegion: "us-west-2"}, nil)
	params := map[string]any{"instanceId": "i-1"}

	c := newCheck(ServiceEC2, TypeInstanceRunning)
	e.Evaluate(context.Background(), c, params, account.Credentials{})
	e.Evaluate(context.Background(), c, params, account.Credentials{Region: "eu-west-1"})
	c.Region = "ap-south-1"
	e.Evaluate(context.Background(), c, params, account.Credentials{Region: "eu-west-1"})

	assert.Equal(t, []string{"us-west-2", "eu-west-1", "ap-south-1"}, fc.regions)
}

func TestRegistry(t *testing.T) {
	reg := NewDefaultRegistry(&fakeClients{}, fakeICMP{}, &fakeHTTP{})
	keys := reg.Keys()
	require.Len(t, keys, 14)
	assert.Equal(t, Key{ServiceALB, TypeTargetGroupHealthy}, keys[0])

	_, err := reg.Lookup(ServiceRDS, TypeRDSEncryptionEnabled)
	assert.NoError(t, err)

	assert.Panics(t, func() {
		reg.Register(Key{ServiceNetwork, TypePing}, HandlerFunc(nil))
	})
}

func TestDecode_WeakTyping(t *testing.T) {
	p, err := decode[instanceParams](map[string]any{"instanceId": 1234})
	require.NoError(t, err)
	assert.Equal(t, "1234", p.InstanceID)

	_, err = decode[dnsParams](map[string]any{"hostedZoneId": "Z1", "recordName": "a.example.com"})
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "expectedValue", cerr.Param)
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, nilIfEmpty(""))
	assert.Equal(t, "a", nilIfEmpty("a"))
	assert.Equal(t, "None", orDefault(aws.ToString(nil), "None"))
}
