package evaluator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/NordCoder/CloudCorrect/internal/probe"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCheck(t *testing.T, fc *fakeClients, service, typ string, params map[string]any) check.Result {
	t.Helper()
	reg := NewDefaultRegistry(fc, fakeICMP{}, &fakeHTTP{})
	return New(reg, Config{}, nil).Evaluate(context.Background(), newCheck(service, typ), params, account.Credentials{Region: "eu-west-1"})
}

func instanceOut(state ec2types.InstanceStateName, publicIP string) *ec2.DescribeInstancesOutput {
	inst := ec2types.Instance{
		State:            &ec2types.InstanceState{Name: state},
		InstanceType:     ec2types.InstanceTypeT3Micro,
		PrivateIpAddress: aws.String("10.0.0.5"),
		Placement:        &ec2types.Placement{AvailabilityZone: aws.String("eu-west-1a")},
		Tags:             []ec2types.Tag{{Key: aws.String("Name"), Value: aws.String("web-1")}},
	}
	if publicIP != "" {
		inst.PublicIpAddress = aws.String(publicIP)
	}
	return &ec2.DescribeInstancesOutput{Reservations: []ec2types.Reservation{{Instances: []ec2types.Instance{inst}}}}
}

func TestEC2_InstanceRunning(t *testing.T) {
	fc := &fakeClients{ec2: &fakeEC2{out: instanceOut(ec2types.InstanceStateNameRunning, "3.3.3.3")}}
	res := runCheck(t, fc, ServiceEC2, TypeInstanceRunning, map[string]any{"instanceId": "i-1"})

	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "instance.state == running", res.Expected)
	assert.Contains(t, res.Observed, "Name: web-1")
	assert.Contains(t, res.Observed, "Public IP: 3.3.3.3")
	assert.Equal(t, "3.3.3.3", res.Data["publicIp"])
	assert.Equal(t, "eu-west-1a", res.Data["az"])
	assert.Equal(t, []string{"i-1"}, fc.ec2.in.InstanceIds)
}

func TestEC2_Stopped(t *testing.T) {
	fc := &fakeClients{ec2: &fakeEC2{out: instanceOut(ec2types.InstanceStateNameStopped, "")}}
	res := runCheck(t, fc, ServiceEC2, TypeInstanceRunning, map[string]any{"instanceId": "i-1"})

	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "EC2 instance web-1 (i-1) is stopped", res.Reason)
	assert.Nil(t, res.Data["publicIp"])
}

func TestEC2_PublicIP(t *testing.T) {
	fc := &fakeClients{ec2: &fakeEC2{out: instanceOut(ec2types.InstanceStateNameRunning, "")}}
	res := runCheck(t, fc, ServiceEC2, TypeInstanceHasPublicIP, map[string]any{"instanceId": "i-1"})
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Contains(t, res.Observed, "Public IP: None")

	fc.ec2.out = instanceOut(ec2types.InstanceStateNameRunning, "1.1.1.1")
	res = runCheck(t, fc, ServiceEC2, TypeInstanceHasPublicIP, map[string]any{"instanceId": "i-1"})
	assert.Equal(t, check.StatusPass, res.Status)
}

func TestEC2_NotFound(t *testing.T) {
	fc := &fakeClients{ec2: &fakeEC2{out: &ec2.DescribeInstancesOutput{}}}
	res := runCheck(t, fc, ServiceEC2, TypeInstanceRunning, map[string]any{"instanceId": "i-404"})

	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "instance not found", res.Observed)
	assert.Equal(t, "EC2 instance i-404 not found in eu-west-1", res.Reason)
}

func TestELB_TargetGroupHealthy(t *testing.T) {
	desc := func(id string, st elbtypes.TargetHealthStateEnum) elbtypes.TargetHealthDescription {
		return elbtypes.TargetHealthDescription{
			Target:       &elbtypes.TargetDescription{Id: aws.String(id)},
			TargetHealth: &elbtypes.TargetHealth{State: st},
		}
	}
	fc := &fakeClients{elb: &fakeELB{out: &elbv2.DescribeTargetHealthOutput{
		TargetHealthDescriptions: []elbtypes.TargetHealthDescription{
			desc("i-1", elbtypes.TargetHealthStateEnumHealthy),
			desc("i-2", elbtypes.TargetHealthStateEnumUnhealthy),
		},
	}}}
	res := runCheck(t, fc, ServiceALB, TypeTargetGroupHealthy, map[string]any{"targetGroupArn": "arn:tg"})

	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "Healthy: 1/2 targets | IDs: i-1", res.Observed)
	assert.Equal(t, 1, res.Data["healthyCount"])
	assert.Equal(t, []any{"i-1"}, res.Data["targetIds"])

	fc.elb.out = &elbv2.DescribeTargetHealthOutput{}
	res = runCheck(t, fc, ServiceALB, TypeTargetGroupHealthy, map[string]any{"targetGroupArn": "arn:tg"})
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "Healthy: 0/0 targets | IDs: none", res.Observed)
}

func TestRoute53_DNSPointsTo(t *testing.T) {
	fc := &fakeClients{r53: &fakeRoute53{out: &route53.ListResourceRecordSetsOutput{
		ResourceRecordSets: []r53types.ResourceRecordSet{{
			Name:            aws.String("app.example.com."),
			Type:            r53types.RRTypeA,
			TTL:             aws.Int64(300),
			ResourceRecords: []r53types.ResourceRecord{{Value: aws.String("1.2.3.4")}},
		}},
	}}}
	params := map[string]any{"hostedZoneId": "Z1", "recordName": "app.example.com", "expectedValue": "1.2.3.4"}
	res := runCheck(t, fc, ServiceRoute53, TypeDNSPointsTo, params)

	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "DNS record points to 1.2.3.4", res.Observed)
	assert.Equal(t, int64(300), res.Data["ttl"])

	params["expectedValue"] = "9.9.9.9"
	res = runCheck(t, fc, ServiceRoute53, TypeDNSPointsTo, params)
	assert.Equal(t, check.StatusFail, res.Status)
}

func TestRoute53_AliasContains(t *testing.T) {
	fc := &fakeClients{r53: &fakeRoute53{out: &route53.ListResourceRecordSetsOutput{
		ResourceRecordSets: []r53types.ResourceRecordSet{{
			Name:        aws.String("www.example.com"),
			AliasTarget: &r53types.AliasTarget{DNSName: aws.String("dualstack.my-lb-123.eu-west-1.elb.amazonaws.com.")},
		}},
	}}}
	res := runCheck(t, fc, ServiceRoute53, TypeDNSPointsTo, map[string]any{
		"hostedZoneId": "Z1", "recordName": "www.example.com", "expectedValue": "my-lb-123",
	})
	assert.Equal(t, check.StatusPass, res.Status)
	assert.Contains(t, res.Observed, "dualstack.my-lb-123")
}

func TestRoute53_RecordMissing(t *testing.T) {
	fc := &fakeClients{r53: &fakeRoute53{out: &route53.ListResourceRecordSetsOutput{
		ResourceRecordSets: []r53types.ResourceRecordSet{{Name: aws.String("other.example.com.")}},
	}}}
	res := runCheck(t, fc, ServiceRoute53, TypeDNSPointsTo, map[string]any{
		"hostedZoneId": "Z1", "recordName": "www.example.com", "expectedValue": "x",
	})
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "DNS record points to unknown", res.Observed)
}

func TestIAM_RoleExists(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	fc := &fakeClients{iam: &fakeIAM{role: &iam.GetRoleOutput{Role: &iamtypes.Role{
		Arn: aws.String("arn:aws:iam::1:role/app"), Path: aws.String("/"), CreateDate: &created,
	}}}}
	res := runCheck(t, fc, ServiceIAM, TypeRoleExists, map[string]any{"roleName": "app"})
	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "arn:aws:iam::1:role/app", res.Data["arn"])
	assert.Equal(t, "2024-05-01T00:00:00Z", res.Data["createDate"])

	fc.iam.roleErr = errors.New("NoSuchEntity")
	res = runCheck(t, fc, ServiceIAM, TypeRoleExists, map[string]any{"roleName": "app"})
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "Role not found", res.Observed)
	assert.Equal(t, "NoSuchEntity", res.Reason)
}

func TestIAM_RoleHasPolicy(t *testing.T) {
	fc := &fakeClients{iam: &fakeIAM{pages: []*iam.ListAttachedRolePoliciesOutput{
		{
			AttachedPolicies: []iamtypes.AttachedPolicy{{PolicyArn: aws.String("arn:a"), PolicyName: aws.String("A")}},
			IsTruncated:      true,
			Marker:           aws.String("m1"),
		},
		{
			AttachedPolicies: []iamtypes.AttachedPolicy{{PolicyArn: aws.String("arn:b"), PolicyName: aws.String("B")}},
		},
	}}}
	res := runCheck(t, fc, ServiceIAM, TypeRoleHasPolicy, map[string]any{"roleName": "app", "policyArn": "arn:b"})

	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "Policy found", res.Observed)
	assert.Len(t, res.Data["attachedPolicies"], 2)
	assert.Equal(t, 2, fc.iam.pageCall)

	fc.iam.pageErr = errAPI
	res = runCheck(t, fc, ServiceIAM, TypeRoleHasPolicy, map[string]any{"roleName": "app", "policyArn": "arn:b"})
	assert.Equal(t, "API error", res.Observed)
}

func TestS3_Lifecycle(t *testing.T) {
	fc := &fakeClients{s3: &fakeS3{out: &s3.GetBucketLifecycleConfigurationOutput{
		Rules: []s3types.LifecycleRule{{ID: aws.String("expire")}},
	}}}
	res := runCheck(t, fc, ServiceS3, TypeS3LifecycleConfigured, map[string]any{"bucketName": "logs"})
	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "1 rules found", res.Observed)
	assert.Equal(t, "eu-west-1", res.Data["region"])

	fc.s3.err = errors.New("NoSuchLifecycleConfiguration")
	res = runCheck(t, fc, ServiceS3, TypeS3LifecycleConfigured, map[string]any{"bucketName": "logs"})
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "Error fetching configuration", res.Observed)
}

func TestRDS(t *testing.T) {
	fc := &fakeClients{rds: &fakeRDS{out: &rds.DescribeDBInstancesOutput{DBInstances: []rdstypes.DBInstance{{
		DBInstanceStatus:   aws.String("available"),
		PubliclyAccessible: aws.Bool(true),
		StorageEncrypted:   aws.Bool(true),
		Engine:             aws.String("postgres"),
		DBInstanceClass:    aws.String("db.t3.micro"),
	}}}}}
	params := map[string]any{"dbInstanceIdentifier": "main"}

	res := runCheck(t, fc, ServiceRDS, TypeRDSInstanceAvailable, params)
	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "Status: available | Public: true | Encrypted: true | Engine: postgres | Class: db.t3.micro", res.Observed)

	res = runCheck(t, fc, ServiceRDS, TypeRDSPublicAccessDisabled, params)
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "RDS instance IS publicly accessible", res.Reason)

	res = runCheck(t, fc, ServiceRDS, TypeRDSEncryptionEnabled, params)
	assert.Equal(t, check.StatusPass, res.Status)

	fc.rds.out = &rds.DescribeDBInstancesOutput{}
	res = runCheck(t, fc, ServiceRDS, TypeRDSEncryptionEnabled, params)
	assert.Equal(t, "Not found", res.Observed)
}

func TestECS(t *testing.T) {
	fc := &fakeClients{ecs: &fakeECS{
		clusters: &ecs.DescribeClustersOutput{Clusters: []ecstypes.Cluster{{
			Status: aws.String("ACTIVE"), ActiveServicesCount: 2, RunningTasksCount: 5,
		}}},
		services: &ecs.DescribeServicesOutput{Services: []ecstypes.Service{{
			Status: aws.String("ACTIVE"), RunningCount: 1, DesiredCount: 3,
		}}},
	}}

	res := runCheck(t, fc, ServiceECS, TypeECSClusterActive, map[string]any{"clusterName": "c"})
	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "Status: ACTIVE | Services: 2 | Tasks: 5", res.Observed)

	res = runCheck(t, fc, ServiceECS, TypeECSServiceRunning, map[string]any{"clusterName": "c", "serviceName": "api"})
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "ECS service has insufficient tasks", res.Reason)
	assert.Equal(t, "runningCount >= desiredCount (3)", res.Expected)

	fc.ecs.services.Services[0].RunningCount = 3
	res = runCheck(t, fc, ServiceECS, TypeECSServiceRunning, map[string]any{"clusterName": "c", "serviceName": "api"})
	assert.Equal(t, check.StatusPass, res.Status)

	res = runCheck(t, fc, ServiceECS, TypeECSServiceRunning, map[string]any{"clusterName": "c"})
	assert.Equal(t, "missing required parameter: serviceName", res.Reason)
}

func TestNetwork_Ping(t *testing.T) {
	reg := NewRegistry()
	RegisterNetwork(reg, fakeICMP{res: probe.PingResult{Sent: 1, Received: 1, RTT: 1500 * time.Microsecond, Addr: "1.1.1.1"}}, &fakeHTTP{})
	e := New(reg, Config{}, nil)

	res := e.Evaluate(context.Background(), newCheck(ServiceNetwork, TypePing), map[string]any{"target": "one.one"}, account.Credentials{})
	assert.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "Response in 1.5ms", res.Observed)
	assert.Equal(t, 1.5, res.Data["latency"])

	reg = NewRegistry()
	RegisterNetwork(reg, fakeICMP{err: errors.New("no route")}, &fakeHTTP{})
	res = New(reg, Config{}, nil).Evaluate(context.Background(), newCheck(ServiceNetwork, TypePing), map[string]any{"target": "x"}, account.Credentials{})
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "No response", res.Observed)
	assert.Contains(t, res.Reason, "no route")
}

func TestNetwork_HTTP200(t *testing.T) {
	hp := &fakeHTTP{res: probe.HTTPResult{Status: 200, Latency: 12 * time.Millisecond, Server: "nginx"}}
	reg := NewRegistry()
	RegisterNetwork(reg, fakeICMP{}, hp)
	e := New(reg, Config{}, nil)
	c := newCheck(ServiceNetwork, TypeHTTP200)

	res := e.Evaluate(context.Background(), c, map[string]any{"url": "example.com"}, account.Credentials{})
	require.Equal(t, check.StatusPass, res.Status)
	assert.Equal(t, "Status 200 (12ms)", res.Observed)
	assert.Equal(t, "nginx", res.Data["server"])
	assert.Nil(t, res.Data["contentType"])
	assert.Equal(t, "example.com", hp.url)

	hp.res.Status = 503
	res = e.Evaluate(context.Background(), c, map[string]any{"url": "example.com"}, account.Credentials{})
	assert.Equal(t, check.StatusFail, res.Status)
	assert.Equal(t, "Service returned 503", res.Reason)

	hp.err = errors.New("connection refused")
	res = e.Evaluate(context.Background(), c, map[string]any{"url": "example.com"}, account.Credentials{})
	assert.Equal(t, "Request failed", res.Observed)
	assert.Equal(t, "connection refused", res.Data["error"])
}
