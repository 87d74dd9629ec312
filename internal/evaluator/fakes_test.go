package evaluator

import (
	"context"
	"errors"

	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/probe"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var errAPI = errors.New("AccessDenied: not authorized")

// fakeClients hands out canned API fakes and remembers the region asked for.
type fakeClients struct {
	ec2     *fakeEC2
	elb     *fakeELB
	r53     *fakeRoute53
	iam     *fakeIAM
	s3      *fakeS3
	rds     *fakeRDS
	ecs     *fakeECS
	regions []string
}

func (f *fakeClients) EC2(_ account.Credentials, region string) EC2API {
	f.regions = append(f.regions, region)
	return f.ec2
}

func (f *fakeClients) ELB(_ account.Credentials, region string) ELBAPI {
	f.regions = append(f.regions, region)
	return f.elb
}

func (f *fakeClients) Route53(account.Credentials) Route53API { return f.r53 }
func (f *fakeClients) IAM(account.Credentials) IAMAPI         { return f.iam }

func (f *fakeClients) S3(_ account.Credentials, region string) S3API {
	f.regions = append(f.regions, region)
	return f.s3
}

func (f *fakeClients) RDS(_ account.Credentials, region string) RDSAPI {
	f.regions = append(f.regions, region)
	return f.rds
}

func (f *fakeClients) ECS(_ account.Credentials, region string) ECSAPI {
	f.regions = append(f.regions, region)
	return f.ecs
}

type fakeEC2 struct {
	out *ec2.DescribeInstancesOutput
	err error
	in  *ec2.DescribeInstancesInput
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.in = in
	return f.out, f.err
}

type fakeELB struct {
	out *elbv2.DescribeTargetHealthOutput
	err error
}

func (f *fakeELB) DescribeTargetHealth(context.Context, *elbv2.DescribeTargetHealthInput, ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error) {
	return f.out, f.err
}

type fakeRoute53 struct {
	out *route53.ListResourceRecordSetsOutput
	err error
}

func (f *fakeRoute53) ListResourceRecordSets(context.Context, *route53.ListResourceRecordSetsInput, ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error) {
	return f.out, f.err
}

type fakeIAM struct {
	role     *iam.GetRoleOutput
	roleErr  error
	pages    []*iam.ListAttachedRolePoliciesOutput
	pageErr  error
	pageCall int
}

func (f *fakeIAM) GetRole(context.Context, *iam.GetRoleInput, ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	return f.role, f.roleErr
}

func (f *fakeIAM) ListAttachedRolePolicies(context.Context, *iam.ListAttachedRolePoliciesInput, ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if f.pageCall >= len(f.pages) {
		return &iam.ListAttachedRolePoliciesOutput{}, nil
	}
	p := f.pages[f.pageCall]
	f.pageCall++
	return p, nil
}

type fakeS3 struct {
	out *s3.GetBucketLifecycleConfigurationOutput
	err error
}

func (f *fakeS3) GetBucketLifecycleConfiguration(context.Context, *s3.GetBucketLifecycleConfigurationInput, ...func(*s3.Options)) (*s3.GetBucketLifecycleConfigurationOutput, error) {
	return f.out, f.err
}

type fakeRDS struct {
	out *rds.DescribeDBInstancesOutput
	err error
}

func (f *fakeRDS) DescribeDBInstances(context.Context, *rds.DescribeDBInstancesInput, ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	return f.out, f.err
}

type fakeECS struct {
	clusters *ecs.DescribeClustersOutput
	services *ecs.DescribeServicesOutput
	err      error
}

func (f *fakeECS) DescribeClusters(context.Context, *ecs.DescribeClustersInput, ...func(*ecs.Options)) (*ecs.DescribeClustersOutput, error) {
	return f.clusters, f.err
}

func (f *fakeECS) DescribeServices(context.Context, *ecs.DescribeServicesInput, ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error) {
	return f.services, f.err
}

type fakeICMP struct {
	res probe.PingResult
	err error
}

func (f fakeICMP) Ping(context.Context, string) (probe.PingResult, error) { return f.res, f.err }

type fakeHTTP struct {
	res probe.HTTPResult
	err error
	url string
}

func (f *fakeHTTP) Get(_ context.Context, url string) (probe.HTTPResult, error) {
	f.url = url
	return f.res, f.err
}
