package aws

import (
	"github.com/NordCoder/CloudCorrect/internal/domain/account"
	"github.com/NordCoder/CloudCorrect/internal/evaluator"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var _ evaluator.Clients = (*Clients)(nil)

// Clients builds SDK clients per call from already resolved credentials.
// Retries are disabled: a failed provider call is a failed check.
type Clients struct {
	globalRegion string
}

func NewClients(globalRegion string) *Clients {
	if globalRegion == "" {
		globalRegion = evaluator.DefaultRegion
	}
	return &Clients{globalRegion: globalRegion}
}

func (c *Clients) config(creds account.Credentials, region string) aws.Config {
	return aws.Config{
		Region: region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken,
		)),
		Retryer: func() aws.Retryer { return aws.NopRetryer{} },
	}
}

func (c *Clients) EC2(creds account.Credentials, region string) evaluator.EC2API {
	return ec2.NewFromConfig(c.config(creds, region))
}

func (c *Clients) ELB(creds account.Credentials, region string) evaluator.ELBAPI {
	return elbv2.NewFromConfig(c.config(creds, region))
}

func (c *Clients) Route53(creds account.Credentials) evaluator.Route53API {
	return route53.NewFromConfig(c.config(creds, c.globalRegion))
}

func (c *Clients) IAM(creds account.Credentials) evaluator.IAMAPI {
	return iam.NewFromConfig(c.config(creds, c.globalRegion))
}

func (c *Clients) S3(creds account.Credentials, region string) evaluator.S3API {
	return s3.NewFromConfig(c.config(creds, region))
}

func (c *Clients) RDS(creds account.Credentials, region string) evaluator.RDSAPI {
	return rds.NewFromConfig(c.config(creds, region))
}

func (c *Clients) ECS(creds account.Credentials, region string) evaluator.ECSAPI {
	return ecs.NewFromConfig(c.config(creds, region))
}
