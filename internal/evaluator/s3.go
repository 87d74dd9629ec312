package evaluator

import (
	"context"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const TypeS3LifecycleConfigured = "S3_LIFECYCLE_CONFIGURED"

type bucketParams struct {
	BucketName string `param:"bucketName" validate:"required"`
}

type s3Handler struct{ clients Clients }

// A bucket without a lifecycle configuration makes the API call fail, so
// errors are reported as a failed fetch rather than an API error.
func (h s3Handler) Evaluate(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[bucketParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}
	expected := fmt.Sprintf("S3 bucket %s has lifecycle rules", p.BucketName)

	out, err := h.clients.S3(req.Creds, req.Region).GetBucketLifecycleConfiguration(ctx, &s3.GetBucketLifecycleConfigurationInput{
		Bucket: aws.String(p.BucketName),
	})
	if err != nil {
		return fail(expected, "Error fetching configuration", err.Error(),
			map[string]any{"bucketName": p.BucketName}), nil
	}

	n := len(out.Rules)
	observed := "No lifecycle rules found"
	if n > 0 {
		observed = fmt.Sprintf("%d rules found", n)
	}
	return verdict(n > 0, expected, observed,
		"Lifecycle policy is active",
		"Bucket missing lifecycle configuration",
		map[string]any{"bucketName": p.BucketName, "rulesCount": n, "region": req.Region}), nil
}
