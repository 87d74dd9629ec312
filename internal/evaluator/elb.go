package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

const TypeTargetGroupHealthy = "TARGET_GROUP_HEALTHY"

type targetGroupParams struct {
	TargetGroupArn string `param:"targetGroupArn" validate:"required"`
}

type elbHandler struct{ clients Clients }

func (h elbHandler) Evaluate(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[targetGroupParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}

	out, err := h.clients.ELB(req.Creds, req.Region).DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{
		TargetGroupArn: aws.String(p.TargetGroupArn),
	})
	if err != nil {
		return check.Result{}, err
	}

	var healthy []string
	for _, d := range out.TargetHealthDescriptions {
		if d.TargetHealth == nil || d.TargetHealth.State != elbtypes.TargetHealthStateEnumHealthy {
			continue
		}
		var id string
		if d.Target != nil {
			id = aws.ToString(d.Target.Id)
		}
		healthy = append(healthy, id)
	}
	total := len(out.TargetHealthDescriptions)

	shown := healthy
	suffix := ""
	if len(shown) > 5 {
		shown, suffix = shown[:5], "..."
	}
	ids := strings.Join(shown, ", ") + suffix
	evidence := fmt.Sprintf("Healthy: %d/%d targets | IDs: %s", len(healthy), total, orDefault(ids, "none"))

	targetIDs := make([]any, 0, len(healthy))
	for _, id := range healthy {
		targetIDs = append(targetIDs, id)
	}

	return verdict(len(healthy) > 0, "target group has >=1 healthy target", evidence,
		fmt.Sprintf("Target group is healthy with %d targets", len(healthy)),
		"Target group has no healthy targets",
		map[string]any{
			"healthyCount":   len(healthy),
			"totalCount":     total,
			"targetIds":      targetIDs,
			"targetGroupArn": p.TargetGroupArn,
		}), nil
}
