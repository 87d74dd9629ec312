package evaluator

import (
	"context"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

const (
	TypeECSClusterActive  = "ECS_CLUSTER_ACTIVE"
	TypeECSServiceRunning = "ECS_SERVICE_RUNNING"
	ecsStatusActive       = "ACTIVE"
)

type clusterParams struct {
	ClusterName string `param:"clusterName" validate:"required"`
}

type serviceParams struct {
	ClusterName string `param:"clusterName" validate:"required"`
	ServiceName string `param:"serviceName" validate:"required"`
}

type ecsHandler struct{ clients Clients }

func (h ecsHandler) clusterActive(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[clusterParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}

	out, err := h.clients.ECS(req.Creds, req.Region).DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: []string{p.ClusterName},
	})
	if err != nil {
		return check.Result{}, err
	}
	if len(out.Clusters) == 0 {
		return fail("ECS cluster exists", "Not found",
			fmt.Sprintf("ECS cluster %s not found", p.ClusterName), nil), nil
	}

	c := out.Clusters[0]
	status := aws.ToString(c.Status)
	evidence := fmt.Sprintf("Status: %s | Services: %d | Tasks: %d", status, c.ActiveServicesCount, c.RunningTasksCount)

	return verdict(status == ecsStatusActive, "status == ACTIVE", evidence,
		"ECS cluster is active",
		"ECS cluster is "+status,
		map[string]any{
			"clusterName": p.ClusterName,
			"status":      status,
			"services":    int(c.ActiveServicesCount),
			"tasks":       int(c.RunningTasksCount),
		}), nil
}

func (h ecsHandler) serviceRunning(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[serviceParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}

	out, err := h.clients.ECS(req.Creds, req.Region).DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(p.ClusterName),
		Services: []string{p.ServiceName},
	})
	if err != nil {
		return check.Result{}, err
	}
	if len(out.Services) == 0 {
		return fail("ECS service exists", "Not found",
			fmt.Sprintf("ECS service %s not found in cluster %s", p.ServiceName, p.ClusterName), nil), nil
	}

	s := out.Services[0]
	status := aws.ToString(s.Status)
	running, desired := int(s.RunningCount), int(s.DesiredCount)

	reason := "ECS service is healthy"
	switch {
	case running < desired:
		reason = "ECS service has insufficient tasks"
	case status != ecsStatusActive:
		reason = "ECS service is " + status
	}

	return verdict(running >= desired && status == ecsStatusActive,
		fmt.Sprintf("runningCount >= desiredCount (%d)", desired),
		fmt.Sprintf("Status: %s | Running: %d/%d tasks", status, running, desired),
		reason, reason,
		map[string]any{
			"clusterName": p.ClusterName,
			"serviceName": p.ServiceName,
			"running":     running,
			"desired":     desired,
			"status":      status,
		}), nil
}
