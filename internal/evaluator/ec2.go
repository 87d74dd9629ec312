package evaluator

import (
	"context"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const (
	TypeInstanceRunning     = "INSTANCE_RUNNING"
	TypeInstanceHasPublicIP = "INSTANCE_HAS_PUBLIC_IP"
)

type instanceParams struct {
	InstanceID string `param:"instanceId" validate:"required"`
}

type ec2Handler struct {
	clients Clients
	typ     string
}

func (h ec2Handler) expected() string {
	if h.typ == TypeInstanceRunning {
		return "instance.state == running"
	}
	return "instance has public ip"
}

func (h ec2Handler) Evaluate(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[instanceParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}

	out, err := h.clients.EC2(req.Creds, req.Region).DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{p.InstanceID},
	})
	if err != nil {
		return check.Result{}, err
	}

	inst := firstInstance(out)
	if inst == nil {
		return fail(h.expected(), "instance not found",
			fmt.Sprintf("EC2 instance %s not found in %s", p.InstanceID, req.Region), nil), nil
	}

	var state string
	if inst.State != nil {
		state = string(inst.State.Name)
	}
	publicIP := aws.ToString(inst.PublicIpAddress)
	name := nameTag(inst.Tags)
	var az string
	if inst.Placement != nil {
		az = aws.ToString(inst.Placement.AvailabilityZone)
	}

	evidence := fmt.Sprintf("ID: %s | Name: %s | State: %s | Type: %s | AZ: %s | Public IP: %s",
		p.InstanceID, name, state, inst.InstanceType, az, orDefault(publicIP, "None"))
	data := map[string]any{
		"instanceId":   p.InstanceID,
		"publicIp":     nilIfEmpty(publicIP),
		"privateIp":    nilIfEmpty(aws.ToString(inst.PrivateIpAddress)),
		"state":        state,
		"name":         name,
		"instanceType": string(inst.InstanceType),
		"az":           az,
		"vpcId":        nilIfEmpty(aws.ToString(inst.VpcId)),
		"subnetId":     nilIfEmpty(aws.ToString(inst.SubnetId)),
	}

	if h.typ == TypeInstanceRunning {
		return verdict(state == string(ec2types.InstanceStateNameRunning), h.expected(), evidence,
			fmt.Sprintf("EC2 instance %s (%s) is running", name, p.InstanceID),
			fmt.Sprintf("EC2 instance %s (%s) is %s", name, p.InstanceID, state),
			data), nil
	}
	return verdict(publicIP != "", h.expected(), evidence,
		fmt.Sprintf("EC2 instance %s has public IP %s", name, publicIP),
		fmt.Sprintf("EC2 instance %s has no public IP", name),
		data), nil
}

func firstInstance(out *ec2.DescribeInstancesOutput) *ec2types.Instance {
	if out == nil {
		return nil
	}
	for _, r := range out.Reservations {
		if len(r.Instances) > 0 {
			return &r.Instances[0]
		}
	}
	return nil
}

func nameTag(tags []ec2types.Tag) string {
	for _, t := range tags {
		if aws.ToString(t.Key) == "Name" && aws.ToString(t.Value) != "" {
			return aws.ToString(t.Value)
		}
	}
	return "Unnamed"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// nilIfEmpty keeps absent provider fields out of placeholder resolution.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
