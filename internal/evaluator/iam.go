package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
)

const (
	TypeRoleExists    = "ROLE_EXISTS"
	TypeRoleHasPolicy = "ROLE_HAS_POLICY"
)

type roleParams struct {
	RoleName string `param:"roleName" validate:"required"`
}

type rolePolicyParams struct {
	RoleName  string `param:"roleName" validate:"required"`
	PolicyArn string `param:"policyArn" validate:"required"`
}

type iamHandler struct{ clients Clients }

// roleExists reports a failed lookup as a missing role, not an API error.
func (h iamHandler) roleExists(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[roleParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}
	expected := fmt.Sprintf("IAM role %s exists", p.RoleName)

	out, err := h.clients.IAM(req.Creds).GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(p.RoleName)})
	if err != nil {
		return fail(expected, "Role not found", err.Error(), map[string]any{"roleName": p.RoleName}), nil
	}

	data := map[string]any{"roleName": p.RoleName}
	if out.Role != nil {
		data["arn"] = nilIfEmpty(aws.ToString(out.Role.Arn))
		data["path"] = nilIfEmpty(aws.ToString(out.Role.Path))
		if out.Role.CreateDate != nil {
			data["createDate"] = out.Role.CreateDate.UTC().Format(time.RFC3339)
		}
	}
	return pass(expected, "Role found", "IAM role exists", data), nil
}

func (h iamHandler) roleHasPolicy(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[rolePolicyParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}

	var (
		found    bool
		attached []any
	)
	pages := iam.NewListAttachedRolePoliciesPaginator(h.clients.IAM(req.Creds), &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String(p.RoleName),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return check.Result{}, err
		}
		for _, pol := range page.AttachedPolicies {
			arn := aws.ToString(pol.PolicyArn)
			attached = append(attached, map[string]any{
				"policyArn":  arn,
				"policyName": aws.ToString(pol.PolicyName),
			})
			if arn == p.PolicyArn {
				found = true
			}
		}
	}

	observed := "Policy not found"
	if found {
		observed = "Policy found"
	}
	return verdict(found,
		fmt.Sprintf("IAM role has policy %s attached", p.PolicyArn),
		observed,
		"IAM role has the required policy",
		"IAM role is missing the required policy",
		map[string]any{"roleName": p.RoleName, "policyArn": p.PolicyArn, "attachedPolicies": attached}), nil
}
