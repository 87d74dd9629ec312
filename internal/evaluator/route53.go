package evaluator

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

const TypeDNSPointsTo = "DNS_POINTS_TO"

type dnsParams struct {
	HostedZoneID  string `param:"hostedZoneId" validate:"required"`
	RecordName    string `param:"recordName" validate:"required"`
	ExpectedValue string `param:"expectedValue" validate:"required"`
}

type route53Handler struct{ clients Clients }

func (h route53Handler) Evaluate(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[dnsParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}

	out, err := h.clients.Route53(req.Creds).ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(p.HostedZoneID),
		StartRecordName: aws.String(p.RecordName),
		MaxItems:        aws.Int32(1),
	})
	if err != nil {
		return check.Result{}, err
	}

	rec := findRecord(out.ResourceRecordSets, p.RecordName)

	var (
		values   []string
		aliasDNS string
		recType  string
		ttl      any
	)
	if rec != nil {
		for _, v := range rec.ResourceRecords {
			values = append(values, aws.ToString(v.Value))
		}
		if rec.AliasTarget != nil {
			aliasDNS = aws.ToString(rec.AliasTarget.DNSName)
		}
		recType = string(rec.Type)
		if rec.TTL != nil {
			ttl = *rec.TTL
		}
	}

	// an alias record matches when its target DNS name contains the value
	matched := slices.Contains(values, p.ExpectedValue) ||
		(aliasDNS != "" && strings.Contains(aliasDNS, p.ExpectedValue))

	observed := strings.Join(values, ", ")
	if observed == "" {
		observed = orDefault(aliasDNS, "unknown")
	}

	valuesAny := make([]any, 0, len(values))
	for _, v := range values {
		valuesAny = append(valuesAny, v)
	}

	return verdict(matched,
		fmt.Sprintf("DNS record %s points to %s", p.RecordName, p.ExpectedValue),
		"DNS record points to "+observed,
		"DNS record matches expected value",
		"DNS record does not match expected value",
		map[string]any{
			"recordName":   p.RecordName,
			"values":       valuesAny,
			"aliasValue":   nilIfEmpty(aliasDNS),
			"type":         nilIfEmpty(recType),
			"ttl":          ttl,
			"hostedZoneId": p.HostedZoneID,
		}), nil
}

// findRecord accepts the record name with or without the trailing root dot.
func findRecord(sets []r53types.ResourceRecordSet, name string) *r53types.ResourceRecordSet {
	for i := range sets {
		n := aws.ToString(sets[i].Name)
		if n == name || n == name+"." {
			return &sets[i]
		}
	}
	return nil
}
