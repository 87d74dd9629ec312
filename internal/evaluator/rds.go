package evaluator

import (
	"context"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
)

const (
	TypeRDSInstanceAvailable    = "RDS_INSTANCE_AVAILABLE"
	TypeRDSPublicAccessDisabled = "RDS_PUBLIC_ACCESS_DISABLED"
	TypeRDSEncryptionEnabled    = "RDS_ENCRYPTION_ENABLED"
	rdsStatusAvailable          = "available"
)

type dbInstanceParams struct {
	DBInstanceIdentifier string `param:"dbInstanceIdentifier" validate:"required"`
}

type rdsHandler struct {
	clients Clients
	typ     string
}

func (h rdsHandler) Evaluate(ctx context.Context, req Request) (check.Result, error) {
	p, err := decode[dbInstanceParams](req.Params)
	if err != nil {
		return check.Result{}, err
	}

	out, err := h.clients.RDS(req.Creds, req.Region).DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(p.DBInstanceIdentifier),
	})
	if err != nil {
		return check.Result{}, err
	}
	if len(out.DBInstances) == 0 {
		return fail("RDS instance exists", "Not found",
			fmt.Sprintf("RDS instance %s not found", p.DBInstanceIdentifier), nil), nil
	}

	db := out.DBInstances[0]
	state := aws.ToString(db.DBInstanceStatus)
	public := aws.ToBool(db.PubliclyAccessible)
	encrypted := aws.ToBool(db.StorageEncrypted)
	engine := aws.ToString(db.Engine)
	class := aws.ToString(db.DBInstanceClass)

	evidence := fmt.Sprintf("Status: %s | Public: %t | Encrypted: %t | Engine: %s | Class: %s",
		state, public, encrypted, engine, class)
	data := map[string]any{
		"dbInstanceIdentifier": p.DBInstanceIdentifier,
		"state":                state,
		"publicAccess":         public,
		"encrypted":            encrypted,
		"engine":               engine,
		"instanceClass":        class,
	}

	switch h.typ {
	case TypeRDSInstanceAvailable:
		return verdict(state == rdsStatusAvailable, "status == available", evidence,
			"RDS instance is available",
			"RDS instance is "+state,
			data), nil
	case TypeRDSPublicAccessDisabled:
		return verdict(!public, "PubliclyAccessible == false", evidence,
			"RDS instance is not publicly accessible",
			"RDS instance IS publicly accessible",
			data), nil
	default:
		return verdict(encrypted, "StorageEncrypted == true", evidence,
			"RDS storage is encrypted",
			"RDS storage is NOT encrypted",
			data), nil
	}
}
