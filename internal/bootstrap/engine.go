package bootstrap

import (
	"context"
	"fmt"

	common "github.com/NordCoder/CloudCorrect/internal/config/common"
	"github.com/NordCoder/CloudCorrect/internal/domain/alert"
	"github.com/NordCoder/CloudCorrect/internal/engine"
	"github.com/NordCoder/CloudCorrect/internal/evaluator"
	"github.com/NordCoder/CloudCorrect/internal/probe"
	awsinfra "github.com/NordCoder/CloudCorrect/internal/repository/aws"
	pg "github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"go.uber.org/zap"
)

type EngineConfig struct {
	Engine common.Engine
	AWS    common.AWS
	Probe  common.Probe
}

// NewAggregator wires the evaluation engine against Postgres, the AWS SDK and
// the network probes. alerts may be nil when a process must not emit alerts.
func NewAggregator(ctx context.Context, cfg EngineConfig, db *pg.DB, alerts alert.Dispatcher, l *zap.Logger) (*engine.Aggregator, error) {
	creds, err := awsinfra.NewCredentialsResolver(ctx, cfg.AWS.Credentials, l)
	if err != nil {
		return nil, fmt.Errorf("credentials resolver: %w", err)
	}

	registry := evaluator.NewDefaultRegistry(
		awsinfra.NewClients(cfg.AWS.GlobalRegion),
		probe.NewICMPClient(cfg.Probe.ICMP),
		probe.NewHTTPClient(cfg.Probe.HTTP),
	)
	eval := evaluator.New(registry, cfg.Engine.Evaluator, l)

	var locker engine.Locker
	switch cfg.Engine.Lock {
	case "", "postgres":
		locker = pg.NewAdvisoryLocker(db, l)
	case "memory":
		locker = engine.NewMemoryLocker()
	default:
		return nil, fmt.Errorf("unknown engine.lock %q", cfg.Engine.Lock)
	}

	return &engine.Aggregator{
		Groups:     pg.NewGroupRepo(db),
		Checks:     pg.NewCheckRepo(db),
		Accounts:   pg.NewAccountRepo(db),
		Runs:       pg.NewRunRepo(db),
		Creds:      creds,
		Transactor: pg.NewTransactor(db, l),
		Locker:     locker,
		Alerts:     alerts,
		Acc:        engine.NewAccumulator(eval, l),
		Clock:      engine.SystemClock{},
		Log:        l,
	}, nil
}
