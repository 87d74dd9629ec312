package scheduler

import (
	"context"
	"fmt"
	"time"

	config "github.com/NordCoder/CloudCorrect/internal/config/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	mFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_groups_fetched_total", Help: "Due groups fetched from DB",
	})
	mSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_messages_sent_total", Help: "Evaluation requests published to Kafka",
	})
	mErr = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_errors_total", Help: "Errors in scheduler loop",
	})
	mLoopDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "scheduler_loop_duration_seconds", Help: "Scheduler tick duration",
		Buckets: prometheus.DefBuckets,
	})
)

type Runner struct {
	Log *zap.Logger
	UC  *Usecase
	Cfg *config.SchedCfg
}

func New(log *zap.Logger, uc *Usecase, cfg *config.SchedCfg) *Runner {
	return &Runner{Log: log, UC: uc, Cfg: cfg}
}

func (r *Runner) tick(ctx context.Context) {
	_ = r.Once(ctx)
}

// Once publishes a single batch of due groups and reports a fetch failure or
// any publish failure as an error.
func (r *Runner) Once(ctx context.Context) error {
	start := time.Now()
	defer func() { mLoopDur.Observe(time.Since(start).Seconds()) }()

	res, err := r.UC.Tick(ctx, r.Cfg.BatchLimit)
	if err != nil {
		mErr.Inc()
		r.Log.Warn("tick error", zap.Error(err))
		return err
	}
	mFetched.Add(float64(res.Fetched))
	mSent.Add(float64(res.Sent))
	mErr.Add(float64(res.Failed))
	if res.Fetched > 0 {
		r.Log.Debug("scheduled batch", zap.Int("fetched", res.Fetched), zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d evaluation requests not published", res.Failed, res.Fetched)
	}
	return nil
}

// Run ticks once immediately and then on the configured interval until ctx
// is done. Overlapping ticks are skipped.
func (r *Runner) Run(ctx context.Context) error {
	tick := r.Cfg.Tick
	if tick <= 0 {
		tick = 10 * time.Second
	}

	cl := cronLogger{s: r.Log.Sugar()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", tick), func() { r.tick(ctx) }); err != nil {
		return fmt.Errorf("schedule tick: %w", err)
	}

	r.tick(ctx)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
