package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// AlertRelayPolicy retries publishing a failed-group alert from the outbox.
// Permanent errors and a canceled context end the loop at once; the outbox
// runner picks the message up again on a later tick.
func AlertRelayPolicy(log *zap.Logger) Policy {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "retry"), zap.String("policy", "alert_relay"))
	return Policy{
		Name:     "alert_relay",
		Attempts: 5,
		Backoff:  ExpoJitter{Base: 250 * time.Millisecond, Max: 10 * time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return !errors.Is(err, context.Canceled) && !IsPermanent(err)
		},
		OnAttempt: func(i int, err error) {
			log.Warn("alert relay attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		},
		OnExhaust: func(err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("alert relay gave up", zap.Bool("permanent", IsPermanent(err)), zap.Error(err))
		},
	}
}
