package notifier

import (
	"context"
	"errors"

	"github.com/NordCoder/CloudCorrect/internal/domain/alert"
	kafkax "github.com/NordCoder/CloudCorrect/internal/repository/kafka"
	"go.uber.org/zap"
)

type Controller struct {
	Log *zap.Logger
	Sub *kafkax.Consumer
	UC  *Handler
}

func (c *Controller) Run(ctx context.Context) error {
	handler := kafkax.StructHandler(kafkax.DecodeJSON[alert.Alert],
		func(ctx context.Context, _ []byte, a *alert.Alert) error {
			return c.UC.HandleAlert(ctx, *a)
		},
	)
	if err := c.Sub.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		c.Log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return ctx.Err()
}
