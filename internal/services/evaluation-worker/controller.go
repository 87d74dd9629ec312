package evaluation_worker

import (
	"context"
	"errors"

	kafkax "github.com/NordCoder/CloudCorrect/internal/repository/kafka"
	"go.uber.org/zap"
)

type Controller struct {
	Log *zap.Logger
	Sub *kafkax.Consumer
	UC  *Handler
}

func (c *Controller) Run(ctx context.Context) error {
	handler := kafkax.StructHandler(kafkax.DecodeJSON[kafkax.EvaluationRequested],
		func(ctx context.Context, _ []byte, msg *kafkax.EvaluationRequested) error {
			c.Log.Debug("evaluation-request", zap.String("group_id", msg.GroupID.String()))
			return c.UC.HandleRequest(ctx, msg.GroupID)
		},
	)
	if err := c.Sub.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		c.Log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return ctx.Err()
}
