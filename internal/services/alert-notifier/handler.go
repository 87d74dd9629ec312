package notifier

import (
	"context"
	"encoding/json"

	"github.com/NordCoder/CloudCorrect/internal/domain/alert"
	"github.com/NordCoder/CloudCorrect/internal/domain/notification"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_notifier_messages_consumed_total", Help: "Group-failed alerts consumed",
	})
	mSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_notifier_emails_sent_total", Help: "Alert emails sent",
	})
	mErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_notifier_errors_total", Help: "Errors",
	})
	mDuplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alert_notifier_duplicates_total", Help: "Alerts skipped because the run was already mailed",
	})
)

type Handler struct {
	Log    *zap.Logger
	Store  notification.Repo
	Out    notification.EmailSender
	Clock  notification.Clock
	AppURL string
}

// HandleAlert mails every recipient of a failed group. Delivery problems are
// logged and swallowed so the message is still committed.
func (h *Handler) HandleAlert(ctx context.Context, a alert.Alert) error {
	mConsumed.Inc()
	log := h.Log.With(
		zap.String("group_id", a.GroupID.String()),
		zap.String("run_id", a.RunID.String()),
	)

	payload, _ := json.Marshal(a)
	log.Info("alert received", zap.ByteString("payload", payload))

	if len(a.Recipients) == 0 {
		log.Debug("alert has no recipients")
		return nil
	}
	// kafka delivers at least once; a run is mailed at most once
	if sent, err := h.Store.SentForRun(ctx, a.RunID); err != nil {
		log.Warn("notification lookup failed, sending anyway", zap.Error(err))
	} else if sent {
		mDuplicates.Inc()
		log.Info("alert already delivered")
		return nil
	}

	email, err := Render(h.AppURL, a)
	if err != nil {
		mErrors.Inc()
		log.Error("render alert email", zap.Error(err))
		return nil
	}

	if err := h.Out.Send(ctx, email); err != nil {
		mErrors.Inc()
		log.Error("failed to send alert email", zap.Strings("to", email.To), zap.Error(err))
		return nil
	}
	mSent.Inc()
	log.Info("alert email sent", zap.Strings("to", email.To))

	sentAt := h.Clock.Now().UTC()
	rows := make([]*notification.Notification, 0, len(email.To))
	for _, to := range email.To {
		rows = append(rows, &notification.Notification{
			GroupID:   a.GroupID,
			RunID:     a.RunID,
			Recipient: to,
			Type:      "email",
			SentAt:    sentAt,
			Payload:   string(payload),
		})
	}
	if err := h.Store.CreateBatch(ctx, rows); err != nil {
		mErrors.Inc()
		log.Warn("store notifications", zap.Int("rows", len(rows)), zap.Error(err))
	}
	return nil
}
