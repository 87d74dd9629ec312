package notifier

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"time"

	config "github.com/NordCoder/CloudCorrect/internal/config/alert-notifier"
	"github.com/NordCoder/CloudCorrect/internal/domain/notification"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var _ notification.EmailSender = (*Mailer)(nil)

type Mailer struct {
	dialer     *gomail.Dialer
	from       string
	subjPrefix string
	timeout    time.Duration

	log *zap.Logger
}

func NewMailer(cfg config.SMTP) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.UseTLS
	if cfg.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailer{
		dialer:     d,
		from:       cfg.From,
		subjPrefix: cfg.SubjPrefix,
		timeout:    timeout,
		log:        zap.L().With(zap.String("component", "alert-notifier.mailer")),
	}
}

func (m *Mailer) WithLogger(l *zap.Logger) *Mailer {
	if l == nil {
		return m
	}
	cp := *m
	cp.log = l.With(zap.String("component", "alert-notifier.mailer"))
	return &cp
}

func (m *Mailer) message(e notification.Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", e.To...)
	msg.SetHeader("Subject", strings.TrimSpace(m.subjPrefix+" "+e.Subject))
	msg.SetBody("text/plain", e.Text)
	if e.HTML != "" {
		msg.AddAlternative("text/html", e.HTML)
	}
	return msg
}

// Send delivers one message to every recipient. gomail has no context
// support, so the call is abandoned once ctx or the timeout expires.
func (m *Mailer) Send(ctx context.Context, e notification.Email) error {
	if len(e.To) == 0 {
		return errors.New("no recipients")
	}
	log := m.log.With(
		zap.String("smtp_host", m.dialer.Host),
		zap.Int("smtp_port", m.dialer.Port),
		zap.Strings("to", e.To),
		zap.String("subject", e.Subject),
	)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(m.message(e)) }()

	select {
	case <-ctx.Done():
		log.Error("smtp send timed out", zap.Error(ctx.Err()))
		return ctx.Err()
	case err := <-done:
		if err != nil {
			log.Error("smtp send failed", zap.Error(err))
			return err
		}
	}
	log.Info("email sent", zap.Duration("elapsed", time.Since(start)))
	return nil
}
