package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-booking/internal/config"
	"github.com/jwalitptl/clinic-booking/pkg/circuitbreaker"
	"github.com/jwalitptl/clinic-booking/pkg/metrics"
)

const templatePasswordReset = "password_reset"

// After smtpMaxFailures failed deliveries in a row, sends are skipped for
// smtpCoolDown.
const (
	smtpMaxFailures = 3
	smtpCoolDown    = 30 * time.Second
)

type Service interface {
	SendPasswordReset(ctx context.Context, email string, token string) error
}

// Dialer is the part of gomail.Dialer used to deliver messages.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var resetTemplate = template.Must(template.New(templatePasswordReset).Parse(`<p>مرحبا،</p>
<p>لإعادة تعيين كلمة المرور اضغط على الرابط التالي:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>إذا لم تطلب ذلك يمكنك تجاهل هذه الرسالة.</p>`))

type smtpService struct {
	dialer   Dialer
	breaker  *circuitbreaker.CircuitBreaker
	from     string
	resetURL string
	metrics  *metrics.Metrics
}

func NewSMTPService(cfg config.MailConfig, m *metrics.Metrics) Service {
	return NewService(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg, m)
}

func NewService(dialer Dialer, cfg config.MailConfig, m *metrics.Metrics) Service {
	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "smtp",
		MaxFailures: smtpMaxFailures,
		Timeout:     smtpCoolDown,
	})
	return &smtpService{
		dialer:   dialer,
		breaker:  breaker,
		from:     cfg.From,
		resetURL: cfg.ResetURL,
		metrics:  m,
	}
}

func (s *smtpService) SendPasswordReset(ctx context.Context, to string, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	data := struct{ Link string }{Link: s.resetURL + "/" + token}
	if err := resetTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "إعادة تعيين كلمة المرور")
	msg.SetBody("text/html", body.String())

	err := s.breaker.Execute(func() error { return s.dialer.DialAndSend(msg) })
	if errors.Is(err, circuitbreaker.ErrOpen) {
		s.record(templatePasswordReset, "skipped")
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	if err != nil {
		s.record(templatePasswordReset, "error")
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	s.record(templatePasswordReset, "success")
	return nil
}

func (s *smtpService) record(tmpl, status string) {
	if s.metrics != nil {
		s.metrics.EmailsSent.WithLabelValues(tmpl, status).Inc()
	}
}
