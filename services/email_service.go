package services

import (
	"context"
	"fmt"
	"time"

	"github.com/formgate/formgate-backend/config"
	apperrors "github.com/formgate/formgate-backend/errors"
	"github.com/formgate/formgate-backend/logger"
	"github.com/formgate/formgate-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// MailSender is the outbound transport contract. Implementations must be safe
// for concurrent use; the pooled SMTP provider queues callers when saturated.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService renders submission emails and dispatches them through the
// configured provider. Per submission the admin notification and the user
// confirmation are sent concurrently; only an admin-send failure is fatal.
type EmailService struct {
	config  *config.EmailConfig
	sender  MailSender
	metrics *EmailMetrics
}

// NewEmailService builds the service with the provider selected by
// EMAIL_SERVICE. Missing credentials fail here, at construction time, with a
// configuration error rather than on the first submission.
func NewEmailService(cfg *config.EmailConfig) (*EmailService, error) {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) (*EmailService, error) {
	log := logger.GetLogger()

	var sender MailSender
	switch cfg.Service {
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, apperrors.ConfigurationFailed("Email transport is not configured",
				"RESEND_API_KEY is not set")
		}
		log.Infow("Initializing email service",
			"provider", "resend", "from", logger.MaskEmail(cfg.Username))
		sender = &resendProvider{client: resend.NewClient(cfg.ResendAPIKey), from: cfg.FromAddress()}
	default:
		if cfg.Username == "" || cfg.Password == "" {
			return nil, apperrors.ConfigurationFailed("Email transport is not configured",
				"EMAIL_USER or EMAIL_PASS is not set")
		}
		log.Infow("Initializing email service",
			"provider", "smtp", "host", cfg.Host, "port", cfg.Port,
			"from", logger.MaskEmail(cfg.Username),
			"max_connections", cfg.MaxConnections, "max_messages", cfg.MaxMessages)
		sender = newSMTPProvider(cfg)
	}

	return newEmailServiceWithSender(cfg, sender, reg), nil
}

// NewEmailServiceWithSender wires an explicit transport. Used by tests to
// inject fakes without touching the network.
func NewEmailServiceWithSender(cfg *config.EmailConfig, sender MailSender) *EmailService {
	return newEmailServiceWithSender(cfg, sender, prometheus.NewRegistry())
}

func newEmailServiceWithSender(cfg *config.EmailConfig, sender MailSender, reg prometheus.Registerer) *EmailService {
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "formgate_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formgate_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formgate_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		sender:  sender,
		metrics: metrics,
	}
}

// DispatchSubmissionEmails sends the admin notification and the user
// confirmation for one submission. The two sends run concurrently; a failed
// user confirmation is logged and tolerated, a failed admin notification is
// returned as the overall dispatch result.
func (s *EmailService) DispatchSubmissionEmails(ctx context.Context, sub *types.Submission) error {
	log := logger.GetLogger()

	adminBody, err := RenderAdminNotification(sub)
	if err != nil {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("failed to render admin notification: %w", err)
	}
	userBody, err := RenderUserConfirmation(sub)
	if err != nil {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("failed to render user confirmation: %w", err)
	}

	adminSubject := fmt.Sprintf("New %s submission from %s", sub.Form, sub.Name)

	adminErr := make(chan error, 1)
	userErr := make(chan error, 1)

	go func() {
		adminErr <- s.send(ctx, s.config.AdminEmail, adminSubject, adminBody)
	}()
	go func() {
		userErr <- s.send(ctx, sub.Email, s.config.UserSubject, userBody)
	}()

	if err := <-userErr; err != nil {
		log.Warnw("User confirmation email failed, continuing",
			"submission_id", sub.ID,
			"to", logger.MaskEmail(sub.Email),
			"error", err)
	}

	if err := <-adminErr; err != nil {
		log.Errorw("Admin notification email failed",
			"submission_id", sub.ID,
			"to", logger.MaskEmail(s.config.AdminEmail),
			"error", err)
		return err
	}

	log.Infow("Submission emails dispatched",
		"submission_id", sub.ID,
		"form", sub.Form,
		"to", logger.MaskEmail(sub.Email))
	return nil
}

// send wraps one transport call with the configured timeout and metrics.
func (s *EmailService) send(ctx context.Context, to, subject, htmlBody string) error {
	timeout := time.Duration(s.config.SendTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startTime := time.Now()
	err := s.sender.Send(ctx, to, subject, htmlBody)
	s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())

	if err != nil {
		s.metrics.errorCount.Inc()
		return err
	}
	s.metrics.sentCount.Inc()
	return nil
}

// resendProvider dispatches through the Resend HTTP API.
type resendProvider struct {
	client *resend.Client
	from   string
}

func (p *resendProvider) Send(_ context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    p.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	_, err := p.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}
