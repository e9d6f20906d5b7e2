package messaging

import (
	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/email"
	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/observability/logging"
)

// Sink receives high-risk verdicts. Mirrors the application-layer alert
// contract so infrastructure sinks compose without importing it.
type Sink interface {
	PublishHighRisk(alert insights.RiskAlert)
}

// FanoutSink delivers each alert to every configured sink.
type FanoutSink []Sink

// PublishHighRisk forwards the alert to all sinks in order.
func (f FanoutSink) PublishHighRisk(alert insights.RiskAlert) {
	for _, s := range f {
		s.PublishHighRisk(alert)
	}
}

// EmailSink adapts the email service to the alert contract. Sends happen
// on a separate goroutine; a failed send is logged and dropped.
type EmailSink struct {
	mailer  email.Service
	toEmail string
	logger  *logging.ChanneledLogger
}

// NewEmailSink creates an email-backed alert sink.
func NewEmailSink(mailer email.Service, toEmail string, logger *logging.ChanneledLogger) *EmailSink {
	return &EmailSink{
		mailer:  mailer,
		toEmail: toEmail,
		logger:  logger,
	}
}

// PublishHighRisk sends the alert notification email asynchronously.
func (s *EmailSink) PublishHighRisk(alert insights.RiskAlert) {
	go func() {
		if err := s.mailer.SendHighRiskAlertEmail(s.toEmail, alert); err != nil {
			s.logger.Alert().Error("Failed to send high-risk alert email",
				"alertId", alert.AlertID, "fingerprintId", alert.FingerprintID, "error", err.Error())
			return
		}
		s.logger.Alert().Info("High-risk alert email sent", "alertId", alert.AlertID, "to", s.toEmail)
	}()
}
