// Package email provides the email client for high-risk alert notifications.
package email

import (
	"fmt"
	"os"

	"github.com/AtRiskMedia/crosstrace-go/internal/domain/insights"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending alert emails, allowing for mock
// implementations in tests.
type Service interface {
	SendHighRiskAlertEmail(toEmail string, alert insights.RiskAlert) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("ALERT_EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "alerts@crosstrace.app" // Default from address
	}

	fromName := os.Getenv("ALERT_EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "CrossTrace" // Default from name
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendHighRiskAlertEmail composes and sends the high-risk verdict notification.
func (c *ResendClient) SendHighRiskAlertEmail(toEmail string, alert insights.RiskAlert) error {
	subject := fmt.Sprintf("High-risk visitor flagged: %s", alert.FingerprintID)

	htmlContent := fmt.Sprintf(`
		<h2>High-risk visitor flagged</h2>
		<p>The cross-session engine classified a visitor journey as high risk.</p>
		<ul>
			<li><strong>Alert ID:</strong> %s</li>
			<li><strong>Fingerprint:</strong> %s</li>
			<li><strong>Overall risk:</strong> %s</li>
			<li><strong>Fraud risk:</strong> %.2f</li>
			<li><strong>Computed at:</strong> %s</li>
		</ul>
		<p>Review the visitor in the moderation dashboard before taking action.</p>`,
		alert.AlertID, alert.FingerprintID, alert.OverallRisk, alert.FraudRisk, alert.ComputedAt.Format("2006-01-02 15:04:05 UTC"))

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send high-risk alert email via Resend: %w", err)
	}

	return nil
}
