package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/core/ports"
)

// EmailConfig holds email service configuration.
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	CompanyName    string
}

// Templates are compiled in; the set is small and changes with the code.
const dunningNoticeTemplate = `
<html><body>
<p>Dear {{.OccupantName}},</p>
<p>Our records show an outstanding balance of <strong>{{.OpenAmount}} EUR</strong> on your lease.</p>
<p>This message is a <strong>{{.StageLabel}}</strong>. Please settle the open amount promptly.</p>
<p>{{.CompanyName}}</p>
</body></html>`

const referralCreditTemplate = `
<html><body>
<p>Good news, {{.TenantName}}!</p>
<p>A business you referred just completed their first payment. We credited
<strong>{{.AmountEuros}} EUR</strong> to your account balance; it is applied to your next invoice.</p>
<p>{{.CompanyName}}</p>
</body></html>`

const passwordResetTemplate = `
<html><body>
<p>Hello {{.FirstName}},</p>
<p>A password reset was requested for your account. If this was you, follow
the link in your account portal to choose a new password. If not, you can ignore this message.</p>
<p>{{.CompanyName}}</p>
</body></html>`

var stageLabels = map[dunning.Stage]string{
	dunning.StageReminder: "payment reminder",
	dunning.StageNotice1:  "first dunning notice",
	dunning.StageNotice2:  "second dunning notice",
	dunning.StageFinal:    "final dunning notice",
}

// EmailService sends transactional mail through SendGrid.
type EmailService struct {
	config    *EmailConfig
	logger    *logrus.Logger
	client    *sendgrid.Client
	templates map[string]*template.Template
}

func NewEmailService(config *EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	templates := make(map[string]*template.Template)
	for name, body := range map[string]string{
		"dunning_notice":  dunningNoticeTemplate,
		"referral_credit": referralCreditTemplate,
		"password_reset":  passwordResetTemplate,
	} {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &EmailService{
		config:    config,
		logger:    logger,
		client:    sendgrid.NewSendClient(config.SendGridAPIKey),
		templates: templates,
	}, nil
}

func (e *EmailService) SendDunningNotice(ctx context.Context, to, occupantName string, stage dunning.Stage, openAmount decimal.Decimal) error {
	label, ok := stageLabels[stage]
	if !ok {
		return fmt.Errorf("unknown dunning stage %q", stage)
	}
	htmlContent, err := e.renderTemplate("dunning_notice", map[string]string{
		"OccupantName": occupantName,
		"OpenAmount":   openAmount.StringFixed(2),
		"StageLabel":   label,
		"CompanyName":  e.config.CompanyName,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Payment notice - %s", e.config.CompanyName)
	return e.sendEmail(to, subject, htmlContent)
}

func (e *EmailService) SendReferralCreditNotice(ctx context.Context, to, tenantName string, amountCents int64) error {
	htmlContent, err := e.renderTemplate("referral_credit", map[string]string{
		"TenantName":  tenantName,
		"AmountEuros": decimal.NewFromInt(amountCents).Div(decimal.NewFromInt(100)).StringFixed(2),
		"CompanyName": e.config.CompanyName,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("You earned a referral credit - %s", e.config.CompanyName)
	return e.sendEmail(to, subject, htmlContent)
}

func (e *EmailService) SendPasswordResetNotice(ctx context.Context, to, firstName string) error {
	htmlContent, err := e.renderTemplate("password_reset", map[string]string{
		"FirstName":   firstName,
		"CompanyName": e.config.CompanyName,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Password reset requested - %s", e.config.CompanyName)
	return e.sendEmail(to, subject, htmlContent)
}

func (e *EmailService) renderTemplate(name string, data any) (string, error) {
	tmpl, exists := e.templates[name]
	if !exists {
		return "", fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Email sent successfully")
	return nil
}
