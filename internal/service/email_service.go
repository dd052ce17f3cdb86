package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"ops-portal/configs"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

// EmailSvc is an implementation of the service.EmailService interface
type EmailSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewEmailService creates a new EmailSvc
func NewEmailService(deps Dependencies) *EmailSvc {
	return &EmailSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// SendPaymentReminder sends a reminder for a due or overdue payment
func (s *EmailSvc) SendPaymentReminder(ctx context.Context, member *models.StaffMember, payment *models.Payment, status models.EffectiveStatus, owed decimal.Decimal) error {
	if member.Email == "" {
		return nil
	}

	var subject string
	if status == models.EffectiveOverdue {
		subject = fmt.Sprintf("OVERDUE Payment: %s", payment.Title)
	} else {
		subject = fmt.Sprintf("Payment Due Soon: %s", payment.Title)
	}

	dueDate := "not set"
	if payment.PaymentType == models.PaymentTypeRecurring && payment.NextPaymentDue != nil {
		dueDate = payment.NextPaymentDue.Format("2006-01-02")
	} else if payment.PaymentDate != nil {
		dueDate = payment.PaymentDate.Format("2006-01-02")
	}

	body := fmt.Sprintf(`
	<h2>Payment Reminder</h2>
	<p>Dear %s,</p>

	<p>The following payment needs attention:</p>

	<table style="border-collapse: collapse; width: 100%%;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Payment:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Vendor:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Status:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Due Date:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Amount Owed:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%s %s</td>
		</tr>
	</table>

	<p>You can review the payment and its documents in the operations portal.</p>

	<p>
	Best regards,<br>
	Operations Portal
	</p>
	`,
		member.FullName,
		payment.Title,
		payment.Vendor,
		status,
		dueDate,
		owed, payment.Currency,
	)

	if err := s.sendEmail([]string{member.Email}, subject, body, nil); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Payment reminder email sent to %s for payment %d", member.Email, payment.ID)

	return nil
}

// SendDigest emails the weekly digest with the rendered PDF attached
func (s *EmailSvc) SendDigest(ctx context.Context, recipients []string, report *models.DigestReport, pdf []byte) error {
	if len(recipients) == 0 {
		s.logger.Warn("Digest has no recipients, skipping send")
		return nil
	}

	subject := fmt.Sprintf("%s: %s - %s",
		s.config.Digest.Subject,
		report.PeriodStart.Format("Jan 2"),
		report.PeriodEnd.Format("Jan 2, 2006"),
	)

	body := fmt.Sprintf(`
	<h2>Weekly Operations Digest</h2>
	<p>Covering %s through %s.</p>

	<table style="border-collapse: collapse; width: 100%%;">
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Tasks Created:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Tasks Completed:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Payments Due Soon:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d (%s %s)</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Overdue Payments:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d (%s %s)</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Assets Added:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
		</tr>
		<tr>
			<td style="padding: 8px; border: 1px solid #ddd;"><strong>Notifications Sent:</strong></td>
			<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
		</tr>
	</table>

	<p>The full report is attached as a PDF.</p>

	<p>
	Best regards,<br>
	Operations Portal
	</p>
	`,
		report.PeriodStart.Format("2006-01-02"),
		report.PeriodEnd.Format("2006-01-02"),
		len(report.TasksCreated),
		len(report.TasksCompleted),
		len(report.PaymentsDueSoon), report.TotalDueBase, report.BaseCurrency,
		len(report.OverduePayments), report.TotalOverdueBase, report.BaseCurrency,
		len(report.AssetsAdded),
		report.NotificationsSent,
	)

	if err := s.sendEmail(recipients, subject, body, pdf); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	s.logger.Infof("Digest email sent to %d recipients", len(recipients))

	return nil
}

// sendEmail sends an email using the SMTP server, optionally attaching a PDF
func (s *EmailSvc) sendEmail(to []string, subject, body string, pdf []byte) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.Email.SenderEmail)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if len(pdf) > 0 {
		m.Attach("weekly-digest.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}))
	}

	d := gomail.NewDialer(
		s.config.Email.SMTPHost,
		s.config.Email.SMTPPort,
		s.config.Email.SMTPUser,
		s.config.Email.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", strings.Join(to, ", "), err)
	}

	return nil
}
