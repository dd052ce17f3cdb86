package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"

	"ops-portal/configs"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

const (
	digestWindowDays  = 7
	digestSendRetries = 3
	digestRetryDelay  = 2 * time.Second
)

// DigestSvc is an implementation of the service.DigestService interface
type DigestSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
	email  EmailService
	rates  RatesService
}

// NewDigestService creates a new DigestSvc
func NewDigestService(deps Dependencies, rates RatesService) *DigestSvc {
	return &DigestSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
		email:  NewEmailService(deps),
		rates:  rates,
	}
}

// BuildReport collects the digest window [start, end): task and asset activity
// inside the window, plus the current payment picture as of end. Foreign
// amounts are converted into the base currency; a missing rate leaves the line
// in the report with a zero base amount and out of the totals.
func (s *DigestSvc) BuildReport(ctx context.Context, start, end time.Time) (*models.DigestReport, error) {
	report := &models.DigestReport{
		PeriodStart:  start,
		PeriodEnd:    end,
		BaseCurrency: s.config.Rates.BaseCurrency,
	}

	var err error
	if report.TasksCreated, err = s.repos.Task.GetCreatedBetween(ctx, start, end); err != nil {
		return nil, fmt.Errorf("failed to collect created tasks: %w", err)
	}
	if report.TasksCompleted, err = s.repos.Task.GetCompletedBetween(ctx, start, end); err != nil {
		return nil, fmt.Errorf("failed to collect completed tasks: %w", err)
	}
	if report.AssetsAdded, err = s.repos.Asset.GetCreatedBetween(ctx, start, end); err != nil {
		return nil, fmt.Errorf("failed to collect assets: %w", err)
	}
	if report.NotificationsSent, err = s.repos.Notification.CountCreatedBetween(ctx, start, end); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	payments, err := s.repos.Payment.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get open payments: %w", err)
	}

	for _, payment := range payments {
		status := models.DeriveStatus(payment, end)
		if status != models.EffectiveDue && status != models.EffectiveOverdue {
			continue
		}

		line := &models.PaymentDigestLine{
			Title:    payment.Title,
			Vendor:   payment.Vendor,
			Amount:   models.AmountDue(payment, end),
			Currency: payment.Currency,
		}
		if payment.PaymentType == models.PaymentTypeRecurring && payment.NextPaymentDue != nil {
			line.DueDate = *payment.NextPaymentDue
		} else if payment.PaymentDate != nil {
			line.DueDate = *payment.PaymentDate
		}

		converted, convErr := s.rates.ToBase(ctx, line.Amount, line.Currency)
		if convErr != nil {
			s.logger.Warnf("Failed to convert %s for payment %d: %v", line.Currency, payment.ID, convErr)
			converted = decimal.Zero
		}
		line.BaseAmount = converted

		if status == models.EffectiveOverdue {
			report.OverduePayments = append(report.OverduePayments, line)
			report.TotalOverdueBase = report.TotalOverdueBase.Add(line.BaseAmount)
		} else {
			report.PaymentsDueSoon = append(report.PaymentsDueSoon, line)
			report.TotalDueBase = report.TotalDueBase.Add(line.BaseAmount)
		}
	}

	return report, nil
}

// Preview builds the digest for the trailing week without sending anything
func (s *DigestSvc) Preview(ctx context.Context) (*models.DigestReport, error) {
	end := time.Now()
	return s.BuildReport(ctx, end.AddDate(0, 0, -digestWindowDays), end)
}

// Send builds, renders and emails the digest for the trailing week, and
// records the run. Failed sends are recorded too so RunIfDue does not retry
// the same slot forever.
func (s *DigestSvc) Send(ctx context.Context) (*models.DigestRun, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -digestWindowDays)

	run := &models.DigestRun{
		ID:          uuid.New(),
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      models.DigestRunStatusSent,
	}

	report, err := s.BuildReport(ctx, start, end)
	if err != nil {
		return nil, err
	}

	pdf, err := renderDigestPDF(report)
	if err != nil {
		return nil, fmt.Errorf("failed to render digest PDF: %w", err)
	}

	recipients, err := s.collectRecipients(ctx)
	if err != nil {
		return nil, err
	}

	if sendErr := s.sendWithRetry(ctx, recipients, report, pdf); sendErr != nil {
		run.Status = models.DigestRunStatusFailed
		run.Error = sendErr.Error()
		s.logger.Warnf("Digest delivery failed: %v", sendErr)
	}

	if err := s.repos.DigestRun.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record digest run: %w", err)
	}

	s.logger.Infof("Digest run %s recorded with status %s", run.ID, run.Status)

	return run, nil
}

// RunIfDue sends the digest when the configured recurrence rule has a slot
// between the last recorded run and now. A portal that never sent a digest
// sends one immediately.
func (s *DigestSvc) RunIfDue(ctx context.Context) error {
	last, err := s.repos.DigestRun.GetLatest(ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest digest run: %w", err)
	}

	if last == nil {
		s.logger.Info("No digest ever sent, sending now")
		_, err := s.Send(ctx)
		return err
	}

	opt, err := rrule.StrToROption(s.config.Digest.Rule)
	if err != nil {
		return fmt.Errorf("invalid digest recurrence rule: %w", err)
	}
	opt.Dtstart = last.CreatedAt.UTC()

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return fmt.Errorf("invalid digest recurrence rule: %w", err)
	}

	next := rule.After(last.CreatedAt.UTC(), false)
	if next.IsZero() || next.After(time.Now()) {
		return nil
	}

	s.logger.Infof("Digest slot %s reached, sending", next.Format(time.RFC3339))
	_, err = s.Send(ctx)

	return err
}

// collectRecipients merges opted-in staff with the configured extra addresses
func (s *DigestSvc) collectRecipients(ctx context.Context) ([]string, error) {
	members, err := s.repos.Staff.GetDigestRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get digest recipients: %w", err)
	}

	seen := make(map[string]bool)
	var recipients []string
	for _, member := range members {
		if member.Email != "" && !seen[member.Email] {
			seen[member.Email] = true
			recipients = append(recipients, member.Email)
		}
	}
	for _, addr := range s.config.Digest.ExtraRecipients {
		if !seen[addr] {
			seen[addr] = true
			recipients = append(recipients, addr)
		}
	}

	return recipients, nil
}

// sendWithRetry wraps the digest send in a fixed number of attempts with a
// doubling delay between them
func (s *DigestSvc) sendWithRetry(ctx context.Context, recipients []string, report *models.DigestReport, pdf []byte) error {
	delay := digestRetryDelay

	var lastErr error
	for attempt := 1; attempt <= digestSendRetries; attempt++ {
		lastErr = s.email.SendDigest(ctx, recipients, report, pdf)
		if lastErr == nil {
			return nil
		}

		s.logger.Warnf("Digest send attempt %d/%d failed: %v", attempt, digestSendRetries, lastErr)

		if attempt < digestSendRetries {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	return lastErr
}

// renderDigestPDF draws the digest as a simple paginated table document
func renderDigestPDF(report *models.DigestReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Weekly Operations Digest")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		report.PeriodStart.Format("2006-01-02"), report.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Tasks created: %d", len(report.TasksCreated)),
		fmt.Sprintf("Tasks completed: %d", len(report.TasksCompleted)),
		fmt.Sprintf("Payments due soon: %d (%s %s)", len(report.PaymentsDueSoon), report.TotalDueBase, report.BaseCurrency),
		fmt.Sprintf("Overdue payments: %d (%s %s)", len(report.OverduePayments), report.TotalOverdueBase, report.BaseCurrency),
		fmt.Sprintf("Assets added: %d", len(report.AssetsAdded)),
		fmt.Sprintf("Notifications sent: %d", report.NotificationsSent),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	writePaymentTable(pdf, "Payments Due Soon", report.PaymentsDueSoon, report.BaseCurrency)
	writePaymentTable(pdf, "Overdue Payments", report.OverduePayments, report.BaseCurrency)
	writeTaskTable(pdf, "Tasks Completed This Week", report.TasksCompleted)
	writeTaskTable(pdf, "Tasks Created This Week", report.TasksCreated)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writePaymentTable(pdf *gofpdf.Fpdf, title string, lines []*models.PaymentDigestLine, base string) {
	if len(lines) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(60, 7, "Payment", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Vendor", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Due", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, base, "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range lines {
		due := ""
		if !line.DueDate.IsZero() {
			due = line.DueDate.Format("2006-01-02")
		}
		pdf.CellFormat(60, 7, line.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, line.Vendor, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, due, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%s %s", line.Amount, line.Currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, line.BaseAmount.String(), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeTaskTable(pdf *gofpdf.Fpdf, title string, tasks []*models.Task) {
	if len(tasks) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(100, 7, "Task", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Priority", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, task := range tasks {
		pdf.CellFormat(100, 7, task.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, string(task.Priority), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, string(task.Status), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}
