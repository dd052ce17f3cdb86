package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"

	"ops-portal/configs"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

var errNotImplemented = errors.New("not implemented")

type fakeTaskRepo struct {
	created   []*models.Task
	completed []*models.Task
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *models.Task) (int, error) {
	return 0, errNotImplemented
}
func (f *fakeTaskRepo) GetByID(ctx context.Context, id int) (*models.Task, error) {
	return nil, errNotImplemented
}
func (f *fakeTaskRepo) GetAll(ctx context.Context, status models.TaskStatus, assigneeID int) ([]*models.Task, error) {
	return nil, errNotImplemented
}
func (f *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error { return errNotImplemented }
func (f *fakeTaskRepo) UpdateStatus(ctx context.Context, id int, status models.TaskStatus, completedAt *time.Time) error {
	return errNotImplemented
}
func (f *fakeTaskRepo) Delete(ctx context.Context, id int) error { return errNotImplemented }
func (f *fakeTaskRepo) CountByStatus(ctx context.Context) (map[models.TaskStatus]int, error) {
	return nil, errNotImplemented
}
func (f *fakeTaskRepo) GetCreatedBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	return f.created, nil
}
func (f *fakeTaskRepo) GetCompletedBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	return f.completed, nil
}

type fakeAssetRepo struct {
	added []*models.Asset
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *models.Asset) (int, error) {
	return 0, errNotImplemented
}
func (f *fakeAssetRepo) GetByID(ctx context.Context, id int) (*models.Asset, error) {
	return nil, errNotImplemented
}
func (f *fakeAssetRepo) GetAll(ctx context.Context, status models.AssetStatus) ([]*models.Asset, error) {
	return nil, errNotImplemented
}
func (f *fakeAssetRepo) Update(ctx context.Context, asset *models.Asset) error {
	return errNotImplemented
}
func (f *fakeAssetRepo) Assign(ctx context.Context, id int, staffID *int) error {
	return errNotImplemented
}
func (f *fakeAssetRepo) Delete(ctx context.Context, id int) error { return errNotImplemented }
func (f *fakeAssetRepo) CountByStatus(ctx context.Context) (map[models.AssetStatus]int, error) {
	return nil, errNotImplemented
}
func (f *fakeAssetRepo) GetCreatedBetween(ctx context.Context, start, end time.Time) ([]*models.Asset, error) {
	return f.added, nil
}

type fakeNotificationRepo struct {
	createdCount int
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) (int, error) {
	return 0, errNotImplemented
}
func (f *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipientID int, unreadOnly bool) ([]*models.Notification, error) {
	return nil, errNotImplemented
}
func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id int) error { return errNotImplemented }
func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipientID int) error {
	return errNotImplemented
}
func (f *fakeNotificationRepo) CountUnread(ctx context.Context, recipientID int) (int, error) {
	return 0, errNotImplemented
}
func (f *fakeNotificationRepo) CountUnreadAll(ctx context.Context) (int, error) {
	return 0, errNotImplemented
}
func (f *fakeNotificationRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	return f.createdCount, nil
}

type fakePaymentRepo struct {
	open []*models.Payment
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *models.Payment) (int, error) {
	return 0, errNotImplemented
}
func (f *fakePaymentRepo) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	return nil, errNotImplemented
}
func (f *fakePaymentRepo) GetAll(ctx context.Context) ([]*models.Payment, error) {
	return nil, errNotImplemented
}
func (f *fakePaymentRepo) GetByStatus(ctx context.Context, status models.PaymentStatus) ([]*models.Payment, error) {
	return nil, errNotImplemented
}
func (f *fakePaymentRepo) GetOpen(ctx context.Context) ([]*models.Payment, error) {
	return f.open, nil
}
func (f *fakePaymentRepo) Update(ctx context.Context, p *models.Payment) error {
	return errNotImplemented
}
func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	return errNotImplemented
}
func (f *fakePaymentRepo) Delete(ctx context.Context, id int) error { return errNotImplemented }

// stubRates converts through a fixed table; currencies outside it error
type stubRates struct {
	base  string
	rates map[string]decimal.Decimal
}

func (s *stubRates) GetRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.rates, nil
}

func (s *stubRates) ToBase(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	if currency == s.base {
		return amount, nil
	}
	rate, ok := s.rates[currency]
	if !ok {
		return decimal.Zero, errors.New("no rate")
	}
	return amount.Mul(rate).Round(2), nil
}

func digestTestService(payments []*models.Payment, tasks *fakeTaskRepo) *DigestSvc {
	logger, _ := test.NewNullLogger()

	if tasks == nil {
		tasks = &fakeTaskRepo{}
	}

	return &DigestSvc{
		repos: &repository.Repository{
			Payment:      &fakePaymentRepo{open: payments},
			Task:         tasks,
			Asset:        &fakeAssetRepo{added: []*models.Asset{{ID: 1, Name: "Laptop"}}},
			Notification: &fakeNotificationRepo{createdCount: 4},
		},
		logger: logger,
		config: &configs.Config{
			Rates: configs.RatesConfig{BaseCurrency: "USD"},
		},
		rates: &stubRates{
			base: "USD",
			rates: map[string]decimal.Decimal{
				"EUR": decimal.NewFromFloat(1.1),
			},
		},
	}
}

func digestPayment(id int, amount string, currency string, due time.Time) *models.Payment {
	period := models.PeriodMonthly
	amt, _ := decimal.NewFromString(amount)
	return &models.Payment{
		ID:               id,
		Title:            "payment",
		PaymentType:      models.PaymentTypeRecurring,
		Amount:           amt,
		Currency:         currency,
		Status:           models.PaymentStatusDue,
		RecurrencePeriod: &period,
		NextPaymentDue:   &due,
		CreatedAt:        due.AddDate(-1, 0, 0),
	}
}

func TestBuildReportClassifiesPayments(t *testing.T) {
	end := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -7)

	payments := []*models.Payment{
		// due in 3 days
		digestPayment(1, "100", "USD", end.AddDate(0, 0, 3)),
		// 10 days past due, inside the first overdue period
		digestPayment(2, "200", "USD", end.AddDate(0, 0, -10)),
		// a month out, not part of the digest
		digestPayment(3, "500", "USD", end.AddDate(0, 1, 0)),
	}

	s := digestTestService(payments, nil)

	report, err := s.BuildReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	if len(report.PaymentsDueSoon) != 1 {
		t.Fatalf("expected 1 due payment, got %d", len(report.PaymentsDueSoon))
	}
	if len(report.OverduePayments) != 1 {
		t.Fatalf("expected 1 overdue payment, got %d", len(report.OverduePayments))
	}

	if got := report.TotalDueBase; got.String() != "100" {
		t.Errorf("TotalDueBase = %s, want 100", got)
	}
	if got := report.TotalOverdueBase; got.String() != "200" {
		t.Errorf("TotalOverdueBase = %s, want 200", got)
	}
}

func TestBuildReportConvertsForeignAmounts(t *testing.T) {
	end := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	payments := []*models.Payment{
		digestPayment(1, "100", "EUR", end.AddDate(0, 0, 2)),
	}

	s := digestTestService(payments, nil)

	report, err := s.BuildReport(context.Background(), end.AddDate(0, 0, -7), end)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	if len(report.PaymentsDueSoon) != 1 {
		t.Fatalf("expected 1 due payment, got %d", len(report.PaymentsDueSoon))
	}
	if got := report.PaymentsDueSoon[0].BaseAmount.String(); got != "110" {
		t.Errorf("BaseAmount = %s, want 110", got)
	}
	if got := report.TotalDueBase.String(); got != "110" {
		t.Errorf("TotalDueBase = %s, want 110", got)
	}
}

func TestBuildReportMissingRateLeavesLineIn(t *testing.T) {
	end := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	payments := []*models.Payment{
		digestPayment(1, "9000", "JPY", end.AddDate(0, 0, 2)),
	}

	s := digestTestService(payments, nil)

	report, err := s.BuildReport(context.Background(), end.AddDate(0, 0, -7), end)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	if len(report.PaymentsDueSoon) != 1 {
		t.Fatalf("payment without a rate should still be listed")
	}
	if !report.PaymentsDueSoon[0].BaseAmount.IsZero() {
		t.Errorf("BaseAmount should be zero without a rate, got %s", report.PaymentsDueSoon[0].BaseAmount)
	}
	if !report.TotalDueBase.IsZero() {
		t.Errorf("unconverted amounts must stay out of totals, got %s", report.TotalDueBase)
	}
}

func TestBuildReportCollectsActivity(t *testing.T) {
	end := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tasks := &fakeTaskRepo{
		created: []*models.Task{
			{ID: 1, Title: "a"},
			{ID: 2, Title: "b"},
		},
		completed: []*models.Task{
			{ID: 1, Title: "a", Status: models.TaskStatusDone},
		},
	}

	s := digestTestService(nil, tasks)

	report, err := s.BuildReport(context.Background(), end.AddDate(0, 0, -7), end)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	if len(report.TasksCreated) != 2 {
		t.Errorf("TasksCreated = %d, want 2", len(report.TasksCreated))
	}
	if len(report.TasksCompleted) != 1 {
		t.Errorf("TasksCompleted = %d, want 1", len(report.TasksCompleted))
	}
	if len(report.AssetsAdded) != 1 {
		t.Errorf("AssetsAdded = %d, want 1", len(report.AssetsAdded))
	}
	if report.NotificationsSent != 4 {
		t.Errorf("NotificationsSent = %d, want 4", report.NotificationsSent)
	}
}

func TestRenderDigestPDF(t *testing.T) {
	due := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	report := &models.DigestReport{
		PeriodStart:  time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		BaseCurrency: "USD",
		PaymentsDueSoon: []*models.PaymentDigestLine{
			{Title: "Office rent", Vendor: "ACME Realty", DueDate: due, Amount: decimal.NewFromInt(1200), Currency: "USD", BaseAmount: decimal.NewFromInt(1200)},
		},
		TasksCompleted: []*models.Task{
			{Title: "Replace switch", Priority: models.TaskPriorityHigh, Status: models.TaskStatusDone},
		},
		TotalDueBase: decimal.NewFromInt(1200),
	}

	pdf, err := renderDigestPDF(report)
	if err != nil {
		t.Fatalf("renderDigestPDF: %v", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", pdf[:8])
	}
}
