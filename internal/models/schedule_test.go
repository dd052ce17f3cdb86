package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	d := mustDate(t, value)
	return &d
}

func periodPtr(p PeriodUnit) *PeriodUnit {
	return &p
}

func recurringPayment(t *testing.T, period PeriodUnit, due, created string) *Payment {
	t.Helper()
	return &Payment{
		ID:               1,
		Title:            "Office rent",
		PaymentType:      PaymentTypeRecurring,
		Amount:           decimal.NewFromInt(1000),
		Currency:         "USD",
		Status:           PaymentStatusDue,
		RecurrencePeriod: periodPtr(period),
		NextPaymentDue:   datePtr(t, due),
		CreatedAt:        mustDate(t, created),
	}
}

func TestAddPeriods(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		period   PeriodUnit
		count    int
		expected string
	}{
		{"one month forward", "2024-01-15", PeriodMonthly, 1, "2024-02-15"},
		{"one month backward", "2024-01-15", PeriodMonthly, -1, "2023-12-15"},
		{"quarter is three months", "2024-01-15", PeriodQuarterly, 1, "2024-04-15"},
		{"two quarters backward", "2024-01-15", PeriodQuarterly, -2, "2023-07-15"},
		{"one year forward", "2024-02-10", PeriodYearly, 1, "2025-02-10"},
		{"three years backward", "2024-02-10", PeriodYearly, -3, "2021-02-10"},
		{"zero count is identity", "2024-01-15", PeriodMonthly, 0, "2024-01-15"},
		// Standard calendar-add normalization, no extra clamping
		{"end of month rolls over", "2024-01-31", PeriodMonthly, 1, "2024-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddPeriods(mustDate(t, tt.date), tt.period, tt.count)
			want := mustDate(t, tt.expected)
			if !got.Equal(want) {
				t.Errorf("AddPeriods(%s, %s, %d) = %s; want %s",
					tt.date, tt.period, tt.count, got.Format("2006-01-02"), tt.expected)
			}
		})
	}
}

func TestBuildScheduleForwardWindow(t *testing.T) {
	payment := recurringPayment(t, PeriodMonthly, "2024-06-15", "2024-06-01")
	now := mustDate(t, "2024-06-01")

	schedule := BuildSchedule(payment, now)
	if !schedule.Projected {
		t.Fatal("expected a projected schedule")
	}

	// Anchor equals the month of the due date, so no history survives and the
	// window is exactly the 6 forward entries.
	if len(schedule.Items) != futureEntries {
		t.Fatalf("got %d items; want %d", len(schedule.Items), futureEntries)
	}

	expected := []string{"2024-06-15", "2024-07-15", "2024-08-15", "2024-09-15", "2024-10-15", "2024-11-15"}
	for i, item := range schedule.Items {
		if got := item.Date.Format("2006-01-02"); got != expected[i] {
			t.Errorf("item %d date = %s; want %s", i, got, expected[i])
		}
	}
}

func TestBuildScheduleBackwardPass(t *testing.T) {
	tests := []struct {
		name          string
		created       string
		due           string
		wantCompleted int
		wantEarliest  string
	}{
		{
			name:          "stops strictly before the anchor",
			created:       "2024-03-20",
			due:           "2024-06-15",
			wantCompleted: 2, // 2024-05-15, 2024-04-15; 2024-03-15 is before the anchor
			wantEarliest:  "2024-04-15",
		},
		{
			name:          "same day as the anchor is included",
			created:       "2024-03-15",
			due:           "2024-06-15",
			wantCompleted: 3,
			wantEarliest:  "2024-03-15",
		},
		{
			name:          "capped at twelve iterations",
			created:       "2010-01-01",
			due:           "2024-01-15",
			wantCompleted: maxHistoryEntries,
			wantEarliest:  "2023-01-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := recurringPayment(t, PeriodMonthly, tt.due, tt.created)
			schedule := BuildSchedule(payment, mustDate(t, "2024-06-01"))

			var completed []*ScheduleItem
			for _, item := range schedule.Items {
				if item.Status == ScheduleStatusPaid {
					completed = append(completed, item)
				}
			}

			if len(completed) != tt.wantCompleted {
				t.Fatalf("got %d completed items; want %d", len(completed), tt.wantCompleted)
			}
			for _, item := range completed {
				if item.Label != "Completed" {
					t.Errorf("completed item labeled %q", item.Label)
				}
				if item.Date.Before(mustDate(t, tt.created)) {
					t.Errorf("completed item %s is earlier than the anchor", item.Date.Format("2006-01-02"))
				}
			}
			if got := completed[0].Date.Format("2006-01-02"); got != tt.wantEarliest {
				t.Errorf("earliest completed item = %s; want %s", got, tt.wantEarliest)
			}

			// History is prepended in chronological order
			for i := 1; i < len(schedule.Items); i++ {
				if schedule.Items[i].Date.Before(schedule.Items[i-1].Date) {
					t.Fatal("schedule items are not in ascending date order")
				}
			}
		})
	}
}

func TestBuildScheduleLabels(t *testing.T) {
	tests := []struct {
		name       string
		due        string
		now        string
		wantStatus []ScheduleStatus
		wantLabels []string
	}{
		{
			name: "due soon then scheduled",
			due:  "2024-01-15",
			now:  "2024-01-10",
			wantStatus: []ScheduleStatus{
				ScheduleStatusDue, ScheduleStatusUpcoming, ScheduleStatusUpcoming,
				ScheduleStatusUpcoming, ScheduleStatusUpcoming, ScheduleStatusUpcoming,
			},
			wantLabels: []string{"Due Soon", "Scheduled", "Scheduled", "Scheduled", "Scheduled", "Scheduled"},
		},
		{
			name: "first upcoming gets the upcoming label",
			due:  "2024-02-15",
			now:  "2024-01-01",
			wantStatus: []ScheduleStatus{
				ScheduleStatusUpcoming, ScheduleStatusUpcoming, ScheduleStatusUpcoming,
				ScheduleStatusUpcoming, ScheduleStatusUpcoming, ScheduleStatusUpcoming,
			},
			wantLabels: []string{"Upcoming", "Scheduled", "Scheduled", "Scheduled", "Scheduled", "Scheduled"},
		},
		{
			name: "overdue run then upcoming",
			due:  "2024-01-15",
			now:  "2024-03-20",
			wantStatus: []ScheduleStatus{
				ScheduleStatusOverdue, ScheduleStatusOverdue, ScheduleStatusOverdue,
				ScheduleStatusUpcoming, ScheduleStatusUpcoming, ScheduleStatusUpcoming,
			},
			wantLabels: []string{"Overdue", "Overdue", "Overdue", "Upcoming", "Scheduled", "Scheduled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := recurringPayment(t, PeriodMonthly, tt.due, tt.due)
			schedule := BuildSchedule(payment, mustDate(t, tt.now))

			if len(schedule.Items) != len(tt.wantLabels) {
				t.Fatalf("got %d items; want %d", len(schedule.Items), len(tt.wantLabels))
			}
			for i, item := range schedule.Items {
				if item.Status != tt.wantStatus[i] {
					t.Errorf("item %d status = %s; want %s", i, item.Status, tt.wantStatus[i])
				}
				if item.Label != tt.wantLabels[i] {
					t.Errorf("item %d label = %q; want %q", i, item.Label, tt.wantLabels[i])
				}
			}
		})
	}
}

func TestBuildScheduleMissingRecurrence(t *testing.T) {
	now := mustDate(t, "2024-06-01")

	payments := map[string]*Payment{
		"one-time": {
			PaymentType: PaymentTypeOneTime,
			Amount:      decimal.NewFromInt(100),
			Status:      PaymentStatusDue,
			CreatedAt:   mustDate(t, "2024-01-01"),
		},
		"no due date": {
			PaymentType:      PaymentTypeRecurring,
			Amount:           decimal.NewFromInt(100),
			Status:           PaymentStatusDue,
			RecurrencePeriod: periodPtr(PeriodMonthly),
			CreatedAt:        mustDate(t, "2024-01-01"),
		},
		"no period": {
			PaymentType:    PaymentTypeRecurring,
			Amount:         decimal.NewFromInt(100),
			Status:         PaymentStatusDue,
			NextPaymentDue: datePtr(t, "2024-06-15"),
			CreatedAt:      mustDate(t, "2024-01-01"),
		},
	}

	for name, payment := range payments {
		t.Run(name, func(t *testing.T) {
			schedule := BuildSchedule(payment, now)
			if schedule.Projected {
				t.Error("expected a non-projected schedule")
			}
			if len(schedule.Items) != 0 {
				t.Errorf("got %d items; want none", len(schedule.Items))
			}
		})
	}
}

func TestBuildScheduleDocumentAttachment(t *testing.T) {
	payment := recurringPayment(t, PeriodMonthly, "2024-06-15", "2024-04-01")

	matching := &PaymentDocument{ID: 1, DocumentType: DocumentTypeReceipt, ApplicableDate: datePtr(t, "2024-05-15")}
	orphan := &PaymentDocument{ID: 2, DocumentType: DocumentTypeInvoice, ApplicableDate: datePtr(t, "2024-05-20")}
	archived := &PaymentDocument{ID: 3, DocumentType: DocumentTypeReceipt, ApplicableDate: datePtr(t, "2024-05-15"), Archived: true}
	// Earlier than created_at: extends the history anchor backward
	early := &PaymentDocument{ID: 4, DocumentType: DocumentTypeReceipt, ApplicableDate: datePtr(t, "2024-02-15")}
	payment.Documents = []*PaymentDocument{matching, orphan, archived, early}

	schedule := BuildSchedule(payment, mustDate(t, "2024-06-01"))

	attached := make(map[int]string)
	for _, item := range schedule.Items {
		for _, doc := range item.Documents {
			attached[doc.ID] = item.Date.Format("2006-01-02")
		}
	}

	if day := attached[matching.ID]; day != "2024-05-15" {
		t.Errorf("document 1 attached to %q; want 2024-05-15", day)
	}
	if day := attached[early.ID]; day != "2024-02-15" {
		t.Errorf("document 4 attached to %q; want 2024-02-15", day)
	}
	if _, ok := attached[orphan.ID]; ok {
		t.Error("document with a non-matching date attached to an item")
	}
	if _, ok := attached[archived.ID]; ok {
		t.Error("archived document attached to an item")
	}

	// The early document pulled the anchor back to February
	if got := schedule.Items[0].Date.Format("2006-01-02"); got != "2024-02-15" {
		t.Errorf("earliest item = %s; want 2024-02-15", got)
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		payment  *Payment
		now      string
		expected EffectiveStatus
	}{
		{
			name: "stored paid is terminal",
			payment: &Payment{
				PaymentType:      PaymentTypeRecurring,
				Status:           PaymentStatusPaid,
				RecurrencePeriod: periodPtr(PeriodMonthly),
				NextPaymentDue:   datePtr(t, "2020-01-01"),
			},
			now:      "2024-03-20",
			expected: EffectivePaid,
		},
		{
			name: "stored cancelled is terminal",
			payment: &Payment{
				PaymentType: PaymentTypeOneTime,
				Status:      PaymentStatusCancelled,
				PaymentDate: datePtr(t, "2020-01-01"),
			},
			now:      "2024-03-20",
			expected: EffectiveCancelled,
		},
		{
			name:     "past due date derives overdue",
			payment:  recurringPayment(t, PeriodMonthly, "2024-01-15", "2024-01-01"),
			now:      "2024-03-20",
			expected: EffectiveOverdue,
		},
		{
			name:     "within seven days derives due",
			payment:  recurringPayment(t, PeriodMonthly, "2024-01-15", "2024-01-01"),
			now:      "2024-01-12",
			expected: EffectiveDue,
		},
		{
			name:     "seventh day inclusive",
			payment:  recurringPayment(t, PeriodMonthly, "2024-01-15", "2024-01-01"),
			now:      "2024-01-08",
			expected: EffectiveDue,
		},
		{
			name:     "same day derives due",
			payment:  recurringPayment(t, PeriodMonthly, "2024-01-15", "2024-01-01"),
			now:      "2024-01-15",
			expected: EffectiveDue,
		},
		{
			name:     "more than a week away is the not-yet-due bucket",
			payment:  recurringPayment(t, PeriodMonthly, "2024-01-15", "2024-01-01"),
			now:      "2024-01-07",
			expected: EffectiveNotYetDue,
		},
		{
			name: "missing comparison date defaults to due",
			payment: &Payment{
				PaymentType: PaymentTypeOneTime,
				Status:      PaymentStatusDue,
			},
			now:      "2024-03-20",
			expected: EffectiveDue,
		},
		{
			name: "one-time compares against payment date",
			payment: &Payment{
				PaymentType: PaymentTypeOneTime,
				Status:      PaymentStatusDue,
				PaymentDate: datePtr(t, "2024-01-15"),
			},
			now:      "2024-03-20",
			expected: EffectiveOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := mustDate(t, tt.now)

			got := DeriveStatus(tt.payment, now)
			if got != tt.expected {
				t.Errorf("DeriveStatus = %s; want %s", got, tt.expected)
			}

			// Pure function: same inputs, same result
			if again := DeriveStatus(tt.payment, now); again != got {
				t.Errorf("DeriveStatus not idempotent: %s then %s", got, again)
			}
		})
	}
}

func TestDisplayBucket(t *testing.T) {
	if got := EffectiveNotYetDue.DisplayBucket(); got != PaymentStatusPaid {
		t.Errorf("not_yet_due display bucket = %s; want paid", got)
	}
	if got := EffectiveOverdue.DisplayBucket(); got != PaymentStatusOverdue {
		t.Errorf("overdue display bucket = %s; want overdue", got)
	}
}

func TestAmountDue(t *testing.T) {
	tests := []struct {
		name     string
		payment  *Payment
		now      string
		expected string
	}{
		{
			name:     "overdue monthly multiplies by elapsed periods",
			payment:  recurringPayment(t, PeriodMonthly, "2024-01-15", "2024-01-01"),
			now:      "2024-03-20", // 65 days past due, floor(65/30)+1 = 3
			expected: "3000",
		},
		{
			name:     "due payment owes exactly the base amount",
			payment:  recurringPayment(t, PeriodMonthly, "2024-01-15", "2024-01-01"),
			now:      "2024-01-12",
			expected: "1000",
		},
		{
			name:     "not yet due owes nothing",
			payment:  recurringPayment(t, PeriodMonthly, "2024-01-15", "2024-01-01"),
			now:      "2024-01-07", // 8 days out, past the reminder window
			expected: "0",
		},
		{
			name: "stored paid owes nothing",
			payment: &Payment{
				PaymentType:      PaymentTypeRecurring,
				Status:           PaymentStatusPaid,
				Amount:           decimal.NewFromInt(1000),
				RecurrencePeriod: periodPtr(PeriodMonthly),
				NextPaymentDue:   datePtr(t, "2024-01-15"),
			},
			now:      "2024-03-20",
			expected: "0",
		},
		{
			name: "cancelled owes nothing",
			payment: &Payment{
				PaymentType: PaymentTypeOneTime,
				Status:      PaymentStatusCancelled,
				Amount:      decimal.NewFromInt(1000),
				PaymentDate: datePtr(t, "2024-01-15"),
			},
			now:      "2024-03-20",
			expected: "0",
		},
		{
			name: "overdue one-time owes the base amount",
			payment: &Payment{
				PaymentType: PaymentTypeOneTime,
				Status:      PaymentStatusDue,
				Amount:      decimal.NewFromInt(750),
				PaymentDate: datePtr(t, "2024-01-15"),
			},
			now:      "2024-03-20",
			expected: "750",
		},
		{
			name:     "overdue quarterly uses the ninety day divisor",
			payment:  recurringPayment(t, PeriodQuarterly, "2024-01-15", "2024-01-01"),
			now:      "2024-04-25", // 101 days past due, floor(101/90)+1 = 2
			expected: "2000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountDue(tt.payment, mustDate(t, tt.now))
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Errorf("AmountDue = %s; want %s", got, want)
			}
		})
	}
}

func TestSummarizeSchedule(t *testing.T) {
	payment := recurringPayment(t, PeriodMonthly, "2024-06-15", "2024-04-01")
	schedule := BuildSchedule(payment, mustDate(t, "2024-06-12"))

	summary := SummarizeSchedule(schedule)
	if summary.TotalItems != len(schedule.Items) {
		t.Errorf("total = %d; want %d", summary.TotalItems, len(schedule.Items))
	}
	if summary.CompletedItems != 2 {
		t.Errorf("completed = %d; want 2", summary.CompletedItems)
	}
	if summary.DueItems != 1 {
		t.Errorf("due = %d; want 1", summary.DueItems)
	}
	if summary.NextDue == nil || summary.NextDue.Format("2006-01-02") != "2024-06-15" {
		t.Errorf("next due = %v; want 2024-06-15", summary.NextDue)
	}
}
