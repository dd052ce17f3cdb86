package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodUnit defines the recurrence granularity of a recurring payment
type PeriodUnit string

const (
	PeriodMonthly   PeriodUnit = "monthly"
	PeriodQuarterly PeriodUnit = "quarterly"
	PeriodYearly    PeriodUnit = "yearly"
)

const (
	// maxHistoryEntries caps how many completed occurrences the backward pass
	// emits. This is a display cap: very old payments show at most the last
	// 12 periods of history.
	maxHistoryEntries = 12

	// futureEntries is the fixed size of the forward window, the current due
	// date included.
	futureEntries = 6

	// dueSoonDays is the inclusive window in which a future date counts as due
	dueSoonDays = 7
)

// periodApproxDays holds fixed day counts used by the overdue multiplier.
// Deliberately approximate: the owed figure is an estimate, not accounting.
var periodApproxDays = map[PeriodUnit]int{
	PeriodMonthly:   30,
	PeriodQuarterly: 90,
	PeriodYearly:    365,
}

// AddPeriods returns the date count periods away from date. Count may be
// negative to step backward. Day-of-month clamping follows standard calendar
// arithmetic (time.AddDate), nothing extra.
func AddPeriods(date time.Time, period PeriodUnit, count int) time.Time {
	switch period {
	case PeriodQuarterly:
		return date.AddDate(0, count*3, 0)
	case PeriodYearly:
		return date.AddDate(count, 0, 0)
	default:
		return date.AddDate(0, count, 0)
	}
}

// EffectiveStatus is the status shown to users, derived from the stored status
// plus due-date comparison against a reference day
type EffectiveStatus string

const (
	EffectivePaid      EffectiveStatus = "paid"
	EffectiveDue       EffectiveStatus = "due"
	EffectiveOverdue   EffectiveStatus = "overdue"
	EffectiveCancelled EffectiveStatus = "cancelled"
	// EffectiveNotYetDue marks payments whose due date is more than a week
	// away. The original portal folded this into the paid bucket; the variant
	// is kept distinct so callers can tell "settled" from "not due yet" and
	// DisplayBucket preserves the historical rendering.
	EffectiveNotYetDue EffectiveStatus = "not_yet_due"
)

// DisplayBucket maps an effective status onto the stored-status vocabulary the
// portal UI colors by. NotYetDue renders in the paid bucket.
func (s EffectiveStatus) DisplayBucket() PaymentStatus {
	if s == EffectiveNotYetDue {
		return PaymentStatusPaid
	}
	return PaymentStatus(s)
}

// ScheduleStatus is the status of one projected occurrence
type ScheduleStatus string

const (
	ScheduleStatusPaid     ScheduleStatus = "paid"
	ScheduleStatusDue      ScheduleStatus = "due"
	ScheduleStatusOverdue  ScheduleStatus = "overdue"
	ScheduleStatusUpcoming ScheduleStatus = "upcoming"
)

// ScheduleItem is one projected occurrence of a recurring payment. Never
// persisted: recomputed from the payment's current due date on every read.
type ScheduleItem struct {
	Date      time.Time          `json:"date"`
	Status    ScheduleStatus     `json:"status"`
	Label     string             `json:"label"`
	Documents []*PaymentDocument `json:"documents,omitempty"`
}

// Schedule is the projected occurrence window of a recurring payment.
// Projected distinguishes "recurrence not configured" from a window that
// genuinely produced zero items.
type Schedule struct {
	Projected bool            `json:"projected"`
	Items     []*ScheduleItem `json:"items"`
}

// ScheduleSummary aggregates a projected schedule for list views
type ScheduleSummary struct {
	TotalItems     int        `json:"total_items"`
	CompletedItems int        `json:"completed_items"`
	OverdueItems   int        `json:"overdue_items"`
	DueItems       int        `json:"due_items"`
	UpcomingItems  int        `json:"upcoming_items"`
	NextDue        *time.Time `json:"next_due,omitempty"`
}

// BuildSchedule projects the occurrence window for a recurring payment as of
// the given reference time. Payments without a recurrence period or next due
// date yield a non-projected empty schedule; that is a valid "nothing to show"
// state, not an error.
//
// The window is a backward pass of completed occurrences (newest 12 at most,
// never earlier than the payment's anchor date) followed by a forward pass of
// exactly 6 occurrences starting at the next due date.
func BuildSchedule(payment *Payment, now time.Time) Schedule {
	if payment.PaymentType != PaymentTypeRecurring ||
		payment.RecurrencePeriod == nil || payment.NextPaymentDue == nil {
		return Schedule{}
	}

	period := *payment.RecurrencePeriod
	due := dateOnly(*payment.NextPaymentDue)
	today := dateOnly(now)

	// The anchor is the earliest of created_at, payment_date and any document
	// applicable_date; it bounds how far back history is shown.
	start := dateOnly(payment.CreatedAt)
	if payment.PaymentDate != nil {
		if d := dateOnly(*payment.PaymentDate); d.Before(start) {
			start = d
		}
	}

	docsByDay := make(map[string][]*PaymentDocument)
	for _, doc := range payment.Documents {
		if doc.Archived || doc.ApplicableDate == nil {
			continue
		}
		day := dateOnly(*doc.ApplicableDate)
		if day.Before(start) {
			start = day
		}
		key := day.Format("2006-01-02")
		docsByDay[key] = append(docsByDay[key], doc)
	}

	// Backward pass: completed occurrences, same-day as the anchor included
	var items []*ScheduleItem
	for i := 1; i <= maxHistoryEntries; i++ {
		d := AddPeriods(due, period, -i)
		if d.Before(start) {
			break
		}
		items = append(items, &ScheduleItem{Date: d, Status: ScheduleStatusPaid, Label: "Completed"})
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	// Forward pass: the next due date and five more occurrences
	dueSeen := false
	firstUpcoming := true
	for i := 0; i < futureEntries; i++ {
		d := AddPeriods(due, period, i)
		item := &ScheduleItem{Date: d}

		switch {
		case d.Before(today):
			item.Status = ScheduleStatusOverdue
			item.Label = "Overdue"
		case !d.After(today.AddDate(0, 0, dueSoonDays)):
			item.Status = ScheduleStatusDue
			item.Label = "Due Soon"
			dueSeen = true
		default:
			item.Status = ScheduleStatusUpcoming
			if firstUpcoming && !dueSeen {
				item.Label = "Upcoming"
			} else {
				item.Label = "Scheduled"
			}
			firstUpcoming = false
		}

		items = append(items, item)
	}

	for _, item := range items {
		item.Documents = docsByDay[item.Date.Format("2006-01-02")]
	}

	return Schedule{Projected: true, Items: items}
}

// SummarizeSchedule calculates summary statistics for a projected schedule
func SummarizeSchedule(schedule Schedule) *ScheduleSummary {
	summary := &ScheduleSummary{TotalItems: len(schedule.Items)}

	for _, item := range schedule.Items {
		switch item.Status {
		case ScheduleStatusPaid:
			summary.CompletedItems++
		case ScheduleStatusOverdue:
			summary.OverdueItems++
		case ScheduleStatusDue:
			summary.DueItems++
		case ScheduleStatusUpcoming:
			summary.UpcomingItems++
		}

		if item.Status != ScheduleStatusPaid && summary.NextDue == nil {
			d := item.Date
			summary.NextDue = &d
		}
	}

	return summary
}

// DeriveStatus computes the effective display status of a payment relative to
// the given reference time. Stored paid and cancelled are terminal and never
// overridden by date math. A missing comparison date derives to due.
func DeriveStatus(payment *Payment, now time.Time) EffectiveStatus {
	if payment.Status == PaymentStatusPaid || payment.Status == PaymentStatusCancelled {
		return EffectiveStatus(payment.Status)
	}

	var comparison *time.Time
	if payment.PaymentType == PaymentTypeRecurring {
		comparison = payment.NextPaymentDue
	} else {
		comparison = payment.PaymentDate
	}
	if comparison == nil {
		return EffectiveDue
	}

	today := dateOnly(now)
	day := dateOnly(*comparison)

	switch {
	case day.Before(today):
		return EffectiveOverdue
	case !day.After(today.AddDate(0, 0, dueSoonDays)):
		return EffectiveDue
	default:
		return EffectiveNotYetDue
	}
}

// AmountDue computes the amount currently owed on a payment as of the given
// reference time. For overdue recurring payments the base amount is multiplied
// by the number of elapsed periods, approximated with fixed day counts
// (30/90/365), plus the period that just lapsed.
func AmountDue(payment *Payment, now time.Time) decimal.Decimal {
	switch DeriveStatus(payment, now) {
	case EffectivePaid, EffectiveCancelled, EffectiveNotYetDue:
		return decimal.Zero
	case EffectiveDue:
		return payment.Amount
	}

	// Overdue from here on
	if payment.PaymentType == PaymentTypeRecurring &&
		payment.RecurrencePeriod != nil && payment.NextPaymentDue != nil {
		daysPast := wholeDaysBetween(dateOnly(*payment.NextPaymentDue), dateOnly(now))
		if daysPast < 0 {
			daysPast = -daysPast
		}

		periodDays := periodApproxDays[*payment.RecurrencePeriod]
		if periodDays == 0 {
			periodDays = periodApproxDays[PeriodMonthly]
		}

		multiplier := daysPast/periodDays + 1
		return payment.Amount.Mul(decimal.NewFromInt(int64(multiplier)))
	}

	return payment.Amount
}

// dateOnly truncates a timestamp to its calendar day in UTC
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// wholeDaysBetween returns the number of whole days from a to b; both are
// expected to be day-truncated
func wholeDaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
