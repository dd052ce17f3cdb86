package models

import "testing"

func TestValidatePaymentRequest(t *testing.T) {
	valid := PaymentRequest{
		Title:            "SaaS subscription",
		PaymentType:      "recurring",
		Amount:           "49.99",
		Currency:         "USD",
		RecurrencePeriod: "monthly",
		NextPaymentDue:   "2024-07-01",
	}

	tests := []struct {
		name    string
		mutate  func(r *PaymentRequest)
		wantErr bool
	}{
		{"valid recurring", func(r *PaymentRequest) {}, false},
		{"valid one-time", func(r *PaymentRequest) {
			r.PaymentType = "one_time"
			r.RecurrencePeriod = ""
			r.NextPaymentDue = ""
			r.PaymentDate = "2024-07-01"
		}, false},
		{"missing title", func(r *PaymentRequest) { r.Title = "" }, true},
		{"non-numeric amount", func(r *PaymentRequest) { r.Amount = "lots" }, true},
		{"zero amount", func(r *PaymentRequest) { r.Amount = "0" }, true},
		{"negative amount", func(r *PaymentRequest) { r.Amount = "-5" }, true},
		{"bad currency", func(r *PaymentRequest) { r.Currency = "DOLLARS" }, true},
		{"unknown type", func(r *PaymentRequest) { r.PaymentType = "weekly" }, true},
		{"recurring without period", func(r *PaymentRequest) { r.RecurrencePeriod = "" }, true},
		{"one-time with period", func(r *PaymentRequest) {
			r.PaymentType = "one_time"
		}, true},
		{"malformed date", func(r *PaymentRequest) { r.NextPaymentDue = "01/07/2024" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.ValidatePaymentRequest()
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestToPayment(t *testing.T) {
	req := PaymentRequest{
		Title:            "SaaS subscription",
		PaymentType:      "recurring",
		Amount:           "49.99",
		Currency:         "USD",
		RecurrencePeriod: "monthly",
		NextPaymentDue:   "2024-07-01",
	}

	payment := req.ToPayment()
	if payment.NextPaymentDue == nil {
		t.Fatal("NextPaymentDue should be set")
	}
	if got := payment.NextPaymentDue.Format("2006-01-02"); got != "2024-07-01" {
		t.Errorf("NextPaymentDue = %s; want 2024-07-01", got)
	}
	if payment.PaymentDate != nil {
		t.Error("empty PaymentDate should stay nil")
	}
	if payment.Status != PaymentStatusDue {
		t.Errorf("new payments start due, got %s", payment.Status)
	}
	if payment.RecurrencePeriod == nil || *payment.RecurrencePeriod != PeriodMonthly {
		t.Error("recurrence period not carried over")
	}
}

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"due to paid", PaymentStatusDue, PaymentStatusPaid, true},
		{"due to cancelled", PaymentStatusDue, PaymentStatusCancelled, true},
		{"overdue to paid", PaymentStatusOverdue, PaymentStatusPaid, true},
		{"cancelled reopened to due", PaymentStatusCancelled, PaymentStatusDue, true},
		{"cancelled to paid", PaymentStatusCancelled, PaymentStatusPaid, false},
		{"unknown target", PaymentStatusDue, PaymentStatus("archived"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidStatusTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("ValidStatusTransition(%s, %s) = %v; want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}
