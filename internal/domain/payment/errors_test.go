package payment

import (
	"strings"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2, "2.0"},
		{91.5, "91.5"},
		{0, "0.0"},
		{100.25, "100.25"},
		{1000, "1000.0"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAmountMismatchError(t *testing.T) {
	err := &AmountMismatchError{Label: "PAY-1", Expected: 91.5, Payed: 2}
	msg := err.Error()
	if !strings.Contains(msg, "91.5") || !strings.Contains(msg, "2.0") {
		t.Errorf("expected both amounts in message, got %q", msg)
	}
	if !strings.Contains(msg, "PAY-1") {
		t.Errorf("expected label in message, got %q", msg)
	}
}

func TestInvalidStatusError(t *testing.T) {
	err := &InvalidStatusError{
		Entity:  "invoice",
		Label:   "IV-001",
		Current: "cancelled",
		Allowed: []string{"draft", "validated"},
	}
	msg := err.Error()
	if !strings.Contains(msg, "draft, validated") {
		t.Errorf("expected allowed list in message, got %q", msg)
	}
	if !strings.Contains(msg, "cancelled") {
		t.Errorf("expected current status in message, got %q", msg)
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusRefunded.Terminal() || !StatusCancelled.Terminal() {
		t.Error("refunded and cancelled must be terminal")
	}
	if StatusAccepted.Terminal() || StatusRejected.Terminal() {
		t.Error("accepted and rejected must not be terminal")
	}
}
