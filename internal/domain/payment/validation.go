package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openhis/billing/internal/domain/invoice"
)

// Validator guards reconciliation transitions. A deployment can swap the
// default rules for scheme-specific ones without touching the service.
type Validator interface {
	ValidateRefReceived(ctx context.Context, p *Payment, ref string) error
	ValidateReceivePayment(ctx context.Context, p *Payment) error
	ValidateRefund(ctx context.Context, p *Payment) error
	ValidateCancel(ctx context.Context, p *Payment) error
}

// StatusValidator implements the default reconciliation rules: receive wants
// open obligations and an exact amount match, refund and cancel want settled
// ones.
type StatusValidator struct {
	resolver *Resolver
}

func NewStatusValidator(resolver *Resolver) *StatusValidator {
	return &StatusValidator{resolver: resolver}
}

var (
	receiveInvoiceStatuses = []invoice.Status{invoice.StatusDraft, invoice.StatusValidated}
	receivePaymentStatuses = []Status{StatusAccepted, StatusRejected}
)

// ValidateRefReceived carries no status precondition: the external reference
// can be attached at any point of the payment lifecycle.
func (v *StatusValidator) ValidateRefReceived(ctx context.Context, p *Payment, ref string) error {
	if p == nil || p.ID == uuid.Nil {
		return fmt.Errorf("payment is required")
	}
	if ref == "" {
		return fmt.Errorf("payment reference is required")
	}
	return nil
}

// ValidateReceivePayment checks that every linked invoice and bill is still
// open, that the payment itself has not reached a terminal state, and that
// the amount payed matches the total owed exactly.
func (v *StatusValidator) ValidateReceivePayment(ctx context.Context, p *Payment) error {
	if !statusIn(p.Status, receivePaymentStatuses) {
		return &InvalidStatusError{
			Entity:  "payment",
			Label:   p.DisplayLabel(),
			Current: string(p.Status),
			Allowed: statusNames(receivePaymentStatuses),
		}
	}

	invoices, bills, err := v.resolver.Resolve(ctx, p.ID)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		if !invoiceStatusIn(inv.Status, receiveInvoiceStatuses) {
			return &InvalidStatusError{
				Entity:  "invoice",
				Label:   inv.Label(),
				Current: string(inv.Status),
				Allowed: invoiceStatusNames(receiveInvoiceStatuses),
			}
		}
	}
	for _, b := range bills {
		if !invoiceStatusIn(b.Status, receiveInvoiceStatuses) {
			return &InvalidStatusError{
				Entity:  "bill",
				Label:   b.Label(),
				Current: string(b.Status),
				Allowed: invoiceStatusNames(receiveInvoiceStatuses),
			}
		}
	}

	expected, err := v.resolver.ExpectedTotal(ctx, invoices, bills)
	if err != nil {
		return err
	}
	if expected != p.AmountPayed {
		return &AmountMismatchError{
			Label:    p.DisplayLabel(),
			Expected: expected,
			Payed:    p.AmountPayed,
		}
	}
	return nil
}

// ValidateRefund requires the payment to be accepted and every linked invoice
// and bill to be payed.
func (v *StatusValidator) ValidateRefund(ctx context.Context, p *Payment) error {
	return v.validateSettled(ctx, p)
}

// ValidateCancel applies the same preconditions as refund.
func (v *StatusValidator) ValidateCancel(ctx context.Context, p *Payment) error {
	return v.validateSettled(ctx, p)
}

func (v *StatusValidator) validateSettled(ctx context.Context, p *Payment) error {
	if p.Status != StatusAccepted {
		return &InvalidStatusError{
			Entity:  "payment",
			Label:   p.DisplayLabel(),
			Current: string(p.Status),
			Allowed: []string{string(StatusAccepted)},
		}
	}

	invoices, bills, err := v.resolver.Resolve(ctx, p.ID)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		if inv.Status != invoice.StatusPayed {
			return &InvalidStatusError{
				Entity:  "invoice",
				Label:   inv.Label(),
				Current: string(inv.Status),
				Allowed: []string{string(invoice.StatusPayed)},
			}
		}
	}
	for _, b := range bills {
		if b.Status != invoice.StatusPayed {
			return &InvalidStatusError{
				Entity:  "bill",
				Label:   b.Label(),
				Current: string(b.Status),
				Allowed: []string{string(invoice.StatusPayed)},
			}
		}
	}
	return nil
}

func statusIn(s Status, allowed []Status) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

func statusNames(statuses []Status) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}

func invoiceStatusIn(s invoice.Status, allowed []invoice.Status) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

func invoiceStatusNames(statuses []invoice.Status) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}
