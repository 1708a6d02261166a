package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openhis/billing/internal/domain/invoice"
)

// Resolver walks a payment's details and loads the invoices and bills they
// point at. Order follows the details; duplicates collapse to one entry.
type Resolver struct {
	details  DetailRepository
	invoices invoice.Repository
	bills    invoice.BillRepository
}

func NewResolver(details DetailRepository, invoices invoice.Repository, bills invoice.BillRepository) *Resolver {
	return &Resolver{details: details, invoices: invoices, bills: bills}
}

// Resolve returns the distinct invoices and bills linked to the payment.
func (r *Resolver) Resolve(ctx context.Context, paymentID uuid.UUID) ([]*invoice.Invoice, []*invoice.Bill, error) {
	details, err := r.details.ListByPayment(ctx, paymentID)
	if err != nil {
		return nil, nil, fmt.Errorf("list payment details: %w", err)
	}

	seenInvoices := make(map[uuid.UUID]bool)
	seenBills := make(map[uuid.UUID]bool)
	var invoices []*invoice.Invoice
	var bills []*invoice.Bill

	for _, d := range details {
		switch {
		case d.InvoiceID != nil:
			if seenInvoices[*d.InvoiceID] {
				continue
			}
			seenInvoices[*d.InvoiceID] = true
			inv, err := r.invoices.GetByID(ctx, *d.InvoiceID)
			if err != nil {
				return nil, nil, fmt.Errorf("load invoice %s: %w", d.InvoiceID, err)
			}
			invoices = append(invoices, inv)
		case d.BillID != nil:
			if seenBills[*d.BillID] {
				continue
			}
			seenBills[*d.BillID] = true
			b, err := r.bills.GetByID(ctx, *d.BillID)
			if err != nil {
				return nil, nil, fmt.Errorf("load bill %s: %w", d.BillID, err)
			}
			bills = append(bills, b)
		}
	}
	return invoices, bills, nil
}

// ExpectedTotal sums the line item totals of every linked invoice and bill.
// Amounts are summed as stored; currency conversion is out of scope here.
func (r *Resolver) ExpectedTotal(ctx context.Context, invoices []*invoice.Invoice, bills []*invoice.Bill) (float64, error) {
	var total float64
	for _, inv := range invoices {
		items, err := r.invoices.GetLineItems(ctx, inv.ID)
		if err != nil {
			return 0, fmt.Errorf("load line items for invoice %s: %w", inv.Label(), err)
		}
		for _, li := range items {
			total += li.AmountTotal
		}
	}
	for _, b := range bills {
		items, err := r.bills.GetItems(ctx, b.ID)
		if err != nil {
			return 0, fmt.Errorf("load items for bill %s: %w", b.Label(), err)
		}
		for _, item := range items {
			total += item.AmountTotal
		}
	}
	return total, nil
}
