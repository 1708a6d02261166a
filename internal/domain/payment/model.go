package payment

import (
	"time"

	"github.com/google/uuid"
)

// Status is the payment lifecycle state.
//
// Payments enter as accepted (or rejected when screening fails). Receiving a
// reconciliation notice keeps the payment accepted; refunds and cancellations
// are terminal.
type Status string

const (
	StatusRejected  Status = "rejected"
	StatusAccepted  Status = "accepted"
	StatusRefunded  Status = "refunded"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusRejected:  true,
	StatusAccepted:  true,
	StatusRefunded:  true,
	StatusCancelled: true,
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	return validStatuses[s]
}

// Terminal reports whether no further lifecycle transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusRefunded || s == StatusCancelled
}

// Payment records money received from a payer, linked through details to the
// invoices and bills it settles.
type Payment struct {
	ID             uuid.UUID  `json:"id"`
	Status         Status     `json:"status"`
	Label          *string    `json:"label,omitempty"`
	CodeExt        *string    `json:"code_ext,omitempty"`
	CodeTp         *string    `json:"code_tp,omitempty"`
	CodeRcp        *string    `json:"code_rcp,omitempty"`
	AmountPayed    float64    `json:"amount_payed"`
	AmountReceived *float64   `json:"amount_received,omitempty"`
	Fees           *float64   `json:"fees,omitempty"`
	DatePayment    *time.Time `json:"date_payment,omitempty"`
	CreatedBy      string     `json:"created_by"`
	UpdatedBy      string     `json:"updated_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Detail links a payment to exactly one invoice or bill. A payment may carry
// several details and so settle several obligations at once.
type Detail struct {
	ID        uuid.UUID  `json:"id"`
	PaymentID uuid.UUID  `json:"payment_id"`
	InvoiceID *uuid.UUID `json:"invoice_id,omitempty"`
	BillID    *uuid.UUID `json:"bill_id,omitempty"`
	Status    Status     `json:"status"`
	Amount    *float64   `json:"amount,omitempty"`
	CreatedBy string     `json:"created_by"`
	UpdatedBy string     `json:"updated_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DisplayLabel returns the human identifier used in error messages and logs.
func (p *Payment) DisplayLabel() string {
	if p.Label != nil && *p.Label != "" {
		return *p.Label
	}
	return p.ID.String()
}

// Representation is the payment projection returned inside reconciliation
// result envelopes.
func (p *Payment) Representation() map[string]interface{} {
	rep := map[string]interface{}{
		"id":           p.ID.String(),
		"uuid":         p.ID.String(),
		"status":       string(p.Status),
		"amount_payed": p.AmountPayed,
	}
	if p.Label != nil {
		rep["label"] = *p.Label
	}
	if p.CodeExt != nil {
		rep["code_ext"] = *p.CodeExt
	}
	if p.CodeTp != nil {
		rep["code_tp"] = *p.CodeTp
	}
	if p.CodeRcp != nil {
		rep["code_rcp"] = *p.CodeRcp
	}
	if p.AmountReceived != nil {
		rep["amount_received"] = *p.AmountReceived
	}
	if p.Fees != nil {
		rep["fees"] = *p.Fees
	}
	if p.DatePayment != nil {
		rep["date_payment"] = p.DatePayment.Format("2006-01-02")
	}
	return rep
}
