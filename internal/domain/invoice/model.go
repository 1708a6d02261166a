package invoice

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is an insuree-level billable obligation. Bills share the same shape
// for contract and policy-holder level obligations; reconciliation treats the
// two uniformly.
type Invoice struct {
	ID               uuid.UUID  `json:"id"`
	Code             string     `json:"code"`
	CodeTp           *string    `json:"code_tp,omitempty"`
	CodeExt          *string    `json:"code_ext,omitempty"`
	Status           Status     `json:"status"`
	SubjectType      string     `json:"subject_type"`
	SubjectID        uuid.UUID  `json:"subject_id"`
	ThirdpartyType   string     `json:"thirdparty_type"`
	ThirdpartyID     uuid.UUID  `json:"thirdparty_id"`
	CurrencyCode     string     `json:"currency_code"`
	AmountNet        float64    `json:"amount_net"`
	AmountDiscount   *float64   `json:"amount_discount,omitempty"`
	AmountTotal      float64    `json:"amount_total"`
	DateInvoice      *time.Time `json:"date_invoice,omitempty"`
	DateDue          *time.Time `json:"date_due,omitempty"`
	DatePayed        *time.Time `json:"date_payed,omitempty"`
	DateValidFrom    time.Time  `json:"date_valid_from"`
	DateValidTo      *time.Time `json:"date_valid_to,omitempty"`
	Note             *string    `json:"note,omitempty"`
	Terms            *string    `json:"terms,omitempty"`
	PaymentReference *string    `json:"payment_reference,omitempty"`
	CreatedBy        string     `json:"created_by"`
	UpdatedBy        string     `json:"updated_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// LineItem is a single priced line attached to an invoice. The sum of line
// amount_total values is the amount a payment must match to be received.
type LineItem struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	Code        string    `json:"code"`
	Description *string   `json:"description,omitempty"`
	LineType    string    `json:"line_type"`
	LineID      uuid.UUID `json:"line_id"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Discount    *float64  `json:"discount,omitempty"`
	TaxRate     *float64  `json:"tax_rate,omitempty"`
	AmountNet   float64   `json:"amount_net"`
	AmountTotal float64   `json:"amount_total"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Bill is a policy-holder or contract level obligation.
type Bill struct {
	ID               uuid.UUID  `json:"id"`
	Code             string     `json:"code"`
	CodeTp           *string    `json:"code_tp,omitempty"`
	CodeExt          *string    `json:"code_ext,omitempty"`
	Status           Status     `json:"status"`
	SubjectType      string     `json:"subject_type"`
	SubjectID        uuid.UUID  `json:"subject_id"`
	ThirdpartyType   string     `json:"thirdparty_type"`
	ThirdpartyID     uuid.UUID  `json:"thirdparty_id"`
	CurrencyCode     string     `json:"currency_code"`
	AmountNet        float64    `json:"amount_net"`
	AmountDiscount   *float64   `json:"amount_discount,omitempty"`
	AmountTotal      float64    `json:"amount_total"`
	DateBill         *time.Time `json:"date_bill,omitempty"`
	DateDue          *time.Time `json:"date_due,omitempty"`
	DatePayed        *time.Time `json:"date_payed,omitempty"`
	DateValidFrom    time.Time  `json:"date_valid_from"`
	DateValidTo      *time.Time `json:"date_valid_to,omitempty"`
	Note             *string    `json:"note,omitempty"`
	Terms            *string    `json:"terms,omitempty"`
	PaymentReference *string    `json:"payment_reference,omitempty"`
	CreatedBy        string     `json:"created_by"`
	UpdatedBy        string     `json:"updated_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BillItem is a single priced line attached to a bill.
type BillItem struct {
	ID          uuid.UUID `json:"id"`
	BillID      uuid.UUID `json:"bill_id"`
	Code        string    `json:"code"`
	Description *string   `json:"description,omitempty"`
	LineType    string    `json:"line_type"`
	LineID      uuid.UUID `json:"line_id"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Discount    *float64  `json:"discount,omitempty"`
	TaxRate     *float64  `json:"tax_rate,omitempty"`
	AmountNet   float64   `json:"amount_net"`
	AmountTotal float64   `json:"amount_total"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Label returns the human identifier used in error messages.
func (i *Invoice) Label() string {
	if i.Code != "" {
		return i.Code
	}
	return i.ID.String()
}

// Label returns the human identifier used in error messages.
func (b *Bill) Label() string {
	if b.Code != "" {
		return b.Code
	}
	return b.ID.String()
}
