package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openhis/billing/internal/platform/auth"
)

type Service struct {
	invoices Repository
	bills    BillRepository
}

func NewService(invoices Repository, bills BillRepository) *Service {
	return &Service{invoices: invoices, bills: bills}
}

// -- Invoice --

func (s *Service) CreateInvoice(ctx context.Context, actor auth.Principal, inv *Invoice) error {
	if inv.Code == "" {
		return fmt.Errorf("code is required")
	}
	if inv.SubjectID == uuid.Nil {
		return fmt.Errorf("subject_id is required")
	}
	if inv.Status == "" {
		inv.Status = StatusDraft
	}
	if !inv.Status.Valid() {
		return fmt.Errorf("invalid invoice status: %s", inv.Status)
	}
	if inv.DateValidFrom.IsZero() {
		inv.DateValidFrom = time.Now().UTC()
	}
	inv.CreatedBy = actor.ID
	inv.UpdatedBy = actor.ID
	return s.invoices.Create(ctx, inv)
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) GetInvoiceByCode(ctx context.Context, code string) (*Invoice, error) {
	return s.invoices.GetByCode(ctx, code)
}

func (s *Service) UpdateInvoice(ctx context.Context, actor auth.Principal, inv *Invoice) error {
	current, err := s.invoices.GetByID(ctx, inv.ID)
	if err != nil {
		return err
	}
	if current.Status.Terminal() {
		return fmt.Errorf("invoice %s is %s and cannot be modified", current.Label(), current.Status)
	}
	if inv.Status != "" && !inv.Status.Valid() {
		return fmt.Errorf("invalid invoice status: %s", inv.Status)
	}
	inv.UpdatedBy = actor.ID
	return s.invoices.Update(ctx, inv)
}

// DeleteInvoice marks the invoice deleted; rows are never physically removed.
func (s *Service) DeleteInvoice(ctx context.Context, actor auth.Principal, id uuid.UUID) error {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status.Terminal() {
		return fmt.Errorf("invoice %s is %s and cannot be modified", inv.Label(), inv.Status)
	}
	inv.Status = StatusDeleted
	inv.UpdatedBy = actor.ID
	return s.invoices.Update(ctx, inv)
}

// ValidateInvoice moves a draft invoice to validated, the state reconciliation
// accepts payments against.
func (s *Service) ValidateInvoice(ctx context.Context, actor auth.Principal, id uuid.UUID) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != StatusDraft {
		return nil, fmt.Errorf("invoice %s is %s, only draft invoices can be validated", inv.Label(), inv.Status)
	}
	inv.Status = StatusValidated
	inv.UpdatedBy = actor.ID
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) ListInvoicesBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListBySubject(ctx, subjectType, subjectID, limit, offset)
}

func (s *Service) SearchInvoices(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.Search(ctx, params, limit, offset)
}

// AddLineItem prices the line, persists it, and folds its amounts into the
// parent invoice totals.
func (s *Service) AddLineItem(ctx context.Context, actor auth.Principal, li *LineItem) (*Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, li.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != StatusDraft {
		return nil, fmt.Errorf("invoice %s is %s, line items can only be added to draft invoices", inv.Label(), inv.Status)
	}
	priceLine(&li.Quantity, &li.UnitPrice, li.Discount, li.TaxRate, &li.AmountNet, &li.AmountTotal)
	li.CreatedBy = actor.ID
	li.UpdatedBy = actor.ID
	if err := s.invoices.AddLineItem(ctx, li); err != nil {
		return nil, err
	}

	inv.AmountNet += li.AmountNet
	inv.AmountTotal += li.AmountTotal
	inv.UpdatedBy = actor.ID
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) GetLineItems(ctx context.Context, invoiceID uuid.UUID) ([]*LineItem, error) {
	return s.invoices.GetLineItems(ctx, invoiceID)
}

// -- Bill --

func (s *Service) CreateBill(ctx context.Context, actor auth.Principal, b *Bill) error {
	if b.Code == "" {
		return fmt.Errorf("code is required")
	}
	if b.SubjectID == uuid.Nil {
		return fmt.Errorf("subject_id is required")
	}
	if b.Status == "" {
		b.Status = StatusDraft
	}
	if !b.Status.Valid() {
		return fmt.Errorf("invalid bill status: %s", b.Status)
	}
	if b.DateValidFrom.IsZero() {
		b.DateValidFrom = time.Now().UTC()
	}
	b.CreatedBy = actor.ID
	b.UpdatedBy = actor.ID
	return s.bills.Create(ctx, b)
}

func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.bills.GetByID(ctx, id)
}

func (s *Service) GetBillByCode(ctx context.Context, code string) (*Bill, error) {
	return s.bills.GetByCode(ctx, code)
}

func (s *Service) UpdateBill(ctx context.Context, actor auth.Principal, b *Bill) error {
	current, err := s.bills.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	if current.Status.Terminal() {
		return fmt.Errorf("bill %s is %s and cannot be modified", current.Label(), current.Status)
	}
	if b.Status != "" && !b.Status.Valid() {
		return fmt.Errorf("invalid bill status: %s", b.Status)
	}
	b.UpdatedBy = actor.ID
	return s.bills.Update(ctx, b)
}

// DeleteBill marks the bill deleted; rows are never physically removed.
func (s *Service) DeleteBill(ctx context.Context, actor auth.Principal, id uuid.UUID) error {
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status.Terminal() {
		return fmt.Errorf("bill %s is %s and cannot be modified", b.Label(), b.Status)
	}
	b.Status = StatusDeleted
	b.UpdatedBy = actor.ID
	return s.bills.Update(ctx, b)
}

// ValidateBill moves a draft bill to validated.
func (s *Service) ValidateBill(ctx context.Context, actor auth.Principal, id uuid.UUID) (*Bill, error) {
	b, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusDraft {
		return nil, fmt.Errorf("bill %s is %s, only draft bills can be validated", b.Label(), b.Status)
	}
	b.Status = StatusValidated
	b.UpdatedBy = actor.ID
	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) ListBillsBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	return s.bills.ListBySubject(ctx, subjectType, subjectID, limit, offset)
}

func (s *Service) SearchBills(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	return s.bills.Search(ctx, params, limit, offset)
}

// AddBillItem prices the line, persists it, and folds its amounts into the
// parent bill totals.
func (s *Service) AddBillItem(ctx context.Context, actor auth.Principal, item *BillItem) (*Bill, error) {
	b, err := s.bills.GetByID(ctx, item.BillID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusDraft {
		return nil, fmt.Errorf("bill %s is %s, items can only be added to draft bills", b.Label(), b.Status)
	}
	priceLine(&item.Quantity, &item.UnitPrice, item.Discount, item.TaxRate, &item.AmountNet, &item.AmountTotal)
	item.CreatedBy = actor.ID
	item.UpdatedBy = actor.ID
	if err := s.bills.AddItem(ctx, item); err != nil {
		return nil, err
	}

	b.AmountNet += item.AmountNet
	b.AmountTotal += item.AmountTotal
	b.UpdatedBy = actor.ID
	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBillItems(ctx context.Context, billID uuid.UUID) ([]*BillItem, error) {
	return s.bills.GetItems(ctx, billID)
}

// priceLine computes net and total amounts for a line: net is quantity times
// unit price less the discount, total adds the tax rate on top of net.
func priceLine(qty, unitPrice *float64, discount, taxRate *float64, amountNet, amountTotal *float64) {
	if *qty == 0 {
		*qty = 1
	}
	net := *qty * *unitPrice
	if discount != nil {
		net -= *discount
	}
	total := net
	if taxRate != nil {
		total += net * *taxRate / 100
	}
	*amountNet = net
	*amountTotal = total
}
