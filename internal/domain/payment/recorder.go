package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openhis/billing/internal/platform/auth"
	"github.com/openhis/billing/internal/platform/db"
)

// Recorder registers incoming payments and reads them back. It sits next to
// the reconciliation Service, whose Create and Update deliberately answer
// not-implemented.
type Recorder struct {
	payments Repository
	details  DetailRepository
	tx       db.TxRunner
}

func NewRecorder(payments Repository, details DetailRepository, tx db.TxRunner) *Recorder {
	return &Recorder{payments: payments, details: details, tx: tx}
}

// Record persists a payment with its details. Each detail must reference
// exactly one invoice or bill.
func (r *Recorder) Record(ctx context.Context, actor auth.Principal, p *Payment, details []*Detail) error {
	if len(details) == 0 {
		return fmt.Errorf("at least one payment detail is required")
	}
	for i, d := range details {
		if (d.InvoiceID == nil) == (d.BillID == nil) {
			return fmt.Errorf("detail %d must reference exactly one invoice or bill", i)
		}
	}
	if p.Status == "" {
		p.Status = StatusAccepted
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid payment status: %s", p.Status)
	}
	p.CreatedBy = actor.ID
	p.UpdatedBy = actor.ID
	for _, d := range details {
		d.Status = p.Status
		d.CreatedBy = actor.ID
		d.UpdatedBy = actor.ID
	}
	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		return r.payments.Create(ctx, p, details)
	})
}

func (r *Recorder) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return r.payments.GetByID(ctx, id)
}

func (r *Recorder) GetDetails(ctx context.Context, paymentID uuid.UUID) ([]*Detail, error) {
	return r.details.ListByPayment(ctx, paymentID)
}

func (r *Recorder) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Payment, int, error) {
	return r.payments.List(ctx, params, limit, offset)
}
