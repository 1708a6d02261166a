package payment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Payment, details []*Detail) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*Payment, int, error)
}

type DetailRepository interface {
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*Detail, error)
	Update(ctx context.Context, d *Detail) error
}
