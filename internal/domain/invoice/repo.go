package invoice

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByCode(ctx context.Context, code string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	ListBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID, limit, offset int) ([]*Invoice, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error)
	// Line items
	AddLineItem(ctx context.Context, li *LineItem) error
	GetLineItems(ctx context.Context, invoiceID uuid.UUID) ([]*LineItem, error)
}

type BillRepository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	GetByCode(ctx context.Context, code string) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	ListBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID, limit, offset int) ([]*Bill, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error)
	// Items
	AddItem(ctx context.Context, item *BillItem) error
	GetItems(ctx context.Context, billID uuid.UUID) ([]*BillItem, error)
}
