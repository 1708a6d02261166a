package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openhis/billing/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Payment Repository ===========

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const paymentCols = `id, status, label, code_ext, code_tp, code_rcp,
	amount_payed, amount_received, fees, date_payment,
	created_by, updated_by, created_at, updated_at`

func (r *repoPG) scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.Status, &p.Label, &p.CodeExt, &p.CodeTp, &p.CodeRcp,
		&p.AmountPayed, &p.AmountReceived, &p.Fees, &p.DatePayment,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

// Create inserts a payment and its details. Callers wrap this in RunInTx so
// the payment never exists without its links.
func (r *repoPG) Create(ctx context.Context, p *Payment, details []*Detail) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment (id, status, label, code_ext, code_tp, code_rcp,
			amount_payed, amount_received, fees, date_payment, created_by, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.Status, p.Label, p.CodeExt, p.CodeTp, p.CodeRcp,
		p.AmountPayed, p.AmountReceived, p.Fees, p.DatePayment, p.CreatedBy, p.UpdatedBy)
	if err != nil {
		return err
	}
	for _, d := range details {
		d.ID = uuid.New()
		d.PaymentID = p.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO payment_detail (id, payment_id, invoice_id, bill_id, status, amount, created_by, updated_by)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			d.ID, d.PaymentID, d.InvoiceID, d.BillID, d.Status, d.Amount, d.CreatedBy, d.UpdatedBy)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return r.scanPayment(r.conn(ctx).QueryRow(ctx, `SELECT `+paymentCols+` FROM payment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Payment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE payment SET status=$2, label=$3, code_ext=$4, code_tp=$5, code_rcp=$6,
			amount_payed=$7, amount_received=$8, fees=$9, date_payment=$10,
			updated_by=$11, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Status, p.Label, p.CodeExt, p.CodeTp, p.CodeRcp,
		p.AmountPayed, p.AmountReceived, p.Fees, p.DatePayment, p.UpdatedBy)
	return err
}

var paymentFilterParams = map[string]db.FilterConfig{
	"status":       {Type: db.FilterToken, Column: "status"},
	"code_ext":     {Type: db.FilterToken, Column: "code_ext"},
	"code_tp":      {Type: db.FilterToken, Column: "code_tp"},
	"date_payment": {Type: db.FilterDate, Column: "date_payment"},
	"amount_payed": {Type: db.FilterNumber, Column: "amount_payed"},
}

func (r *repoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Payment, int, error) {
	qb := db.NewListQuery("payment", paymentCols)
	qb.ApplyParams(params, paymentFilterParams)
	qb.OrderBy("created_at DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, qb.DataSQL(limit, offset), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== Detail Repository ===========

type detailRepoPG struct{ pool *pgxpool.Pool }

func NewDetailRepoPG(pool *pgxpool.Pool) DetailRepository { return &detailRepoPG{pool: pool} }

func (r *detailRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const detailCols = `id, payment_id, invoice_id, bill_id, status, amount,
	created_by, updated_by, created_at, updated_at`

func (r *detailRepoPG) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*Detail, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+detailCols+` FROM payment_detail WHERE payment_id = $1 ORDER BY created_at`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.PaymentID, &d.InvoiceID, &d.BillID, &d.Status, &d.Amount,
			&d.CreatedBy, &d.UpdatedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, nil
}

func (r *detailRepoPG) Update(ctx context.Context, d *Detail) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE payment_detail SET status=$2, amount=$3, updated_by=$4, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Status, d.Amount, d.UpdatedBy)
	return err
}
