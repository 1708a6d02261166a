package invoice

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

// =========== Invoice Repository ===========

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const invoiceCols = `id, code, code_tp, code_ext, status,
	subject_type, subject_id, thirdparty_type, thirdparty_id, currency_code,
	amount_net, amount_discount, amount_total,
	date_invoice, date_due, date_payed, date_valid_from, date_valid_to,
	note, terms, payment_reference,
	created_by, updated_by, created_at, updated_at`

func (r *repoPG) scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Code, &inv.CodeTp, &inv.CodeExt, &inv.Status,
		&inv.SubjectType, &inv.SubjectID, &inv.ThirdpartyType, &inv.ThirdpartyID, &inv.CurrencyCode,
		&inv.AmountNet, &inv.AmountDiscount, &inv.AmountTotal,
		&inv.DateInvoice, &inv.DateDue, &inv.DatePayed, &inv.DateValidFrom, &inv.DateValidTo,
		&inv.Note, &inv.Terms, &inv.PaymentReference,
		&inv.CreatedBy, &inv.UpdatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice (id, code, code_tp, code_ext, status,
			subject_type, subject_id, thirdparty_type, thirdparty_id, currency_code,
			amount_net, amount_discount, amount_total,
			date_invoice, date_due, date_valid_from, date_valid_to,
			note, terms, payment_reference, created_by, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		inv.ID, inv.Code, inv.CodeTp, inv.CodeExt, inv.Status,
		inv.SubjectType, inv.SubjectID, inv.ThirdpartyType, inv.ThirdpartyID, inv.CurrencyCode,
		inv.AmountNet, inv.AmountDiscount, inv.AmountTotal,
		inv.DateInvoice, inv.DateDue, inv.DateValidFrom, inv.DateValidTo,
		inv.Note, inv.Terms, inv.PaymentReference, inv.CreatedBy, inv.UpdatedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return r.scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Invoice, error) {
	return r.scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE code = $1`, code))
}

func (r *repoPG) Update(ctx context.Context, inv *Invoice) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoice SET code_tp=$2, code_ext=$3, status=$4,
			amount_net=$5, amount_discount=$6, amount_total=$7,
			date_invoice=$8, date_due=$9, date_payed=$10, date_valid_to=$11,
			note=$12, terms=$13, payment_reference=$14, updated_by=$15, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.CodeTp, inv.CodeExt, inv.Status,
		inv.AmountNet, inv.AmountDiscount, inv.AmountTotal,
		inv.DateInvoice, inv.DateDue, inv.DatePayed, inv.DateValidTo,
		inv.Note, inv.Terms, inv.PaymentReference, inv.UpdatedBy)
	return err
}

func (r *repoPG) ListBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoice WHERE subject_type = $1 AND subject_id = $2`, subjectType, subjectID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE subject_type = $1 AND subject_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`, subjectType, subjectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, nil
}

var invoiceFilterParams = map[string]db.FilterConfig{
	"status":          {Type: db.FilterToken, Column: "status"},
	"code":            {Type: db.FilterText, Column: "code"},
	"subject_type":    {Type: db.FilterToken, Column: "subject_type"},
	"subject_id":      {Type: db.FilterToken, Column: "subject_id"},
	"thirdparty_type": {Type: db.FilterToken, Column: "thirdparty_type"},
	"thirdparty_id":   {Type: db.FilterToken, Column: "thirdparty_id"},
	"date_invoice":    {Type: db.FilterDate, Column: "date_invoice"},
	"date_due":        {Type: db.FilterDate, Column: "date_due"},
	"amount_total":    {Type: db.FilterNumber, Column: "amount_total"},
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Invoice, int, error) {
	qb := db.NewListQuery("invoice", invoiceCols)
	qb.ApplyParams(params, invoiceFilterParams)
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
	var items []*Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, nil
}

const lineItemCols = `id, invoice_id, code, description, line_type, line_id,
	quantity, unit_price, discount, tax_rate, amount_net, amount_total,
	created_by, updated_by, created_at, updated_at`

func (r *repoPG) AddLineItem(ctx context.Context, li *LineItem) error {
	li.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice_line_item (id, invoice_id, code, description, line_type, line_id,
			quantity, unit_price, discount, tax_rate, amount_net, amount_total,
			created_by, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		li.ID, li.InvoiceID, li.Code, li.Description, li.LineType, li.LineID,
		li.Quantity, li.UnitPrice, li.Discount, li.TaxRate, li.AmountNet, li.AmountTotal,
		li.CreatedBy, li.UpdatedBy)
	return err
}

func (r *repoPG) GetLineItems(ctx context.Context, invoiceID uuid.UUID) ([]*LineItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+lineItemCols+` FROM invoice_line_item WHERE invoice_id = $1 ORDER BY created_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*LineItem
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.InvoiceID, &li.Code, &li.Description, &li.LineType, &li.LineID,
			&li.Quantity, &li.UnitPrice, &li.Discount, &li.TaxRate, &li.AmountNet, &li.AmountTotal,
			&li.CreatedBy, &li.UpdatedBy, &li.CreatedAt, &li.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &li)
	}
	return items, nil
}

// =========== Bill Repository ===========

type billRepoPG struct{ pool *pgxpool.Pool }

func NewBillRepoPG(pool *pgxpool.Pool) BillRepository { return &billRepoPG{pool: pool} }

func (r *billRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const billCols = `id, code, code_tp, code_ext, status,
	subject_type, subject_id, thirdparty_type, thirdparty_id, currency_code,
	amount_net, amount_discount, amount_total,
	date_bill, date_due, date_payed, date_valid_from, date_valid_to,
	note, terms, payment_reference,
	created_by, updated_by, created_at, updated_at`

func (r *billRepoPG) scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.Code, &b.CodeTp, &b.CodeExt, &b.Status,
		&b.SubjectType, &b.SubjectID, &b.ThirdpartyType, &b.ThirdpartyID, &b.CurrencyCode,
		&b.AmountNet, &b.AmountDiscount, &b.AmountTotal,
		&b.DateBill, &b.DateDue, &b.DatePayed, &b.DateValidFrom, &b.DateValidTo,
		&b.Note, &b.Terms, &b.PaymentReference,
		&b.CreatedBy, &b.UpdatedBy, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *billRepoPG) Create(ctx context.Context, b *Bill) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bill (id, code, code_tp, code_ext, status,
			subject_type, subject_id, thirdparty_type, thirdparty_id, currency_code,
			amount_net, amount_discount, amount_total,
			date_bill, date_due, date_valid_from, date_valid_to,
			note, terms, payment_reference, created_by, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		b.ID, b.Code, b.CodeTp, b.CodeExt, b.Status,
		b.SubjectType, b.SubjectID, b.ThirdpartyType, b.ThirdpartyID, b.CurrencyCode,
		b.AmountNet, b.AmountDiscount, b.AmountTotal,
		b.DateBill, b.DateDue, b.DateValidFrom, b.DateValidTo,
		b.Note, b.Terms, b.PaymentReference, b.CreatedBy, b.UpdatedBy)
	return err
}

func (r *billRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return r.scanBill(r.conn(ctx).QueryRow(ctx, `SELECT `+billCols+` FROM bill WHERE id = $1`, id))
}

func (r *billRepoPG) GetByCode(ctx context.Context, code string) (*Bill, error) {
	return r.scanBill(r.conn(ctx).QueryRow(ctx, `SELECT `+billCols+` FROM bill WHERE code = $1`, code))
}

func (r *billRepoPG) Update(ctx context.Context, b *Bill) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE bill SET code_tp=$2, code_ext=$3, status=$4,
			amount_net=$5, amount_discount=$6, amount_total=$7,
			date_bill=$8, date_due=$9, date_payed=$10, date_valid_to=$11,
			note=$12, terms=$13, payment_reference=$14, updated_by=$15, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.CodeTp, b.CodeExt, b.Status,
		b.AmountNet, b.AmountDiscount, b.AmountTotal,
		b.DateBill, b.DateDue, b.DatePayed, b.DateValidTo,
		b.Note, b.Terms, b.PaymentReference, b.UpdatedBy)
	return err
}

func (r *billRepoPG) ListBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bill WHERE subject_type = $1 AND subject_id = $2`, subjectType, subjectID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+billCols+` FROM bill WHERE subject_type = $1 AND subject_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`, subjectType, subjectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Bill
	for rows.Next() {
		b, err := r.scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}

var billFilterParams = map[string]db.FilterConfig{
	"status":          {Type: db.FilterToken, Column: "status"},
	"code":            {Type: db.FilterText, Column: "code"},
	"subject_type":    {Type: db.FilterToken, Column: "subject_type"},
	"subject_id":      {Type: db.FilterToken, Column: "subject_id"},
	"thirdparty_type": {Type: db.FilterToken, Column: "thirdparty_type"},
	"thirdparty_id":   {Type: db.FilterToken, Column: "thirdparty_id"},
	"date_bill":       {Type: db.FilterDate, Column: "date_bill"},
	"date_due":        {Type: db.FilterDate, Column: "date_due"},
	"amount_total":    {Type: db.FilterNumber, Column: "amount_total"},
}

func (r *billRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	qb := db.NewListQuery("bill", billCols)
	qb.ApplyParams(params, billFilterParams)
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
	var items []*Bill
	for rows.Next() {
		b, err := r.scanBill(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}

const billItemCols = `id, bill_id, code, description, line_type, line_id,
	quantity, unit_price, discount, tax_rate, amount_net, amount_total,
	created_by, updated_by, created_at, updated_at`

func (r *billRepoPG) AddItem(ctx context.Context, item *BillItem) error {
	item.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bill_item (id, bill_id, code, description, line_type, line_id,
			quantity, unit_price, discount, tax_rate, amount_net, amount_total,
			created_by, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		item.ID, item.BillID, item.Code, item.Description, item.LineType, item.LineID,
		item.Quantity, item.UnitPrice, item.Discount, item.TaxRate, item.AmountNet, item.AmountTotal,
		item.CreatedBy, item.UpdatedBy)
	return err
}

func (r *billRepoPG) GetItems(ctx context.Context, billID uuid.UUID) ([]*BillItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+billItemCols+` FROM bill_item WHERE bill_id = $1 ORDER BY created_at`, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*BillItem
	for rows.Next() {
		var item BillItem
		if err := rows.Scan(&item.ID, &item.BillID, &item.Code, &item.Description, &item.LineType, &item.LineID,
			&item.Quantity, &item.UnitPrice, &item.Discount, &item.TaxRate, &item.AmountNet, &item.AmountTotal,
			&item.CreatedBy, &item.UpdatedBy, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}
