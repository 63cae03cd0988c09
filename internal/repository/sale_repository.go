package repository

import (
	"context"
	"strings"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/db"
	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type SaleRepository struct {
	DB *db.Postgres
}

type CreateSaleInput struct {
	CustomerID uuid.UUID
	SaleDate   time.Time
	QuoteID    *uuid.UUID
	Notes      *string
	Items      []SaleItemInput
}

type UpdateSaleInput struct {
	SaleDate time.Time
	Status   domain.SaleStatus
	Notes    *string
	Items    []SaleItemInput
}

type SaleItemInput struct {
	ProductID                  uuid.UUID
	Quantity                   int
	UnitPrice                  decimal.Decimal
	UnitRecurringPrice         *decimal.Decimal
	RecurrenceOverride         *domain.RecurrenceType
	RecurrenceIntervalOverride *int
	Notes                      *string
}

// Create validates the customer and the whole product set, inserts the
// sale with its lines and persists the derived totals, all in one
// transaction. The product check is all-or-nothing: any unresolved id
// fails the creation.
func (r SaleRepository) Create(ctx context.Context, in CreateSaleInput) (*SaleRecord, error) {
	if err := domain.ValidateSaleItems(toDomainItems(uuid.Nil, in.Items)); err != nil {
		return nil, err
	}

	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var customerExists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id=$1)`, in.CustomerID).Scan(&customerExists); err != nil {
		return nil, err
	}
	if !customerExists {
		return nil, domain.Invalidf("Customer not found")
	}

	if err := checkProductsExist(ctx, tx, in.Items); err != nil {
		return nil, err
	}

	saleID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO sales (id, customer_id, sale_date, status, quote_id, notes, total_amount, total_recurring_amount, total_paid)
		VALUES ($1,$2,$3,$4,$5,$6, 0, 0, 0)
	`, saleID, in.CustomerID, in.SaleDate, int(domain.SaleActive), in.QuoteID, in.Notes)
	if err != nil {
		return nil, err
	}

	if err := insertItems(ctx, tx, saleID, in.Items); err != nil {
		return nil, err
	}
	if err := recomputeTotalsTx(ctx, tx, saleID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.Get(ctx, saleID)
}

// Update is a full line replace, not a diff: the existing lines are
// discarded and the supplied set inserted, then totals re-derived.
func (r SaleRepository) Update(ctx context.Context, id uuid.UUID, in UpdateSaleInput) error {
	if err := domain.ValidateSaleItems(toDomainItems(id, in.Items)); err != nil {
		return err
	}

	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE sales SET sale_date=$1, status=$2, notes=$3 WHERE id=$4
	`, in.SaleDate, int(in.Status), in.Notes, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := checkProductsExist(ctx, tx, in.Items); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id=$1`, id); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, id, in.Items); err != nil {
		return err
	}
	if err := recomputeTotalsTx(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes the sale; its items and payments go with it via the
// FK cascade (the sale exclusively owns both).
func (r SaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM sales WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaleRecord pairs a sale with the customer details the API reports
// alongside it. The customer stays a foreign-key lookup, not a live
// back-reference on the aggregate.
type SaleRecord struct {
	domain.Sale
	CustomerName  string
	CustomerEmail string
}

func (r SaleRepository) Get(ctx context.Context, id uuid.UUID) (*SaleRecord, error) {
	sales, err := r.query(ctx, `WHERE s.id=$1`, id)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, ErrNotFound
	}
	return &sales[0], nil
}

func (r SaleRepository) List(ctx context.Context) ([]SaleRecord, error) {
	return r.query(ctx, ``)
}

func (r SaleRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]SaleRecord, error) {
	return r.query(ctx, `WHERE s.customer_id=$1`, customerID)
}

// RecalculateAll re-derives every sale's persisted totals from its
// current items and payments. Maintenance operation; idempotent.
func (r SaleRepository) RecalculateAll(ctx context.Context) (int, error) {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE sales s SET
			total_amount = COALESCE((SELECT SUM(quantity*unit_price) FROM sale_items WHERE sale_id=s.id),0),
			total_recurring_amount = COALESCE((SELECT SUM(quantity*unit_recurring_price) FROM sale_items WHERE sale_id=s.id AND unit_recurring_price IS NOT NULL),0),
			total_paid = COALESCE((SELECT SUM(amount_paid) FROM payments WHERE sale_id=s.id),0)
	`)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r SaleRepository) query(ctx context.Context, where string, args ...any) ([]SaleRecord, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT s.id, s.customer_id, s.sale_date, s.status, s.quote_id, s.notes,
		       s.total_amount, s.total_recurring_amount, s.total_paid,
		       c.name, c.email
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		`+where+`
		ORDER BY s.sale_date DESC, s.id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []SaleRecord
	var ids []uuid.UUID
	for rows.Next() {
		var s SaleRecord
		var status int
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.SaleDate, &status, &s.QuoteID, &s.Notes,
			&s.TotalAmount, &s.TotalRecurringAmount, &s.TotalPaid,
			&s.CustomerName, &s.CustomerEmail); err != nil {
			return nil, err
		}
		s.Status = domain.SaleStatus(status)
		ids = append(ids, s.ID)
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return sales, nil
	}

	itemsBySale, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	paymentsBySale, err := r.loadPayments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Items = itemsBySale[sales[i].ID]
		sales[i].Payments = paymentsBySale[sales[i].ID]
	}
	return sales, nil
}

func (r SaleRepository) loadItems(ctx context.Context, saleIDs []uuid.UUID) (map[uuid.UUID][]domain.SaleItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, unit_recurring_price,
		       recurrence_override, recurrence_interval_override, notes
		FROM sale_items
		WHERE sale_id = ANY($1)
		ORDER BY id
	`, saleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.SaleItem)
	for rows.Next() {
		var it domain.SaleItem
		var override *int
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.UnitRecurringPrice, &override, &it.RecurrenceIntervalOverride, &it.Notes); err != nil {
			return nil, err
		}
		if override != nil {
			rt := domain.RecurrenceType(*override)
			it.RecurrenceOverride = &rt
		}
		out[it.SaleID] = append(out[it.SaleID], it)
	}
	return out, rows.Err()
}

func (r SaleRepository) loadPayments(ctx context.Context, saleIDs []uuid.UUID) (map[uuid.UUID][]domain.Payment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, sale_id, amount_paid, payment_date, payment_method, reference, notes, payment_type
		FROM payments
		WHERE sale_id = ANY($1)
		ORDER BY payment_date, id
	`, saleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Payment)
	for rows.Next() {
		var p domain.Payment
		var method int
		if err := rows.Scan(&p.ID, &p.SaleID, &p.AmountPaid, &p.PaymentDate, &method,
			&p.Reference, &p.Notes, &p.PaymentType); err != nil {
			return nil, err
		}
		p.Method = domain.PaymentMethod(method)
		out[p.SaleID] = append(out[p.SaleID], p)
	}
	return out, rows.Err()
}

func checkProductsExist(ctx context.Context, tx pgx.Tx, items []SaleItemInput) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	rows, err := tx.Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	found := make(map[uuid.UUID]bool, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			found[id] = true // report each id once
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return domain.Invalidf("One or more products not found: %s", strings.Join(missing, ", "))
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, saleID uuid.UUID, items []SaleItemInput) error {
	for _, it := range items {
		var override *int
		if it.RecurrenceOverride != nil {
			v := int(*it.RecurrenceOverride)
			override = &v
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, unit_recurring_price,
			                        recurrence_override, recurrence_interval_override, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, uuid.New(), saleID, it.ProductID, it.Quantity, it.UnitPrice, it.UnitRecurringPrice,
			override, it.RecurrenceIntervalOverride, it.Notes)
		if err != nil {
			return err
		}
	}
	return nil
}

// recomputeTotalsTx re-derives the persisted totals of one sale inside
// the mutating transaction, so the totals a concurrent reader observes
// are never mid-flight.
func recomputeTotalsTx(ctx context.Context, tx pgx.Tx, saleID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE sales s SET
			total_amount = COALESCE((SELECT SUM(quantity*unit_price) FROM sale_items WHERE sale_id=s.id),0),
			total_recurring_amount = COALESCE((SELECT SUM(quantity*unit_recurring_price) FROM sale_items WHERE sale_id=s.id AND unit_recurring_price IS NOT NULL),0),
			total_paid = COALESCE((SELECT SUM(amount_paid) FROM payments WHERE sale_id=s.id),0)
		WHERE s.id=$1
	`, saleID)
	return err
}

func toDomainItems(saleID uuid.UUID, items []SaleItemInput) []domain.SaleItem {
	out := make([]domain.SaleItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.SaleItem{
			SaleID:             saleID,
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			UnitRecurringPrice: it.UnitRecurringPrice,
		})
	}
	return out
}
