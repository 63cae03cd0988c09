package repository

import (
	"context"
	"errors"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/db"
	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	DB *db.Postgres
}

type PaymentInput struct {
	SaleID      uuid.UUID
	AmountPaid  decimal.Decimal
	PaymentDate time.Time
	Method      domain.PaymentMethod
	Reference   *string
	Notes       *string
	PaymentType *string
}

const paymentColumns = `id, sale_id, amount_paid, payment_date, payment_method, reference, notes, payment_type`

// Create appends a payment to its sale. The sale row is locked for the
// duration of the transaction so two concurrent payments cannot both
// pass the outstanding-balance check and together overdraw the sale.
func (r PaymentRepository) Create(ctx context.Context, in PaymentInput) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.withRetry(ctx, func(tx pgx.Tx) error {
		total, err := lockSale(ctx, tx, in.SaleID)
		if err != nil {
			return err
		}
		var paid decimal.Decimal
		if err := tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount_paid),0) FROM payments WHERE sale_id=$1
		`, in.SaleID).Scan(&paid); err != nil {
			return err
		}
		if err := domain.ValidatePaymentAmount(in.AmountPaid, total, paid); err != nil {
			return err
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO payments (id, sale_id, amount_paid, payment_date, payment_method, reference, notes, payment_type)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING `+paymentColumns+`
		`, uuid.New(), in.SaleID, in.AmountPaid, in.PaymentDate, int(in.Method), in.Reference, in.Notes, in.PaymentType)
		p, err := scanPayment(row)
		if err != nil {
			return err
		}
		out = p
		return recomputePaidTx(ctx, tx, in.SaleID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites a payment. The outstanding balance is computed
// excluding this payment's old amount, so shrinking or re-stating an
// existing payment never trips the check spuriously.
func (r PaymentRepository) Update(ctx context.Context, id uuid.UUID, in PaymentInput) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		var saleID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT sale_id FROM payments WHERE id=$1`, id).Scan(&saleID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		total, err := lockSale(ctx, tx, saleID)
		if err != nil {
			return err
		}
		var otherPaid decimal.Decimal
		if err := tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount_paid),0) FROM payments WHERE sale_id=$1 AND id<>$2
		`, saleID, id).Scan(&otherPaid); err != nil {
			return err
		}
		if err := domain.ValidatePaymentAmount(in.AmountPaid, total, otherPaid); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE payments
			SET amount_paid=$1, payment_date=$2, payment_method=$3, reference=$4, notes=$5, payment_type=$6
			WHERE id=$7
		`, in.AmountPaid, in.PaymentDate, int(in.Method), in.Reference, in.Notes, in.PaymentType, id)
		if err != nil {
			return err
		}
		return recomputePaidTx(ctx, tx, saleID)
	})
}

// Delete removes a payment; removal only decreases the paid total so no
// balance check is needed, but the owning sale's totals are re-derived
// in the same transaction.
func (r PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		var saleID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT sale_id FROM payments WHERE id=$1`, id).Scan(&saleID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if _, err := lockSale(ctx, tx, saleID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id); err != nil {
			return err
		}
		return recomputePaidTx(ctx, tx, saleID)
	})
}

func (r PaymentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE id=$1
	`, id)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r PaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	return r.list(ctx, ``)
}

func (r PaymentRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]domain.Payment, error) {
	return r.list(ctx, `WHERE sale_id=$1`, saleID)
}

func (r PaymentRepository) list(ctx context.Context, where string, args ...any) ([]domain.Payment, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		`+where+`
		ORDER BY payment_date DESC, id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// withRetry runs fn in a transaction, retrying exactly once if the
// database reports a serialization failure or deadlock. Business errors
// pass through untouched.
func (r PaymentRepository) withRetry(ctx context.Context, fn func(pgx.Tx) error) error {
	run := func() error {
		tx, err := r.DB.Pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)
		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}
	err := run()
	if err != nil && db.IsSerializationFailure(err) {
		err = run()
	}
	return err
}

// lockSale takes the row lock that serializes payment mutations per sale
// and returns the sale's current total.
func lockSale(ctx context.Context, tx pgx.Tx, saleID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT total_amount FROM sales WHERE id=$1 FOR UPDATE
	`, saleID).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return total, ErrNotFound
	}
	return total, err
}

func recomputePaidTx(ctx context.Context, tx pgx.Tx, saleID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE sales
		SET total_paid = COALESCE((SELECT SUM(amount_paid) FROM payments WHERE sale_id=sales.id),0)
		WHERE id=$1
	`, saleID)
	return err
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var method int
	if err := row.Scan(&p.ID, &p.SaleID, &p.AmountPaid, &p.PaymentDate, &method,
		&p.Reference, &p.Notes, &p.PaymentType); err != nil {
		return nil, err
	}
	p.Method = domain.PaymentMethod(method)
	return &p, nil
}
