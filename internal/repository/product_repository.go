package repository

import (
	"context"
	"errors"

	"github.com/WorkflowDigitalltd/ac-crm/internal/db"
	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	DB *db.Postgres
}

const productColumns = `id, name, description, price, recurring_price, is_recurring, recurrence_type, recurrence_interval`

func (r ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r ProductRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id=$1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create stores a product already normalized by the domain (a
// non-recurring product never carries a recurring price).
func (r ProductRepository) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, recurring_price, is_recurring, recurrence_type, recurrence_interval)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+productColumns+`
	`, uuid.New(), p.Name, p.Description, p.Price, p.RecurringPrice, p.IsRecurring, int(p.RecurrenceType), p.RecurrenceInterval)
	return scanProduct(row)
}

func (r ProductRepository) Update(ctx context.Context, p domain.Product) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, recurring_price=$4,
		    is_recurring=$5, recurrence_type=$6, recurrence_interval=$7
		WHERE id=$8
	`, p.Name, p.Description, p.Price, p.RecurringPrice, p.IsRecurring, int(p.RecurrenceType), p.RecurrenceInterval, p.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return staleWrite(ctx, r.DB, "products", p.ID)
	}
	return nil
}

// Delete refuses to remove a product that sale lines still reference;
// the lines keep their price snapshots but the product link must stay
// resolvable.
func (r ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.Invalidf("Cannot delete a product that is used by existing sales")
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var recType int
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.RecurringPrice,
		&p.IsRecurring, &recType, &p.RecurrenceInterval); err != nil {
		return nil, err
	}
	p.RecurrenceType = domain.RecurrenceType(recType)
	return &p, nil
}
