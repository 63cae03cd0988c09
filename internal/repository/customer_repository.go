package repository

import (
	"context"
	"errors"

	"github.com/WorkflowDigitalltd/ac-crm/internal/db"
	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	DB *db.Postgres
}

func (r CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, email, phone, address, postcode, created_at
		FROM customers
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Postcode, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CustomerRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, email, phone, address, postcode, created_at
		FROM customers
		WHERE id=$1
	`, id)
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Postcode, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r CustomerRepository) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO customers (id, name, email, phone, address, postcode, created_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id, name, email, phone, address, postcode, created_at
	`, uuid.New(), c.Name, c.Email, c.Phone, c.Address, c.Postcode).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Postcode, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update overwrites the mutable fields; created_at is immutable.
func (r CustomerRepository) Update(ctx context.Context, c domain.Customer) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE customers
		SET name=$1, email=$2, phone=$3, address=$4, postcode=$5
		WHERE id=$6
	`, c.Name, c.Email, c.Phone, c.Address, c.Postcode, c.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return staleWrite(ctx, r.DB, "customers", c.ID)
	}
	return nil
}

func (r CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
