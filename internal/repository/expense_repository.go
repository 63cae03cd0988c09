package repository

import (
	"context"
	"errors"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/db"
	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ExpenseRepository struct {
	DB *db.Postgres
}

const expenseColumns = `id, description, amount, expense_date, category, vendor, reference, notes, attachment_path, is_tax_deductible`

// List returns expenses, optionally restricted to a date range. Nil
// bounds are open ends.
func (r ExpenseRepository) List(ctx context.Context, from, to *time.Time) ([]domain.Expense, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE ($1::date IS NULL OR expense_date >= $1)
		  AND ($2::date IS NULL OR expense_date <= $2)
		ORDER BY expense_date DESC, id
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r ExpenseRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+expenseColumns+` FROM expenses WHERE id=$1
	`, id)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r ExpenseRepository) Create(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO expenses (id, description, amount, expense_date, category, vendor, reference, notes, attachment_path, is_tax_deductible)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+expenseColumns+`
	`, uuid.New(), e.Description, e.Amount, e.ExpenseDate, int(e.Category), e.Vendor, e.Reference, e.Notes, e.AttachmentPath, e.IsTaxDeductible)
	return scanExpense(row)
}

func (r ExpenseRepository) Update(ctx context.Context, e domain.Expense) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE expenses
		SET description=$1, amount=$2, expense_date=$3, category=$4,
		    vendor=$5, reference=$6, notes=$7, is_tax_deductible=$8
		WHERE id=$9
	`, e.Description, e.Amount, e.ExpenseDate, int(e.Category), e.Vendor, e.Reference, e.Notes, e.IsTaxDeductible, e.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return staleWrite(ctx, r.DB, "expenses", e.ID)
	}
	return nil
}

func (r ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SummarizeMonthly aggregates one calendar year per month. Months with
// no expenses are absent here; domain.FillMonthlySummary zero-fills
// them so callers always see 12 entries.
func (r ExpenseRepository) SummarizeMonthly(ctx context.Context, year int) ([]domain.MonthlyExpenseSummary, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT EXTRACT(MONTH FROM expense_date)::int AS month,
		       COALESCE(SUM(amount),0),
		       COALESCE(SUM(amount) FILTER (WHERE is_tax_deductible),0),
		       COUNT(*)
		FROM expenses
		WHERE EXTRACT(YEAR FROM expense_date)::int = $1
		GROUP BY month
		ORDER BY month
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var populated []domain.MonthlyExpenseSummary
	for rows.Next() {
		var m domain.MonthlyExpenseSummary
		if err := rows.Scan(&m.Month, &m.TotalAmount, &m.TaxDeductibleAmount, &m.Count); err != nil {
			return nil, err
		}
		populated = append(populated, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.FillMonthlySummary(year, populated), nil
}

// SummarizeByCategory groups by category, optionally filtered by year
// and/or month (0 means no filter). Only non-empty categories are
// returned, ordered by total descending.
func (r ExpenseRepository) SummarizeByCategory(ctx context.Context, year, month int) ([]domain.CategoryExpenseSummary, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT category, COALESCE(SUM(amount),0), COUNT(*)
		FROM expenses
		WHERE ($1 = 0 OR EXTRACT(YEAR FROM expense_date)::int = $1)
		  AND ($2 = 0 OR EXTRACT(MONTH FROM expense_date)::int = $2)
		GROUP BY category
		ORDER BY COALESCE(SUM(amount),0) DESC
	`, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.CategoryExpenseSummary
	for rows.Next() {
		var s domain.CategoryExpenseSummary
		var cat int
		if err := rows.Scan(&cat, &s.TotalAmount, &s.Count); err != nil {
			return nil, err
		}
		s.Category = domain.ExpenseCategory(cat)
		s.CategoryName = s.Category.String()
		items = append(items, s)
	}
	return items, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var cat int
	if err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.ExpenseDate, &cat,
		&e.Vendor, &e.Reference, &e.Notes, &e.AttachmentPath, &e.IsTaxDeductible); err != nil {
		return nil, err
	}
	e.Category = domain.ExpenseCategory(cat)
	return &e, nil
}
