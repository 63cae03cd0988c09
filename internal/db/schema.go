package db

import "context"

// EnsureSchema creates the tables on startup if they do not exist yet.
// All monetary columns are NUMERIC(18,2); enum columns store the integer
// codes the API exposes alongside their labels.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			address TEXT,
			postcode TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(18,2) NOT NULL,
			recurring_price NUMERIC(18,2),
			is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
			recurrence_type INT NOT NULL DEFAULT 0,
			recurrence_interval INT NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id UUID PRIMARY KEY,
			customer_id UUID NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			sale_date TIMESTAMPTZ NOT NULL,
			status INT NOT NULL DEFAULT 0,
			quote_id UUID,
			notes TEXT,
			total_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			total_recurring_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
			total_paid NUMERIC(18,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			id UUID PRIMARY KEY,
			sale_id UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			quantity INT NOT NULL,
			unit_price NUMERIC(18,2) NOT NULL,
			unit_recurring_price NUMERIC(18,2),
			recurrence_override INT,
			recurrence_interval_override INT,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			sale_id UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
			amount_paid NUMERIC(18,2) NOT NULL,
			payment_date TIMESTAMPTZ NOT NULL,
			payment_method INT NOT NULL DEFAULT 1,
			reference TEXT,
			notes TEXT,
			payment_type TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY,
			description TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			expense_date DATE NOT NULL,
			category INT NOT NULL DEFAULT 0,
			vendor TEXT,
			reference TEXT,
			notes TEXT,
			attachment_path TEXT,
			is_tax_deductible BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_sale ON payments(sale_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(expense_date)`,
	}
	for _, stmt := range statements {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
