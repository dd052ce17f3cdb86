package database

import (
	"database/sql"
	"fmt"
)

// Migrate runs all table creation statements. Safe to call multiple times
// due to IF NOT EXISTS clauses.
func Migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nstatement: %s", err, stmt)
		}
	}

	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id SERIAL PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		digest_opt_in BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		vendor TEXT NOT NULL DEFAULT '',
		payment_type TEXT NOT NULL CHECK (payment_type IN ('one_time', 'recurring')),
		amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		currency CHAR(3) NOT NULL,
		status TEXT NOT NULL DEFAULT 'due' CHECK (status IN ('due', 'paid', 'overdue', 'cancelled')),
		recurrence_period TEXT CHECK (recurrence_period IN ('monthly', 'quarterly', 'yearly')),
		next_payment_due DATE,
		payment_date DATE,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS payment_documents (
		id SERIAL PRIMARY KEY,
		payment_id INTEGER NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
		document_type TEXT NOT NULL CHECK (document_type IN ('invoice', 'receipt', 'other')),
		applicable_date DATE,
		file_path TEXT NOT NULL,
		archived BOOLEAN NOT NULL DEFAULT FALSE,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'todo' CHECK (status IN ('todo', 'in_progress', 'done')),
		priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
		assignee_id INTEGER REFERENCES staff(id) ON DELETE SET NULL,
		due_date DATE,
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS assets (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		serial_number TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL DEFAULT 'in_storage' CHECK (status IN ('in_use', 'in_storage', 'repair', 'retired')),
		assigned_to INTEGER REFERENCES staff(id) ON DELETE SET NULL,
		purchase_date DATE,
		purchase_price NUMERIC(14,2),
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id SERIAL PRIMARY KEY,
		recipient_id INTEGER NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		kind TEXT NOT NULL CHECK (kind IN ('task', 'payment', 'asset', 'system')),
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS digest_runs (
		id UUID PRIMARY KEY,
		period_start TIMESTAMPTZ NOT NULL,
		period_end TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('sent', 'failed')),
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// Indexes for common queries
	`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_next_due ON payments(next_payment_due)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_documents_payment ON payment_documents(payment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_status ON assets(status)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient_read ON notifications(recipient_id, read)`,
	`CREATE INDEX IF NOT EXISTS idx_digest_runs_created ON digest_runs(created_at)`,
}
