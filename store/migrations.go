package store

import (
	"context"
	"database/sql"

	"kuntur-store/internal/errors"
)

// schema holds the DDL for every table, in dependency order
var schema = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		tagline TEXT NOT NULL DEFAULT '',
		price_usdt NUMERIC(10,2) NOT NULL,
		delivery_days INT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS hosting_plans (
		id UUID PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		tier TEXT NOT NULL,
		monthly_price NUMERIC(10,2) NOT NULL,
		annual_price NUMERIC(10,2) NOT NULL,
		discount_annual NUMERIC(5,4) NOT NULL DEFAULT 0,
		ideal_roles_min INT,
		ideal_roles_max INT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS discount_codes (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		percentage NUMERIC(5,4) NOT NULL,
		max_uses INT,
		times_used INT NOT NULL DEFAULT 0,
		valid_until TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		client_name TEXT NOT NULL,
		client_email TEXT NOT NULL,
		client_phone TEXT,
		client_business TEXT,
		roles_selected JSONB NOT NULL,
		hosting_plan_id UUID REFERENCES hosting_plans(id),
		hosting_is_annual BOOLEAN NOT NULL DEFAULT FALSE,
		subtotal_usdt NUMERIC(10,2) NOT NULL,
		discount_total NUMERIC(5,4) NOT NULL,
		total_usdt NUMERIC(10,2) NOT NULL,
		exchange_rate NUMERIC(10,4) NOT NULL,
		total_bob NUMERIC(12,2) NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT,
		comprobante_url TEXT,
		comprobante_uploaded_at TIMESTAMPTZ,
		paid_at TIMESTAMPTZ,
		source TEXT NOT NULL DEFAULT 'web',
		utm_params JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_interactions (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_order ON order_interactions(order_id)`,
}

// EnsureSchema creates all tables if they do not exist
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Storage("failed to apply schema", err)
		}
	}
	return nil
}
