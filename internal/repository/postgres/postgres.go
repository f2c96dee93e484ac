package postgres

import (
	"context"
	"database/sql"

	"toolrental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Schema creates the tables used by the store
const Schema = `
CREATE TABLE IF NOT EXISTS tools (
	code           TEXT PRIMARY KEY,
	category       TEXT NOT NULL,
	brand          TEXT NOT NULL,
	daily_charge   NUMERIC(10, 2) NOT NULL CHECK (daily_charge >= 0),
	weekday_charge BOOLEAN NOT NULL,
	weekend_charge BOOLEAN NOT NULL,
	holiday_charge BOOLEAN NOT NULL,
	available      BOOLEAN NOT NULL DEFAULT TRUE,
	created_on     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS rentals (
	id                  UUID PRIMARY KEY,
	tool_code           TEXT NOT NULL REFERENCES tools (code),
	tool_category       TEXT NOT NULL,
	tool_brand          TEXT NOT NULL,
	rental_days         INTEGER NOT NULL CHECK (rental_days >= 1),
	charge_days         INTEGER NOT NULL CHECK (charge_days >= 0),
	checkout_date       DATE NOT NULL,
	due_date            DATE NOT NULL,
	daily_charge        NUMERIC(10, 2) NOT NULL,
	pre_discount_charge NUMERIC(12, 2) NOT NULL,
	discount_percent    INTEGER NOT NULL CHECK (discount_percent BETWEEN 0 AND 100),
	discount_amount     NUMERIC(12, 2) NOT NULL,
	final_charge        NUMERIC(12, 2) NOT NULL,
	status              TEXT NOT NULL,
	created_on          TIMESTAMPTZ NOT NULL,
	returned_on         TIMESTAMPTZ,
	updated_on          TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS rentals_status_due_date_idx ON rentals (status, due_date);
`

type Store struct {
	db *sql.DB
	repository.ToolRepository
	repository.RentalRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:               db,
		ToolRepository:   NewToolRepository(db),
		RentalRepository: NewRentalRepository(db),
	}
}

// Migrate applies Schema
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}
