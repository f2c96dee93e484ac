package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
)

const rentalColumns = `id, tool_code, tool_category, tool_brand, rental_days, charge_days, checkout_date, due_date, daily_charge, pre_discount_charge, discount_percent, discount_amount, final_charge, status, created_on, returned_on, updated_on`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	a := rt.Agreement
	query := `INSERT INTO rentals (` + rentalColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	logger.DatabaseCall("CreateRental", query, "id", a.ID, "tool_code", a.ToolCode)
	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.ToolCode, a.ToolCategory, a.ToolBrand, a.RentalDays, a.ChargeDays,
		a.CheckoutDate, a.DueDate, a.DailyCharge, a.PreDiscountCharge, a.DiscountPercent,
		a.DiscountAmount, a.FinalCharge, rt.Status, a.CreatedOn, rt.ReturnedOn, rt.UpdatedOn)
	logger.DatabaseResult("CreateRental", rowsAffected(res), err)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	logger.DatabaseCall("GetRentalByID", query, "id", id)
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) MarkReturned(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `UPDATE rentals SET status = 'RETURNED', returned_on = $1, updated_on = $1
	          WHERE id = $2 AND status IN ('OUT', 'OVERDUE')`
	logger.DatabaseCall("MarkRentalReturned", query, "id", id)
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		logger.DatabaseResult("MarkRentalReturned", 0, err)
		return false, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("MarkRentalReturned", n, err)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkOverdue flags every OUT rental whose due date has passed
func (r *rentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `UPDATE rentals SET status = 'OVERDUE', updated_on = $1
	          WHERE status = 'OUT' AND due_date < $1
	          RETURNING ` + rentalColumns
	logger.DatabaseCall("MarkRentalsOverdue", query, "as_of", asOf)
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		logger.DatabaseResult("MarkRentalsOverdue", 0, err)
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("MarkRentalsOverdue", int64(len(rentals)), nil)
	return rentals, nil
}

func scanRental(row scanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	a := &rt.Agreement
	err := row.Scan(&a.ID, &a.ToolCode, &a.ToolCategory, &a.ToolBrand, &a.RentalDays, &a.ChargeDays,
		&a.CheckoutDate, &a.DueDate, &a.DailyCharge, &a.PreDiscountCharge, &a.DiscountPercent,
		&a.DiscountAmount, &a.FinalCharge, &rt.Status, &a.CreatedOn, &rt.ReturnedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rt, nil
}
