package postgres

import (
	"context"
	"database/sql"
	"errors"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/repository"
)

const toolColumns = `code, category, brand, daily_charge, weekday_charge, weekend_charge, holiday_charge, available`

type toolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) repository.ToolRepository {
	return &toolRepository{db: db}
}

// Create inserts a tool; an existing tool with the same code is left untouched
func (r *toolRepository) Create(ctx context.Context, t *domain.Tool) error {
	query := `INSERT INTO tools (` + toolColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (code) DO NOTHING`
	logger.DatabaseCall("CreateTool", query, "code", t.Code)
	res, err := r.db.ExecContext(ctx, query, t.Code, t.Category, t.Brand, t.DailyCharge, t.Weekday, t.Weekend, t.Holiday, t.Available)
	logger.DatabaseResult("CreateTool", rowsAffected(res), err)
	return err
}

func (r *toolRepository) GetByCode(ctx context.Context, code string) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE code = $1`
	logger.DatabaseCall("GetToolByCode", query, "code", code)
	t, err := scanTool(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *toolRepository) List(ctx context.Context) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, *t)
	}
	return tools, rows.Err()
}

// TryReserve relies on the conditional update: only one concurrent caller can
// see the row with available = true.
func (r *toolRepository) TryReserve(ctx context.Context, code string) (bool, error) {
	query := `UPDATE tools SET available = FALSE WHERE code = $1 AND available = TRUE`
	return r.flip(ctx, "ReserveTool", query, code)
}

func (r *toolRepository) Release(ctx context.Context, code string) (bool, error) {
	query := `UPDATE tools SET available = TRUE WHERE code = $1 AND available = FALSE`
	return r.flip(ctx, "ReleaseTool", query, code)
}

func (r *toolRepository) flip(ctx context.Context, operation, query, code string) (bool, error) {
	logger.DatabaseCall(operation, query, "code", code)
	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		logger.DatabaseResult(operation, 0, err)
		return false, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult(operation, n, err)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTool(row scanner) (*domain.Tool, error) {
	t := &domain.Tool{}
	err := row.Scan(&t.Code, &t.Category, &t.Brand, &t.DailyCharge, &t.Weekday, &t.Weekend, &t.Holiday, &t.Available)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func rowsAffected(res sql.Result) int64 {
	if res == nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return n
}
