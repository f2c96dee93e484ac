package postgres_test

import (
	"context"
	"errors"
	"testing"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var toolRowColumns = []string{"code", "category", "brand", "daily_charge", "weekday_charge", "weekend_charge", "holiday_charge", "available"}

func TestToolRepository_GetByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewToolRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(toolRowColumns).
			AddRow("LADW", "LADDER", "WERNER", "1.99", true, true, false, true)

		mock.ExpectQuery("SELECT (.+) FROM tools WHERE code = \\$1").
			WithArgs("LADW").
			WillReturnRows(rows)

		tool, err := repo.GetByCode(ctx, "LADW")
		require.NoError(t, err)
		assert.Equal(t, "LADW", tool.Code)
		assert.Equal(t, domain.ToolCategoryLadder, tool.Category)
		assert.Equal(t, domain.ToolBrandWerner, tool.Brand)
		assert.True(t, tool.DailyCharge.Equal(decimal.RequireFromString("1.99")))
		assert.Equal(t, domain.ChargePolicy{Weekday: true, Weekend: true}, tool.ChargePolicy)
		assert.True(t, tool.Available)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tools WHERE code = \\$1").
			WithArgs("NOPE").
			WillReturnRows(sqlmock.NewRows(toolRowColumns))

		tool, err := repo.GetByCode(ctx, "NOPE")
		assert.Nil(t, tool)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewToolRepository(db)
	tool := &domain.Tool{
		Code:         "JAKD",
		Category:     domain.ToolCategoryJackhammer,
		Brand:        domain.ToolBrandDeWalt,
		DailyCharge:  decimal.RequireFromString("2.99"),
		ChargePolicy: domain.ChargePolicy{Weekday: true},
		Available:    true,
	}

	mock.ExpectExec("INSERT INTO tools (.+) ON CONFLICT \\(code\\) DO NOTHING").
		WithArgs("JAKD", domain.ToolCategoryJackhammer, domain.ToolBrandDeWalt, sqlmock.AnyArg(), true, false, false, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), tool))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(toolRowColumns).
		AddRow("CHNS", "CHAINSAW", "STIHL", "1.49", true, false, true, true).
		AddRow("JAKR", "JACKHAMMER", "RIDGID", "2.99", true, false, false, false)
	mock.ExpectQuery("SELECT (.+) FROM tools ORDER BY code").WillReturnRows(rows)

	tools, err := postgres.NewToolRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "CHNS", tools[0].Code)
	assert.True(t, tools[0].Holiday)
	assert.False(t, tools[1].Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepository_TryReserve(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewToolRepository(db)
	ctx := context.Background()

	t.Run("Reserved", func(t *testing.T) {
		mock.ExpectExec("UPDATE tools SET available = FALSE WHERE code = \\$1 AND available = TRUE").
			WithArgs("LADW").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.TryReserve(ctx, "LADW")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AlreadyRented", func(t *testing.T) {
		mock.ExpectExec("UPDATE tools SET available = FALSE").
			WithArgs("LADW").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.TryReserve(ctx, "LADW")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectExec("UPDATE tools SET available = FALSE").
			WithArgs("LADW").
			WillReturnError(errors.New("connection reset"))

		ok, err := repo.TryReserve(ctx, "LADW")
		assert.Error(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToolRepository_Release(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE tools SET available = TRUE WHERE code = \\$1 AND available = FALSE").
		WithArgs("JAKR").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := postgres.NewToolRepository(db).Release(context.Background(), "JAKR")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
