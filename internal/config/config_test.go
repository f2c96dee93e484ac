package config

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolrental-backend/internal/domain"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  port: 50051\n"))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, 50052, cfg.Server.HTTPPort)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "0 0 2 * * *", cfg.Scheduler.MarkOverdueRentals)
	assert.Len(t, cfg.Catalog, 4)

	tools, err := cfg.Tools()
	require.NoError(t, err)
	assert.Equal(t, "CHNS", tools[0].Code)
	assert.Equal(t, domain.ChargePolicy{Weekday: true, Holiday: true}, tools[0].ChargePolicy)
	assert.Equal(t, "1.49", tools[0].DailyCharge.StringFixed(2))
	assert.True(t, tools[0].Available)
}

func TestParse_Catalog(t *testing.T) {
	data := []byte(`
server:
  port: 9000
  http_port: 8080
catalog:
  - code: ladw
    category: ladder
    brand: werner
    daily_charge: "1.99"
    weekday_charge: true
    weekend_charge: true
    unavailable: true
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	tools, err := cfg.Tools()
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "LADW", tools[0].Code)
	assert.Equal(t, domain.ToolCategoryLadder, tools[0].Category)
	assert.Equal(t, domain.ToolBrandWerner, tools[0].Brand)
	assert.False(t, tools[0].Available)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"Missing port", "log:\n  level: debug\n", "invalid server port"},
		{"Unknown storage", "server:\n  port: 1\nstorage:\n  type: s3\n", "unsupported storage type"},
		{"Postgres without host", "server:\n  port: 1\nstorage:\n  type: postgres\n", "database host is required"},
		{"Short secret", "server:\n  port: 1\njwt:\n  secret: short\n", "at least 32 characters"},
		{"Kafka without brokers", "server:\n  port: 1\nkafka:\n  enabled: true\n", "kafka broker"},
		{"Bad brand", "server:\n  port: 1\ncatalog:\n  - {code: X, category: LADDER, brand: ACME, daily_charge: '1'}\n", "unknown brand"},
		{"Negative charge", "server:\n  port: 1\ncatalog:\n  - {code: X, category: LADDER, brand: WERNER, daily_charge: '-1'}\n", "must not be negative"},
		{"Duplicate code", "server:\n  port: 1\ncatalog:\n  - {code: X, category: LADDER, brand: WERNER, daily_charge: '1'}\n  - {code: x, category: LADDER, brand: WERNER, daily_charge: '2'}\n", "duplicate tool code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 50051\nstorage:\n  type: postgres\ndatabase:\n  host: db\n  user: rental\n  database: rentals\n"), 0o600))
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "postgres://rental:@db.internal:5433/rentals?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/toolrental.v1.CheckoutService/Checkout"))
	assert.Equal(t, SecurityPublic, GetSecurityLevel("/toolrental.v1.CheckoutService/GetRental"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/unknown.Service/Method"))
}

func TestGetDatabaseConnectionString(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  port: 50051\nstorage:\n  type: postgres\ndatabase:\n  host: db\n  user: \"clerk@store\"\n  password: \"p@ss:w/rd?#\"\n  database: rentals\n"))
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)

	dsn := cfg.GetDatabaseConnectionString()
	assert.Equal(t, "postgres://clerk%40store:p%40ss%3Aw%2Frd%3F%23@db:5432/rentals?sslmode=disable", dsn)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	password, _ := u.User.Password()
	assert.Equal(t, "clerk@store", u.User.Username())
	assert.Equal(t, "p@ss:w/rd?#", password)
	assert.Equal(t, "db:5432", u.Host)
}
