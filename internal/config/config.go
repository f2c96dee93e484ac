package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"toolrental-backend/internal/domain"
)

// Storage backends for the tool inventory and rental records
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Catalog   []CatalogTool   `yaml:"catalog"`
}

// ServerConfig contains gRPC and HTTP listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`      // gRPC
	HTTPPort int    `yaml:"http_port"` // REST + metrics
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// StorageConfig selects the repository backend
type StorageConfig struct {
	Type string `yaml:"type"` // "memory" or "postgres"
}

// RedisConfig contains the tool cache settings
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// KafkaConfig contains rental event publishing settings
type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	RentalsTopic string   `yaml:"rentals_topic"`
}

// JWTConfig contains clerk token settings. An empty secret disables authentication.
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkOverdueRentals string `yaml:"mark_overdue_rentals"`
}

// CatalogTool is a tool seeded into the inventory at startup
type CatalogTool struct {
	Code          string `yaml:"code"`
	Category      string `yaml:"category"`
	Brand         string `yaml:"brand"`
	DailyCharge   string `yaml:"daily_charge"`
	WeekdayCharge bool   `yaml:"weekday_charge"`
	WeekendCharge bool   `yaml:"weekend_charge"`
	HolidayCharge bool   `yaml:"holiday_charge"`
	Unavailable   bool   `yaml:"unavailable"`
}

// DefaultCatalog is the store's standard tool list
func DefaultCatalog() []CatalogTool {
	return []CatalogTool{
		{Code: "CHNS", Category: "CHAINSAW", Brand: "STIHL", DailyCharge: "1.49", WeekdayCharge: true, HolidayCharge: true},
		{Code: "LADW", Category: "LADDER", Brand: "WERNER", DailyCharge: "1.99", WeekdayCharge: true, WeekendCharge: true},
		{Code: "JAKD", Category: "JACKHAMMER", Brand: "DEWALT", DailyCharge: "2.99", WeekdayCharge: true},
		{Code: "JAKR", Category: "JACKHAMMER", Brand: "RIDGID", DailyCharge: "2.99", WeekdayCharge: true},
	}
}

// ToTool converts a catalog entry into a domain tool
func (t CatalogTool) ToTool() (domain.Tool, error) {
	code := strings.ToUpper(strings.TrimSpace(t.Code))
	if code == "" {
		return domain.Tool{}, fmt.Errorf("tool code is required")
	}
	category := domain.ToolCategory(strings.ToUpper(t.Category))
	if !category.Valid() {
		return domain.Tool{}, fmt.Errorf("tool %s: unknown category %q", code, t.Category)
	}
	brand := domain.ToolBrand(strings.ToUpper(t.Brand))
	if !brand.Valid() {
		return domain.Tool{}, fmt.Errorf("tool %s: unknown brand %q", code, t.Brand)
	}
	daily, err := decimal.NewFromString(t.DailyCharge)
	if err != nil {
		return domain.Tool{}, fmt.Errorf("tool %s: invalid daily charge %q: %w", code, t.DailyCharge, err)
	}
	if daily.IsNegative() {
		return domain.Tool{}, fmt.Errorf("tool %s: daily charge must not be negative", code)
	}

	return domain.Tool{
		Code:        code,
		Category:    category,
		Brand:       brand,
		DailyCharge: daily,
		ChargePolicy: domain.ChargePolicy{
			Weekday: t.WeekdayCharge,
			Weekend: t.WeekendCharge,
			Holiday: t.HolidayCharge,
		},
		Available: !t.Unavailable,
	}, nil
}

// Tools converts the whole catalog
func (c *Config) Tools() ([]domain.Tool, error) {
	tools := make([]domain.Tool, 0, len(c.Catalog))
	for _, entry := range c.Catalog {
		tool, err := entry.ToTool()
		if err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	return tools, nil
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Storage
	if val := os.Getenv("STORAGE_TYPE"); val != "" {
		c.Storage.Type = val
	}

	// Redis
	if val := os.Getenv("REDIS_HOST"); val != "" {
		c.Redis.Host = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// Kafka
	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		c.Kafka.Brokers = strings.Split(val, ",")
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.HTTPPort)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = c.Server.Port + 1
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 || c.Server.HTTPPort == c.Server.Port {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}

	// Storage validation
	if c.Storage.Type == "" {
		c.Storage.Type = StorageMemory
	}
	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}

	// Redis validation
	if c.Redis.Enabled {
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required when redis is enabled")
		}
		if c.Redis.Port == 0 {
			c.Redis.Port = 6379
		}
		if c.Redis.TTLSeconds == 0 {
			c.Redis.TTLSeconds = 300
		}
	}

	// Kafka validation
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("at least one kafka broker is required when kafka is enabled")
		}
		if c.Kafka.RentalsTopic == "" {
			c.Kafka.RentalsTopic = "tool-rentals"
		}
	}

	// JWT validation
	if c.JWT.Secret != "" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Scheduler defaults
	if c.Scheduler.MarkOverdueRentals == "" {
		c.Scheduler.MarkOverdueRentals = "0 0 2 * * *" // 2 AM UTC
	}

	// Catalog
	if len(c.Catalog) == 0 {
		c.Catalog = DefaultCatalog()
	}
	seen := make(map[string]bool, len(c.Catalog))
	for _, entry := range c.Catalog {
		tool, err := entry.ToTool()
		if err != nil {
			return fmt.Errorf("invalid catalog: %w", err)
		}
		if seen[tool.Code] {
			return fmt.Errorf("invalid catalog: duplicate tool code %s", tool.Code)
		}
		seen[tool.Code] = true
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection URL with the
// credentials and database name escaped
func (c *Config) GetDatabaseConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + strconv.Itoa(c.Database.Port),
		Path:     "/" + c.Database.Database,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// GetServerAddress returns the gRPC server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHTTPAddress returns the REST server address
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GetRedisAddress returns the redis host:port
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
