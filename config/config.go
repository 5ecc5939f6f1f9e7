package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
}

type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:""`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"console"`
}

type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASSWORD" default:"1234"`
	DBName   string `envconfig:"DB_NAME" default:"catalog"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	// PgClient selects the database/sql client for postgres: "pgx" or "pq".
	PgClient string `envconfig:"DB_PG_CLIENT" default:"pgx"`
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string        `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"REDIS_TTL" default:"10m"`
}

type CatalogConfig struct {
	// InheritParentAttributes adds the direct parent's bindings to a
	// product's effective attribute set. Grandparents are never consulted.
	InheritParentAttributes bool   `envconfig:"CATALOG_INHERIT_PARENT_ATTRIBUTES" default:"true"`
	SkuMaxAttempts          int    `envconfig:"CATALOG_SKU_MAX_ATTEMPTS" default:"5"`
	ReindexBatchSize        int    `envconfig:"CATALOG_REINDEX_BATCH_SIZE" default:"200"`
	ReindexSchedule         string `envconfig:"CATALOG_REINDEX_SCHEDULE" default:"0 3 * * *"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "mysql" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Database.PgClient != "pgx" && cfg.Database.PgClient != "pq" {
		return nil, fmt.Errorf("unsupported DB_PG_CLIENT %q", cfg.Database.PgClient)
	}
	if cfg.Catalog.SkuMaxAttempts < 1 {
		cfg.Catalog.SkuMaxAttempts = 1
	}
	if cfg.Catalog.ReindexBatchSize < 1 {
		cfg.Catalog.ReindexBatchSize = 200
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
		if cfg.App.Environment == "development" {
			cfg.App.LogLevel = "debug"
		}
	}

	return &cfg, nil
}

// DSN renders the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName,
		)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
