package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultListingsURL points at the Inside Airbnb Amsterdam snapshot the analysis was built on.
const DefaultListingsURL = "http://data.insideairbnb.com/the-netherlands/north-holland/amsterdam/2022-03-08/data/listings.csv.gz"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListingsURL  string `env:"LISTINGS_URL" envDefault:"http://data.insideairbnb.com/the-netherlands/north-holland/amsterdam/2022-03-08/data/listings.csv.gz"`
	ListingsPath string `env:"LISTINGS_PATH"`
	MaxRetries   int    `env:"DOWNLOAD_RETRIES" envDefault:"3" validate:"gte=1"`

	VizOutDir string `env:"VIZ_OUT_DIR" envDefault:"./visualizations" validate:"required"`
	FigWidth  int    `env:"FIG_WIDTH" envDefault:"600" validate:"gt=0"`
	FigHeight int    `env:"FIG_HEIGHT" envDefault:"400" validate:"gt=0"`

	SuperhostColor string `env:"SUPERHOST_COLOR" envDefault:"#C80000" validate:"hexcolor"`
	HostColor      string `env:"HOST_COLOR" envDefault:"#577590" validate:"hexcolor"`

	NADropThreshold     float64 `env:"NA_DROP_THRESHOLD" envDefault:"0.9" validate:"gt=0,lte=1"`
	MaxPrice            float64 `env:"MAX_PRICE" envDefault:"8000" validate:"gt=0"`
	OutlierSD           float64 `env:"OUTLIER_SD" envDefault:"2" validate:"gt=0"`
	OutlierWarnFraction float64 `env:"OUTLIER_WARN_FRACTION" envDefault:"0.05" validate:"gte=0,lte=1"`
	CentreLat           float64 `env:"CENTRE_LAT" envDefault:"52.3676" validate:"gte=-90,lte=90"`
	CentreLon           float64 `env:"CENTRE_LON" envDefault:"4.9041" validate:"gte=-180,lte=180"`

	CleanCSVPath    string `env:"CLEAN_CSV_PATH" envDefault:"./output/clean_listings.csv"`
	SummaryXLSXPath string `env:"SUMMARY_XLSX_PATH" envDefault:"./output/host_summary.xlsx"`

	StoreBackend     string `env:"STORE_BACKEND" envDefault:"none" validate:"oneof=none postgres sqlite"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"analyst"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"analyst123"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"rental_db"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"./output/listings.sqlite"`

	MapSnapshot bool   `env:"MAP_SNAPSHOT" envDefault:"false"`
	ChromeBin   string `env:"CHROME_BIN"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// Load reads the .env file and returns a populated, validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges on an already populated Config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: validate: %w", err)
	}
	return nil
}

// Source returns the local path when one is configured, otherwise the remote URL.
func (c *Config) Source() string {
	if c.ListingsPath != "" {
		return c.ListingsPath
	}
	return c.ListingsURL
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
