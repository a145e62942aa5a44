package config

import (
	"errors"
	"fmt"
	"log"
	"sync"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/internal/models"
)

type Config struct {
	Address     string `env:"ADDRESS" envDefault:":8080" validate:"hostname_port"`
	DatabaseDSN string `env:"DATABASE_DSN" validate:"required"`
	JWTSecret   string `env:"JWT_SECRET" validate:"required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	KafkaAddress string `env:"KAFKA_ADDRESS"`
	ESURL        string `env:"ES_URL"`
	ESUser       string `env:"ES_USER"`
	ESPassword   string `env:"ES_PASSWORD"`
}

// LoadConfig reads .env (when present) and the process environment once
// at startup. Both the store connection string and the signing secret are
// required.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error
)

// InitDB opens the database handle once for the life of the process and
// returns the cached handle on every later call. The handle is shared by
// all requests and never torn down mid-request.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dbOnce.Do(func() {
		if cfg == nil {
			dbErr = errors.New("nil config")
			return
		}
		var d *gorm.DB
		d, dbErr = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if dbErr != nil {
			dbErr = fmt.Errorf("connect to database: %w", dbErr)
			return
		}
		if dbErr = d.AutoMigrate(&models.User{}, &models.Product{}); dbErr != nil {
			dbErr = fmt.Errorf("migrate: %w", dbErr)
			return
		}
		db = d
	})
	return db, dbErr
}
