package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Notify   NotifyConfig
	Blob     BlobConfig
	Loan     LoanConfig
}

// DatabaseConfig holds document store database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds staff token validation configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// NotifyConfig holds notification dispatcher configuration
type NotifyConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// BlobConfig holds blob storage configuration
type BlobConfig struct {
	Dir     string
	BaseURL string
}

// LoanConfig holds loan booking terms
type LoanConfig struct {
	// MonthlyInterestRate is applied per month of term when a loan
	// application is approved, e.g. 0.03 for 3%
	MonthlyInterestRate decimal.Decimal
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Notify:   loadNotifyConfig(),
		Blob:     loadBlobConfig(),
		Loan:     loadLoanConfig(),
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "smpc_coopfund"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadNotifyConfig loads notification dispatcher config
func loadNotifyConfig() NotifyConfig {
	timeout, _ := strconv.Atoi(getEnv("NOTIFY_TIMEOUT_SECONDS", "5"))
	return NotifyConfig{
		WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
		TimeoutSeconds: timeout,
	}
}

// loadBlobConfig loads blob storage config
func loadBlobConfig() BlobConfig {
	return BlobConfig{
		Dir:     getEnv("BLOB_DIR", "./uploads"),
		BaseURL: getEnv("BLOB_BASE_URL", "http://localhost:3000/uploads"),
	}
}

// loadLoanConfig loads loan booking terms
func loadLoanConfig() LoanConfig {
	rate, err := decimal.NewFromString(getEnv("LOAN_MONTHLY_INTEREST_RATE", "0.03"))
	if err != nil {
		rate = decimal.NewFromFloat(0.03)
	}
	return LoanConfig{MonthlyInterestRate: rate}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://coopfund.smpc.coop"
	}
	return origins
}
