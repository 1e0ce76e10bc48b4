package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Auth struct {
		RequireOTPVerification        bool   `yaml:"require_otp_verification" env:"AUTH_REQUIRE_OTP_VERIFICATION"`
		RequireAdminApprovalForAlumni bool   `yaml:"require_admin_approval_for_alumni" env:"AUTH_REQUIRE_ADMIN_APPROVAL_FOR_ALUMNI"`
		OTPTTL                        string `yaml:"otp_ttl" env:"AUTH_OTP_TTL"`
		OTPMaxAttempts                int    `yaml:"otp_max_attempts" env:"AUTH_OTP_MAX_ATTEMPTS"`
		OTPResendInterval             string `yaml:"otp_resend_interval" env:"AUTH_OTP_RESEND_INTERVAL"`
		BcryptCost                    int    `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST"`
	} `yaml:"auth"`

	Directory struct {
		IncludeUnapproved bool `yaml:"include_unapproved" env:"DIRECTORY_INCLUDE_UNAPPROVED"`
	} `yaml:"directory"`

	Redis struct {
		URL string `yaml:"url" env:"REDIS_URL"`
	} `yaml:"redis"`

	Storage struct {
		Driver         string `yaml:"driver" env:"STORAGE_DRIVER"`
		LocalPath      string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
		PublicBaseURL  string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"STORAGE_MAX_UPLOAD_BYTES"`
		S3             struct {
			Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
			Region    string `yaml:"region" env:"S3_REGION"`
			Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
			AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
			CDNURL    string `yaml:"cdn_url" env:"S3_CDN_URL"`
		} `yaml:"s3"`
	} `yaml:"storage"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
	} `yaml:"smtp"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`

	Seed struct {
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		AdminPhone    string `yaml:"admin_phone" env:"SEED_ADMIN_PHONE"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional; variables already present in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "15s"
	config.Server.WriteTimeout = "30s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "campusconnect"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "campusconnect"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Auth.RequireOTPVerification = true
	config.Auth.RequireAdminApprovalForAlumni = true
	config.Auth.OTPTTL = "10m"
	config.Auth.OTPMaxAttempts = 5
	config.Auth.OTPResendInterval = "60s"
	config.Auth.BcryptCost = 10

	config.Storage.Driver = "local"
	config.Storage.LocalPath = "uploads"
	config.Storage.PublicBaseURL = "/uploads"
	config.Storage.MaxUploadBytes = 5 << 20

	config.SMTP.Port = 587
	config.SMTP.FromName = "CampusConnect"

	config.CORS.AllowedOrigins = []string{"http://localhost:5173"}
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"OTP TTL":                     config.Auth.OTPTTL,
		"OTP resend interval":         config.Auth.OTPResendInterval,
		"server read timeout":         config.Server.ReadTimeout,
		"server write timeout":        config.Server.WriteTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Auth.OTPMaxAttempts < 1 {
		return fmt.Errorf("otp_max_attempts must be at least 1")
	}

	if config.Auth.BcryptCost < 4 || config.Auth.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31")
	}

	switch config.Storage.Driver {
	case "local":
	case "s3":
		if config.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required when storage driver is s3")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// OTPTTL returns the parsed OTP lifetime. validateConfig guarantees it parses.
func (c *Config) OTPTTL() time.Duration {
	d, _ := time.ParseDuration(c.Auth.OTPTTL)
	return d
}

// OTPResendInterval returns the parsed minimum interval between OTP issues.
func (c *Config) OTPResendInterval() time.Duration {
	d, _ := time.ParseDuration(c.Auth.OTPResendInterval)
	return d
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// GetEnvAsBool gets an environment variable as a boolean or returns a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	switch strings.ToLower(valueStr) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}

	return defaultValue
}
