package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OTP      OTPConfig
	SMS      SMSConfig
	SendGrid SendGridConfig
	Social   SocialConfig
	Storage  StorageConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	BaseURL        string
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// IsProduction reports whether the server runs with production settings
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// OTPConfig holds one-time password settings
type OTPConfig struct {
	Length         int
	Expiry         time.Duration
	MaxAttempts    int
	ResendCooldown time.Duration
}

// SMSConfig holds the SMS gateway credentials
type SMSConfig struct {
	GatewayURL string
	APIKey     string
	SenderID   string
}

// Configured reports whether SMS delivery can be attempted
func (c SMSConfig) Configured() bool {
	return c.GatewayURL != "" && c.APIKey != ""
}

// SendGridConfig holds email delivery credentials
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// Configured reports whether email delivery can be attempted
func (c SendGridConfig) Configured() bool {
	return c.APIKey != "" && c.FromEmail != ""
}

// SocialConfig holds identity provider settings
type SocialConfig struct {
	VerifyTokens      bool
	GoogleClientID    string
	AppleClientID     string
	FacebookAppID     string
	FacebookAppSecret string
}

// StorageConfig holds upload storage settings
type StorageConfig struct {
	Driver        string
	LocalRoot     string
	PublicPrefix  string
	S3Bucket      string
	S3Region      string
	S3PublicURL   string
	MaxUploadSize int64
}

// Validate rejects settings that must never reach a production deployment
func (c *Config) Validate() error {
	if c.Server.IsProduction() && !c.Social.VerifyTokens {
		return errors.New("SOCIAL_VERIFY_TOKENS must be enabled when SERVER_ENV=production")
	}
	return nil
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", ""),
			BaseURL:        strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "smilecare"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		OTP: OTPConfig{
			Length:         getEnvAsInt("OTP_LENGTH", 6),
			Expiry:         time.Duration(getEnvAsInt("OTP_EXPIRY_MINUTES", 10)) * time.Minute,
			MaxAttempts:    getEnvAsInt("OTP_MAX_ATTEMPTS", 3),
			ResendCooldown: getEnvAsDuration("OTP_RESEND_COOLDOWN", 60*time.Second),
		},
		SMS: SMSConfig{
			GatewayURL: getEnv("SMS_GATEWAY_URL", ""),
			APIKey:     getEnv("SMS_API_KEY", ""),
			SenderID:   getEnv("SMS_SENDER_ID", "SMILECARE"),
		},
		SendGrid: SendGridConfig{
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
			FromName:  getEnv("SENDGRID_FROM_NAME", "SmileCare"),
		},
		Social: SocialConfig{
			VerifyTokens:      getEnvAsBool("SOCIAL_VERIFY_TOKENS", true),
			GoogleClientID:    getEnv("GOOGLE_CLIENT_ID", ""),
			AppleClientID:     getEnv("APPLE_CLIENT_ID", ""),
			FacebookAppID:     getEnv("FACEBOOK_APP_ID", ""),
			FacebookAppSecret: getEnv("FACEBOOK_APP_SECRET", ""),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "local"),
			LocalRoot:     getEnv("UPLOAD_DIR", "uploads"),
			PublicPrefix:  getEnv("UPLOAD_PUBLIC_PREFIX", "/uploads"),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3PublicURL:   strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
			MaxUploadSize: int64(getEnvAsInt("UPLOAD_MAX_REQUEST_MB", 110)) << 20,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
