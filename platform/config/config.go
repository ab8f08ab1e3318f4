// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for asynq background processing.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// SweeperConfig provides settings for the offer expiry sweeper.
type SweeperConfig interface {
	IsExpirySweepEnabled() bool
	GetExpirySweepInterval() time.Duration
}

// SMSConfig provides settings for the outbound SMS gateway.
type SMSConfig interface {
	GetSMSGatewayURL() string
	GetSMSGatewayKey() string
	GetSMSFromNumber() string
}

// EmailConfig provides settings for SMTP email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
	GetOpsAlertEmail() string
}

// ExportConfig provides settings for audit compliance exports.
type ExportConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketAuditExports() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Config Implementation
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTAccessSecret string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	ExpirySweepEnabled  bool
	ExpirySweepInterval time.Duration

	SMSGatewayURL string
	SMSGatewayKey string
	SMSFromNumber string

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	AppBaseURL    string
	OpsAlertEmail string

	MinIOEndpoint           string
	MinIOAccessKey          string
	MinIOSecretKey          string
	MinIOUseSSL             bool
	MinioBucketAuditExports string
}

// Load reads configuration from the environment. A local .env file is applied
// first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret: os.Getenv("JWT_ACCESS_SECRET"),

		CORSAllowAll:   getBoolEnv("CORS_ALLOW_ALL", false),
		CORSOrigins:    splitAndTrim(os.Getenv("CORS_ORIGINS")),
		CORSAllowCreds: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),

		RedisURL:         os.Getenv("REDIS_URL"),
		RedisTLSInsecure: getBoolEnv("REDIS_TLS_INSECURE", false),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: getIntEnv("ASYNQ_CONCURRENCY", 10),

		ExpirySweepEnabled:  getBoolEnv("OFFER_EXPIRY_SWEEP_ENABLED", true),
		ExpirySweepInterval: getDurationEnv("OFFER_EXPIRY_SWEEP_INTERVAL", 5*time.Minute),

		SMSGatewayURL: os.Getenv("SMS_GATEWAY_URL"),
		SMSGatewayKey: os.Getenv("SMS_GATEWAY_KEY"),
		SMSFromNumber: os.Getenv("SMS_FROM_NUMBER"),

		EmailEnabled:     getBoolEnv("EMAIL_ENABLED", false),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getIntEnv("SMTP_PORT", 587),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Freight Desk"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", "no-reply@localhost"),

		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:8080"),
		OpsAlertEmail: os.Getenv("OPS_ALERT_EMAIL"),

		MinIOEndpoint:           os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey:          os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey:          os.Getenv("MINIO_SECRET_KEY"),
		MinIOUseSSL:             getBoolEnv("MINIO_USE_SSL", false),
		MinioBucketAuditExports: getEnv("MINIO_BUCKET_AUDIT_EXPORTS", "audit-exports"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	return cfg, nil
}

// GetDatabaseURL implements DatabaseConfig.
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// GetJWTAccessSecret implements JWTConfig.
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// GetHTTPAddr implements HTTPConfig.
func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }

// GetCORSAllowAll implements HTTPConfig.
func (c *Config) GetCORSAllowAll() bool { return c.CORSAllowAll }

// GetCORSOrigins implements HTTPConfig.
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GetCORSAllowCreds implements HTTPConfig.
func (c *Config) GetCORSAllowCreds() bool { return c.CORSAllowCreds }

// GetRedisURL implements SchedulerConfig.
func (c *Config) GetRedisURL() string { return c.RedisURL }

// GetRedisTLSInsecure implements SchedulerConfig.
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// GetAsynqQueueName implements SchedulerConfig.
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }

// GetAsynqConcurrency implements SchedulerConfig.
func (c *Config) GetAsynqConcurrency() int { return c.AsynqConcurrency }

// IsExpirySweepEnabled implements SweeperConfig.
func (c *Config) IsExpirySweepEnabled() bool { return c.ExpirySweepEnabled }

// GetExpirySweepInterval implements SweeperConfig.
func (c *Config) GetExpirySweepInterval() time.Duration { return c.ExpirySweepInterval }

// GetSMSGatewayURL implements SMSConfig.
func (c *Config) GetSMSGatewayURL() string { return c.SMSGatewayURL }

// GetSMSGatewayKey implements SMSConfig.
func (c *Config) GetSMSGatewayKey() string { return c.SMSGatewayKey }

// GetSMSFromNumber implements SMSConfig.
func (c *Config) GetSMSFromNumber() string { return c.SMSFromNumber }

// GetEmailEnabled implements EmailConfig.
func (c *Config) GetEmailEnabled() bool { return c.EmailEnabled }

// GetSMTPHost implements EmailConfig.
func (c *Config) GetSMTPHost() string { return c.SMTPHost }

// GetSMTPPort implements EmailConfig.
func (c *Config) GetSMTPPort() int { return c.SMTPPort }

// GetSMTPUsername implements EmailConfig.
func (c *Config) GetSMTPUsername() string { return c.SMTPUsername }

// GetSMTPPassword implements EmailConfig.
func (c *Config) GetSMTPPassword() string { return c.SMTPPassword }

// GetEmailFromName implements EmailConfig.
func (c *Config) GetEmailFromName() string { return c.EmailFromName }

// GetEmailFromAddress implements EmailConfig.
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// GetAppBaseURL implements NotificationConfig.
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// GetOpsAlertEmail implements NotificationConfig.
func (c *Config) GetOpsAlertEmail() string { return c.OpsAlertEmail }

// GetMinIOEndpoint implements ExportConfig.
func (c *Config) GetMinIOEndpoint() string { return c.MinIOEndpoint }

// GetMinIOAccessKey implements ExportConfig.
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }

// GetMinIOSecretKey implements ExportConfig.
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }

// GetMinIOUseSSL implements ExportConfig.
func (c *Config) GetMinIOUseSSL() bool { return c.MinIOUseSSL }

// GetMinioBucketAuditExports implements ExportConfig.
func (c *Config) GetMinioBucketAuditExports() string { return c.MinioBucketAuditExports }

// IsMinIOEnabled implements ExportConfig.
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getIntEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
