package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Satheshwaran26/rentr/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Review trigger modes for moving an order from applications_received to under_review
const (
	ReviewTriggerManual      = "manual"
	ReviewTriggerQuietPeriod = "quiet_period"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Lifecycle LifecycleConfig
	SLA       SLAConfig
	Events    EventsConfig
	SMS       SMSConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	AutoMigrate     bool
	// SeedDemoData creates the mock users, properties and vendors on an empty database
	SeedDemoData bool
}

// AuthConfig configures the mock session tokens
type AuthConfig struct {
	JWTSecret     string
	Issuer        string
	TokenTTLHours int
}

// LifecycleConfig tunes the work order state machine
type LifecycleConfig struct {
	// ReviewTrigger is "manual" or "quiet_period"
	ReviewTrigger string
	// ReviewQuietPeriodMinutes is how long an order must go without new proposals before review opens
	ReviewQuietPeriodMinutes int
	ReviewCron               string
	// LockTimeoutMs bounds how long a command waits for its entity locks
	LockTimeoutMs int
}

type SLAConfig struct {
	Enabled     bool
	MonitorCron string
	// ScanTimeout bounds one monitor scan (seconds)
	ScanTimeout int
}

type EventsConfig struct {
	MaxAttempts    int
	BatchSize      int
	RedeliveryCron string
}

// SMSConfig configures the optional Twilio notifier for vendors
type SMSConfig struct {
	Enabled    bool
	AccountSID string
	AuthToken  string
	FromNumber string
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout   int
	WriteTimeout  int
	EnableSwagger bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TokenTTL returns the session token lifetime
func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// ReviewQuietPeriod returns the quiet period as duration
func (l *LifecycleConfig) ReviewQuietPeriod() time.Duration {
	return time.Duration(l.ReviewQuietPeriodMinutes) * time.Minute
}

// LockTimeout returns the lock wait bound as duration
func (l *LifecycleConfig) LockTimeout() time.Duration {
	return time.Duration(l.LockTimeoutMs) * time.Millisecond
}

// ScanTimeoutDuration returns the SLA scan timeout as duration
func (s *SLAConfig) ScanTimeoutDuration() time.Duration {
	return time.Duration(s.ScanTimeout) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Lifecycle.ReviewTrigger {
	case ReviewTriggerManual, ReviewTriggerQuietPeriod:
	default:
		return fmt.Errorf("unsupported review trigger %q", c.Lifecycle.ReviewTrigger)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtSecret is required")
	}
	if c.App.Environment == "production" && c.Auth.JWTSecret == devJWTSecret {
		return fmt.Errorf("auth.jwtSecret must be changed in production")
	}
	if c.SMS.Enabled && (c.SMS.AccountSID == "" || c.SMS.AuthToken == "" || c.SMS.FromNumber == "") {
		return fmt.Errorf("sms.accountSid, sms.authToken and sms.fromNumber are required when SMS is enabled")
	}
	return nil
}

const devJWTSecret = "rentr-development-secret"

// Load loads configuration from file and environment variables.
// Use LoadWithSecrets for full secret resolution.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.SMS.AccountSID == "" {
		cfg.SMS.AccountSID = v.GetString("TWILIO_ACCOUNT_SID")
	}
	if cfg.SMS.AuthToken == "" {
		cfg.SMS.AuthToken = v.GetString("TWILIO_AUTH_TOKEN")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
// USE_AZURE_KEY_VAULT=true forces Key Vault regardless of secrets.source.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	source := secrets.SecretSource(cfg.Secrets.Source)
	if strings.EqualFold(os.Getenv("USE_AZURE_KEY_VAULT"), "true") {
		source = secrets.SourceVault
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       source,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}
	if provider.IsVaultEnabled() {
		if err := applySecrets(ctx, cfg, provider); err != nil {
			return nil, err
		}
		logger.Info("Secrets loaded from Key Vault",
			zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// secretSource is the part of secrets.Provider used while loading configuration
type secretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envVar string) (string, error)
}

func applySecrets(ctx context.Context, cfg *Config, provider secretSource) error {
	if host, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	if user, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	secret, err := provider.GetSecretOrEnv(ctx, "rentr-jwt-secret", "JWT_SECRET")
	if err != nil {
		return fmt.Errorf("failed to load session signing key: %w", err)
	}
	if secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}
	if sid, err := provider.GetSecretOrEnv(ctx, "twilio-account-sid", "TWILIO_ACCOUNT_SID"); err == nil && sid != "" {
		cfg.SMS.AccountSID = sid
	}
	if token, err := provider.GetSecretOrEnv(ctx, "twilio-auth-token", "TWILIO_AUTH_TOKEN"); err == nil && token != "" {
		cfg.SMS.AuthToken = token
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Rentr Maintenance API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "rentr")
	v.SetDefault("database.user", "rentr_user")
	v.SetDefault("database.password", "rentr_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.sqlitePath", "rentr.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", true)
	v.SetDefault("database.seedDemoData", true)

	// Auth defaults
	v.SetDefault("auth.jwtSecret", devJWTSecret)
	v.SetDefault("auth.issuer", "rentr")
	v.SetDefault("auth.tokenTTLHours", 12)

	// Lifecycle defaults
	v.SetDefault("lifecycle.reviewTrigger", ReviewTriggerManual)
	v.SetDefault("lifecycle.reviewQuietPeriodMinutes", 60)
	v.SetDefault("lifecycle.reviewCron", "@every 5m")
	v.SetDefault("lifecycle.lockTimeoutMs", 5000)

	// SLA monitor defaults
	v.SetDefault("sla.enabled", true)
	v.SetDefault("sla.monitorCron", "@every 1m")
	v.SetDefault("sla.scanTimeout", 30)

	// Event delivery defaults
	v.SetDefault("events.maxAttempts", 5)
	v.SetDefault("events.batchSize", 100)
	v.SetDefault("events.redeliveryCron", "@every 30s")

	// SMS defaults
	v.SetDefault("sms.enabled", false)

	// Secrets defaults
	v.SetDefault("secrets.source", "environment")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "invoices")
	v.SetDefault("storage.maxUploadSizeMB", 20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults
	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:5173"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 120)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})
}
