package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Payment      PaymentConfig
	Marketplace  MarketplaceConfig
	Notification NotificationConfig
	Scheduler    SchedulerConfig
	Feed         FeedConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. Redis is optional; when the
// host is empty the in-memory idempotency store is used instead.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// PaymentConfig holds payment processor settings
type PaymentConfig struct {
	AccessToken    string
	APIBaseURL     string
	TimeoutSeconds int
}

// Configured returns true if the payment processor can be called
func (c PaymentConfig) Configured() bool {
	return c.AccessToken != ""
}

// MarketplaceConfig holds marketplace application settings
type MarketplaceConfig struct {
	ClientID       string
	ClientSecret   string
	RedirectURI    string
	APIBaseURL     string
	TimeoutSeconds int
}

// Configured returns true if the marketplace OAuth app is set up
func (c MarketplaceConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// NotificationConfig holds outbound notification settings
type NotificationConfig struct {
	SMTP     SMTPConfig
	WhatsApp WhatsAppConfig
}

// SMTPConfig holds email sender settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Configured returns true if email notifications can be sent
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// WhatsAppConfig holds WhatsApp relay settings
type WhatsAppConfig struct {
	RelayURL       string
	Token          string
	To             string
	TimeoutSeconds int
}

// Configured returns true if WhatsApp notifications can be sent
func (c WhatsAppConfig) Configured() bool {
	return c.RelayURL != ""
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	CredentialRefreshEnabled  bool
	CredentialRefreshInterval time.Duration
	CredentialRefreshWindow   time.Duration
}

// FeedConfig holds catalog feed settings
type FeedConfig struct {
	// BaseURL is the public storefront URL used to build product links
	BaseURL string
	Brand   string
}

// envAliases maps a viper key to the list of accepted environment
// variables for that value, in priority order. The SHOP_-prefixed form
// always wins; the legacy names are kept for deployments configured
// before the rename.
var envAliases = map[string][]string{
	"payment.access_token":             {"SHOP_PAYMENT_ACCESS_TOKEN", "MP_ACCESS_TOKEN", "MERCADOPAGO_TOKEN"},
	"marketplace.client_id":            {"SHOP_MARKETPLACE_CLIENT_ID", "MELI_CLIENT_ID", "ML_APP_ID"},
	"marketplace.client_secret":        {"SHOP_MARKETPLACE_CLIENT_SECRET", "MELI_CLIENT_SECRET", "ML_SECRET_KEY"},
	"marketplace.redirect_uri":         {"SHOP_MARKETPLACE_REDIRECT_URI", "MELI_REDIRECT_URI"},
	"notification.smtp.host":           {"SHOP_NOTIFICATION_SMTP_HOST", "SMTP_HOST"},
	"notification.smtp.username":       {"SHOP_NOTIFICATION_SMTP_USERNAME", "SMTP_USER"},
	"notification.smtp.password":       {"SHOP_NOTIFICATION_SMTP_PASSWORD", "SMTP_PASS"},
	"notification.smtp.from":           {"SHOP_NOTIFICATION_SMTP_FROM", "SMTP_FROM"},
	"notification.whatsapp.relay_url":  {"SHOP_NOTIFICATION_WHATSAPP_RELAY_URL", "WHATSAPP_RELAY_URL"},
	"notification.whatsapp.token":      {"SHOP_NOTIFICATION_WHATSAPP_TOKEN", "WA_RELAY_TOKEN"},
}

// resolveAlias returns the first non-empty value among the config file
// value and the accepted environment variables for the key
func resolveAlias(v *viper.Viper, key string) string {
	for _, env := range envAliases[key] {
		if val := os.Getenv(env); val != "" {
			return val
		}
	}
	return v.GetString(key)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOP_ prefix (e.g. SHOP_DATABASE_PASSWORD)
//    or an accepted legacy alias (e.g. MP_ACCESS_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Payment: PaymentConfig{
			AccessToken:    resolveAlias(v, "payment.access_token"),
			APIBaseURL:     v.GetString("payment.api_base_url"),
			TimeoutSeconds: v.GetInt("payment.timeout_seconds"),
		},
		Marketplace: MarketplaceConfig{
			ClientID:       resolveAlias(v, "marketplace.client_id"),
			ClientSecret:   resolveAlias(v, "marketplace.client_secret"),
			RedirectURI:    resolveAlias(v, "marketplace.redirect_uri"),
			APIBaseURL:     v.GetString("marketplace.api_base_url"),
			TimeoutSeconds: v.GetInt("marketplace.timeout_seconds"),
		},
		Notification: NotificationConfig{
			SMTP: SMTPConfig{
				Host:     resolveAlias(v, "notification.smtp.host"),
				Port:     v.GetInt("notification.smtp.port"),
				Username: resolveAlias(v, "notification.smtp.username"),
				Password: resolveAlias(v, "notification.smtp.password"),
				From:     resolveAlias(v, "notification.smtp.from"),
				To:       v.GetString("notification.smtp.to"),
			},
			WhatsApp: WhatsAppConfig{
				RelayURL:       resolveAlias(v, "notification.whatsapp.relay_url"),
				Token:          resolveAlias(v, "notification.whatsapp.token"),
				To:             v.GetString("notification.whatsapp.to"),
				TimeoutSeconds: v.GetInt("notification.whatsapp.timeout_seconds"),
			},
		},
		Scheduler: SchedulerConfig{
			CredentialRefreshEnabled:  v.GetBool("scheduler.credential_refresh_enabled"),
			CredentialRefreshInterval: v.GetDuration("scheduler.credential_refresh_interval"),
			CredentialRefreshWindow:   v.GetDuration("scheduler.credential_refresh_window"),
		},
		Feed: FeedConfig{
			BaseURL: v.GetString("feed.base_url"),
			Brand:   v.GetString("feed.brand"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shop-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "shop"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB, webhook payloads are small
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Payment.APIBaseURL == "" {
		cfg.Payment.APIBaseURL = "https://api.mercadopago.com"
	}
	if cfg.Payment.TimeoutSeconds == 0 {
		cfg.Payment.TimeoutSeconds = 10
	}
	if cfg.Marketplace.APIBaseURL == "" {
		cfg.Marketplace.APIBaseURL = "https://api.mercadolibre.com"
	}
	if cfg.Marketplace.TimeoutSeconds == 0 {
		cfg.Marketplace.TimeoutSeconds = 10
	}
	if cfg.Notification.SMTP.Port == 0 {
		cfg.Notification.SMTP.Port = 587
	}
	if cfg.Notification.WhatsApp.TimeoutSeconds == 0 {
		cfg.Notification.WhatsApp.TimeoutSeconds = 10
	}
	if cfg.Scheduler.CredentialRefreshInterval == 0 {
		cfg.Scheduler.CredentialRefreshInterval = 30 * time.Minute
	}
	if cfg.Scheduler.CredentialRefreshWindow == 0 {
		cfg.Scheduler.CredentialRefreshWindow = 2 * time.Hour
	}
	if cfg.Feed.BaseURL == "" {
		cfg.Feed.BaseURL = "http://localhost:8080"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if !c.Payment.Configured() {
			return fmt.Errorf("payment.access_token is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
