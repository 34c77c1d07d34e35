package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Leads     LeadsConfig     `mapstructure:"leads"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Migrate         bool          `mapstructure:"migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type WebhookConfig struct {
	// Secret is compared against the x-webhook-secret header. Empty rejects
	// every request.
	Secret       string `mapstructure:"secret"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

type LeadsConfig struct {
	FallbackAssignee string `mapstructure:"fallback_assignee"`
	DefaultOrigin    string `mapstructure:"default_origin"`
}

// RabbitMQConfig takes either a full URL or its parts. With neither set,
// lead events are disabled.
type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
}

func (c RabbitMQConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	NotifyTo string `mapstructure:"notify_to"`
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.NotifyTo != ""
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ReconcileConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	OlderThan time.Duration `mapstructure:"older_than"`
	BatchSize int           `mapstructure:"batch_size"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var defaults = map[string]any{
	"server.port":             "8080",
	"server.read_timeout":     "10s",
	"server.write_timeout":    "15s",
	"server.shutdown_timeout": "10s",

	"database.url":               "",
	"database.migrate":           false,
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": "5m",

	"webhook.secret":         "",
	"webhook.max_body_bytes": 1 << 20,

	"leads.fallback_assignee": "",
	"leads.default_origin":    "Facebook Ads",

	"rabbitmq.url":      "",
	"rabbitmq.user":     "guest",
	"rabbitmq.password": "guest",
	"rabbitmq.host":     "",
	"rabbitmq.port":     "5672",

	"smtp.host":      "",
	"smtp.port":      587,
	"smtp.user":      "",
	"smtp.password":  "",
	"smtp.from":      "nao-responda@ligue.com",
	"smtp.notify_to": "",

	"logging.level":  "info",
	"logging.format": "json",

	"reconcile.enabled":    true,
	"reconcile.interval":   "1m",
	"reconcile.older_than": "30m",
	"reconcile.batch_size": 100,

	"cors.allowed_origins": []string{"*"},
}

// Load reads .env when present, then environment variables. Keys map to
// env names by upper-casing and replacing dots, e.g. WEBHOOK_SECRET.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Webhook.Secret == "" {
		errs = append(errs, errors.New("WEBHOOK_SECRET is required"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("WEBHOOK_MAX_BODY_BYTES must be positive"))
	}
	return errors.Join(errs...)
}
