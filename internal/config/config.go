package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Database  DatabaseConfig  `toml:"database"`
	Server    ServerConfig    `toml:"server"`
	Auth      AuthConfig      `toml:"auth"`
	Pricing   PricingConfig   `toml:"pricing"`
	Payments  PaymentsConfig  `toml:"payments"`
	Email     EmailConfig     `toml:"email"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	AccessTTLHours  int    `toml:"access_ttl_hours"`
	RefreshTTLHours int    `toml:"refresh_ttl_hours"`
	SecureCookies   bool   `toml:"secure_cookies"`
	CookieDomain    string `toml:"cookie_domain"`
	BcryptCost      int    `toml:"bcrypt_cost"`
	// лимит попыток входа и регистрации с одного IP
	LoginPerMinute int `toml:"login_per_minute"`
	LoginBurst     int `toml:"login_burst"`
}

// PricingConfig значения по умолчанию, пока в БД нет сохраненных настроек
type PricingConfig struct {
	DiscountPolicy string  `toml:"discount_policy"` // stacked | best-of
	TaxRate        float64 `toml:"tax_rate"`
	Currency       string  `toml:"currency"`
	DepositPercent float64 `toml:"deposit_percent"`
}

type PaymentsConfig struct {
	URL               string `toml:"url"`
	APIKey            string `toml:"api_key"`
	WebhookSecret     string `toml:"webhook_secret"`
	Timeout           int    `toml:"timeout"`
	SuccessURL        string `toml:"success_url"`
	CancelURL         string `toml:"cancel_url"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
}

type EmailConfig struct {
	Enabled   bool   `toml:"enabled"`
	APIKey    string `toml:"api_key"`
	FromEmail string `toml:"from_email"`
	FromName  string `toml:"from_name"`
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Queue    string `toml:"queue"`
	Prefetch int    `toml:"prefetch"`
}

type SchedulerConfig struct {
	Enabled       bool   `toml:"enabled"`
	ExpireOrders  string `toml:"expire_orders"`
	StayReminders string `toml:"stay_reminders"`
}

// Load читает TOML-файл, подхватывает .env и переопределения из окружения
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func (c *Config) applyEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Payments.URL, "PAYMENTS_URL")
	setString(&c.Payments.APIKey, "PAYMENTS_API_KEY")
	setString(&c.Payments.WebhookSecret, "PAYMENTS_WEBHOOK_SECRET")
	setString(&c.Email.APIKey, "SENDGRID_API_KEY")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&c.Logs.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate заполняет значения по умолчанию и проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "pet_boarding_service"
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime <= 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if c.Auth.AccessTTLHours <= 0 {
		c.Auth.AccessTTLHours = 7 * 24
	}
	if c.Auth.RefreshTTLHours <= 0 {
		c.Auth.RefreshTTLHours = 30 * 24
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Auth.LoginPerMinute <= 0 {
		c.Auth.LoginPerMinute = 10
	}
	if c.Auth.LoginBurst <= 0 {
		c.Auth.LoginBurst = 5
	}

	switch c.Pricing.DiscountPolicy {
	case "":
		c.Pricing.DiscountPolicy = "stacked"
	case "stacked", "best-of":
	default:
		return fmt.Errorf("%w: pricing.discount_policy must be stacked or best-of, got %q",
			ErrInvalidConfig, c.Pricing.DiscountPolicy)
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return fmt.Errorf("%w: pricing.tax_rate must be in [0, 1)", ErrInvalidConfig)
	}
	if c.Pricing.DepositPercent < 0 || c.Pricing.DepositPercent > 1 {
		return fmt.Errorf("%w: pricing.deposit_percent must be in [0, 1]", ErrInvalidConfig)
	}
	if c.Pricing.Currency == "" {
		c.Pricing.Currency = "usd"
	}

	if c.Payments.Timeout <= 0 {
		c.Payments.Timeout = 10
	}
	if c.Payments.SessionTTLMinutes <= 0 {
		c.Payments.SessionTTLMinutes = 30
	}

	if c.Email.Enabled && c.Email.APIKey == "" {
		return fmt.Errorf("%w: email.api_key is required when email is enabled", ErrInvalidConfig)
	}

	if c.Redis.TTLSeconds <= 0 {
		c.Redis.TTLSeconds = 30
	}

	if c.RabbitMQ.Queue == "" {
		c.RabbitMQ.Queue = "booking.events"
	}
	if c.RabbitMQ.Prefetch <= 0 {
		c.RabbitMQ.Prefetch = 50
	}

	if c.Scheduler.ExpireOrders == "" {
		c.Scheduler.ExpireOrders = "0 * * * * *"
	}
	if c.Scheduler.StayReminders == "" {
		c.Scheduler.StayReminders = "0 0 * * * *"
	}

	return nil
}
