package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/joy095/bayelite/logger"
)

var loadOnce sync.Once

// LoadEnv reads .env into the process environment once. A missing file is not an
// error: production injects real environment variables.
func LoadEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			logger.InfoLogger.Info("No .env file found, using process environment")
		}
	})
}

// GetEnv returns the trimmed value of key, or def when unset or blank.
func GetEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func GetInt(key string, def int) int {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.WarnLogger.Warnf("Invalid integer for %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func GetBool(key string, def bool) bool {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.WarnLogger.Warnf("Invalid boolean for %s=%q, using default %t", key, v, def)
		return def
	}
	return b
}

// GetDuration accepts Go duration strings ("90s", "15m"). A bare number is read as
// seconds.
func GetDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.WarnLogger.Warnf("Invalid duration for %s=%q, using default %s", key, v, def)
		return def
	}
	return d
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	WriteRateLimit string
}

func LoadServerConfig() ServerConfig {
	var origins []string
	for _, o := range strings.Split(GetEnv("CORS_ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return ServerConfig{
		Port:           GetEnv("PORT", "3001"),
		AllowedOrigins: origins,
		WriteRateLimit: GetEnv("RATE_LIMIT_WRITE", "30-1m"),
	}
}

type SchedulerConfig struct {
	Interval    time.Duration
	WindowStart time.Duration
	WindowEnd   time.Duration
	Location    *time.Location
}

func LoadSchedulerConfig() SchedulerConfig {
	cfg := SchedulerConfig{
		Interval:    GetDuration("SCHEDULER_INTERVAL", 60*time.Second),
		WindowStart: GetDuration("REMINDER_WINDOW_START", 15*time.Minute),
		WindowEnd:   GetDuration("REMINDER_WINDOW_END", 45*time.Minute),
		Location:    time.Local,
	}

	if tz := GetEnv("SCHEDULER_TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			logger.WarnLogger.Warnf("Unknown SCHEDULER_TIMEZONE %q, falling back to local time: %v", tz, err)
		} else {
			cfg.Location = loc
		}
	}

	if cfg.WindowEnd < cfg.WindowStart {
		logger.WarnLogger.Warnf("REMINDER_WINDOW_END (%s) is before REMINDER_WINDOW_START (%s), swapping", cfg.WindowEnd, cfg.WindowStart)
		cfg.WindowStart, cfg.WindowEnd = cfg.WindowEnd, cfg.WindowStart
	}
	return cfg
}

type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	AdminEmail  string
	FrontendURL string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		Host:        GetEnv("SMTP_HOST", ""),
		Port:        GetInt("SMTP_PORT", 587),
		Username:    GetEnv("SMTP_USERNAME", ""),
		Password:    GetEnv("SMTP_PASSWORD", ""),
		From:        GetEnv("FROM_EMAIL", GetEnv("SMTP_USERNAME", "")),
		AdminEmail:  GetEnv("ADMIN_EMAIL", ""),
		FrontendURL: strings.TrimRight(GetEnv("FRONTEND_URL", "http://localhost:5080"), "/"),
	}
}

type PaymentConfig struct {
	Provider      string // "razorpay" or "cashfree"
	Environment   string // "sandbox" or "production"
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
}

func LoadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		Provider:      strings.ToLower(GetEnv("PAYMENT_PROVIDER", "razorpay")),
		Environment:   strings.ToLower(GetEnv("PAYMENT_ENVIRONMENT", "sandbox")),
		KeyID:         GetEnv("PAYMENT_KEY_ID", ""),
		KeySecret:     GetEnv("PAYMENT_KEY_SECRET", ""),
		WebhookSecret: GetEnv("PAYMENT_WEBHOOK_SECRET", ""),
		Currency:      strings.ToUpper(GetEnv("PAYMENT_CURRENCY", "USD")),
	}
}

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

func LoadTelegramConfig() TelegramConfig {
	cfg := TelegramConfig{BotToken: GetEnv("TELEGRAM_BOT_TOKEN", "")}
	if v := GetEnv("TELEGRAM_CHAT_ID", ""); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logger.WarnLogger.Warnf("Invalid TELEGRAM_CHAT_ID %q: %v", v, err)
		} else {
			cfg.ChatID = id
		}
	}
	return cfg
}
