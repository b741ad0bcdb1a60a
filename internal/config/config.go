package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	HTTPAddr string `yaml:"http_addr"`

	DatabaseURL string `yaml:"database_url"`
	DBMaxConns  int    `yaml:"db_max_conns"`
	AutoMigrate bool   `yaml:"auto_migrate"`

	// VerifyPasswords turns on bcrypt hashing at registration and checking
	// at login. Off by default: any password is accepted for a known email.
	VerifyPasswords bool `yaml:"verify_passwords"`
	PaymentDelayMS  int  `yaml:"payment_delay_ms"`

	MailDriver string `yaml:"mail_driver"`
	SMTPHost   string `yaml:"smtp_host"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass"`
	SMTPFrom   string `yaml:"smtp_from"`

	AppBaseURL   string `yaml:"app_base_url"`
	RecoveryPath string `yaml:"recovery_path"`

	// Client side (cmd/shop).
	APIBaseURL     string `yaml:"api_base_url"`
	StoreNamespace string `yaml:"store_namespace"`
	StoreBackend   string `yaml:"store_backend"`
	StoreDir       string `yaml:"store_dir"`
	RedisURL       string `yaml:"redis_url"`
	RedisDB        int    `yaml:"redis_db"`
}

func Defaults() Config {
	return Config{
		AppEnv:         "dev",
		HTTPAddr:       ":8080",
		DBMaxConns:     10,
		PaymentDelayMS: 2000,
		MailDriver:     "log",
		SMTPPort:       587,
		AppBaseURL:     "http://localhost:3000",
		RecoveryPath:   "/forgot-password",
		APIBaseURL:     "http://localhost:8080",
		StoreNamespace: "betimfc",
		StoreBackend:   "file",
		StoreDir:       defaultStoreDir(),
	}
}

// Load starts from the defaults, applies the YAML file named by CONFIG_FILE
// if any, then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(c *Config) {
	c.AppEnv = get("APP_ENV", c.AppEnv)
	c.HTTPAddr = get("HTTP_ADDR", c.HTTPAddr)

	c.DatabaseURL = get("DATABASE_URL", c.DatabaseURL)
	c.DBMaxConns = getInt("DB_MAX_CONNS", c.DBMaxConns)
	c.AutoMigrate = getBool("AUTO_MIGRATE", c.AutoMigrate)

	c.VerifyPasswords = getBool("VERIFY_PASSWORDS", c.VerifyPasswords)
	c.PaymentDelayMS = getInt("PAYMENT_DELAY_MS", c.PaymentDelayMS)

	c.MailDriver = get("MAIL_DRIVER", c.MailDriver)
	c.SMTPHost = get("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getInt("SMTP_PORT", c.SMTPPort)
	c.SMTPUser = get("SMTP_USER", c.SMTPUser)
	c.SMTPPass = get("SMTP_PASS", c.SMTPPass)
	c.SMTPFrom = get("SMTP_FROM", c.SMTPFrom)

	c.AppBaseURL = get("APP_BASE_URL", c.AppBaseURL)
	c.RecoveryPath = get("RECOVERY_PATH", c.RecoveryPath)

	c.APIBaseURL = get("API_BASE_URL", c.APIBaseURL)
	c.StoreNamespace = get("STORE_NAMESPACE", c.StoreNamespace)
	c.StoreBackend = get("STORE_BACKEND", c.StoreBackend)
	c.StoreDir = get("STORE_DIR", c.StoreDir)
	c.RedisURL = get("REDIS_URL", c.RedisURL)
	c.RedisDB = getInt("REDIS_DB", c.RedisDB)
}

func (c Config) PaymentDelay() time.Duration {
	return time.Duration(c.PaymentDelayMS) * time.Millisecond
}

func (c Config) RecoveryURL() string {
	return c.AppBaseURL + c.RecoveryPath
}

func defaultStoreDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "betimfc")
	}
	return ".betimfc"
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
