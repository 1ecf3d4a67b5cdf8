package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. ORDEROPS_POSTGRES__DSN.
const EnvPrefix = "ORDEROPS_"

type Config struct {
	App struct {
		HTTPAddr       string        `koanf:"http_addr"`
		LogFile        string        `koanf:"log_file"`
		LogLevel       string        `koanf:"log_level"`
		RequestTimeout time.Duration `koanf:"request_timeout"`
	} `koanf:"app"`

	Postgres struct {
		DSN string `koanf:"dsn"`
	} `koanf:"postgres"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Rabbit struct {
		URL        string `koanf:"url"`
		Exchange   string `koanf:"exchange"`
		RoutingKey string `koanf:"routing_key"`
		Queue      string `koanf:"queue"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers          string `koanf:"brokers"`
		OrderEventsTopic string `koanf:"order_events_topic"`
	} `koanf:"kafka"`

	Workflow struct {
		Timezone                string        `koanf:"timezone"`
		MaxParallelism          int           `koanf:"max_parallelism"`
		MaxConflictRetries      int           `koanf:"max_conflict_retries"`
		OrderTimeout            time.Duration `koanf:"order_timeout"`
		MaxExportBatch          int           `koanf:"max_export_batch"`
		NotificationMaxAttempts int           `koanf:"notification_max_attempts"`
		NotificationBaseBackoff time.Duration `koanf:"notification_base_backoff"`
	} `koanf:"workflow"`

	Jobs struct {
		NotificationSchedule string `koanf:"notification_schedule"`
		OutboxSchedule       string `koanf:"outbox_schedule"`
	} `koanf:"jobs"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.http_addr":                      ":8080",
		"app.log_level":                      "info",
		"app.request_timeout":                "30s",
		"idempotency.ttl":                    "24h",
		"kafka.order_events_topic":           "orderops.order-events",
		"workflow.timezone":                  "UTC",
		"workflow.max_parallelism":           8,
		"workflow.max_conflict_retries":      3,
		"workflow.order_timeout":             "10s",
		"workflow.max_export_batch":          500,
		"workflow.notification_max_attempts": 8,
		"workflow.notification_base_backoff": "30s",
		"jobs.notification_schedule":         "*/30 * * * * *",
		"jobs.outbox_schedule":               "*/5 * * * * *",
	}
}

// LoadConfig reads the optional .env file, then layers configs/base.yaml
// (when present under dir) and ORDEROPS_ environment variables on top of
// the defaults. A double underscore separates nesting levels.
func LoadConfig(dir string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	base := fmt.Sprintf("%s/base.yaml", dir)
	if _, err := os.Stat(base); err == nil {
		if err = k.Load(file.Provider(base), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load base: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return errors.New("app.http_addr required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn required")
	}
	if _, err := time.LoadLocation(c.Workflow.Timezone); err != nil {
		return fmt.Errorf("workflow.timezone: %w", err)
	}
	return nil
}

// Location returns the time zone that decides the current date.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Workflow.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
