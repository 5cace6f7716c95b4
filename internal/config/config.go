package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port          string
	AllowedOrigin string

	// Snapshot persistence
	SnapshotPath     string
	SnapshotInterval time.Duration
	SeedDemoData     bool

	// Telegram bot (disabled when the token is empty)
	BotToken    string
	BotUsername string
	WebAppURL   string

	// AMQP event bus (disabled when the URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Audit worker
	AuditDBPath string

	// Display
	Currency string
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),

		SnapshotPath:     getEnv("SNAPSHOT_PATH", "./data/finguide.json"),
		SnapshotInterval: getEnvDuration("SNAPSHOT_INTERVAL", 5*time.Minute),
		SeedDemoData:     getEnvBool("SEED_DEMO_DATA", true),

		BotToken:    getEnv("BOT_TOKEN", ""),
		BotUsername: getEnv("BOT_USERNAME", "FinancialLead_bot"),
		WebAppURL:   getEnv("WEB_APP_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finguide"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		AuditDBPath: getEnv("AUDIT_DB_PATH", "./data/audit.db"),

		Currency: getEnv("CURRENCY", "₽"),
	}

	return cfg
}

// Validate checks the configuration and returns one combined error
// listing everything wrong with it.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SnapshotPath == "" {
		errors = append(errors, "snapshot path cannot be empty")
	} else {
		dir := filepath.Dir(c.SnapshotPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create snapshot directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.SnapshotInterval != 0 {
		if c.SnapshotInterval < 10*time.Second {
			errors = append(errors, fmt.Sprintf("invalid snapshot interval %v: must be at least 10 seconds (or 0 to disable)", c.SnapshotInterval))
		} else if c.SnapshotInterval > 24*time.Hour {
			errors = append(errors, fmt.Sprintf("invalid snapshot interval %v: must be at most 24 hours", c.SnapshotInterval))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BotToken != "" && c.WebAppURL != "" {
		if parsedURL, err := url.Parse(c.WebAppURL); err != nil || parsedURL.Scheme == "" {
			errors = append(errors, fmt.Sprintf("invalid web app URL '%s'", c.WebAppURL))
		}
	}

	if c.AuditDBPath == "" {
		errors = append(errors, "audit database path cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c *Config) BotEnabled() bool {
	return c.BotToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
