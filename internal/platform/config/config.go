package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures process-level configuration. Everything comes from the
// environment so main stays lean; the period catalog may additionally be
// loaded from a YAML file (FISMAPP_PERIODS_FILE).
type Config struct {
	Addr          string
	JWTSigningKey string

	// DatabaseURL selects the PostgreSQL ledger when set. SQLitePath selects
	// the embedded SQLite ledger. When neither is set the service runs on
	// in-memory stores (development and tests).
	DatabaseURL string
	SQLitePath  string

	Redis RedisConfig

	// KafkaBrokers enables the Kafka audit publisher when non-empty.
	KafkaBrokers []string
	AuditTopic   string

	// VerifyBaseURL is the public URL prefix embedded in scannable codes.
	VerifyBaseURL string

	// DefaultAddressee is used when an issuance request carries no addressee
	// text and the template has none either.
	DefaultAddressee string

	PeriodsFile string

	// Rate limit for the public verification endpoint.
	VerifyRateLimit  int
	VerifyRateWindow time.Duration

	// BulkConcurrency bounds the per-recipient fan-out in bulk issuance.
	BulkConcurrency int
}

// RedisConfig configures the optional Redis connection used by the
// distributed rate limiter. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:             envOr("FISMAPP_ADDR", ":8080"),
		JWTSigningKey:    envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       os.Getenv("FISMAPP_SQLITE_PATH"),
		AuditTopic:       envOr("FISMAPP_AUDIT_TOPIC", "fismapp.audit"),
		VerifyBaseURL:    envOr("FISMAPP_VERIFY_BASE_URL", "http://localhost:8080/api/certificates/verify/"),
		DefaultAddressee: envOr("FISMAPP_DEFAULT_ADDRESSEE", "A QUIEN CORRESPONDA"),
		PeriodsFile:      os.Getenv("FISMAPP_PERIODS_FILE"),
		VerifyRateLimit:  envIntOr("FISMAPP_VERIFY_RATE_LIMIT", 30),
		VerifyRateWindow: envDurationOr("FISMAPP_VERIFY_RATE_WINDOW", time.Minute),
		BulkConcurrency:  envIntOr("FISMAPP_BULK_CONCURRENCY", 8),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

// periodsFile is the YAML shape of the period catalog file:
//
//	periods:
//	  - "202525"
//	  - "202535"
type periodsFile struct {
	Periods []string `yaml:"periods"`
}

// LoadPeriods reads the known-period catalog from a YAML file. An empty path
// returns the built-in default catalog.
func LoadPeriods(path string) ([]string, error) {
	if path == "" {
		return DefaultPeriods(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read periods file: %w", err)
	}
	var pf periodsFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse periods file: %w", err)
	}
	if len(pf.Periods) == 0 {
		return nil, fmt.Errorf("periods file %s lists no periods", path)
	}
	return pf.Periods, nil
}

// DefaultPeriods returns the built-in academic period catalog: spring (25),
// interperiod (30), and fall (35) terms for recent years.
func DefaultPeriods() []string {
	var periods []string
	for year := 2020; year <= 2026; year++ {
		for _, suffix := range []string{"25", "30", "35"} {
			periods = append(periods, strconv.Itoa(year)+suffix)
		}
	}
	return periods
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
