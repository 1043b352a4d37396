package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr           = ":4000"
	defaultLogFile        = "logs/backend.log"
	defaultUploadDir      = "uploads"
	defaultUploadMaxBytes = 5 * 1024 * 1024
	defaultLedgerTimeout  = 30 * time.Second
	defaultEventCacheTTL  = 10 * time.Minute
	defaultAuditTopic     = "spot.audit"
)

// Config is the full process configuration. It is read once at startup and
// never mutated afterwards.
type Config struct {
	Addr       string
	MockMode   bool
	LogLevel   string
	CORSOrigin string

	Ledger LedgerConfig
	Upload UploadConfig
	Audit  AuditConfig
	Redis  RedisConfig

	EventCacheTTL time.Duration
}

// LedgerConfig holds the network endpoint, contract and signing material.
type LedgerConfig struct {
	RPCURL            string
	NetworkPassphrase string
	AdminSecret       string
	ClaimPayerSecret  string
	ContractID        string
	Timeout           time.Duration
}

// ClaimSigner returns the default claim signing secret: the dedicated payer
// when configured, otherwise the admin.
func (l LedgerConfig) ClaimSigner() string {
	if l.ClaimPayerSecret != "" {
		return l.ClaimPayerSecret
	}
	return l.AdminSecret
}

// UploadConfig controls where event images land and how they are addressed.
type UploadConfig struct {
	Dir          string
	MaxBytes     int64
	AssetBaseURL string
}

// AuditConfig controls the append-only audit log and its optional Kafka fan-out.
type AuditConfig struct {
	LogFile      string
	KafkaBrokers []string
	KafkaTopic   string
}

// RedisConfig configures the optional event-detail cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:       envOr("SPOT_ADDR", ""),
		MockMode:   strings.EqualFold(os.Getenv("MOCK_MODE"), "true"),
		LogLevel:   envOr("LOG_LEVEL", "info"),
		CORSOrigin: envOr("CORS_ORIGIN", "*"),
		Ledger: LedgerConfig{
			RPCURL:            os.Getenv("RPC_URL"),
			NetworkPassphrase: os.Getenv("NETWORK_PASSPHRASE"),
			AdminSecret:       os.Getenv("ADMIN_SECRET"),
			ClaimPayerSecret:  os.Getenv("CLAIM_PAYER_SECRET"),
			ContractID:        os.Getenv("SPOT_CONTRACT_ID"),
		},
		Upload: UploadConfig{
			Dir:          envOr("UPLOAD_DIR", defaultUploadDir),
			AssetBaseURL: strings.TrimSuffix(os.Getenv("ASSET_BASE_URL"), "/"),
		},
		Audit: AuditConfig{
			LogFile:      envOr("LOG_FILE", defaultLogFile),
			KafkaBrokers: splitList(os.Getenv("AUDIT_KAFKA_BROKERS")),
			KafkaTopic:   envOr("AUDIT_KAFKA_TOPIC", defaultAuditTopic),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
		if port := os.Getenv("PORT"); port != "" {
			if _, err := strconv.Atoi(port); err == nil {
				cfg.Addr = ":" + port
			}
		}
	}

	var err error
	if cfg.Upload.MaxBytes, err = envInt64("UPLOAD_MAX_BYTES", defaultUploadMaxBytes); err != nil {
		return nil, err
	}
	if cfg.Ledger.Timeout, err = envDuration("LEDGER_TIMEOUT", defaultLedgerTimeout); err != nil {
		return nil, err
	}
	if cfg.EventCacheTTL, err = envDuration("EVENT_CACHE_TTL", defaultEventCacheTTL); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with. Live mode
// needs the full ledger surface; mock mode needs nothing.
func (c *Config) Validate() error {
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}
	if c.MockMode {
		return nil
	}
	var missing []string
	if c.Ledger.RPCURL == "" {
		missing = append(missing, "RPC_URL")
	}
	if c.Ledger.NetworkPassphrase == "" {
		missing = append(missing, "NETWORK_PASSPHRASE")
	}
	if c.Ledger.AdminSecret == "" {
		missing = append(missing, "ADMIN_SECRET")
	}
	if c.Ledger.ContractID == "" {
		missing = append(missing, "SPOT_CONTRACT_ID")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
