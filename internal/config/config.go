// Package config loads the runtime configuration from WSXPLORE_* environment
// variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/WHTechno/wsxplore/internal/pkg/validator"
)

// Prefix is the environment variable prefix of every setting.
const Prefix = "WSXPLORE"

// Config holds every runtime setting.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"wsxplore" validate:"required"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Telemetry   bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`

	// ChainsFile overrides the embedded chain list when set.
	ChainsFile string `envconfig:"CHAINS_FILE" validate:"omitempty,file"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:8080" validate:"dive,url"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s" validate:"gt=0"`

	UpstreamTimeout  time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s" validate:"gt=0"`
	UpstreamRetryMax int           `envconfig:"UPSTREAM_RETRY_MAX" default:"2" validate:"gte=0,lte=10"`
	UserAgent        string        `envconfig:"USER_AGENT" default:"wsxplore/1.0"`

	UptimeBlocks    int `envconfig:"UPTIME_BLOCKS" default:"100" validate:"gt=0,lte=1000"`
	LogoConcurrency int `envconfig:"LOGO_CONCURRENCY" default:"10" validate:"gt=0"`

	KeybaseURL  string        `envconfig:"KEYBASE_URL" default:"https://keybase.io/_/api/1.0" validate:"required,url"`
	KeybaseRate float64       `envconfig:"KEYBASE_RATE" default:"5" validate:"gt=0"`
	KeybaseTTL  time.Duration `envconfig:"KEYBASE_TTL" default:"6h" validate:"gt=0"`

	// BlocksPollInterval paces the live blocks feed.
	BlocksPollInterval time.Duration `envconfig:"BLOCKS_POLL_INTERVAL" default:"6s" validate:"gte=1s"`

	// WalletKey is a hex secp256k1 key for the local wallet provider. No
	// wallet is installed when empty.
	WalletKey          string `envconfig:"WALLET_KEY" validate:"omitempty,hexadecimal"`
	WalletDefaultChain string `envconfig:"WALLET_DEFAULT_CHAIN" default:"cosmoshub-4" validate:"required"`
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
