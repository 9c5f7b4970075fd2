package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"

	apperrors "workspace-migrator/internal/shared/errors"
)

// SourceConfig holds workspace-store (source) settings. Mode selects the
// adapter: "api" queries the workspace HTTP API, "mongo" reads a snapshot
// export from MongoDB.
type SourceConfig struct {
	Mode       string `env:"SOURCE_MODE" envDefault:"api"`
	APIURL     string `env:"SOURCE_API_URL" envDefault:"https://api.workspace.example"`
	Token      string `env:"SOURCE_API_TOKEN"`
	APIVersion string `env:"SOURCE_API_VERSION" envDefault:"2022-06-28"`

	MongoURI      string `env:"SOURCE_MONGODB_URI"`
	MongoDatabase string `env:"SOURCE_MONGODB_DATABASE" envDefault:"workspace_snapshot"`
}

// TargetConfig holds relational-store (target) settings. When JWTSecret is
// set the client mints short-lived tokens instead of sending the static
// one.
type TargetConfig struct {
	APIURL    string        `env:"TARGET_API_URL" envDefault:"http://localhost:8055"`
	Token     string        `env:"TARGET_API_TOKEN"`
	JWTSecret string        `env:"TARGET_JWT_SECRET"`
	JWTTTL    time.Duration `env:"TARGET_JWT_TTL" envDefault:"15m"`
}

// DatabaseIDs maps each migration job to its source database.
type DatabaseIDs struct {
	Companies       string `env:"SOURCE_DB_COMPANIES"`
	Projects        string `env:"SOURCE_DB_PROJECTS"`
	Tasks           string `env:"SOURCE_DB_TASKS"`
	Invoices        string `env:"SOURCE_DB_INVOICES"`
	Budgets         string `env:"SOURCE_DB_BUDGETS"`
	ComplianceItems string `env:"SOURCE_DB_COMPLIANCE"`
}

// EngineConfig holds pipeline tunables. Rate limiting is fixed delays, not
// adaptive backoff.
type EngineConfig struct {
	PageSize    int           `env:"PAGE_SIZE" envDefault:"100"`
	BatchSize   int           `env:"BATCH_SIZE" envDefault:"50"`
	BatchDelay  time.Duration `env:"BATCH_DELAY" envDefault:"350ms"`
	JobDelay    time.Duration `env:"JOB_DELAY" envDefault:"2s"`
	FailFast    bool          `env:"FAIL_FAST" envDefault:"false"`
	ReportDir   string        `env:"REPORT_DIR" envDefault:"reports"`
	HistoryPath string        `env:"HISTORY_DB_PATH" envDefault:"reports/history.db"`
}

// RedisConfig holds the optional ownership-ledger settings. Addr == ""
// disables the ledger.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	Database int    `env:"REDIS_DB" envDefault:"0"`
}

// ServeConfig holds the report-server settings.
type ServeConfig struct {
	Host string `env:"SERVE_HOST" envDefault:"localhost"`
	Port string `env:"SERVE_PORT" envDefault:"8090"`
}

// Config is the full engine configuration.
type Config struct {
	Source    SourceConfig
	Target    TargetConfig
	Databases DatabaseIDs
	Engine    EngineConfig
	Redis     RedisConfig
	Serve     ServeConfig
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	for _, section := range []interface{}{
		&cfg.Source, &cfg.Target, &cfg.Databases, &cfg.Engine, &cfg.Redis, &cfg.Serve,
	} {
		if err := env.Parse(section); err != nil {
			return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
		}
	}

	switch cfg.Source.Mode {
	case "api":
		if cfg.Source.APIURL == "" {
			return nil, fmt.Errorf("%w: SOURCE_API_URL is not set", apperrors.ErrInvalidInput)
		}
	case "mongo":
		if cfg.Source.MongoURI == "" {
			return nil, fmt.Errorf("%w: SOURCE_MONGODB_URI is required when SOURCE_MODE=mongo", apperrors.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: SOURCE_MODE must be \"api\" or \"mongo\", got %q", apperrors.ErrInvalidInput, cfg.Source.Mode)
	}

	if cfg.Target.APIURL == "" {
		return nil, fmt.Errorf("%w: TARGET_API_URL is not set", apperrors.ErrInvalidInput)
	}
	if cfg.Engine.PageSize <= 0 {
		cfg.Engine.PageSize = 100
	}
	if cfg.Engine.BatchSize <= 0 {
		cfg.Engine.BatchSize = 50
	}

	return cfg, nil
}

// LedgerEnabled reports whether the redis ownership ledger is configured.
func (c *Config) LedgerEnabled() bool {
	return c.Redis.Addr != ""
}
