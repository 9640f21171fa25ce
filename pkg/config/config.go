package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BAZARLINK_DB_DSN"
	EnvDBHost = "BAZARLINK_DB_HOST"
	EnvDBUser = "BAZARLINK_DB_USER"
	EnvDBName = "BAZARLINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Pricing      PricingConfig
	RFQ          RFQConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAZARLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"BAZARLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAZARLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAZARLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BAZARLINK_DB_DSN"`
	Driver string `envconfig:"BAZARLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BAZARLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"BAZARLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAZARLINK_DB_USER"`
	LegacyPassword string `envconfig:"BAZARLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAZARLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAZARLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAZARLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAZARLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAZARLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAZARLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAZARLINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BAZARLINK_REDIS_ADDR"`
	Password     string        `envconfig:"BAZARLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAZARLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAZARLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAZARLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAZARLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAZARLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAZARLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAZARLINK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAZARLINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BAZARLINK_JWT_EXPIRATION_MINUTES" default:"60"`
}

// PricingConfig carries the marketplace-wide pricing knobs. The delivery fee
// is deliberately configuration, not a constant in the calculator.
type PricingConfig struct {
	DeliveryFeeCents int `envconfig:"BAZARLINK_DELIVERY_FEE_CENTS" default:"0"`
}

// RFQConfig controls the negotiation lifecycle defaults.
type RFQConfig struct {
	DefaultExpiryDays  int           `envconfig:"BAZARLINK_RFQ_EXPIRY_DAYS" default:"30"`
	QuoteValidityDays  int           `envconfig:"BAZARLINK_QUOTE_VALIDITY_DAYS" default:"30"`
	SweepInterval      time.Duration `envconfig:"BAZARLINK_RFQ_SWEEP_INTERVAL" default:"10m"`
	SweepLockTTL       time.Duration `envconfig:"BAZARLINK_RFQ_SWEEP_LOCK_TTL" default:"5m"`
	SweepBatchSize     int           `envconfig:"BAZARLINK_RFQ_SWEEP_BATCH_SIZE" default:"200"`
	SweeperMetricsPort string        `envconfig:"BAZARLINK_RFQ_SWEEP_METRICS_PORT" default:"9102"`
}

type RateLimitConfig struct {
	Window   time.Duration `envconfig:"BAZARLINK_RATE_LIMIT_WINDOW" default:"1m"`
	PerStore int64         `envconfig:"BAZARLINK_RATE_LIMIT_PER_STORE" default:"300"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BAZARLINK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
