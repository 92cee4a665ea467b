package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Search       SearchConfig
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
	if err := cfg.Search.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"PRICEPAL_APP_ENV" required:"true"`
	Port         string   `envconfig:"PRICEPAL_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"PRICEPAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"PRICEPAL_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"PRICEPAL_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"PRICEPAL_DB_DSN"`
	Driver string `envconfig:"PRICEPAL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRICEPAL_DB_HOST"`
	LegacyPort     int    `envconfig:"PRICEPAL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRICEPAL_DB_USER"`
	LegacyPassword string `envconfig:"PRICEPAL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRICEPAL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRICEPAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRICEPAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRICEPAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRICEPAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRICEPAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRICEPAL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRICEPAL_REDIS_ADDR"`
	Password     string        `envconfig:"PRICEPAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRICEPAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRICEPAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRICEPAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRICEPAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRICEPAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRICEPAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PRICEPAL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PRICEPAL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PRICEPAL_JWT_EXPIRATION_MINUTES" default:"60"`
}

// SearchConfig tunes the fuzzy matcher and the shopping-list fan-out.
type SearchConfig struct {
	CallTimeout        time.Duration `envconfig:"PRICEPAL_SEARCH_CALL_TIMEOUT" default:"2s"`
	MaxEdits           int           `envconfig:"PRICEPAL_SEARCH_MAX_EDITS" default:"1"`
	PrefixLength       int           `envconfig:"PRICEPAL_SEARCH_PREFIX_LENGTH" default:"2"`
	MinScore           float64       `envconfig:"PRICEPAL_SEARCH_MIN_SCORE" default:"0.5"`
	CandidateLimit     int           `envconfig:"PRICEPAL_SEARCH_CANDIDATE_LIMIT" default:"500"`
	ListConcurrency    int           `envconfig:"PRICEPAL_SEARCH_LIST_CONCURRENCY" default:"4"`
	CacheTTL           time.Duration `envconfig:"PRICEPAL_SEARCH_CACHE_TTL" default:"30s"`
	RateLimitWindow    time.Duration `envconfig:"PRICEPAL_SEARCH_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitPerWindow int           `envconfig:"PRICEPAL_SEARCH_RATE_LIMIT_PER_WINDOW" default:"120"`
}

func (s SearchConfig) validate() error {
	if s.MaxEdits < 0 {
		return fmt.Errorf("%s must be >= 0", EnvSearchMaxEdits)
	}
	if s.PrefixLength < 0 {
		return fmt.Errorf("%s must be >= 0", EnvSearchPrefixLength)
	}
	if s.ListConcurrency <= 0 {
		return fmt.Errorf("%s must be > 0", EnvSearchListConcurrency)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PRICEPAL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PRICEPAL_AUTO_MIGRATE" default:"false"`
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
