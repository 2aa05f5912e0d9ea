package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Checkout      CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ONIX_APP_ENV" default:"dev"`
	Port         string `envconfig:"ONIX_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"ONIX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ONIX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"ONIX_DB_DSN"`
	Driver string `envconfig:"ONIX_DB_DRIVER" default:"postgres"`

	// SQLitePath is used when the sqlite driver is selected and no DSN is set.
	SQLitePath string `envconfig:"ONIX_DB_SQLITE_PATH" default:"onix.db"`

	LegacyHost     string `envconfig:"ONIX_DB_HOST"`
	LegacyPort     int    `envconfig:"ONIX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ONIX_DB_USER"`
	LegacyPassword string `envconfig:"ONIX_DB_PASSWORD"`
	LegacyName     string `envconfig:"ONIX_DB_NAME"`
	LegacySSLMode  string `envconfig:"ONIX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ONIX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ONIX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ONIX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ONIX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite dialector is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"ONIX_REDIS_URL"`
	Address      string        `envconfig:"ONIX_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"ONIX_REDIS_PASSWORD"`
	DB           int           `envconfig:"ONIX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ONIX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ONIX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ONIX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ONIX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ONIX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ONIX_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ONIX_JWT_ISSUER" default:"onix"`
	ExpirationMinutes      int    `envconfig:"ONIX_JWT_EXPIRATION_MINUTES" default:"1440"`
	RefreshTokenTTLMinutes int    `envconfig:"ONIX_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"ONIX_PASSWORD_MIN_LENGTH" default:"6"`
	ArgonMemoryKB    int `envconfig:"ONIX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ONIX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ONIX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ONIX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ONIX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ONIX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ONIX_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ONIX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ONIX_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ONIX_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ONIX_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RateLimitConfig drives the coarse per-IP limiter applied to the whole API.
type RateLimitConfig struct {
	RequestsPerWindow int           `envconfig:"ONIX_RATE_LIMIT_REQUESTS" default:"300"`
	Window            time.Duration `envconfig:"ONIX_RATE_LIMIT_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ONIX_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:5174,http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite        bool `envconfig:"ONIX_USE_SQLITE" default:"false"`
	AutoMigrate      bool `envconfig:"ONIX_AUTO_MIGRATE" default:"false"`
	EnforceAdminRole bool `envconfig:"ONIX_ENFORCE_ADMIN_ROLE" default:"true"`
	SecureHeaders    bool `envconfig:"ONIX_SECURE_HEADERS" default:"true"`
}

type StripeConfig struct {
	APIKey   string `envconfig:"ONIX_STRIPE_API_KEY"`
	Secret   string `envconfig:"ONIX_STRIPE_SECRET"`
	Env      string `envconfig:"ONIX_STRIPE_ENV" default:"test"`
	Currency string `envconfig:"ONIX_STRIPE_CURRENCY" default:"eur"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// Enabled reports whether enough credentials exist to build a Stripe client.
func (s StripeConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

type CheckoutConfig struct {
	IdempotencyTTL       time.Duration `envconfig:"ONIX_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
	WebhookDedupTTL      time.Duration `envconfig:"ONIX_STRIPE_WEBHOOK_DEDUP_TTL" default:"720h"`
	OrderNumberAttempts  int           `envconfig:"ONIX_ORDER_NUMBER_ATTEMPTS" default:"5"`
	DefaultPaymentMethod string        `envconfig:"ONIX_DEFAULT_PAYMENT_METHOD" default:"credit_card"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		db.DSN = db.SQLitePath
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
