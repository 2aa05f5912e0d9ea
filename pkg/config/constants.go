package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "ONIX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv       = "ONIX_APP_ENV"
	EnvPort         = "ONIX_APP_PORT"
	EnvLogLevel     = "ONIX_LOG_LEVEL"
	EnvDBDSN        = "ONIX_DB_DSN"
	EnvDBDriver     = "ONIX_DB_DRIVER"
	EnvDBHost       = "ONIX_DB_HOST"
	EnvDBPort       = "ONIX_DB_PORT"
	EnvDBUser       = "ONIX_DB_USER"
	EnvDBPassword   = "ONIX_DB_PASSWORD"
	EnvDBName       = "ONIX_DB_NAME"
	EnvRedisURL     = "ONIX_REDIS_URL"
	EnvJWTSecret    = "ONIX_JWT_SECRET"
	EnvJWTIssuer    = "ONIX_JWT_ISSUER"
	EnvJWTExpMins   = "ONIX_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite    = "ONIX_USE_SQLITE"
	EnvCORSOrigins  = "ONIX_CORS_ALLOWED_ORIGINS"
	EnvStripeAPIKey = "ONIX_STRIPE_API_KEY"
	EnvStripeSecret = "ONIX_STRIPE_SECRET"

	EnvRefreshTokenTTLMinutes = "ONIX_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
