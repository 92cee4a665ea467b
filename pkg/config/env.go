package config

const (
	EnvPrefix = "PRICEPAL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "PRICEPAL_APP_ENV"
	EnvPort     = "PRICEPAL_APP_PORT"
	EnvLogLevel = "PRICEPAL_LOG_LEVEL"

	EnvDBDSN  = "PRICEPAL_DB_DSN"
	EnvDBHost = "PRICEPAL_DB_HOST"
	EnvDBPort = "PRICEPAL_DB_PORT"
	EnvDBUser = "PRICEPAL_DB_USER"
	EnvDBPass = "PRICEPAL_DB_PASSWORD"
	EnvDBName = "PRICEPAL_DB_NAME"

	EnvRedisURL = "PRICEPAL_REDIS_URL"

	EnvJWTSecret  = "PRICEPAL_JWT_SECRET"
	EnvJWTIssuer  = "PRICEPAL_JWT_ISSUER"
	EnvJWTExpMins = "PRICEPAL_JWT_EXPIRATION_MINUTES"

	EnvSearchCallTimeout     = "PRICEPAL_SEARCH_CALL_TIMEOUT"
	EnvSearchMaxEdits        = "PRICEPAL_SEARCH_MAX_EDITS"
	EnvSearchPrefixLength    = "PRICEPAL_SEARCH_PREFIX_LENGTH"
	EnvSearchListConcurrency = "PRICEPAL_SEARCH_LIST_CONCURRENCY"

	EnvUseSQLite   = "PRICEPAL_USE_SQLITE"
	EnvAutoMigrate = "PRICEPAL_AUTO_MIGRATE"
)

// legacyDBEnvVars must all be present when no DSN is configured.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
