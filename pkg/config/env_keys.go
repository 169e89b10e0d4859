package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// SOOQFRESH_* names, so the global prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "SOOQFRESH_APP_ENV"
	EnvPort       = "SOOQFRESH_APP_PORT"
	EnvDBDSN      = "SOOQFRESH_DB_DSN"
	EnvDBDriver   = "SOOQFRESH_DB_DRIVER"
	EnvDBHost     = "SOOQFRESH_DB_HOST"
	EnvDBUser     = "SOOQFRESH_DB_USER"
	EnvDBName     = "SOOQFRESH_DB_NAME"
	EnvRedisURL   = "SOOQFRESH_REDIS_URL"
	EnvJWTSecret  = "SOOQFRESH_JWT_SECRET"
	EnvJWTIssuer  = "SOOQFRESH_JWT_ISSUER"
	EnvJWTExpMins = "SOOQFRESH_JWT_EXPIRATION_MINUTES"
	EnvJWTRefDays = "SOOQFRESH_JWT_REFRESH_EXPIRATION_DAYS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
