package config

// EnvPrefix is passed to envconfig; variable names carry the full prefix in
// their struct tags, so the prefix itself stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "ESSENCIA_APP_ENV"
	EnvPort     = "ESSENCIA_APP_PORT"
	EnvDBDSN    = "ESSENCIA_DB_DSN"
	EnvDBHost   = "ESSENCIA_DB_HOST"
	EnvDBUser   = "ESSENCIA_DB_USER"
	EnvDBName   = "ESSENCIA_DB_NAME"
	EnvRedisURL = "ESSENCIA_REDIS_URL"

	EnvJWTSecret  = "ESSENCIA_JWT_SECRET"
	EnvJWTIssuer  = "ESSENCIA_JWT_ISSUER"
	EnvJWTExpMins = "ESSENCIA_JWT_EXPIRATION_MINUTES"

	EnvAdminEmail        = "ESSENCIA_ADMIN_EMAIL"
	EnvAdminPasswordHash = "ESSENCIA_ADMIN_PASSWORD_HASH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
