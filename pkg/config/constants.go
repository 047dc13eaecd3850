package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "SHOPWAVE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "SHOPWAVE_APP_ENV"
	EnvDBDSN  = "SHOPWAVE_DB_DSN"
	EnvDBHost = "SHOPWAVE_DB_HOST"
	EnvDBUser = "SHOPWAVE_DB_USER"
	EnvDBName = "SHOPWAVE_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
