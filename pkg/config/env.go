package config

// EnvPrefix is the envconfig prefix shared by every GLOBETROTTER_* variable.
const EnvPrefix = "GLOBETROTTER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "GLOBETROTTER_DB_DSN"
	EnvDBHost = "GLOBETROTTER_DB_HOST"
	EnvDBUser = "GLOBETROTTER_DB_USER"
	EnvDBName = "GLOBETROTTER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
