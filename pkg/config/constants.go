package config

const (
	EnvPrefix = "VAREJO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VAREJO_DB_DSN"
	EnvDBHost = "VAREJO_DB_HOST"
	EnvDBUser = "VAREJO_DB_USER"
	EnvDBName = "VAREJO_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
