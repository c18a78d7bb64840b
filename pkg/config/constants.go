package config

const EnvPrefix = "TUPIJAMA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TUPIJAMA_DB_DSN"
	EnvDBHost = "TUPIJAMA_DB_HOST"
	EnvDBUser = "TUPIJAMA_DB_USER"
	EnvDBName = "TUPIJAMA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
