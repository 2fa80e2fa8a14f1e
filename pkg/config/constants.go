package config

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "ALUGUEJA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ALUGUEJA_DB_DSN"
	EnvDBHost = "ALUGUEJA_DB_HOST"
	EnvDBUser = "ALUGUEJA_DB_USER"
	EnvDBName = "ALUGUEJA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
