package config

// EnvPrefix is passed to envconfig; individual fields carry fully prefixed
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CLINISTOCK_DB_DSN"
	EnvDBHost = "CLINISTOCK_DB_HOST"
	EnvDBUser = "CLINISTOCK_DB_USER"
	EnvDBName = "CLINISTOCK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
