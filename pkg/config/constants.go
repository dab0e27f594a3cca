package config

const (
	EnvPrefix = "BICISENA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	defaultPostgresPort = 5432
	defaultMySQLPort    = 3306
)

const (
	EnvAppEnv      = "BICISENA_APP_ENV"
	EnvPort        = "BICISENA_APP_PORT"
	EnvLogLevel    = "BICISENA_LOG_LEVEL"
	EnvDatabaseURL = "DATABASE_URL"
	EnvDBDSN       = "BICISENA_DB_DSN"
	EnvDBDriver    = "BICISENA_DB_DRIVER"
	EnvDBHost      = "BICISENA_DB_HOST"
	EnvDBPort      = "BICISENA_DB_PORT"
	EnvDBUser      = "BICISENA_DB_USER"
	EnvDBPassword  = "BICISENA_DB_PASSWORD"
	EnvDBName      = "BICISENA_DB_NAME"
	EnvBcryptCost  = "BICISENA_BCRYPT_COST"
	EnvAlternation = "BICISENA_MOVEMENTS_ENFORCE_ALTERNATION"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
