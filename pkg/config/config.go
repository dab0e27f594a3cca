package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Password     PasswordConfig
	Media        MediaConfig
	QR           QRConfig
	Movements    MovementsConfig
	FeatureFlags FeatureFlagsConfig
	Metrics      MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BICISENA_APP_ENV" default:"dev"`
	Port         string `envconfig:"BICISENA_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"BICISENA_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"BICISENA_LOG_FORMAT"`
	LogWarnStack bool   `envconfig:"BICISENA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// URL mirrors the DATABASE_URL convention of hosted platforms; its scheme
	// selects the driver.
	URL    string `envconfig:"DATABASE_URL"`
	DSN    string `envconfig:"BICISENA_DB_DSN"`
	Driver string `envconfig:"BICISENA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BICISENA_DB_HOST"`
	Port     int    `envconfig:"BICISENA_DB_PORT"`
	User     string `envconfig:"BICISENA_DB_USER"`
	Password string `envconfig:"BICISENA_DB_PASSWORD"`
	Name     string `envconfig:"BICISENA_DB_NAME"`
	SSLMode  string `envconfig:"BICISENA_DB_SSLMODE" default:"disable"`
	TLS      string `envconfig:"BICISENA_DB_TLS"`

	ConnectTimeout  time.Duration `envconfig:"BICISENA_DB_CONNECT_TIMEOUT" default:"10s"`
	MaxOpenConns    int           `envconfig:"BICISENA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BICISENA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BICISENA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BICISENA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// NormalizedDriver returns the lower-cased driver name with common aliases folded.
func (db DBConfig) NormalizedDriver() string {
	switch d := strings.ToLower(strings.TrimSpace(db.Driver)); d {
	case "", "pg", "postgresql":
		return DriverPostgres
	case "sqlite3":
		return DriverSQLite
	default:
		return d
	}
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"BICISENA_BCRYPT_COST" default:"10"`
}

type MediaConfig struct {
	MaxUploadMB   int   `envconfig:"BICISENA_MAX_UPLOAD_MB" default:"10"`
	MaxPhotoBytes int64 `envconfig:"BICISENA_MAX_PHOTO_BYTES" default:"5242880"`
}

// MaxUploadBytes is the cap applied to a whole multipart request.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

type QRConfig struct {
	Size          int    `envconfig:"BICISENA_QR_SIZE" default:"256"`
	RecoveryLevel string `envconfig:"BICISENA_QR_RECOVERY_LEVEL" default:"medium"`
}

type MovementsConfig struct {
	EnforceAlternation bool `envconfig:"BICISENA_MOVEMENTS_ENFORCE_ALTERNATION" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BICISENA_AUTO_MIGRATE" default:"false"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"BICISENA_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"BICISENA_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.URL != "" {
		return db.fromURL(db.URL)
	}
	if db.DSN != "" {
		return nil
	}

	if db.NormalizedDriver() == DriverSQLite {
		if db.Name == "" {
			return fmt.Errorf("either %s or %s are required for sqlite", EnvDBDSN, EnvDBName)
		}
		db.DSN = db.Name
		return nil
	}

	missing := []string{}
	discreteValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discreteValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s, %s or %s are required", EnvDatabaseURL, EnvDBDSN, strings.Join(missing, ", "))
	}

	switch db.NormalizedDriver() {
	case DriverPostgres:
		db.DSN = db.postgresDSN()
	case DriverMySQL:
		db.DSN = db.mysqlDSN()
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
	return nil
}

// fromURL resolves the driver and DSN from a scheme-qualified URL.
func (db *DBConfig) fromURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvDatabaseURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		db.Driver = DriverPostgres
		db.DSN = raw
		return nil
	case "mysql":
		db.Driver = DriverMySQL
	default:
		return fmt.Errorf("unsupported %s scheme %q", EnvDatabaseURL, u.Scheme)
	}

	db.Host = u.Hostname()
	db.Port = defaultMySQLPort
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid port in %s: %w", EnvDatabaseURL, err)
		}
		db.Port = port
	}
	db.User = u.User.Username()
	db.Password, _ = u.User.Password()
	db.Name = strings.TrimPrefix(u.Path, "/")
	// Hosted MySQL requires TLS unless the URL says otherwise.
	db.TLS = "true"
	if v := u.Query().Get("tls"); v != "" {
		db.TLS = v
	}
	db.DSN = db.mysqlDSN()
	return nil
}

func (db *DBConfig) postgresDSN() string {
	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	port := db.Port
	if port == 0 {
		port = defaultPostgresPort
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (db *DBConfig) mysqlDSN() string {
	port := db.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	mc := mysql.NewConfig()
	mc.User = db.User
	mc.Passwd = db.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(db.Host, strconv.Itoa(port))
	mc.DBName = db.Name
	mc.ParseTime = true
	mc.TLSConfig = db.TLS
	if db.ConnectTimeout > 0 {
		mc.Timeout = db.ConnectTimeout
	}
	return mc.FormatDSN()
}
