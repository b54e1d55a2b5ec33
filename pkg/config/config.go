package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every DropShop binary.
const EnvPrefix = "dropshop"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "DROPSHOP_DB_DSN"
	EnvDBHost = "DROPSHOP_DB_HOST"
	EnvDBUser = "DROPSHOP_DB_USER"
	EnvDBName = "DROPSHOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
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
	Env          string `envconfig:"DROPSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"DROPSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DROPSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DROPSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DROPSHOP_DB_DSN"`
	Driver string `envconfig:"DROPSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DROPSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"DROPSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DROPSHOP_DB_USER"`
	LegacyPassword string `envconfig:"DROPSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"DROPSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"DROPSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DROPSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DROPSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DROPSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DROPSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DROPSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DROPSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"DROPSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"DROPSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DROPSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DROPSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DROPSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DROPSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DROPSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DROPSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DROPSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DROPSHOP_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DROPSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DROPSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DROPSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DROPSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DROPSHOP_ARGON_KEY_LEN" default:"32"`
}

// CartConfig controls how long abandoned cart snapshots survive in Redis.
type CartConfig struct {
	SnapshotTTL time.Duration `envconfig:"DROPSHOP_CART_SNAPSHOT_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DROPSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DROPSHOP_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"DROPSHOP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"DROPSHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"DROPSHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"DROPSHOP_GCS_BUCKET_NAME"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"DROPSHOP_MAX_UPLOAD_MB" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
