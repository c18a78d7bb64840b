package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Storage      StorageConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"TUPIJAMA_APP_ENV" required:"true"`
	Port         string `envconfig:"TUPIJAMA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TUPIJAMA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TUPIJAMA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TUPIJAMA_DB_DSN"`
	Driver string `envconfig:"TUPIJAMA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TUPIJAMA_DB_HOST"`
	LegacyPort     int    `envconfig:"TUPIJAMA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TUPIJAMA_DB_USER"`
	LegacyPassword string `envconfig:"TUPIJAMA_DB_PASSWORD"`
	LegacyName     string `envconfig:"TUPIJAMA_DB_NAME"`
	LegacySSLMode  string `envconfig:"TUPIJAMA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TUPIJAMA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TUPIJAMA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TUPIJAMA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TUPIJAMA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TUPIJAMA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TUPIJAMA_REDIS_ADDR"`
	Password     string        `envconfig:"TUPIJAMA_REDIS_PASSWORD"`
	DB           int           `envconfig:"TUPIJAMA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TUPIJAMA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TUPIJAMA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TUPIJAMA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TUPIJAMA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TUPIJAMA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TUPIJAMA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TUPIJAMA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TUPIJAMA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TUPIJAMA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TUPIJAMA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TUPIJAMA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TUPIJAMA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TUPIJAMA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TUPIJAMA_ARGON_KEY_LEN" default:"32"`
}

// GCPConfig carries the privileged service credentials. Leaving both fields
// empty disables the admin storage tier instead of failing startup.
type GCPConfig struct {
	CredentialsJSON        string `envconfig:"TUPIJAMA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TUPIJAMA_GOOGLE_APPLICATION_CREDENTIALS"`
}

// HasServiceCredentials reports whether the privileged storage client can be built.
func (g GCPConfig) HasServiceCredentials() bool {
	return g.CredentialsJSON != "" || g.ApplicationCredentials != ""
}

type GCSConfig struct {
	BucketName string `envconfig:"TUPIJAMA_GCS_BUCKET_NAME" default:"product-images"`
}

type StorageConfig struct {
	MaxUploadMB int `envconfig:"TUPIJAMA_MAX_UPLOAD_MB" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TUPIJAMA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TUPIJAMA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required when driver is sqlite", EnvDBDSN)
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
