package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Cart          CartConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SHOPWAVE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPWAVE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPWAVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPWAVE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"SHOPWAVE_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma-separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	parts := strings.Split(a.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN string `envconfig:"SHOPWAVE_DB_DSN"`

	Host     string `envconfig:"SHOPWAVE_DB_HOST"`
	Port     int    `envconfig:"SHOPWAVE_DB_PORT" default:"5432"`
	User     string `envconfig:"SHOPWAVE_DB_USER"`
	Password string `envconfig:"SHOPWAVE_DB_PASSWORD"`
	Name     string `envconfig:"SHOPWAVE_DB_NAME"`
	SSLMode  string `envconfig:"SHOPWAVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPWAVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPWAVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPWAVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPWAVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPWAVE_REDIS_URL"`
	Address      string        `envconfig:"SHOPWAVE_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPWAVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPWAVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPWAVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPWAVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPWAVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPWAVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPWAVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOPWAVE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOPWAVE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHOPWAVE_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOPWAVE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPWAVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPWAVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPWAVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPWAVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPWAVE_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	// GuestTTL bounds how long an abandoned guest cart slot survives in Redis.
	GuestTTL time.Duration `envconfig:"SHOPWAVE_CART_GUEST_TTL" default:"720h"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHOPWAVE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"5m"`
	LoginEmailLimit    int           `envconfig:"SHOPWAVE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHOPWAVE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
	RegisterWindow     time.Duration `envconfig:"SHOPWAVE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SHOPWAVE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SHOPWAVE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPWAVE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
