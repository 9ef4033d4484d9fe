package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Cart     CartConfig
	Checkout CheckoutConfig
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
	Env          string `envconfig:"VAREJO_APP_ENV" required:"true"`
	Port         string `envconfig:"VAREJO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VAREJO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VAREJO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VAREJO_DB_DSN"`

	Host     string `envconfig:"VAREJO_DB_HOST"`
	Port     int    `envconfig:"VAREJO_DB_PORT" default:"5432"`
	User     string `envconfig:"VAREJO_DB_USER"`
	Password string `envconfig:"VAREJO_DB_PASSWORD"`
	Name     string `envconfig:"VAREJO_DB_NAME"`
	SSLMode  string `envconfig:"VAREJO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VAREJO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VAREJO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VAREJO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VAREJO_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"VAREJO_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VAREJO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VAREJO_REDIS_ADDR"`
	Password     string        `envconfig:"VAREJO_REDIS_PASSWORD"`
	DB           int           `envconfig:"VAREJO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VAREJO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VAREJO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VAREJO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VAREJO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VAREJO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VAREJO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VAREJO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VAREJO_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"VAREJO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type CartConfig struct {
	// MaxItemQuantity caps the quantity accepted per cart line.
	MaxItemQuantity int `envconfig:"VAREJO_CART_MAX_ITEM_QUANTITY" default:"100"`
}

type CheckoutConfig struct {
	// DefaultMinOrderValue applies when a wholesaler has no configured minimum.
	DefaultMinOrderValue string `envconfig:"VAREJO_CHECKOUT_DEFAULT_MIN_ORDER" default:"150.00"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
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
