package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Admin        AdminConfig
	Password     PasswordConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	Search       SearchConfig
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
	Env          string   `envconfig:"ESSENCIA_APP_ENV" required:"true"`
	Port         string   `envconfig:"ESSENCIA_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"ESSENCIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"ESSENCIA_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"ESSENCIA_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ESSENCIA_DB_DSN"`
	Driver string `envconfig:"ESSENCIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ESSENCIA_DB_HOST"`
	LegacyPort     int    `envconfig:"ESSENCIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ESSENCIA_DB_USER"`
	LegacyPassword string `envconfig:"ESSENCIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"ESSENCIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"ESSENCIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ESSENCIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ESSENCIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ESSENCIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ESSENCIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ESSENCIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ESSENCIA_REDIS_ADDR"`
	Password     string        `envconfig:"ESSENCIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"ESSENCIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ESSENCIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ESSENCIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ESSENCIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ESSENCIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ESSENCIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ESSENCIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ESSENCIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ESSENCIA_JWT_EXPIRATION_MINUTES" default:"120"`
}

// AdminConfig holds the single admin credential used by the panel login.
type AdminConfig struct {
	Email        string `envconfig:"ESSENCIA_ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"ESSENCIA_ADMIN_PASSWORD_HASH" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ESSENCIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ESSENCIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ESSENCIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ESSENCIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ESSENCIA_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"ESSENCIA_CART_TTL" default:"720h"`
}

type CheckoutConfig struct {
	DeliveryFee  string        `envconfig:"ESSENCIA_CHECKOUT_DELIVERY_FEE" default:"15.00"`
	PaymentDelay time.Duration `envconfig:"ESSENCIA_CHECKOUT_PAYMENT_DELAY" default:"2s"`
	SessionTTL   time.Duration `envconfig:"ESSENCIA_CHECKOUT_SESSION_TTL" default:"2h"`
}

// DeliveryFeeAmount parses the configured flat delivery fee.
func (c CheckoutConfig) DeliveryFeeAmount() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(c.DeliveryFee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing delivery fee %q: %w", c.DeliveryFee, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("delivery fee cannot be negative")
	}
	return fee, nil
}

type SearchConfig struct {
	MinQueryLen int `envconfig:"ESSENCIA_SEARCH_MIN_QUERY_LEN" default:"2"`
	MaxResults  int `envconfig:"ESSENCIA_SEARCH_MAX_RESULTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ESSENCIA_AUTO_MIGRATE" default:"false"`
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
