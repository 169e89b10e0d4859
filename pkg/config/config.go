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
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Eventing      EventingConfig
	BigQuery      BigQueryConfig
	Twilio        TwilioConfig
	OpenAI        OpenAIConfig
	Notify        NotifyConfig
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
	Env          string `envconfig:"SOOQFRESH_APP_ENV" required:"true"`
	Port         string `envconfig:"SOOQFRESH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOOQFRESH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOOQFRESH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SOOQFRESH_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SOOQFRESH_DB_DSN"`
	Driver string `envconfig:"SOOQFRESH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOOQFRESH_DB_HOST"`
	LegacyPort     int    `envconfig:"SOOQFRESH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOOQFRESH_DB_USER"`
	LegacyPassword string `envconfig:"SOOQFRESH_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOOQFRESH_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOOQFRESH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOOQFRESH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOOQFRESH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOOQFRESH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOOQFRESH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is sqlite (local dev / tests).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"SOOQFRESH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SOOQFRESH_REDIS_ADDR"`
	Password     string        `envconfig:"SOOQFRESH_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOOQFRESH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOOQFRESH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOOQFRESH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOOQFRESH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOOQFRESH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOOQFRESH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                string `envconfig:"SOOQFRESH_JWT_SECRET" required:"true"`
	Issuer                string `envconfig:"SOOQFRESH_JWT_ISSUER" required:"true"`
	ExpirationMinutes     int    `envconfig:"SOOQFRESH_JWT_EXPIRATION_MINUTES" default:"1440"`
	RefreshExpirationDays int    `envconfig:"SOOQFRESH_JWT_REFRESH_EXPIRATION_DAYS" default:"30"`
}

// TokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh session lifetime configured in days.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshExpirationDays <= 0 {
		return 0
	}
	return time.Duration(j.RefreshExpirationDays) * 24 * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOOQFRESH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOOQFRESH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOOQFRESH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOOQFRESH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOOQFRESH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SOOQFRESH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SOOQFRESH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SOOQFRESH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SOOQFRESH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SOOQFRESH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SOOQFRESH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SOOQFRESH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SOOQFRESH_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SOOQFRESH_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SOOQFRESH_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SOOQFRESH_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic           string `envconfig:"SOOQFRESH_PUBSUB_ORDERS_TOPIC" default:"sf-order-events"`
	OrdersSubscription    string `envconfig:"SOOQFRESH_PUBSUB_ORDERS_SUBSCRIPTION" default:"sf-order-events-notifier"`
	AnalyticsSubscription string `envconfig:"SOOQFRESH_PUBSUB_ANALYTICS_SUBSCRIPTION" default:"sf-order-events-analytics"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SOOQFRESH_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SOOQFRESH_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SOOQFRESH_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// EventingConfig bounds how long consumers remember processed event IDs.
type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"SOOQFRESH_OUTBOX_IDEMPOTENCY_TTL" default:"72h"`
}

type BigQueryConfig struct {
	Dataset                string `envconfig:"SOOQFRESH_BIGQUERY_DATASET" default:"sooqfresh_analytics"`
	MarketplaceEventsTable string `envconfig:"SOOQFRESH_BIGQUERY_MARKETPLACE_EVENTS_TABLE" default:"marketplace_events"`
}

type TwilioConfig struct {
	AccountSID     string `envconfig:"SOOQFRESH_TWILIO_ACCOUNT_SID"`
	AuthToken      string `envconfig:"SOOQFRESH_TWILIO_AUTH_TOKEN"`
	SMSFromNumber  string `envconfig:"SOOQFRESH_TWILIO_PHONE_NUMBER"`
	WhatsAppNumber string `envconfig:"SOOQFRESH_TWILIO_WHATSAPP_NUMBER"`
	BaseURL        string `envconfig:"SOOQFRESH_TWILIO_BASE_URL" default:"https://api.twilio.com"`
}

// Configured reports whether SMS dispatch credentials are present.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.SMSFromNumber != ""
}

type OpenAIConfig struct {
	APIKey string `envconfig:"SOOQFRESH_OPENAI_API_KEY"`
	Model  string `envconfig:"SOOQFRESH_OPENAI_VISION_MODEL" default:"gpt-4o"`
}

type NotifyConfig struct {
	SendTimeout time.Duration `envconfig:"SOOQFRESH_NOTIFY_SEND_TIMEOUT" default:"10s"`
	MaxRetries  int           `envconfig:"SOOQFRESH_NOTIFY_MAX_RETRIES" default:"3"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file::memory:?cache=shared"
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
