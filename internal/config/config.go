package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB       DBConfig
	Server   ServerConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Identity IdentityConfig
	Deletion DeletionConfig
	Cache    CacheConfig
	Sentry   SentryConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// IdentityConfig configures the external identity provider. Tokens are verified
// against JWKSURL when set, otherwise against HMACSecret (local development).
type IdentityConfig struct {
	Issuer            string
	Audience          string
	JWKSURL           string
	HMACSecret        string
	AdminBaseURL      string
	TokenURL          string
	ClientID          string
	ClientSecret      string
	RequestsPerSecond float64
}

type DeletionConfig struct {
	GracePeriod      time.Duration
	SweepInterval    time.Duration
	SweepConcurrency int
	SweepLockTTL     time.Duration
	OutboxBatchSize  int
}

type CacheConfig struct {
	ProfileTTL time.Duration
}

type SentryConfig struct {
	DSN         string
	Environment string
}

func setDefaults() {
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("db.max_open_conns", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("identity.requests_per_second", 10)
	viper.SetDefault("deletion.grace_period", "168h")
	viper.SetDefault("deletion.sweep_interval", "5m")
	viper.SetDefault("deletion.sweep_concurrency", 4)
	viper.SetDefault("deletion.sweep_lock_ttl", "4m")
	viper.SetDefault("deletion.outbox_batch_size", 50)
	viper.SetDefault("cache.profile_ttl", "10m")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		DB: DBConfig{
			Host:         viper.GetString("db.host"),
			Port:         viper.GetInt("db.port"),
			User:         viper.GetString("db.user"),
			Password:     viper.GetString("db.password"),
			DBName:       viper.GetString("db.name"),
			SSLMode:      viper.GetString("db.sslmode"),
			MaxOpenConns: viper.GetInt("db.max_open_conns"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Identity: IdentityConfig{
			Issuer:            viper.GetString("identity.issuer"),
			Audience:          viper.GetString("identity.audience"),
			JWKSURL:           viper.GetString("identity.jwks_url"),
			HMACSecret:        viper.GetString("identity.hmac_secret"),
			AdminBaseURL:      viper.GetString("identity.admin_base_url"),
			TokenURL:          viper.GetString("identity.token_url"),
			ClientID:          viper.GetString("identity.client_id"),
			ClientSecret:      viper.GetString("identity.client_secret"),
			RequestsPerSecond: viper.GetFloat64("identity.requests_per_second"),
		},
		Deletion: DeletionConfig{
			GracePeriod:      viper.GetDuration("deletion.grace_period"),
			SweepInterval:    viper.GetDuration("deletion.sweep_interval"),
			SweepConcurrency: viper.GetInt("deletion.sweep_concurrency"),
			SweepLockTTL:     viper.GetDuration("deletion.sweep_lock_ttl"),
			OutboxBatchSize:  viper.GetInt("deletion.outbox_batch_size"),
		},
		Cache: CacheConfig{
			ProfileTTL: viper.GetDuration("cache.profile_ttl"),
		},
		Sentry: SentryConfig{
			DSN:         viper.GetString("sentry.dsn"),
			Environment: viper.GetString("sentry.environment"),
		},
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("IDENTITY_CLIENT_SECRET"); secret != "" {
		config.Identity.ClientSecret = secret
	}
	if secret := os.Getenv("IDENTITY_HMAC_SECRET"); secret != "" {
		config.Identity.HMACSecret = secret
	}
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		config.Sentry.DSN = dsn
	}

	if config.Deletion.GracePeriod <= 0 {
		return nil, fmt.Errorf("deletion.grace_period must be positive, got %s", config.Deletion.GracePeriod)
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection URL used by both sqlx and migrate.
func (c *Config) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.DBName,
		RawQuery: "sslmode=" + c.DB.SSLMode,
	}
	return u.String()
}
