package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const envFile = ".env"

// Postgres is one side of the read/write database split.
type Postgres struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
}

// RateLimiter admits MaxRequests per client in every WindowSeconds window.
type RateLimiter struct {
	Enable        bool `envconfig:"ENABLE"`
	MaxRequests   int  `envconfig:"MAX_REQUESTS" default:"100"`
	WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
}

type Redis struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV" default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Host     string `envconfig:"HOST"`
		Port     string `envconfig:"PORT" default:"8080"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name        string      `envconfig:"APP_NAME" default:"hotel"`
		Timezone    string      `envconfig:"TIMEZONE"`
		APIKey      string      `envconfig:"API_KEY"`
		Swagger     bool        `envconfig:"SWAGGER" default:"true"`
		CORS        CORS        `envconfig:"CORS"`
		RateLimiter RateLimiter `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Cache struct {
		// TTL is in seconds.
		TTL   int `envconfig:"TTL" default:"300"`
		Redis struct {
			Primary Redis `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN" default:"15"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"1440"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			Prefix         string   `envconfig:"PREFIX"`
			MigrationTable string   `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool     `envconfig:"AUTO_MIGRATE"`
			MaxRetry       int      `envconfig:"MAX_RETRY" default:"3"`
			RetryWaitTime  int      `envconfig:"RETRY_WAIT_TIME" default:"2"`
			Read           Postgres `envconfig:"READ"`
			Write          Postgres `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"hotel"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	RabbitMQ struct {
		URL      string `envconfig:"URL"`
		Prefetch int    `envconfig:"PREFETCH" default:"10"`
	} `envconfig:"RABBITMQ"`

	Event struct {
		// Broker selects the event transport: kafka, rabbitmq or empty to disable publishing.
		Broker       string `envconfig:"BROKER"`
		BookingTopic string `envconfig:"BOOKING_TOPIC" default:"hotel.booking"`
	} `envconfig:"EVENT"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf    Config
	once    sync.Once
	initErr error
)

// Load reads the environment, after merging envFile into it when the file
// exists. Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	var cfg Config

	if loadErr := godotenv.Load(envFile); loadErr != nil {
		if !errors.Is(loadErr, fs.ErrNotExist) {
			return cfg, fmt.Errorf("loading %s: %w", envFile, loadErr)
		}

		log.Warn().Str("file", envFile).Msg("No env file found, using the process environment only")
	}

	if processErr := envconfig.Process("", &cfg); processErr != nil {
		return cfg, fmt.Errorf("processing configuration: %w", processErr)
	}

	return cfg, nil
}

// Init loads the process-wide configuration once.
func Init() error {
	once.Do(func() {
		conf, initErr = Load(envFile)
		if initErr == nil {
			log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
		}
	})

	return initErr
}

func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return &conf
}
