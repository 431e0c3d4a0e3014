package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"hotel/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  CreatePostgresReadConn(*config),
		Write: CreatePostgresWriteConn(*config),
	}
}

// WithTx runs fn inside a write transaction, committing when fn returns nil
// and rolling back otherwise.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Endpoint is one side of the read/write split.
type Endpoint struct {
	Name     string
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	SSLMode  string
}

func dbName(config config.Config, baseName string) string {
	return config.DB.Postgres.Prefix + baseName
}

func WriteEndpoint(config config.Config) Endpoint {
	write := config.DB.Postgres.Write

	return Endpoint{
		Name:     "write",
		Host:     write.Host,
		Port:     write.Port,
		Username: write.Username,
		Password: write.Password,
		DBName:   dbName(config, write.Name),
		SSLMode:  write.SSLMode,
	}
}

func ReadEndpoint(config config.Config) Endpoint {
	read := config.DB.Postgres.Read

	return Endpoint{
		Name:     "read",
		Host:     read.Host,
		Port:     read.Port,
		Username: read.Username,
		Password: read.Password,
		DBName:   dbName(config, read.Name),
		SSLMode:  read.SSLMode,
	}
}

// DSN renders the endpoint as a postgres url with credentials escaped. extra
// query parameters are appended as given.
func (e Endpoint) DSN(extra url.Values) string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     e.DBName,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	return Connect(WriteEndpoint(config), config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
}

func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	return Connect(ReadEndpoint(config), config.DB.Postgres.MaxRetry, config.DB.Postgres.RetryWaitTime)
}

// Connect retries maxRetry times, waitSeconds apart, and exits the process when
// the database stays unreachable.
func Connect(endpoint Endpoint, maxRetry, waitSeconds int) *sqlx.DB {
	logger := log.With().
		Str("name", endpoint.Name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", endpoint.DBName).
		Logger()

	for attempt := 1; attempt <= max(maxRetry, 1); attempt++ {
		sqlDB, err := sqlx.Connect("postgres", endpoint.DSN(nil))
		if err == nil {
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			logger.Info().Msg("Connected to database")

			return sqlDB
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Msg("Giving up connecting to database")

	return nil
}
