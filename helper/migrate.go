package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"hotel/config"
	"hotel/infras/postgres"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStepUp Direction = "step-up"
	DirectionDrop   Direction = "drop"
	DirectionStatus Direction = "status"

	sourceURL = "file://migrations/postgres"
)

var ErrUnknownDirection = errors.New("invalid direction, use up, down, step-up, drop or status")

func ParseDirection(value string) (Direction, error) {
	switch direction := Direction(value); direction {
	case DirectionUp, DirectionDown, DirectionStepUp, DirectionDrop, DirectionStatus:
		return direction, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, value)
	}
}

// DSN builds the write database url golang-migrate connects with.
func DSN(config *config.Config) string {
	extra := url.Values{}
	if config.DB.Postgres.MigrationTable != "" {
		extra.Set("x-migrations-table", config.DB.Postgres.MigrationTable)
	}

	return postgres.WriteEndpoint(*config).DSN(extra)
}

// Migrate applies direction to the schema in migrations/postgres.
func Migrate(config *config.Config, direction Direction) error {
	mig, err := migrate.New(sourceURL, DSN(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer func() {
		sourceErr, dbErr := mig.Close()
		if sourceErr != nil || dbErr != nil {
			log.Error().AnErr("source", sourceErr).AnErr("database", dbErr).Msg("Failed to close migrate instance")
		}
	}()

	switch direction {
	case DirectionUp:
		err = mig.Up()
	case DirectionStepUp:
		err = mig.Steps(1)
	case DirectionDown:
		err = mig.Steps(-1)
	case DirectionDrop:
		err = mig.Down()
	case DirectionStatus:
		return logVersion(mig)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migrations: %w", direction, err)
	}

	log.Info().Str("direction", string(direction)).Msg("Database migrations completed successfully")

	return logVersion(mig)
}

func logVersion(mig *migrate.Migrate) error {
	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Msg("Database has no migrations applied")

		return nil
	}

	if err != nil {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database schema version")

	return nil
}
