package helper_test

import (
	"hotel/config"
	"hotel/helper"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	for _, value := range []string{"up", "down", "step-up", "drop", "status"} {
		direction, err := helper.ParseDirection(value)

		assert.NoError(t, err)
		assert.Equal(t, helper.Direction(value), direction)
	}

	_, err := helper.ParseDirection("sideways")
	assert.ErrorIs(t, err, helper.ErrUnknownDirection)
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Write.Username = "hotel"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "bookings"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	assert.Equal(t, "postgres://hotel:p%40ss%2Fword@db:5432/bookings?sslmode=disable", helper.DSN(cfg))

	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations_hotel"

	assert.Equal(t,
		"postgres://hotel:p%40ss%2Fword@db:5432/test_bookings?sslmode=disable&x-migrations-table=schema_migrations_hotel",
		helper.DSN(cfg),
	)
}
