package main

import (
	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction (up, down, step-up, drop or status) is required")
	}

	direction, err := helper.ParseDirection(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid migration direction")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	if err := helper.Migrate(cfg, direction); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
