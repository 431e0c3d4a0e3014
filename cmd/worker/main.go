package main

import (
	"context"
	"hotel/config"
	"hotel/di"
	"hotel/shared/logger"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	worker, err := di.InitializeWorker()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize booking worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.Consumer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Booking worker stopped with an error")
	}

	if err := worker.Broker.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close event broker")
	}

	log.Info().Msg("Booking worker shut down.")
}
