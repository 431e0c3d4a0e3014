package main

import (
	"hotel/config"
	"hotel/di"
	"hotel/helper"
	"hotel/shared/logger"

	"github.com/rs/zerolog/log"
)

//go:generate swag init -g main.go -d ./,../../internal/handlers,../../transport/http/response -o ../../docs --outputTypes json --parseDependency

// @title Hotel Booking API
// @version 1.0
// @description Customers, rooms and bookings for the front desk.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Migrate(cfg, helper.DirectionUp); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database on boot")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
