//go:build wireinject
// +build wireinject

package di

import (
	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/infras/redis"
	"hotel/infras/s3"
	"hotel/permissions"
	"hotel/shared/cache"
	"hotel/transport/http"
	"hotel/transport/http/middleware"
	"hotel/transport/http/router"

	bookingConsumer "hotel/internal/consumers/booking"

	authService "hotel/internal/domains/auth/service"
	authHandler "hotel/internal/handlers/auth"

	staffRepository "hotel/internal/domains/staff/repository"
	staffService "hotel/internal/domains/staff/service"
	staffHandler "hotel/internal/handlers/staff"

	customerRepository "hotel/internal/domains/customer/repository"
	customerService "hotel/internal/domains/customer/service"
	customerHandler "hotel/internal/handlers/customer"

	roomRepository "hotel/internal/domains/room/repository"
	roomService "hotel/internal/domains/room/service"
	roomHandler "hotel/internal/handlers/room"

	bookingRepository "hotel/internal/domains/booking/repository"
	bookingService "hotel/internal/domains/booking/service"
	bookingHandler "hotel/internal/handlers/booking"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
)

var events = wire.NewSet(
	NewBroker,
	NewPublisher,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var staffDomain = wire.NewSet(
	staffRepository.New,
	staffService.New,
	authService.New,
)

var customerDomain = wire.NewSet(
	customerRepository.New,
	customerService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	staffDomain,
	customerDomain,
	roomDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	staffHandler.New,
	customerHandler.New,
	roomHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		events,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() (*Worker, error) {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		events,
		NewSubscriber,
		sharedHelpers,
		customerRepository.New,
		roomRepository.New,
		bookingDomain,
		bookingConsumer.New,
		wire.Struct(new(Worker), "*"),
	)

	return &Worker{}, nil
}
