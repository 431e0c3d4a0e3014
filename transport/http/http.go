package http

import (
	"context"
	"errors"
	"hotel/config"
	"hotel/docs"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"
	"hotel/transport/http/response"
	"hotel/transport/http/router"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	healthPath  = "/health"
	swaggerPath = "/swagger"
)

type HTTP struct {
	Config     *config.Config
	Router     router.Router
	Middleware middleware.AppMiddleware

	state   atomic.Int32
	once    sync.Once
	handler http.Handler
}

func New(cfg *config.Config, r router.Router, appMiddleware middleware.AppMiddleware) *HTTP {
	return &HTTP{
		Config:     cfg,
		Router:     r,
		Middleware: appMiddleware,
	}
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

// Serve listens until SIGINT or SIGTERM, then drains in-flight requests through
// the configured grace and cleanup periods before returning.
func (h *HTTP) Serve() {
	h.once.Do(h.setup)

	server := &http.Server{
		Addr:              net.JoinHostPort(h.host(), h.Config.Server.Port),
		Handler:           h.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting up HTTP server.")

		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}

		return
	case <-signals:
	}

	h.shutdown(server)
}

// ServeHTTP serves a single request, for serverless entry points.
func (h *HTTP) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	h.once.Do(h.setup)

	h.handler.ServeHTTP(writer, request)
}

func (h *HTTP) host() string {
	if h.Config.Server.Host == "" {
		return "0.0.0.0"
	}

	return h.Config.Server.Host
}

func (h *HTTP) setup() {
	mux := chi.NewRouter()

	if h.Config.App.CORS.Enable {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	mux.Use(
		chiMiddleware.Recoverer,
		h.Middleware.RequestID,
		h.Middleware.Tracing,
		h.Middleware.RateLimit(),
	)

	mux.Get(healthPath, h.health)

	if h.Config.App.Swagger {
		mux.Get(swaggerPath+"/*", httpSwagger.Handler(
			httpSwagger.URL(swaggerPath+"/doc.json"),
			httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		))
	}

	h.Router.SetupRoutes(mux)

	h.handler = mux
	h.state.Store(int32(ServerStateReady))
}

func (h *HTTP) health(writer http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(writer, http.StatusOK, "OK")
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(writer)
	default:
		response.WithUnhealthy(writer)
	}
}

func (h *HTTP) shutdown(server *http.Server) {
	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		if err := server.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close HTTP server")
		}

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not drain before the cleanup period ended")

		return
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
