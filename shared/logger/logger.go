package logger

import (
	"hotel/config"
	"hotel/shared/constant"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a human readable logger at trace level. SetLogLevel
// narrows it once the configuration is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339

	setOutput(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Trace().Msg("Zerolog initialized.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL, falling back to trace when it is unset or
// invalid. Outside development every line is JSON tagged with the app name.
func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.TraceLevel
	}

	if config.Server.Env == constant.ServerEnvProduction {
		setOutput(os.Stdout, config.App.Name)
	}

	zerolog.SetGlobalLevel(level)

	log.Debug().Str("loglevel", level.String()).Str("env", config.Server.Env).Msg("Log level configured.")
}

func setOutput(out io.Writer, app ...string) {
	builder := zerolog.New(out).With().Timestamp()
	if len(app) > 0 && app[0] != "" {
		builder = builder.Str("app", app[0])
	}

	log.Logger = builder.Logger()
}
