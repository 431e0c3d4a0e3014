package logger_test

import (
	"bytes"
	"errors"
	"hotel/config"
	"hotel/shared/constant"
	"hotel/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func restoreLogger(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestInitLogger(t *testing.T) {
	restoreLogger(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	restoreLogger(t)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("room 101 vanished"))

	assert.Contains(t, buf.String(), "room 101 vanished")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		logLevel string
		want     zerolog.Level
	}{
		{logLevel: "trace", want: zerolog.TraceLevel},
		{logLevel: "debug", want: zerolog.DebugLevel},
		{logLevel: "info", want: zerolog.InfoLevel},
		{logLevel: "warn", want: zerolog.WarnLevel},
		{logLevel: "error", want: zerolog.ErrorLevel},
		{logLevel: "disabled", want: zerolog.Disabled},
		{logLevel: "verbose", want: zerolog.TraceLevel},
		{logLevel: "", want: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.logLevel, func(t *testing.T) {
			restoreLogger(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.logLevel
			cfg.Server.Env = constant.ServerEnvDevelopment

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestSetLogLevel_Production(t *testing.T) {
	restoreLogger(t)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	cfg := &config.Config{}
	cfg.Server.LogLevel = "info"
	cfg.Server.Env = constant.ServerEnvProduction
	cfg.App.Name = "hotel"

	logger.SetLogLevel(cfg)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Empty(t, buf.String(), "production switches output away from the previous writer")
}
