package response

import (
	"encoding/json"
	"hotel/infras/otel"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/logger"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Data struct {
	Data any `json:"data"`
}

// Error carries the failure kind when there is one, so clients can tell apart
// the 400s raised by booking rules.
type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data{Data: payload})
}

// WithError maps err to its failure code. Errors that are not failures are 500s
// and get logged with a stack.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorWithStack(err)
	}

	write(writer, code, Error{Error: err.Error(), Kind: failure.GetKind(err)})
}

// Fail records err on scope, logs msg with the given key/value fields and
// answers with err. Client errors are logged as warnings.
func Fail(writer http.ResponseWriter, scope otel.Scope, err error, msg string, fields ...any) {
	scope.TraceError(err)

	level := zerolog.WarnLevel
	if failure.GetCode(err) >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}

	log.WithLevel(level).Err(err).Fields(fields).Msg(msg)

	WithError(writer, err)
}

func WithNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
