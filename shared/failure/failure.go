package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is an error that carries the HTTP status it should be answered with.
// Kind is set for failures that callers are expected to discriminate on.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

const (
	KindResourceNotFound              = "RESOURCE_NOT_FOUND"
	KindRoomNotAvailable              = "ROOM_NOT_AVAILABLE"
	KindChildrenNotAccompaniedByAdult = "CHILDREN_NOT_ACCOMPANIED_BY_ADULT"
	KindAdvancePaymentNotDone         = "ADVANCE_PAYMENT_NOT_DONE"
)

var ForbiddenError = New(http.StatusForbidden, "You don't have the required permissions")

// Sentinels for errors.Is. Only Kind is compared, so a NotFound carrying a specific
// message still matches ResourceNotFound.
var (
	ResourceNotFound = kinded(http.StatusNotFound, KindResourceNotFound,
		"resource not found")
	RoomNotAvailable = kinded(http.StatusBadRequest, KindRoomNotAvailable,
		"All rooms selected are currently not available")
	ChildrenNotAccompaniedByAdult = kinded(http.StatusBadRequest, KindChildrenNotAccompaniedByAdult,
		"At least one adult must be present with children")
	AdvancePaymentNotDone = kinded(http.StatusBadRequest, KindAdvancePaymentNotDone,
		"For number of rooms more than 3, at least 50% payment must be done")
)

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func kinded(code int, kind, message string) *Failure {
	return &Failure{Code: code, Kind: kind, Message: message}
}

func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target is a Failure of the same kind.
func (e *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok || t.Kind == "" {
		return false
	}

	return e.Kind == t.Kind
}

// BadRequest turns err into a 400 keeping its message. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// NotFound returns a ResourceNotFound failure with the given message.
func NotFound(msg string) error {
	return kinded(http.StatusNotFound, KindResourceNotFound, msg)
}

func NotFoundf(format string, args ...any) error {
	return NotFound(fmt.Sprintf(format, args...))
}

// GetCode returns the code of the first Failure in the chain, 500 otherwise.
func GetCode(err error) int {
	if fail, ok := first(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of the first Failure in the chain, or an empty string.
func GetKind(err error) string {
	if fail, ok := first(err); ok {
		return fail.Kind
	}

	return ""
}

func first(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}
