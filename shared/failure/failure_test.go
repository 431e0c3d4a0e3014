package failure_test

import (
	"errors"
	"fmt"
	"hotel/shared/failure"
	"net/http"
	"testing"
)

func TestDomainFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		kind    string
	}{
		{
			name:    "ResourceNotFound",
			failure: failure.ResourceNotFound,
			code:    http.StatusNotFound,
			kind:    failure.KindResourceNotFound,
		},
		{
			name:    "RoomNotAvailable",
			failure: failure.RoomNotAvailable,
			code:    http.StatusBadRequest,
			kind:    failure.KindRoomNotAvailable,
		},
		{
			name:    "ChildrenNotAccompaniedByAdult",
			failure: failure.ChildrenNotAccompaniedByAdult,
			code:    http.StatusBadRequest,
			kind:    failure.KindChildrenNotAccompaniedByAdult,
		},
		{
			name:    "AdvancePaymentNotDone",
			failure: failure.AdvancePaymentNotDone,
			code:    http.StatusBadRequest,
			kind:    failure.KindAdvancePaymentNotDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, tt.failure.Code)
			}

			if tt.failure.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, tt.failure.Kind)
			}

			wrapped := fmt.Errorf("create booking: %w", tt.failure)
			if !errors.Is(wrapped, tt.failure) {
				t.Errorf("expected wrapped error to match %s", tt.name)
			}

			if failure.GetKind(wrapped) != tt.kind {
				t.Errorf("expected GetKind %s, got %s", tt.kind, failure.GetKind(wrapped))
			}
		})
	}
}

func TestFailure_IsDistinguishesKinds(t *testing.T) {
	kinds := []*failure.Failure{
		failure.ResourceNotFound,
		failure.RoomNotAvailable,
		failure.ChildrenNotAccompaniedByAdult,
		failure.AdvancePaymentNotDone,
	}

	for i, a := range kinds {
		for j, b := range kinds {
			if got := errors.Is(a, b); got != (i == j) {
				t.Errorf("errors.Is(%s, %s) = %v", a.Kind, b.Kind, got)
			}
		}
	}

	if errors.Is(failure.BadRequestFromString("x"), failure.RoomNotAvailable) {
		t.Error("plain bad request must not match a kinded failure")
	}

	if errors.Is(failure.RoomNotAvailable, failure.BadRequestFromString("x")) {
		t.Error("kinded failure must not match a failure without kind")
	}
}

func TestNotFound(t *testing.T) {
	err := failure.NotFoundf("Customer details not found with id: %d", 7)

	if !errors.Is(err, failure.ResourceNotFound) {
		t.Fatal("expected NotFoundf to be a ResourceNotFound")
	}

	if err.Error() != "Customer details not found with id: 7" {
		t.Errorf("unexpected message %q", err.Error())
	}

	if failure.GetCode(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %d", failure.GetCode(err))
	}
}

func TestBadRequest(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for nil input")
	}

	err := failure.BadRequest(errors.New("validation failed"))

	var f *failure.Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *failure.Failure, got %T", err)
	}

	if f.Code != http.StatusBadRequest || f.Message != "validation failed" || f.Kind != "" {
		t.Errorf("unexpected failure %+v", f)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "BadRequestFromString", err: failure.BadRequestFromString("bad"), code: http.StatusBadRequest, message: "bad"},
		{name: "Unauthorized", err: failure.Unauthorized("token expired"), code: http.StatusUnauthorized, message: "token expired"},
		{name: "New", err: failure.New(http.StatusServiceUnavailable, "draining"), code: http.StatusServiceUnavailable, message: "draining"},
		{name: "ForbiddenError", err: failure.ForbiddenError, code: http.StatusForbidden, message: "You don't have the required permissions"},
		{name: "Conflict", err: failure.Conflict("contact number already registered"), code: http.StatusConflict, message: "contact number already registered"},
		{name: "Forbidden", err: failure.Forbidden("Access denied"), code: http.StatusForbidden, message: "Access denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if failure.GetCode(tt.err) != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, failure.GetCode(tt.err))
			}

			if tt.err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, tt.err.Error())
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{name: "failure", input: failure.RoomNotAvailable, expected: http.StatusBadRequest},
		{name: "wrapped failure", input: fmt.Errorf("outer: %w", failure.NotFound("gone")), expected: http.StatusNotFound},
		{name: "regular error", input: errors.New("regular error"), expected: http.StatusInternalServerError},
		{name: "nil error", input: nil, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.input); got != tt.expected {
				t.Errorf("expected code %d, got %d", tt.expected, got)
			}
		})
	}
}
