package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, StatusInternalServerError},
		{"invalid request", NewInvalidRequestError("bad", nil), StatusBadRequest},
		{"rate limited", NewRateLimitExceededError("slow down", nil), StatusTooManyRequests},
		{"store unavailable", NewStoreUnavailableError("down", errors.New("sheets 503")), StatusInternalServerError},
		{"service unavailable", NewServiceUnavailableError("closed", nil), StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("ctx: %w", NewUnauthorizedError("nope", nil)), StatusUnauthorized},
		{"plain", errors.New("boom"), StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestGetHumanReadableMessage_HidesInternalCause(t *testing.T) {
	err := NewStoreUnavailableError("Something went wrong", errors.New("invalid_grant: private key rejected"))

	assert.Equal(t, "Something went wrong", GetHumanReadableMessage(err))
	assert.Equal(t, "An unexpected error occurred", GetHumanReadableMessage(errors.New("pq: relation missing")))
	assert.ErrorContains(t, err, "invalid_grant")
}
