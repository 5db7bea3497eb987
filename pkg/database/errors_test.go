package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code, constraint string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"lock timeout", pgError(pgerrcode.LockNotAvailable, ""), true},
		{"serialization failure", pgError(pgerrcode.SerializationFailure, ""), true},
		{"deadlock", pgError(pgerrcode.DeadlockDetected, ""), true},
		{"statement timeout", pgError(pgerrcode.QueryCanceled, ""), true},
		{"context deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"unique violation", pgError(pgerrcode.UniqueViolation, "reservations_confirmation_code_key"), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := pgError(pgerrcode.UniqueViolation, "reservations_confirmation_code_key")

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "reservations_confirmation_code_key"))
	assert.False(t, IsUniqueViolation(err, "users_email_key"))
	assert.False(t, IsUniqueViolation(pgError(pgerrcode.CheckViolation, ""), ""))
}

func TestIsCheckViolation(t *testing.T) {
	err := pgError(pgerrcode.CheckViolation, "showtimes_booked_seats_check")

	assert.True(t, IsCheckViolation(err, "showtimes_booked_seats_check"))
	assert.False(t, IsCheckViolation(err, "other"))
	assert.False(t, IsCheckViolation(errors.New("boom"), ""))
}
