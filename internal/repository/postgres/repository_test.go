package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	db := &Connection{}

	assert.Equal(t, db, NewUserRepository(db).db)
	assert.Equal(t, db, NewRefreshTokenRepository(db).db)
	assert.Equal(t, db, NewEntryRepository(db).db)
	assert.Equal(t, db, NewReflectionRepository(db).db)
	assert.Equal(t, db, NewSubscriptionRepository(db).db)
}

func TestConnection_NilPool(t *testing.T) {
	c := &Connection{}

	assert.NoError(t, c.Close())
	assert.Error(t, c.Ping(context.Background()))
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestDeref(t *testing.T) {
	s := "calm"
	now := time.Now()

	assert.Equal(t, "", deref(nil))
	assert.Equal(t, "calm", deref(&s))
	assert.True(t, derefTime(nil).IsZero())
	assert.Equal(t, now, derefTime(&now))
}
