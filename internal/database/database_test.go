package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRollback_RequiresRootPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		rootPass string
	}{
		{name: "wrong password", password: "guess", rootPass: "secret"},
		{name: "empty password", password: "", rootPass: "secret"},
		{name: "root password not configured", password: "", rootPass: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// nil db is never touched when the password check fails
			err := Rollback(nil, "file://migrations", tt.password, tt.rootPass, zap.NewNop())
			assert.ErrorIs(t, err, ErrWrongPassword)
		})
	}
}

func TestConnect_GivesUpWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{Attempts: 3, Delay: time.Hour}
	db, err := Connect(ctx, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", policy, zap.NewNop())

	assert.Nil(t, db)
	assert.Error(t, err)
}
