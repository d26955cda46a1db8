/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongodb

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/suparena/gridstore/errors"
)

func TestWrapError(t *testing.T) {
	err := wrapError("get tuple", mongo.CommandError{Code: 13, Message: "not authorized"})
	var se *errors.StorageError
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, "13", se.Status)
	assert.Equal(t, "not authorized", se.Reason)
	assert.Equal(t, "get tuple", se.Operation)

	err = wrapError("bulk write", mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{{WriteError: mongo.WriteError{Index: 2, Code: 10334, Message: "too large"}}},
	})
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, "10334", se.Status)

	assert.Nil(t, wrapError("noop", nil))
}

func TestAuthenticationErrors(t *testing.T) {
	authErr := mongo.CommandError{Code: authenticationFailed, Message: "Authentication failed."}
	assert.True(t, isAuthenticationError(authErr))
	assert.True(t, errors.IsAuthenticationError(wrapError("ping", authErr)))
	assert.False(t, isAuthenticationError(stderrors.New("connection refused")))
}

func TestFailedModel(t *testing.T) {
	err := mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{{WriteError: mongo.WriteError{Index: 3}}},
	}
	assert.Equal(t, 3, failedModel(err))
	assert.Equal(t, 0, failedModel(stderrors.New("network")))
}

func TestProviderNotStarted(t *testing.T) {
	p := NewProvider(ProviderConfig{Database: "gridstore"})
	d := NewDialect(p)

	_, err := d.GetTuple(context.Background(), person("p1"))
	assert.True(t, errors.IsStorageError(err))
	assert.Contains(t, err.Error(), "provider not started")
	assert.NoError(t, p.Stop(context.Background()), "stopping a stopped provider is a no-op")
}

func TestProviderRequiresDatabase(t *testing.T) {
	err := NewProvider(ProviderConfig{}).Start(context.Background())
	assert.True(t, errors.IsValidationError(err))
}

func TestProviderConfigDefaults(t *testing.T) {
	cfg := ProviderConfig{}
	assert.Equal(t, "mongodb://localhost:27017", cfg.uri())
	assert.Equal(t, DefaultConnectTimeout, cfg.timeout())

	opts := NewProvider(ProviderConfig{Host: "db", Port: 27018, Username: "u", Password: "p", Database: "d"}).clientOptions()
	require.NotNil(t, opts.Auth)
	assert.Equal(t, "admin", opts.Auth.AuthSource)
	assert.Equal(t, "u", opts.Auth.Username)
}
