package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verifier/internal/platform/config"
)

func TestNewWithoutURL(t *testing.T) {
	pool, err := New(config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Nil(t, pool)
}

func TestPoolHealth(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	pool := newPool(db, config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: time.Minute})
	assert.Equal(t, 4, pool.Stats().MaxOpenConnections)

	mock.ExpectPing()
	require.NoError(t, pool.Health(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	require.Error(t, pool.Health(context.Background()))

	mock.ExpectClose()
	require.NoError(t, pool.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNilPool(t *testing.T) {
	var pool *Pool
	assert.Error(t, pool.Health(context.Background()))
	assert.NoError(t, pool.Close())
	assert.Equal(t, 0, pool.Stats().OpenConnections)
}
