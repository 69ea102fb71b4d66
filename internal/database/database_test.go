package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uniqueThing struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

func TestIsUniqueViolationSQLite(t *testing.T) {
	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &uniqueThing{}))

	require.NoError(t, db.Create(&uniqueThing{Code: "A"}).Error)
	err = db.Create(&uniqueThing{Code: "A"}).Error

	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolationPostgres(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})
	assert.True(t, IsUniqueViolation(err))

	other := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.False(t, IsUniqueViolation(other))
}

func TestIsUniqueViolationGorm(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}

func TestUniqueConstraint(t *testing.T) {
	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &uniqueThing{}))

	require.NoError(t, db.Create(&uniqueThing{Code: "A"}).Error)
	err = db.Create(&uniqueThing{Code: "A"}).Error
	assert.Contains(t, UniqueConstraint(err), "unique_things.code")

	pg := fmt.Errorf("update: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_clients_email_active"})
	assert.Equal(t, "idx_clients_email_active", UniqueConstraint(pg))

	assert.Empty(t, UniqueConstraint(gorm.ErrDuplicatedKey))
	assert.Empty(t, UniqueConstraint(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "fk_orders_client"}))
	assert.Empty(t, UniqueConstraint(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: pgerrcode.SerializationFailure}))
	assert.False(t, IsRetryable(errors.New("boom")))
}
