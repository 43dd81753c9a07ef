package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, InitTables(db))

	return db
}

func exerciseSessionDAO(t *testing.T, d *SessionDAO) {
	ctx := context.Background()

	_, err := d.FindByID(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	inserted, err := d.Insert(ctx, Session{ID: "sid-1", Sealed: []byte("v1")})
	require.NoError(t, err)
	assert.Equal(t, "sid-1", inserted.ID)

	_, err = d.Insert(ctx, Session{ID: "sid-1", Sealed: []byte("v2")})
	assert.ErrorIs(t, err, ErrSessionExists)

	updated, err := d.Update(ctx, Session{ID: "sid-1", Sealed: []byte("v2")})
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), updated.Sealed)

	_, err = d.Update(ctx, Session{ID: "missing", Sealed: []byte("v")})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, d.Delete(ctx, "sid-1"))
	_, err = d.FindByID(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionDAO_SQLite(t *testing.T) {
	exerciseSessionDAO(t, NewSessionDAO(openSQLite(t)))
}
