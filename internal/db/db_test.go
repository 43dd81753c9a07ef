package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mecalink/admin-gateway/internal/config"
	"github.com/mecalink/admin-gateway/internal/repository/dao"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(&config.AppConfig{
		Database: &config.DatabaseConfig{Driver: config.DriverSQLite},
		SQLite:   &config.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	assert.True(t, db.Migrator().HasTable(&dao.Session{}))
}
