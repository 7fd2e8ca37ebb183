package database

import (
	"snaplearn_backend/internal/config"
	"snaplearn_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMigratesModels(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	for _, m := range Models {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}

	u := &model.User{Name: "a", Email: "a@example.com", Password: "x", Role: model.Student}
	require.NoError(t, db.Create(u).Error)
	dup := &model.User{Name: "b", Email: "a@example.com", Password: "x"}
	assert.Error(t, db.Create(dup).Error, "email is unique")
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}
