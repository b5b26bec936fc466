// Package repotest 提供基于内存 sqlite 的 Store，供各包测试使用。
package repotest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"estate-api/internal/core/database"
	"estate-api/internal/repo"
)

func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      ":memory:",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func NewStore(t testing.TB) *repo.Store { return repo.NewStore(NewDB(t)) }
