package db

import (
	"context"
	"testing"

	"labstock/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo opens a throwaway in-memory database per test. A single
// connection keeps :memory: from vanishing between queries.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, Migrate(gdb))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewRepo(gdb)
}

func mustUser(t *testing.T, r *Repo, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func countRows(t *testing.T, r *Repo, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	tx := r.DB.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&n).Error)
	return n
}
