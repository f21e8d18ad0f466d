package services

import (
	"testing"

	"github.com/aokihara/unitrack/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database with the domain schema
// migrated. Pool size is pinned to one connection so every query sees the
// same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Tag{},
		&model.CourseTag{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := model.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Name:         "Test User",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
