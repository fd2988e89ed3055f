// Package testutil opens throwaway databases for tests.
package testutil

import (
	"testing"

	migration "RecipeHub-Backend/cmd/database/migrate"
	"RecipeHub-Backend/entities"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database. It uses a single
// connection, so every statement inside a transaction must go through tx.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user whose password is "pw123456".
func CreateUser(t testing.TB, db *gorm.DB, username string) *entities.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &entities.User{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CategoryID looks up a seeded category by name.
func CategoryID(t testing.TB, db *gorm.DB, name string) uint {
	t.Helper()

	var category entities.Category
	if err := db.Where("name = ?", name).First(&category).Error; err != nil {
		t.Fatalf("category %s not seeded: %v", name, err)
	}
	return category.ID
}
