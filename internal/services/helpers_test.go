package services

import (
	"path/filepath"
	"testing"

	"github.com/serviceloop/marketplace-backend/internal/identity"
	"github.com/serviceloop/marketplace-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.ProviderProfile{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func testClaims(uid string) *identity.Claims {
	return &identity.Claims{
		UID:            uid,
		Email:          uid + "@example.com",
		EmailVerified:  true,
		Name:           "Jane Doe",
		Picture:        "https://example.com/jane.png",
		Issuer:         "https://securetoken.google.com/test-project",
		SignInProvider: "google.com",
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
