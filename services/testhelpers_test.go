package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/db"
	"github.com/greenloophq/greenloop/models"
	"github.com/greenloophq/greenloop/services/verification"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database per test and runs
// the full migration (including the catalog seed) against it.
func newTestDB(t *testing.T) *db.GormDB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return &db.GormDB{DB: gdb}
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", Env: "test"}
}

func createTestUser(t *testing.T, gdb *db.GormDB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test User"}
	if err := gdb.DB.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

// stubVerifier returns canned verification results so the services can be
// exercised without the Gemini endpoint.
type stubVerifier struct {
	reportResult     *verification.ReportResult
	collectionResult *verification.CollectionResult
	err              error
}

func (s *stubVerifier) VerifyWasteImage(ctx context.Context, image []byte, mimeType string) (*verification.ReportResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reportResult, nil
}

func (s *stubVerifier) VerifyCollection(ctx context.Context, image []byte, mimeType, wasteType, amount string) (*verification.CollectionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.collectionResult, nil
}

// stubMedia skips image processing and S3 entirely.
type stubMedia struct{}

func (s *stubMedia) UploadReportImage(ctx context.Context, data []byte, mimeType string, userID uint) (string, string, error) {
	return "https://example.com/full.jpg", "https://example.com/thumb.jpg", nil
}

func countRows(t *testing.T, gdb *db.GormDB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	tx := gdb.DB.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
