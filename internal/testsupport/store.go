package testsupport

import (
	"testing"

	"taskflow/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database closed with the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := database.DefaultPoolConfig()
	cfg.URL = "sqlite://:memory:"
	cfg.LogLevel = logger.Silent

	pool, err := database.NewDatabasePool(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := pool.AutoMigrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return pool.DB
}
