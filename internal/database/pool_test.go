package database

import (
	"path/filepath"
	"testing"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/models"

	"gorm.io/gorm/logger"
)

func TestDefaultPoolConfig(t *testing.T) {
	config := DefaultPoolConfig()

	if config.MaxOpenConns != 25 {
		t.Errorf("Expected MaxOpenConns to be 25, got %d", config.MaxOpenConns)
	}

	if config.MaxIdleConns != 10 {
		t.Errorf("Expected MaxIdleConns to be 10, got %d", config.MaxIdleConns)
	}

	if config.ConnMaxLifetime != time.Hour {
		t.Errorf("Expected ConnMaxLifetime to be 1 hour, got %v", config.ConnMaxLifetime)
	}

	if config.ConnMaxIdleTime != time.Minute*30 {
		t.Errorf("Expected ConnMaxIdleTime to be 30 minutes, got %v", config.ConnMaxIdleTime)
	}

	if config.LogLevel != logger.Info {
		t.Errorf("Expected LogLevel to be Info, got %v", config.LogLevel)
	}
}

func TestNewDatabasePool_WithNilConfig(t *testing.T) {
	if _, err := NewDatabasePool(nil); err == nil {
		t.Error("Expected error due to empty URL, got nil")
	}
}

func TestNewDatabasePool_UnsupportedScheme(t *testing.T) {
	config := DefaultPoolConfig()
	config.URL = "invalid://connection:string"

	if _, err := NewDatabasePool(config); err == nil {
		t.Error("Expected error due to unsupported scheme, got nil")
	}
}

func TestNewDatabasePool_NegativeLimits(t *testing.T) {
	config := &PoolConfig{
		URL:          "sqlite://:memory:",
		MaxOpenConns: -1,
		LogLevel:     logger.Silent,
	}

	if _, err := NewDatabasePool(config); err == nil {
		t.Error("Expected error for negative pool limits")
	}
}

func TestNewDatabasePool_SQLiteMemory(t *testing.T) {
	config := DefaultPoolConfig()
	config.URL = "sqlite://:memory:"
	config.LogLevel = logger.Silent

	pool, err := NewDatabasePool(config)
	if err != nil {
		t.Fatalf("Expected sqlite pool, got %v", err)
	}
	defer pool.Close()

	if pool.Driver() != "sqlite" {
		t.Errorf("Expected sqlite driver, got %s", pool.Driver())
	}

	if err := pool.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	for _, model := range []interface{}{&models.User{}, &models.Session{}, &models.Project{}, &models.Task{}} {
		if !pool.DB.Migrator().HasTable(model) {
			t.Errorf("Expected table for %T", model)
		}
	}

	if err := pool.Health(); err != nil {
		t.Errorf("Expected healthy pool, got %v", err)
	}

	stats := pool.Stats()
	if stats["max_open_connections"] != 1 {
		t.Errorf("Expected in-memory sqlite to be pinned to one connection, got %v", stats["max_open_connections"])
	}
}

func TestNewDatabasePool_SQLiteFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taskflow.db")

	cfg := config.Defaults()
	cfg.Database.URL = "sqlite://" + path

	pool, err := NewDatabasePool(PoolConfigFrom(cfg))
	if err != nil {
		t.Fatalf("Expected sqlite file pool, got %v", err)
	}
	defer pool.Close()

	if err := pool.Health(); err != nil {
		t.Errorf("Expected healthy pool, got %v", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"u:p@tcp(localhost:3306)/db", "u:p@tcp(localhost:3306)/db?parseTime=true"},
		{"u:p@tcp(localhost:3306)/db?charset=utf8mb4", "u:p@tcp(localhost:3306)/db?charset=utf8mb4&parseTime=true"},
		{"u:p@tcp(localhost:3306)/db?parseTime=false", "u:p@tcp(localhost:3306)/db?parseTime=false"},
	}

	for _, tt := range tests {
		if got := mysqlDSN(tt.in); got != tt.want {
			t.Errorf("mysqlDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDatabasePool_Stats_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{
		DB: nil,
		config: &PoolConfig{
			MaxOpenConns: 10,
		},
	}

	stats := pool.Stats()

	if _, hasError := stats["error"]; !hasError {
		t.Error("Expected error in stats when DB is nil")
	}
}

func TestDatabasePool_Health_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{DB: nil}

	if err := pool.Health(); err == nil {
		t.Error("Expected error when checking health with nil DB")
	}

	if err := pool.AutoMigrate(); err == nil {
		t.Error("Expected error when migrating with nil DB")
	}
}

func TestDatabasePool_Close_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{DB: nil}

	if err := pool.Close(); err != nil {
		t.Errorf("Expected no error when closing nil DB, got: %v", err)
	}
}
