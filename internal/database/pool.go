package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNoConnection = errors.New("database connection not initialized")

type PoolConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        logger.LogLevel
}

type DatabasePool struct {
	DB     *gorm.DB
	driver string
	config *PoolConfig
}

func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		LogLevel:        logger.Info,
	}
}

// PoolConfigFrom derives pool settings from the application config.
func PoolConfigFrom(cfg *config.Config) *PoolConfig {
	level := logger.Info
	if cfg.IsProduction() {
		level = logger.Warn
	}
	return &PoolConfig{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        level,
	}
}

func NewDatabasePool(cfg *PoolConfig) (*DatabasePool, error) {
	if cfg == nil {
		cfg = DefaultPoolConfig()
	}

	if cfg.URL == "" {
		return nil, errors.New("database url is empty")
	}

	if cfg.MaxOpenConns < 0 || cfg.MaxIdleConns < 0 || cfg.ConnMaxLifetime < 0 || cfg.ConnMaxIdleTime < 0 {
		return nil, errors.New("pool limits must not be negative")
	}

	driver, dialector, err := dialectorFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if driver == "sqlite" && isMemorySQLite(cfg.URL) {
		// every connection to :memory: is a separate database
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &DatabasePool{DB: db, driver: driver, config: cfg}, nil
}

func dialectorFor(url string) (string, gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgresql://"), strings.HasPrefix(url, "postgres://"):
		return "postgres", postgres.Open(url), nil
	case strings.HasPrefix(url, "mysql://"):
		return "mysql", mysql.Open(mysqlDSN(strings.TrimPrefix(url, "mysql://"))), nil
	case strings.HasPrefix(url, "sqlite://"):
		dsn := strings.TrimPrefix(url, "sqlite://")
		if err := ensureDirForSQLite(dsn); err != nil {
			return "", nil, err
		}
		return "sqlite", sqlite.Open(sqliteDSN(dsn)), nil
	}
	return "", nil, fmt.Errorf("unsupported database url %q", url)
}

// mysqlDSN makes sure time columns scan into time.Time.
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func isMemorySQLite(url string) bool {
	return strings.Contains(url, ":memory:") || strings.Contains(url, "mode=memory")
}

func ensureDirForSQLite(dsn string) error {
	if isMemorySQLite(dsn) {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite dir: %w", err)
	}
	return nil
}

// AutoMigrate creates or updates the schema for every persisted model.
func (p *DatabasePool) AutoMigrate() error {
	if p.DB == nil {
		return ErrNoConnection
	}
	if err := p.DB.AutoMigrate(&models.User{}, &models.Session{}, &models.Project{}, &models.Task{}); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func (p *DatabasePool) Driver() string {
	return p.driver
}

func (p *DatabasePool) HealthContext(ctx context.Context) error {
	if p.DB == nil {
		return ErrNoConnection
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *DatabasePool) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.HealthContext(ctx)
}

func (p *DatabasePool) Stats() map[string]interface{} {
	if p.DB == nil {
		return map[string]interface{}{"error": ErrNoConnection.Error()}
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	stats := sqlDB.Stats()
	return map[string]interface{}{
		"driver":               p.driver,
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

func (p *DatabasePool) Close() error {
	if p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
