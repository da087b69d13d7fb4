package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kanban-dev/kanban/internal/config"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the pooled handle shared by every component. The caller owns
// it and must Close it on shutdown.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.Database.URL)
	case config.DriverSqlite:
		dialector = sqlite.Open(cfg.Database.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "[db] ", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})

	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// sqlite serialises writers; one connection avoids "database is locked"
	// when a transaction is open.
	if cfg.Database.Driver == config.DriverSqlite {
		sqlDB.SetMaxOpenConns(1)
	}

	return conn, nil
}

func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()

	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func MigrateDatabase(conn *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Board{},
		&models.Column{},
		&models.Task{},
	}

	for _, model := range models {
		if err := conn.AutoMigrate(model); err != nil {
			return err
		}
	}

	return nil
}
