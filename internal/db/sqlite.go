package db

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/terraincognita07/postura/internal/logging"
	"github.com/terraincognita07/postura/migrations"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite opens the account database and applies the server migrations.
func OpenSQLite(dbPath string, logger *zap.Logger) (*gorm.DB, error) {
	return Open(dbPath, migrations.Server(), logger)
}

// Open opens a sqlite file with foreign keys enabled and brings its schema up
// to date with the given migration set.
func Open(dbPath string, migrationFiles fs.FS, logger *zap.Logger) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		// unique and primary key violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger: gormlogger.New(
			logging.StdLogger(logger.Named("gorm"), zapcore.WarnLevel),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := newMigrator(database, migrationFiles).apply(); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return database, nil
}

// Close releases the underlying connection pool.
func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
