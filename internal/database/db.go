package database

import (
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

const defaultSlowThreshold = 200 * time.Millisecond

// Connect opens a connection to the result database.
// The returned handle is passed explicitly to every service and job.
func Connect(driver, dsn string, log logger.Interface) (*gorm.DB, error) {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// a single connection keeps in-memory databases alive and serializes writers
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logrus.WithField("driver", driver).Info("Database connection established")
	return db, nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		cfg, err := mysqldriver.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql DSN: %w", err)
		}
		cfg.ParseTime = true
		return mysql.Open(cfg.FormatDSN()), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewLogger returns a gorm logger writing through logrus at the given level
func NewLogger(level logger.LogLevel) logger.Interface {
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             defaultSlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// ParseLogLevel maps a configuration string to a gorm log level
func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// AutoMigrate runs database migrations for the primary result tables and the
// transfer settings. Staging tables are owned by the Garmadon agent and are only
// created when withStaging is set (local runs and tests).
func AutoMigrate(db *gorm.DB, withStaging bool) error {
	logrus.Info("Running database migrations...")

	models := []interface{}{
		&AppResult{},
		&AppHeuristicResult{},
		&AppHeuristicResultDetail{},
		&TransferSettings{},
	}
	if withStaging {
		models = append(models,
			&StagedHeuristicResult{},
			&StagedHeuristicResultDetail{},
		)
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

// GetOrCreateTransferSettings retrieves or creates the transfer settings (singleton).
// It accepts a db parameter to support dependency injection, transaction contexts and testing.
func GetOrCreateTransferSettings(db *gorm.DB) (*TransferSettings, error) {
	var settings TransferSettings
	result := db.First(&settings)
	if result.Error == gorm.ErrRecordNotFound {
		settings = *NewDefaultTransferSettings()
		if err := db.Create(&settings).Error; err != nil {
			return nil, err
		}
	} else if result.Error != nil {
		return nil, result.Error
	}
	return &settings, nil
}

// UpdateTransferSettings updates the transfer settings.
// Save() handles both insert and update.
func UpdateTransferSettings(db *gorm.DB, settings *TransferSettings) error {
	return db.Save(settings).Error
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
