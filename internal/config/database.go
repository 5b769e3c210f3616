package config

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase establishes connection to the relational database selected by STORAGE_DRIVER
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg.Storage.Driver, cfg.Database)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger based on mode
	var gormLogger logger.Interface
	if cfg.IsDev() {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true, // duplicate keys surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✅ Database connected successfully [%s %s:%s/%s]",
		cfg.Storage.Driver,
		cfg.Database.Host,
		databasePort(cfg.Storage.Driver, cfg.Database.Port),
		cfg.Database.DBName,
	)

	return db, nil
}

// buildDialector returns the gorm dialector for driver
func buildDialector(driver string, d DatabaseConfig) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL:
		return mysql.Open(buildMySQLDSN(d)), nil
	case DriverPostgres:
		return postgres.Open(buildPostgresDSN(d)), nil
	default:
		return nil, fmt.Errorf("storage driver %q is not a relational database", driver)
	}
}

func databasePort(driver, port string) string {
	if port != "" {
		return port
	}
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

// buildMySQLDSN returns the MySQL connection string
func buildMySQLDSN(d DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		databasePort(DriverMySQL, d.Port),
		d.DBName,
	)
}

// buildPostgresDSN returns the PostgreSQL connection string
func buildPostgresDSN(d DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		databasePort(DriverPostgres, d.Port),
		d.User,
		d.Password,
		d.DBName,
		d.SSLMode,
	)
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
