package database

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"library_rental/pkg/config"
	"library_rental/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const retryDelay = 5 * time.Second

// Open connects to the configured database, migrates the schema and seeds
// the role table.
func Open(cfg config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	attempts := cfg.DBConnectRetries
	if attempts < 1 {
		attempts = 1
	}

	var db *gorm.DB
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, gormConfig)
		if err == nil {
			break
		}
		log.Printf("Database connection attempt %d/%d failed: %v", i+1, attempts, err)
		if i < attempts-1 {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Println("Database connection established successfully")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedRoles(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenInMemory returns a migrated and seeded sqlite database that lives
// as long as its single connection.
func OpenInMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(":memory:")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	cfg := config.Config{AdminRoleID: 1, LibrarianRoleID: 2, PatronRoleID: 3}
	if err := SeedRoles(db, cfg); err != nil {
		return nil, err
	}
	return db, nil
}

func dialectorFor(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		log.Printf("Connecting to library database: host=%s, port=%s", cfg.DBHost, cfg.DBPort)
		return postgres.Open(cfg.PostgresDSN()), nil
	case "sqlite":
		log.Printf("Opening sqlite database: %s", cfg.DBPath)
		return sqlite.Open(sqliteDSN(cfg.DBPath)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// sqliteDSN enables foreign key enforcement on every connection.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}

// SeedRoles makes sure the three roles exist under their configured ids.
func SeedRoles(db *gorm.DB, cfg config.Config) error {
	roles := []models.Role{
		{ID: cfg.AdminRoleID, Name: "admin"},
		{ID: cfg.LibrarianRoleID, Name: "librarian"},
		{ID: cfg.PatronRoleID, Name: "patron"},
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&roles).Error
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}

// Retry runs fn again when it fails on a unique constraint, which happens
// when a concurrent writer inserted the same row in between.
func Retry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}
