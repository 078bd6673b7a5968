package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBPath           string
	DBConnectRetries int

	JWTSecret string
	TokenTTL  time.Duration

	AdminRoleID     uint
	LibrarianRoleID uint
	PatronRoleID    uint

	StatsSource    string
	SweepSchedule  string
	SweepGraceDays int

	CatalogPageSize int
	ManagePageSize  int
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		DBHost:           getEnv("DB_HOST", "postgres"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "program"),
		DBPassword:       getEnv("DB_PASSWORD", "test"),
		DBName:           getEnv("DB_NAME", "library"),
		DBPath:           getEnv("DB_PATH", "library.db"),
		DBConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 10),

		JWTSecret: getEnv("JWT_SECRET", "local_dev_secret"),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,

		AdminRoleID:     uint(getEnvInt("ADMIN_ROLE_ID", 1)),
		LibrarianRoleID: uint(getEnvInt("LIBRARIAN_ROLE_ID", 2)),
		PatronRoleID:    uint(getEnvInt("PATRON_ROLE_ID", 3)),

		StatsSource:    getEnv("STATS_SOURCE", "active"),
		SweepSchedule:  os.Getenv("SWEEP_SCHEDULE"),
		SweepGraceDays: getEnvInt("SWEEP_GRACE_DAYS", 30),

		CatalogPageSize: getEnvInt("CATALOG_PAGE_SIZE", 9),
		ManagePageSize:  getEnvInt("MANAGE_PAGE_SIZE", 10),
	}
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
