package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"Gin_postgres_redis_key_loans/config"
	"Gin_postgres_redis_key_loans/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteDSN turns on foreign key enforcement, which sqlite leaves off per
// connection unless asked.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "keys.db"
		}
		dialector = sqlite.Open(SQLiteDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; one connection makes every
	// transaction wait its turn instead of failing with SQLITE_BUSY.
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Room{}, &models.Key{}, &models.Borrower{}, &models.Loan{}, &models.ImportLog{}); err != nil {
		return err
	}

	// at most one open loan per key
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s
	  ON %s (key_id)
	  WHERE returned_at IS NULL;
	`, models.OpenLoanIndex, models.LoanTable)).Error; err != nil {
		return err
	}

	// history of a key, oldest first
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_key_loan_at
	  ON %s (key_id, loan_at);
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	return nil
}
