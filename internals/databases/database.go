package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"registrar_backend/internals/configs"
)

var DB *gorm.DB

func ConnectDB() {
	driver := strings.ToLower(configs.Conf.GetString("DB_DRIVER"))
	log.Printf("🔌 Connecting to database (driver=%s)...", driver)

	db, err := Open(driver)
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("❌ DB migrate failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

// Open builds a gorm handle for the configured driver without touching the
// global DB.
func Open(driver string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	}

	switch driver {
	case "sqlite":
		path := configs.Conf.GetString("SQLITE_PATH")
		db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "open sqlite %q", path)
		}
		return db, nil

	case "postgres", "":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=registrar&options=-c statement_timeout=3000",
			configs.GetEnv("DB_USER"),
			configs.GetEnv("DB_PASSWORD"),
			configs.GetEnv("DB_HOST"),
			configs.Conf.GetString("DB_PORT"),
			configs.GetEnv("DB_NAME"),
			configs.Conf.GetString("DB_SSLMODE"),
		)
		pgCfg := postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // PgBouncer transaction pooling
		}
		// lib/pq registers itself as "postgres"; pgx stays the default.
		if strings.EqualFold(configs.Conf.GetString("DB_PG_DRIVER"), "libpq") {
			pgCfg.DriverName = "postgres"
		}
		db, err := gorm.Open(postgres.New(pgCfg), cfg)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres")
		}
		return db, nil
	}
	return nil, errors.Errorf("unsupported DB_DRIVER %q", driver)
}

// sqliteDSN turns on foreign keys and a busy timeout for every pooled conn.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	if DB.Dialector.Name() == "sqlite" {
		// single writer
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func Ping() error {
	if DB == nil {
		return errors.New("database not initialised")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
