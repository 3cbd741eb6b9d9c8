package configs

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Conf holds every runtime setting. Values come from the process env
// (optionally seeded from .env) on top of the defaults below.
var Conf = viper.New()

func init() {
	setDefaults(Conf)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")

	v.SetDefault("DB_DRIVER", "postgres") // postgres | sqlite
	v.SetDefault("DB_PG_DRIVER", "pgx")   // pgx | libpq
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "school.db")
	v.SetDefault("DB_LOG_SQL", false)
	v.SetDefault("DB_SLOW_THRESHOLD", 200*time.Millisecond)

	v.SetDefault("SCHOOL_TIMEZONE", "Asia/Manila")
	v.SetDefault("SECTIONS_STRICT", false)

	v.SetDefault("RUN_SEEDS", false)
	v.SetDefault("SEED_SECTIONS_FILE", "internals/seeds/schools/sections/data_sections.yaml")

	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5500")
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("RATE_LIMIT_MAX", 100)
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env file not found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	Conf.AutomaticEnv()

	if Conf.GetString("DB_DRIVER") == "postgres" && GetEnv("DB_HOST") == "" {
		log.Println("❌ DB_HOST is not set")
	}
	log.Printf("✅ config loaded (driver=%s tz=%s strict_sections=%t)",
		Conf.GetString("DB_DRIVER"), Conf.GetString("SCHOOL_TIMEZONE"), SectionsStrict())
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// SectionsStrict reports whether students and subjects must reference a
// section that exists in the catalog.
func SectionsStrict() bool { return Conf.GetBool("SECTIONS_STRICT") }

func RequestTimeout() time.Duration {
	d := Conf.GetDuration("REQUEST_TIMEOUT")
	if d <= 0 {
		return 5 * time.Second
	}
	return d
}

func CorsOrigins() string {
	parts := strings.Split(Conf.GetString("CORS_ORIGINS"), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if Conf.GetBool("DB_LOG_SQL") {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: Conf.GetDuration("DB_SLOW_THRESHOLD"),
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
