package repo

import (
	"GophChat/internal/model"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath используется, когда DSN не задан.
const DefaultSQLitePath = "gophchat.db"

// sqliteParams: транзакции берут блокировку записи сразу, конкурентные писатели ждут её,
// а не получают SQLITE_BUSY.
const sqliteParams = "_pragma=busy_timeout(5000)&_txlock=immediate"

// InitDB открывает соединение и выполняет миграции.
// DSN вида postgres://... или "host=... user=..." открывает PostgreSQL, иначе путь к файлу SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт/обновляет таблицы и индексы.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Chat{}, &model.Message{}, &model.APIKey{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func dialectorFor(dsn string) gorm.Dialector {
	if isPostgresDSN(dsn) {
		return postgres.Open(dsn)
	}
	if dsn == "" {
		dsn = DefaultSQLitePath
	}
	// драйвер modernc.org/sqlite регистрируется под именем "sqlite" и не требует cgo
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: sqliteDSN(dsn)}
}

// sqliteDSN дописывает sqliteParams, если DSN не задаёт их сам.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_txlock") || strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + sqliteParams
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
