package database

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	// CGO-free driver registered as "sqlite".
	_ "modernc.org/sqlite"

	"petcare/internal/domain"
)

// Connect opens Postgres for postgres:// DSNs and SQLite for anything else.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Info("using sqlite", zap.String("dsn", dsn))
	return openSQLite(dsn, &gorm.Config{})
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// OpenMemory opens a private in-memory SQLite database with the schema
// migrated. name must be unique per test.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(name, "_"))
	db, err := openSQLite(dsn, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one connection keeps the shared-cache database free of table locks
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func openSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// Migrate creates or updates every table of the clinic schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Account{},
		&domain.Staff{},
		&domain.Owner{},
		&domain.Pet{},
		&domain.Service{},
		&domain.ServiceType{},
		&domain.Product{},
		&domain.MixProduct{},
		&domain.MixComponent{},
		&domain.InventoryEntry{},
		&domain.Booking{},
		&domain.BookingPet{},
		&domain.BookingItem{},
		&domain.Examination{},
		&domain.Visit{},
		&domain.ProductUsage{},
		&domain.MixUsage{},
		&domain.DailyCharge{},
		&domain.Deposit{},
		&domain.Payment{},
		&domain.Expense{},
	)
}
